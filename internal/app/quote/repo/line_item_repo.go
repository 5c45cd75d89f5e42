package repo

import (
	domain "github.com/murkotick/opportunity-quote-service/internal/app/quote/domain"
	"github.com/murkotick/opportunity-quote-service/internal/models/m_quoteline"
	"github.com/murkotick/opportunity-quote-service/internal/pkg/unitofwork"
)

// LineItemRepo registers quote line item writes against a unit-of-work batch.
type LineItemRepo struct{}

func NewLineItemRepo() *LineItemRepo {
	return &LineItemRepo{}
}

// buildLineFields constructs the field map for one line-item create. The quote
// value is the pending reference of the quote registered in the same batch, so
// the store resolves the parent identifier at commit time.
func buildLineFields(quote unitofwork.Ref, li *domain.LineItem) unitofwork.Fields {
	qty, _ := li.Quantity().Float64()
	return m_quoteline.BuildInsertFields(
		unitofwork.Reference(quote),
		li.ProductID(),
		qty,
		li.NetUnitPrice().DecimalString(),
	)
}

// RegisterInsert registers one line-item create linked to the quote's pending
// reference and returns the line's own reference.
func (r *LineItemRepo) RegisterInsert(b *unitofwork.Batch, quote unitofwork.Ref, li *domain.LineItem) (unitofwork.Ref, error) {
	return b.RegisterCreate(m_quoteline.RecordType, buildLineFields(quote, li))
}
