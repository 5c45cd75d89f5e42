package repo

import (
	domain "github.com/murkotick/opportunity-quote-service/internal/app/quote/domain"
	"github.com/murkotick/opportunity-quote-service/internal/models/m_quote"
	"github.com/murkotick/opportunity-quote-service/internal/pkg/unitofwork"
)

// QuoteRepo registers quote writes against a unit-of-work batch. It builds
// operations but never commits them; the interactor owns the commit.
type QuoteRepo struct{}

func NewQuoteRepo() *QuoteRepo {
	return &QuoteRepo{}
}

// buildInsertFields constructs the field map used for the quote create.
// It's unexported so tests in the same package can inspect the map without
// committing a batch.
func buildInsertFields(q *domain.Quote) unitofwork.Fields {
	return m_quote.BuildInsertFields(q.OpportunityID(), q.Name(), string(q.Status()))
}

// RegisterInsert registers the quote create and returns its pending reference
// for dependent line items to embed.
func (r *QuoteRepo) RegisterInsert(b *unitofwork.Batch, q *domain.Quote) (unitofwork.Ref, error) {
	return b.RegisterCreate(m_quote.RecordType, buildInsertFields(q))
}
