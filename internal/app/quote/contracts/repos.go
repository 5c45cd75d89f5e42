package contracts

import (
	"github.com/murkotick/opportunity-quote-service/internal/app/quote/domain"
	"github.com/murkotick/opportunity-quote-service/internal/pkg/unitofwork"
)

// QuoteRepo is the write-side repository for quotes. It registers operations
// against a batch; it never commits them.
type QuoteRepo interface {
	// RegisterInsert registers the quote create and returns its pending
	// reference for use by dependent operations.
	RegisterInsert(b *unitofwork.Batch, q *domain.Quote) (unitofwork.Ref, error)
}

// LineItemRepo is the write-side repository for quote line items.
type LineItemRepo interface {
	// RegisterInsert registers one line-item create linked to the quote's
	// pending reference.
	RegisterInsert(b *unitofwork.Batch, quote unitofwork.Ref, li *domain.LineItem) (unitofwork.Ref, error)
}
