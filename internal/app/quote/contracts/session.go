package contracts

import (
	"context"

	"github.com/murkotick/opportunity-quote-service/internal/app/quote/dto"
	"github.com/murkotick/opportunity-quote-service/internal/pkg/auth"
	"github.com/murkotick/opportunity-quote-service/internal/pkg/unitofwork"
)

// LineItemReader is the read side of the record store: the ordered line items
// belonging to one opportunity.
type LineItemReader interface {
	ListByOpportunity(ctx context.Context, opportunityID string) ([]*dto.LineItemDTO, error)
}

// Session is a credential-scoped connection to the record store for the
// duration of one request: the line-item read plus the atomic batch write.
type Session interface {
	LineItemReader
	unitofwork.Store
}

// SessionOpener opens a Session for one request's decoded credentials. The
// credentials are passed explicitly and live only as long as the session.
type SessionOpener interface {
	Open(creds auth.Credentials) Session
}
