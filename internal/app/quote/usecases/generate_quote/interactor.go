package generate_quote

import (
	"context"
	"fmt"
	"math/big"

	"github.com/sirupsen/logrus"

	contracts "github.com/murkotick/opportunity-quote-service/internal/app/quote/contracts"
	"github.com/murkotick/opportunity-quote-service/internal/app/quote/domain"
	"github.com/murkotick/opportunity-quote-service/internal/app/quote/dto"
	"github.com/murkotick/opportunity-quote-service/internal/pkg/auth"
	"github.com/murkotick/opportunity-quote-service/internal/pkg/clock"
	"github.com/murkotick/opportunity-quote-service/internal/pkg/unitofwork"
)

// Request is the application-level generate-quote request.
type Request struct {
	OpportunityID string
}

// Interactor implements the generate-quote usecase: read the opportunity's
// line items, price them, and persist the quote with its lines as one atomic
// unit of work.
type Interactor struct {
	Opener    contracts.SessionOpener
	QuoteRepo contracts.QuoteRepo
	LineRepo  contracts.LineItemRepo
	Policy    *domain.DiscountPolicy
	Clock     clock.Clock
	Log       logrus.FieldLogger
}

// NewInteractor constructs the interactor.
func NewInteractor(opener contracts.SessionOpener, quoteRepo contracts.QuoteRepo, lineRepo contracts.LineItemRepo, policy *domain.DiscountPolicy, clk clock.Clock, log logrus.FieldLogger) *Interactor {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Interactor{
		Opener:    opener,
		QuoteRepo: quoteRepo,
		LineRepo:  lineRepo,
		Policy:    policy,
		Clock:     clk,
		Log:       log,
	}
}

// Execute generates a quote for one opportunity and returns the persisted
// quote's identifier. The credentials are the request's own; they are bound to
// the session opened here and go out of scope with it.
func (it *Interactor) Execute(ctx context.Context, creds auth.Credentials, req Request) (string, error) {
	if req.OpportunityID == "" {
		return "", domain.ErrMissingOpportunityID
	}

	// 1. Open a credential-scoped store session
	session := it.Opener.Open(creds)

	// 2. Read the opportunity's line items
	rows, err := session.ListByOpportunity(ctx, req.OpportunityID)
	if err != nil {
		return "", err
	}

	// 3. Price each line; a batch is never built for an empty read
	lines := make([]*domain.LineItem, 0, len(rows))
	for _, row := range rows {
		li, err := it.priceLine(row)
		if err != nil {
			return "", fmt.Errorf("line item %s: %w", row.ID, err)
		}
		lines = append(lines, li)
	}

	// 4. Build the aggregate
	quote, err := domain.NewQuote(req.OpportunityID, lines, it.Clock.Now())
	if err != nil {
		return "", err
	}

	// 5. Register the quote and its lines in dependency order
	batch := unitofwork.NewBatch()
	quoteRef, err := it.QuoteRepo.RegisterInsert(batch, quote)
	if err != nil {
		return "", err
	}
	for _, li := range quote.Lines() {
		if _, err := it.LineRepo.RegisterInsert(batch, quoteRef, li); err != nil {
			return "", err
		}
	}

	// 6. Commit as one atomic transaction
	res, err := batch.Commit(ctx, session)
	if err != nil {
		it.logCommitFailure(req.OpportunityID, res, err)
		return "", err
	}

	// 7. Resolve the quote's assigned identifier
	quoteID, err := res.ID(quoteRef)
	if err != nil {
		return "", err
	}

	it.Log.WithFields(logrus.Fields{
		"opportunityId": req.OpportunityID,
		"quoteId":       quoteID,
		"lineItems":     len(quote.Lines()),
	}).Info("quote generated")

	return quoteID, nil
}

// priceLine turns one store row into a priced domain line. The store's
// Discount field is a percentage; the policy expects a rate in [0, 1].
func (it *Interactor) priceLine(row *dto.LineItemDTO) (*domain.LineItem, error) {
	listPrice, err := domain.NewMoneyFromDecimal(row.UnitPrice)
	if err != nil {
		return nil, err
	}

	var override *big.Rat
	if row.DiscountPct != nil {
		override = new(big.Rat)
		if override.SetFloat64(*row.DiscountPct) == nil {
			return nil, domain.ErrInvalidDiscountRate
		}
		override.Quo(override, big.NewRat(100, 1))
	}

	rate, err := it.Policy.EffectiveRate(override)
	if err != nil {
		return nil, err
	}

	quantity := new(big.Rat)
	if quantity.SetFloat64(row.Quantity) == nil {
		return nil, domain.ErrNonPositiveQuantity
	}

	return domain.NewLineItem(row.ID, row.ProductID, quantity, listPrice, rate)
}

func (it *Interactor) logCommitFailure(opportunityID string, res *unitofwork.CommitResult, err error) {
	entry := it.Log.WithField("opportunityId", opportunityID).WithError(err)
	if res != nil {
		entry = entry.WithField("failedOperations", len(res.Failed()))
	}
	entry.Warn("quote commit failed")
}
