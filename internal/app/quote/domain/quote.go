package domain

import (
	"fmt"
	"time"
)

// QuoteStatus is the lifecycle state of a quote in the record store.
type QuoteStatus string

const (
	// QuoteStatusDraft is the status every generated quote starts in.
	QuoteStatusDraft QuoteStatus = "Draft"
)

// Quote is the aggregate produced for one opportunity. It is write-only from
// this service's point of view: built in memory, persisted once together with
// its line items, never loaded back.
type Quote struct {
	opportunityID string
	name          string
	status        QuoteStatus
	lines         []*LineItem
	createdAt     time.Time
}

// NewQuote builds a draft quote over the priced line items.
func NewQuote(opportunityID string, lines []*LineItem, now time.Time) (*Quote, error) {
	if opportunityID == "" {
		return nil, ErrMissingOpportunityID
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoLineItems, opportunityID)
	}

	return &Quote{
		opportunityID: opportunityID,
		name:          fmt.Sprintf("Quote for opportunity %s", opportunityID),
		status:        QuoteStatusDraft,
		lines:         lines,
		createdAt:     now,
	}, nil
}

// OpportunityID returns the source opportunity's identifier.
func (q *Quote) OpportunityID() string {
	return q.opportunityID
}

// Name returns the quote's display name.
func (q *Quote) Name() string {
	return q.name
}

// Status returns the quote's lifecycle state.
func (q *Quote) Status() QuoteStatus {
	return q.status
}

// Lines returns the priced line items in read order.
func (q *Quote) Lines() []*LineItem {
	return q.lines
}

// CreatedAt returns the quote's creation time.
func (q *Quote) CreatedAt() time.Time {
	return q.createdAt
}

// Subtotal sums the line totals.
func (q *Quote) Subtotal() *Money {
	total := ZeroMoney()
	for _, li := range q.lines {
		total = total.Add(li.Total())
	}
	return total
}
