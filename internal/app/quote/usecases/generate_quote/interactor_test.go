package generate_quote

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	contracts "github.com/murkotick/opportunity-quote-service/internal/app/quote/contracts"
	"github.com/murkotick/opportunity-quote-service/internal/app/quote/domain"
	"github.com/murkotick/opportunity-quote-service/internal/app/quote/dto"
	"github.com/murkotick/opportunity-quote-service/internal/app/quote/repo"
	"github.com/murkotick/opportunity-quote-service/internal/models/m_quote"
	"github.com/murkotick/opportunity-quote-service/internal/models/m_quoteline"
	"github.com/murkotick/opportunity-quote-service/internal/pkg/auth"
	"github.com/murkotick/opportunity-quote-service/internal/pkg/clock"
	"github.com/murkotick/opportunity-quote-service/internal/pkg/unitofwork"
)

// fakeSession is an in-memory record store for one opportunity. Execute
// resolves pending references the way a real driver would, assigning
// sequential identifiers.
type fakeSession struct {
	rows     []*dto.LineItemDTO
	listErr  error
	execErr  error
	executed [][]unitofwork.Operation
}

func (f *fakeSession) ListByOpportunity(_ context.Context, _ string) ([]*dto.LineItemDTO, error) {
	return f.rows, f.listErr
}

func (f *fakeSession) Execute(_ context.Context, ops []unitofwork.Operation) ([]unitofwork.OperationResult, error) {
	f.executed = append(f.executed, ops)
	if f.execErr != nil {
		return nil, f.execErr
	}
	results := make([]unitofwork.OperationResult, 0, len(ops))
	for i, op := range ops {
		results = append(results, unitofwork.OperationResult{
			Handle:  op.Handle(),
			Success: true,
			ID:      fmt.Sprintf("id-%03d", i+1),
		})
	}
	return results, nil
}

type fakeOpener struct {
	session *fakeSession
	creds   []auth.Credentials
}

func (f *fakeOpener) Open(creds auth.Credentials) contracts.Session {
	f.creds = append(f.creds, creds)
	return f.session
}

func newTestInteractor(session *fakeSession, region string) (*Interactor, *fakeOpener) {
	opener := &fakeOpener{session: session}
	it := NewInteractor(
		opener,
		repo.NewQuoteRepo(),
		repo.NewLineItemRepo(),
		domain.NewDiscountPolicy(region),
		clock.NewFake(time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)),
		nil,
	)
	return it, opener
}

func testCreds() auth.Credentials {
	return auth.Credentials{
		AccessToken: "token",
		APIVersion:  "59.0",
		OrgID:       "00Dxx0000001",
		UserID:      "005xx0000001",
		InstanceURL: "https://example.my.salesforce.com",
	}
}

func pct(f float64) *float64 { return &f }

func TestExecute_GeneratesQuote(t *testing.T) {
	session := &fakeSession{rows: []*dto.LineItemDTO{
		{ID: "00kxx0000001", ProductID: "01txx0000001", Quantity: 2, UnitPrice: "100.00"},
		{ID: "00kxx0000002", ProductID: "01txx0000002", Quantity: 1, UnitPrice: "19.99", DiscountPct: pct(15)},
	}}
	it, opener := newTestInteractor(session, "NA")

	quoteID, err := it.Execute(context.Background(), testCreds(), Request{OpportunityID: "006xx0000001"})
	require.NoError(t, err)
	assert.Equal(t, "id-001", quoteID)

	require.Len(t, opener.creds, 1)
	assert.Equal(t, "token", opener.creds[0].AccessToken)

	require.Len(t, session.executed, 1)
	ops := session.executed[0]
	require.Len(t, ops, 3)
	assert.Equal(t, m_quote.RecordType, ops[0].RecordType())
	assert.Equal(t, m_quoteline.RecordType, ops[1].RecordType())

	// Line one takes the NA regional rate, line two its own override.
	assert.Equal(t, unitofwork.Decimal("90"), ops[1].Fields()[m_quoteline.FieldUnitPrice])
	assert.Equal(t, unitofwork.Decimal("16.9915"), ops[2].Fields()[m_quoteline.FieldUnitPrice])

	// Each line links to the quote through its pending reference.
	for _, op := range ops[1:] {
		quoteField := op.Fields()[m_quoteline.FieldQuoteID]
		require.True(t, quoteField.IsReference())
		assert.Equal(t, ops[0].Handle(), quoteField.AsRef().Handle())
	}
}

func TestExecute_NoLineItems(t *testing.T) {
	session := &fakeSession{}
	it, _ := newTestInteractor(session, "NA")

	_, err := it.Execute(context.Background(), testCreds(), Request{OpportunityID: "006xx0000001"})
	require.ErrorIs(t, err, domain.ErrNoLineItems)
	assert.Contains(t, err.Error(), "006xx0000001")
	assert.Empty(t, session.executed, "no batch is built for an empty read")
}

func TestExecute_MissingOpportunityID(t *testing.T) {
	session := &fakeSession{}
	it, opener := newTestInteractor(session, "NA")

	_, err := it.Execute(context.Background(), testCreds(), Request{})
	require.ErrorIs(t, err, domain.ErrMissingOpportunityID)
	assert.Empty(t, opener.creds, "no session is opened for an invalid request")
}

func TestExecute_ReadFailure(t *testing.T) {
	session := &fakeSession{listErr: errors.New("boom")}
	it, _ := newTestInteractor(session, "NA")

	_, err := it.Execute(context.Background(), testCreds(), Request{OpportunityID: "006xx0000001"})
	require.Error(t, err)
	assert.Empty(t, session.executed)
}

func TestExecute_MalformedPrice(t *testing.T) {
	session := &fakeSession{rows: []*dto.LineItemDTO{
		{ID: "00kxx0000001", Quantity: 1, UnitPrice: "not-a-price"},
	}}
	it, _ := newTestInteractor(session, "NA")

	_, err := it.Execute(context.Background(), testCreds(), Request{OpportunityID: "006xx0000001"})
	require.ErrorIs(t, err, domain.ErrMalformedPrice)
	assert.Contains(t, err.Error(), "00kxx0000001")
}

func TestExecute_InvalidOverride(t *testing.T) {
	session := &fakeSession{rows: []*dto.LineItemDTO{
		{ID: "00kxx0000001", Quantity: 1, UnitPrice: "10.00", DiscountPct: pct(150)},
	}}
	it, _ := newTestInteractor(session, "NA")

	_, err := it.Execute(context.Background(), testCreds(), Request{OpportunityID: "006xx0000001"})
	require.ErrorIs(t, err, domain.ErrInvalidDiscountRate)
}

func TestExecute_TransportFailure(t *testing.T) {
	session := &fakeSession{
		rows:    []*dto.LineItemDTO{{ID: "00kxx0000001", Quantity: 1, UnitPrice: "10.00"}},
		execErr: &unitofwork.TransportError{Err: errors.New("dial tcp: i/o timeout")},
	}
	it, _ := newTestInteractor(session, "NA")

	_, err := it.Execute(context.Background(), testCreds(), Request{OpportunityID: "006xx0000001"})
	var te *unitofwork.TransportError
	require.ErrorAs(t, err, &te)
	assert.True(t, te.OutcomeUnknown())
	require.Len(t, session.executed, 1, "the commit is attempted exactly once")
}
