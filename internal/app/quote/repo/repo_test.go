package repo

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/murkotick/opportunity-quote-service/internal/app/quote/domain"
	"github.com/murkotick/opportunity-quote-service/internal/models/m_quote"
	"github.com/murkotick/opportunity-quote-service/internal/models/m_quoteline"
	"github.com/murkotick/opportunity-quote-service/internal/pkg/unitofwork"
)

func testQuote(t *testing.T) *domain.Quote {
	t.Helper()

	price, err := domain.NewMoneyFromDecimal("19.99")
	require.NoError(t, err)

	li, err := domain.NewLineItem("00kxx0000001", "01txx0000001", big.NewRat(2, 1), price, big.NewRat(3, 20))
	require.NoError(t, err)

	q, err := domain.NewQuote("006xx0000001", []*domain.LineItem{li},
		time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return q
}

func TestQuoteRepo_RegisterInsert(t *testing.T) {
	q := testQuote(t)
	b := unitofwork.NewBatch()

	ref, err := NewQuoteRepo().RegisterInsert(b, q)
	require.NoError(t, err)
	assert.Equal(t, m_quote.RecordType, ref.RecordType())

	ops := b.Operations()
	require.Len(t, ops, 1)
	assert.Equal(t, unitofwork.OpCreate, ops[0].Kind())
	assert.Equal(t, m_quote.RecordType, ops[0].RecordType())

	fields := ops[0].Fields()
	assert.Equal(t, unitofwork.String("006xx0000001"), fields[m_quote.FieldOpportunityID])
	assert.Equal(t, unitofwork.String("Quote for opportunity 006xx0000001"), fields[m_quote.FieldName])
	assert.Equal(t, unitofwork.String("Draft"), fields[m_quote.FieldStatus])
}

func TestLineItemRepo_RegisterInsert(t *testing.T) {
	q := testQuote(t)
	b := unitofwork.NewBatch()

	quoteRef, err := NewQuoteRepo().RegisterInsert(b, q)
	require.NoError(t, err)

	lineRepo := NewLineItemRepo()
	_, err = lineRepo.RegisterInsert(b, quoteRef, q.Lines()[0])
	require.NoError(t, err)

	ops := b.Operations()
	require.Len(t, ops, 2)

	fields := ops[1].Fields()
	require.True(t, fields[m_quoteline.FieldQuoteID].IsReference())
	assert.Equal(t, quoteRef.Token(), fields[m_quoteline.FieldQuoteID].AsRef().Token())
	assert.Equal(t, unitofwork.String("01txx0000001"), fields[m_quoteline.FieldProductID])
	assert.Equal(t, unitofwork.Number(2), fields[m_quoteline.FieldQuantity])
	// 19.99 discounted by 15% persists exactly.
	assert.Equal(t, unitofwork.Decimal("16.9915"), fields[m_quoteline.FieldUnitPrice])
}

func TestLineItemRepo_NullProductWhenAbsent(t *testing.T) {
	price, err := domain.NewMoneyFromDecimal("5.00")
	require.NoError(t, err)
	li, err := domain.NewLineItem("00kxx0000002", "", big.NewRat(1, 1), price, nil)
	require.NoError(t, err)

	fields := buildLineFields(unitofwork.Ref{}, li)
	assert.Equal(t, unitofwork.Null(), fields[m_quoteline.FieldProductID])
	assert.Equal(t, unitofwork.Decimal("5"), fields[m_quoteline.FieldUnitPrice])
}
