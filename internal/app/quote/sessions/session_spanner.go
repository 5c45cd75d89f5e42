package sessions

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/murkotick/opportunity-quote-service/internal/app/quote/contracts"
	"github.com/murkotick/opportunity-quote-service/internal/app/quote/dto"
	"github.com/murkotick/opportunity-quote-service/internal/models/m_oppline"
	"github.com/murkotick/opportunity-quote-service/internal/models/m_quote"
	"github.com/murkotick/opportunity-quote-service/internal/models/m_quoteline"
	"github.com/murkotick/opportunity-quote-service/internal/pkg/auth"
	"github.com/murkotick/opportunity-quote-service/internal/pkg/spannerstore"
	"github.com/murkotick/opportunity-quote-service/internal/pkg/unitofwork"
)

// DefaultSchema maps the record types onto their Spanner tables. Table and
// column names mirror the vendor API names so the SOQL and SQL reads stay
// symmetrical.
func DefaultSchema() spannerstore.Schema {
	return spannerstore.Schema{
		m_quote.RecordType:     {Name: m_quote.RecordType, IDColumn: "Id"},
		m_quoteline.RecordType: {Name: m_quoteline.RecordType, IDColumn: "Id"},
		m_oppline.RecordType:   {Name: m_oppline.RecordType, IDColumn: m_oppline.FieldID},
	}
}

// SpannerOpener opens sessions against a local Spanner database. The store
// needs no per-request credentials; the bundle is still decoded and validated
// upstream so both drivers present the same contract.
type SpannerOpener struct {
	Client *spanner.Client
	Schema spannerstore.Schema
}

func (o *SpannerOpener) Open(_ auth.Credentials) contracts.Session {
	return &spannerSession{
		client: o.Client,
		store:  spannerstore.New(o.Client, o.Schema),
	}
}

type spannerSession struct {
	client *spanner.Client
	store  *spannerstore.Store
}

func (s *spannerSession) ListByOpportunity(ctx context.Context, opportunityID string) ([]*dto.LineItemDTO, error) {
	stmt := spanner.Statement{
		SQL: fmt.Sprintf("SELECT %s, %s, %s, %s, %s FROM %s WHERE %s = @opportunityId ORDER BY %s",
			m_oppline.FieldID, m_oppline.FieldProductID, m_oppline.FieldQuantity,
			m_oppline.FieldUnitPrice, m_oppline.FieldDiscount,
			m_oppline.RecordType,
			m_oppline.FieldOpportunityID, m_oppline.FieldID),
		Params: map[string]interface{}{"opportunityId": opportunityID},
	}

	iter := s.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var items []*dto.LineItemDTO
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			return items, nil
		}
		if err != nil {
			return nil, fmt.Errorf("sessions: read opportunity line items: %w", err)
		}

		var (
			id        string
			productID spanner.NullString
			quantity  float64
			unitPrice string
			discount  spanner.NullFloat64
		)
		if err := row.Columns(&id, &productID, &quantity, &unitPrice, &discount); err != nil {
			return nil, fmt.Errorf("sessions: decode opportunity line item: %w", err)
		}

		item := &dto.LineItemDTO{
			ID:        id,
			ProductID: productID.StringVal,
			Quantity:  quantity,
			UnitPrice: unitPrice,
		}
		if discount.Valid {
			pct := discount.Float64
			item.DiscountPct = &pct
		}
		items = append(items, item)
	}
}

func (s *spannerSession) Execute(ctx context.Context, ops []unitofwork.Operation) ([]unitofwork.OperationResult, error) {
	return s.store.Execute(ctx, ops)
}
