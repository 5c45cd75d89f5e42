// Package sessions binds the record-store drivers to the application's Session
// contract. Each opener turns one request's credentials into a short-lived
// session carrying the line-item read and the atomic batch write.
package sessions

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/murkotick/opportunity-quote-service/internal/app/quote/contracts"
	"github.com/murkotick/opportunity-quote-service/internal/app/quote/dto"
	"github.com/murkotick/opportunity-quote-service/internal/models/m_oppline"
	"github.com/murkotick/opportunity-quote-service/internal/pkg/auth"
	"github.com/murkotick/opportunity-quote-service/internal/pkg/salesforce"
	"github.com/murkotick/opportunity-quote-service/internal/pkg/unitofwork"
)

// SalesforceOpener opens sessions against the vendor REST store. The
// *http.Client is shared; credentials are bound per session and discarded
// with it.
type SalesforceOpener struct {
	HTTP *http.Client
	Log  logrus.FieldLogger
}

func (o *SalesforceOpener) Open(creds auth.Credentials) contracts.Session {
	return &salesforceSession{client: salesforce.New(o.HTTP, creds, o.Log)}
}

type salesforceSession struct {
	client *salesforce.Client
}

// oppLineRow mirrors one SOQL record. UnitPrice decodes as json.Number so the
// decimal reaches the domain without float round-tripping.
type oppLineRow struct {
	ID        string      `json:"Id"`
	ProductID string      `json:"Product2Id"`
	Quantity  float64     `json:"Quantity"`
	UnitPrice json.Number `json:"UnitPrice"`
	Discount  *float64    `json:"Discount"`
}

func (s *salesforceSession) ListByOpportunity(ctx context.Context, opportunityID string) ([]*dto.LineItemDTO, error) {
	soql := fmt.Sprintf("SELECT %s, %s, %s, %s, %s FROM %s WHERE %s = '%s' ORDER BY %s",
		m_oppline.FieldID, m_oppline.FieldProductID, m_oppline.FieldQuantity,
		m_oppline.FieldUnitPrice, m_oppline.FieldDiscount,
		m_oppline.RecordType,
		m_oppline.FieldOpportunityID, salesforce.QuoteLiteral(opportunityID),
		m_oppline.FieldID)

	var rows []oppLineRow
	if err := s.client.Query(ctx, soql, &rows); err != nil {
		return nil, err
	}

	items := make([]*dto.LineItemDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, &dto.LineItemDTO{
			ID:          row.ID,
			ProductID:   row.ProductID,
			Quantity:    row.Quantity,
			UnitPrice:   row.UnitPrice.String(),
			DiscountPct: row.Discount,
		})
	}
	return items, nil
}

func (s *salesforceSession) Execute(ctx context.Context, ops []unitofwork.Operation) ([]unitofwork.OperationResult, error) {
	return s.client.Execute(ctx, ops)
}
