package m_quoteline

import (
	"github.com/murkotick/opportunity-quote-service/internal/pkg/unitofwork"
)

// BuildInsertFields prepares the canonical field map for a quote line item
// create. The quote value is either a literal identifier or a pending
// reference to a quote created in the same batch.
func BuildInsertFields(quote unitofwork.Value, productID string, quantity float64, unitPrice string) unitofwork.Fields {
	fields := unitofwork.Fields{
		FieldQuoteID:   quote,
		FieldQuantity:  unitofwork.Number(quantity),
		FieldUnitPrice: unitofwork.Decimal(unitPrice),
	}

	if productID != "" {
		fields[FieldProductID] = unitofwork.String(productID)
	} else {
		fields[FieldProductID] = unitofwork.Null()
	}

	return fields
}
