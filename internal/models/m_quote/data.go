package m_quote

import (
	"github.com/murkotick/opportunity-quote-service/internal/pkg/unitofwork"
)

// BuildInsertFields prepares the canonical field map for a quote create.
func BuildInsertFields(opportunityID, name, status string) unitofwork.Fields {
	return unitofwork.Fields{
		FieldOpportunityID: unitofwork.String(opportunityID),
		FieldName:          unitofwork.String(name),
		FieldStatus:        unitofwork.String(status),
	}
}
