package m_quote

// Record-type tag and field API names for the Quote record.
const (
	RecordType = "Quote"

	FieldOpportunityID = "OpportunityId"
	FieldName          = "Name"
	FieldStatus        = "Status"
)
