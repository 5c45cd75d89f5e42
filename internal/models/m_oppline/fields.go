package m_oppline

// Record-type tag and field API names for the OpportunityLineItem record,
// read-only from this service's point of view.
const (
	RecordType = "OpportunityLineItem"

	FieldID            = "Id"
	FieldOpportunityID = "OpportunityId"
	FieldProductID     = "Product2Id"
	FieldQuantity      = "Quantity"
	FieldUnitPrice     = "UnitPrice"
	FieldDiscount      = "Discount"
)
