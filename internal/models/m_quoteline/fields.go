package m_quoteline

// Record-type tag and field API names for the QuoteLineItem record.
const (
	RecordType = "QuoteLineItem"

	FieldQuoteID   = "QuoteId"
	FieldProductID = "Product2Id"
	FieldQuantity  = "Quantity"
	FieldUnitPrice = "UnitPrice"
)
