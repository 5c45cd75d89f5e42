package dto

// LineItemDTO mirrors one opportunity line item row as the record store
// returns it. UnitPrice stays a decimal string so the domain can parse it
// without float loss; DiscountPct is the store's optional per-line override on
// the 0-100 scale.
type LineItemDTO struct {
	ID          string
	ProductID   string
	Quantity    float64
	UnitPrice   string
	DiscountPct *float64
}
