package domain

import "math/big"

// LineItem is a priced quote line derived from one opportunity line item.
// The net unit price is fixed at construction: list price reduced by the
// effective discount rate.
type LineItem struct {
	sourceID     string
	productID    string
	quantity     *big.Rat
	listPrice    *Money
	discountRate *big.Rat
	netUnitPrice *Money
}

// NewLineItem prices one line. quantity must be positive, listPrice
// non-negative and rate within [0, 1].
func NewLineItem(sourceID, productID string, quantity *big.Rat, listPrice *Money, rate *big.Rat) (*LineItem, error) {
	if quantity == nil || quantity.Sign() <= 0 {
		return nil, ErrNonPositiveQuantity
	}
	if listPrice == nil || listPrice.IsNegative() {
		return nil, ErrNegativeListPrice
	}
	if rate == nil {
		rate = new(big.Rat)
	}
	if rate.Sign() < 0 || rate.Cmp(big.NewRat(1, 1)) > 0 {
		return nil, ErrInvalidDiscountRate
	}

	remainder := new(big.Rat).Sub(big.NewRat(1, 1), rate)
	return &LineItem{
		sourceID:     sourceID,
		productID:    productID,
		quantity:     new(big.Rat).Set(quantity),
		listPrice:    listPrice,
		discountRate: new(big.Rat).Set(rate),
		netUnitPrice: listPrice.MulRat(remainder),
	}, nil
}

// SourceID returns the originating opportunity line item's identifier.
func (li *LineItem) SourceID() string {
	return li.sourceID
}

// ProductID returns the product the line refers to (may be empty).
func (li *LineItem) ProductID() string {
	return li.productID
}

// Quantity returns a copy of the line quantity.
func (li *LineItem) Quantity() *big.Rat {
	return new(big.Rat).Set(li.quantity)
}

// ListPrice returns the undiscounted unit price.
func (li *LineItem) ListPrice() *Money {
	return li.listPrice
}

// DiscountRate returns a copy of the effective rate in [0, 1].
func (li *LineItem) DiscountRate() *big.Rat {
	return new(big.Rat).Set(li.discountRate)
}

// NetUnitPrice returns the discounted unit price.
func (li *LineItem) NetUnitPrice() *Money {
	return li.netUnitPrice
}

// Total returns net unit price times quantity.
func (li *LineItem) Total() *Money {
	return li.netUnitPrice.MulRat(li.quantity)
}
