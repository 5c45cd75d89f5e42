package domain

import "errors"

// Domain errors for the Quote aggregate
var (
	// ErrMissingOpportunityID indicates a quote was requested without an
	// opportunity identifier.
	ErrMissingOpportunityID = errors.New("opportunity id is required")

	// ErrNoLineItems indicates the opportunity has no line items to quote.
	ErrNoLineItems = errors.New("no line items found for opportunity")
)

// Domain errors for line-item pricing
var (
	// ErrNonPositiveQuantity indicates a line item with a zero or negative
	// quantity.
	ErrNonPositiveQuantity = errors.New("line item quantity must be positive")

	// ErrNegativeListPrice indicates a line item with a negative list price.
	ErrNegativeListPrice = errors.New("line item list price cannot be negative")

	// ErrInvalidDiscountRate indicates a discount rate outside [0, 1].
	ErrInvalidDiscountRate = errors.New("discount rate must be between 0 and 1")

	// ErrMalformedPrice indicates a price value that could not be parsed as a
	// decimal.
	ErrMalformedPrice = errors.New("price is not a valid decimal")
)
