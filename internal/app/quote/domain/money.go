package domain

import (
	"fmt"
	"math/big"
	"strings"
)

// Money is a monetary amount with exact decimal arithmetic, backed by big.Rat
// to keep line-item math free of float drift. Money is immutable; operations
// return new instances.
type Money struct {
	amount *big.Rat
}

// NewMoneyFromDecimal parses a decimal string such as "19.99".
func NewMoneyFromDecimal(decimal string) (*Money, error) {
	rat := new(big.Rat)
	if _, ok := rat.SetString(decimal); !ok {
		return nil, fmt.Errorf("%w: %q", ErrMalformedPrice, decimal)
	}
	return &Money{amount: rat}, nil
}

// NewMoneyFromRat wraps a copy of rat.
func NewMoneyFromRat(rat *big.Rat) *Money {
	if rat == nil {
		return ZeroMoney()
	}
	return &Money{amount: new(big.Rat).Set(rat)}
}

// ZeroMoney returns a zero amount.
func ZeroMoney() *Money {
	return &Money{amount: new(big.Rat)}
}

// Add returns m + other.
func (m *Money) Add(other *Money) *Money {
	return &Money{amount: new(big.Rat).Add(m.amount, other.amount)}
}

// MulRat returns m scaled by r.
func (m *Money) MulRat(r *big.Rat) *Money {
	return &Money{amount: new(big.Rat).Mul(m.amount, r)}
}

// IsNegative reports whether the amount is below zero.
func (m *Money) IsNegative() bool {
	return m.amount.Sign() < 0
}

// Equals reports exact equality with other.
func (m *Money) Equals(other *Money) bool {
	return other != nil && m.amount.Cmp(other.amount) == 0
}

// Rat returns a copy of the underlying rational.
func (m *Money) Rat() *big.Rat {
	return new(big.Rat).Set(m.amount)
}

// FloatString renders the amount with the given decimal precision.
func (m *Money) FloatString(precision int) string {
	return m.amount.FloatString(precision)
}

// DecimalString renders the amount as a plain decimal with up to six
// fractional digits, trailing zeros trimmed. Six digits cover a cent-precision
// price scaled by a basis-point discount rate.
func (m *Money) DecimalString() string {
	s := m.amount.FloatString(6)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

func (m *Money) String() string {
	return m.amount.FloatString(2)
}
