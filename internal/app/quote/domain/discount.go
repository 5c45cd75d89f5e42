package domain

import "math/big"

// Placeholder regional rates, pending the real pricing service.
var regionRates = map[string]*big.Rat{
	"NA":   big.NewRat(1, 10),  // 10%
	"EMEA": big.NewRat(3, 20),  // 15%
	"APAC": big.NewRat(1, 20),  // 5%
	"LATN": big.NewRat(7, 100), // 7%
}

// DiscountPolicy resolves the effective discount rate for a quote line.
// A per-line override supplied by the record store wins over the regional
// default; an unknown region gets no discount.
type DiscountPolicy struct {
	region string
}

// NewDiscountPolicy returns a policy for the given sales region.
func NewDiscountPolicy(region string) *DiscountPolicy {
	return &DiscountPolicy{region: region}
}

// Region returns the policy's sales region.
func (p *DiscountPolicy) Region() string {
	return p.region
}

// EffectiveRate returns the discount rate in [0, 1] for a line, applying the
// optional per-line override first.
func (p *DiscountPolicy) EffectiveRate(override *big.Rat) (*big.Rat, error) {
	if override != nil {
		if override.Sign() < 0 || override.Cmp(big.NewRat(1, 1)) > 0 {
			return nil, ErrInvalidDiscountRate
		}
		return new(big.Rat).Set(override), nil
	}
	if rate, ok := regionRates[p.region]; ok {
		return new(big.Rat).Set(rate), nil
	}
	return new(big.Rat), nil
}
