// Package providers holds helpers shared by the provider adapters.
package providers

import "github.com/shopspring/decimal"

// IsZeroCost reports whether a raw pricing token represents zero cost.
// Providers report "0", "0.0", "0.000000", or omit the field entirely; an
// omitted token counts as zero, an unparsable one does not.
func IsZeroCost(token string) bool {
	if token == "" {
		return true
	}
	d, err := decimal.NewFromString(token)
	if err != nil {
		return false
	}
	return d.IsZero()
}

// AllZeroCost reports whether every token in the triple is zero cost.
func AllZeroCost(tokens ...string) bool {
	for _, t := range tokens {
		if !IsZeroCost(t) {
			return false
		}
	}
	return true
}
