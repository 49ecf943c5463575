// Package premium implements the pure premium estimation rules for each
// campaign. Calculators are table and band lookups with linear derivations;
// they never perform I/O and report eligibility declines as explicit result
// kinds rather than errors.
package premium

import "math"

// Result is the outcome of a premium estimation. When Eligible is false,
// Reason carries a user-facing explanation and the premium fields are zero.
type Result struct {
	Eligible bool    `json:"eligible"`
	Reason   string  `json:"reason,omitempty"`
	Annual   float64 `json:"annual,omitempty"`
	Monthly  float64 `json:"monthly,omitempty"`
}

func decline(reason string) Result {
	return Result{Reason: reason}
}

func quote(annual, monthly float64) Result {
	return Result{Eligible: true, Annual: round2(annual), Monthly: round2(monthly)}
}

// round2 rounds to two decimal places, half away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
