package premium

// Eligibility band for the legacy planning campaign.
const (
	LegacyMinAge = 18
	LegacyMaxAge = 70
	// LegacyMinAmount is the smallest accepted legacy amount in RM.
	LegacyMinAmount = 1000
)

// legacyFactor returns the per-RM1000 annual rate for an in-band age.
// Bands are non-decreasing by construction.
func legacyFactor(age int) float64 {
	switch {
	case age <= 35:
		return 4.8
	case age <= 45:
		return 9
	default:
		return 17
	}
}

// Legacy estimates the annual and monthly premium for a desired legacy
// amount. The annual premium is (amount / 1000) * rate for the age band;
// monthly is a twelfth of that.
func Legacy(age int, amount float64) Result {
	if age < LegacyMinAge {
		return decline("Tabung Warisan is only available for ages 18 and above.")
	}
	if age > LegacyMaxAge {
		return decline("Tabung Warisan covers ages 18 to 70.")
	}
	if amount <= 0 {
		return decline("Legacy amount must be greater than zero.")
	}
	if amount < LegacyMinAmount {
		return decline("The minimum legacy amount is RM 1,000.")
	}
	annual := (amount / 1000) * legacyFactor(age)
	return quote(annual, annual/12)
}
