package premium

// ComboTier identifies a combo protection package.
type ComboTier int

const (
	// ComboSilver is the essential protection package.
	ComboSilver ComboTier = 1
	// ComboGold is the balanced protection package.
	ComboGold ComboTier = 2
	// ComboPlatinum is the comprehensive protection package.
	ComboPlatinum ComboTier = 3
)

// Combo plans price over fixed age bands up to 54; older applicants are
// routed to an advisor instead of receiving a numeric estimate.
const (
	ComboMinAge       = 18
	ComboMaxQuoteAge  = 54
	ComboMaxIntakeAge = 60
)

// comboAnnual maps package tier to annual premium per age band, in band
// order 18-25, 26-35, 36-44, 45-54. Rows and columns are non-decreasing.
var comboAnnual = map[ComboTier][4]float64{
	ComboSilver:   {2400, 2800, 3600, 4000},
	ComboGold:     {3500, 3600, 4200, 5000},
	ComboPlatinum: {4000, 5400, 6300, 8400},
}

func comboBand(age int) int {
	switch {
	case age <= 25:
		return 0
	case age <= 35:
		return 1
	case age <= 44:
		return 2
	default:
		return 3
	}
}

// Combo estimates the annual and monthly premium for a protection package.
func Combo(age int, tier ComboTier) Result {
	bands, ok := comboAnnual[tier]
	if !ok {
		return decline("Invalid package tier. Please choose 1, 2, or 3.")
	}
	if age < ComboMinAge || age > ComboMaxQuoteAge {
		return decline("Combo plans are typically for ages 18-54. Please consult our advisor for alternative options.")
	}
	annual := bands[comboBand(age)]
	return quote(annual, annual/12)
}
