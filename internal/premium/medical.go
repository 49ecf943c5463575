package premium

// MedicalTier identifies a medical coverage level.
type MedicalTier int

const (
	// MedicalBasic covers up to RM 180,000 per year.
	MedicalBasic MedicalTier = 1
	// MedicalComprehensive covers RM 1,000,000+ per year.
	MedicalComprehensive MedicalTier = 3
)

// Eligibility band for the medical fund campaign.
const (
	MedicalMinAge = 18
	MedicalMaxAge = 64
)

// BasicMonthlyDiscount is the flat RM reduction applied to the basic tier's
// monthly contribution.
const BasicMonthlyDiscount = 20

// medicalAnnual holds annual premiums for ages 34-64 at the comprehensive
// base rate. Gaps in the underwriting sheet carry the preceding age's value.
var medicalAnnual = map[int]float64{
	34: 1833.30,
	35: 1854.40,
	36: 1896.90,
	37: 1931.00,
	38: 1952.10,
	39: 1969.20,
	40: 2015.10,
	41: 2156.00,
	42: 2231.00,
	43: 2294.00,
	44: 2383.60,
	45: 2405.60,
	46: 2580.00,
	47: 2656.00,
	48: 2800.00,
	49: 2862.00,
	50: 3002.30,
	51: 3328.60,
	52: 3605.70,
	53: 3774.00,
	54: 3951.20,
	55: 3951.20,
	56: 3951.20,
	57: 3951.20,
	58: 4711.60,
	59: 5136.20,
	60: 5136.20,
	61: 5136.20,
	62: 5136.20,
	63: 7976.00,
	64: 9232.60,
}

// medicalBaseMonthly returns the base monthly contribution for an in-band
// age. Ages under 34 use fixed monthly bands; 34 and above derive from the
// annual table.
func medicalBaseMonthly(age int) float64 {
	switch {
	case age <= 21:
		return 113
	case age <= 25:
		return 123
	case age <= 30:
		return 133
	case age <= 33:
		return 143
	default:
		return medicalAnnual[age] / 12
	}
}

// Medical estimates the monthly premium for a medical coverage tier. The
// basic tier subtracts a flat RM 20 from the base monthly contribution; the
// comprehensive tier pays the base rate.
func Medical(age int, tier MedicalTier) Result {
	if age < MedicalMinAge {
		return decline("Tabung Perubatan is only available for ages 18 and above.")
	}
	if age > MedicalMaxAge {
		return decline("Tabung Perubatan covers ages 18 to 64.")
	}

	base := medicalBaseMonthly(age)
	var monthly float64
	switch tier {
	case MedicalBasic:
		monthly = base - BasicMonthlyDiscount
	case MedicalComprehensive:
		monthly = base
	default:
		return decline("Invalid coverage level.")
	}
	return quote(monthly*12, monthly)
}
