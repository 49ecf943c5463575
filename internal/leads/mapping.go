package leads

import (
	"strings"

	"github.com/kkmjpaibot/AiChatBot/internal/models"
)

// SheetColumns is the width of the fixed row layout the downstream
// spreadsheet expects.
const SheetColumns = 17

// Positions of campaign-specific values within the sheet row. Columns
// between the shared profile block and these are intentionally blank.
const (
	colLegacyAmount  = 11
	colCoverageLevel = 14
	colPackageTier   = 15
	colContactStatus = 16
)

// Display labels for internal codes collected during the flows. Cells
// with no mapping pass through unchanged.
var financialMapping = map[string]string{
	"income_protection": "Family Income",
	"medical_expenses":  "Medical Expenses",
	"education":         "Education",
	"wealth_building":   "Wealth Building",
	"retirement":        "Retirement",

	"sgsa":               "Satu Gaji Satu Harapan",
	"tabung_warisan":     "Tabung Warisan",
	"mdak":               "Tabung Warisan",
	"tabung_perubatan":   "Tabung Perubatan",
	"perlindungan_combo": "Perlindungan Combo",
}

var lifeStageMapping = map[string]string{
	"starting_family":  "Starting Family",
	"raising_children": "Raising Children",
	"home":             "Home",
	"pre_retirement":   "Pre Retirement",
	"single":           "Single",
	"retired":          "Retired",
}

var coverageMapping = map[string]string{
	"1": "Basic",
	"2": "Medium",
	"3": "Comprehensive",
}

// normalizeKeyword lowercases and collapses spaces and hyphens to
// underscores so mapping lookups tolerate label variants.
func normalizeKeyword(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}

// mapCell translates a single cell to its display label, or returns the
// trimmed original when no mapping applies.
func mapCell(cell string) string {
	norm := normalizeKeyword(cell)
	if label, ok := lifeStageMapping[norm]; ok {
		return label
	}
	if label, ok := financialMapping[norm]; ok {
		return label
	}
	if label, ok := coverageMapping[norm]; ok {
		return label
	}
	return strings.TrimSpace(cell)
}

// SheetRow flattens a lead record into the fixed 17-column row layout,
// applying display-label mappings to every cell.
func SheetRow(lead models.LeadRecord) []string {
	row := make([]string, SheetColumns)
	row[0] = lead.Name
	row[1] = lead.DOB
	row[2] = lead.Email
	row[3] = lead.PrimaryConcern
	row[4] = lead.LifeStage
	row[5] = lead.Dependents
	row[6] = lead.ExistingCoverage
	row[7] = lead.PremiumBudget
	row[8] = lead.SelectedPlan
	row[colLegacyAmount] = lead.LegacyAmount
	row[colCoverageLevel] = lead.CoverageLevel
	row[colPackageTier] = lead.PackageTier
	row[colContactStatus] = string(lead.Contact)

	for i, cell := range row {
		if cell != "" {
			row[i] = mapCell(cell)
		}
	}
	return row
}
