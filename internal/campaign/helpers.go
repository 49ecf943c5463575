package campaign

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/kkmjpaibot/AiChatBot/internal/models"
)

// Collected-field keys private to the campaign flows.
const (
	fieldAnnualPremium  = "annual_premium"
	fieldMonthlyPremium = "monthly_premium"
)

var currencyPrinter = message.NewPrinter(language.English)

// formatCurrency renders an amount as Malaysian Ringgit with thousands
// grouping, e.g. "RM 1,000,000.00".
func formatCurrency(v float64) string {
	return currencyPrinter.Sprintf("RM %.2f", v)
}

// parseAmount extracts a monetary amount from free text, tolerating
// currency prefixes and thousands separators ("RM 100,000" -> 100000).
func parseAmount(text string) (float64, bool) {
	var b strings.Builder
	for _, r := range text {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseAge extracts an integer age from free text, ignoring any
// non-digit characters ("I'm 35" -> 35).
func parseAge(text string) (int, bool) {
	var b strings.Builder
	for _, r := range text {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	v, err := strconv.Atoi(b.String())
	if err != nil {
		return 0, false
	}
	return v, true
}

// ageFromDOB derives a whole-year age from a DD/MM/YYYY date of birth.
func ageFromDOB(dob string) (int, bool) {
	t, err := time.Parse("02/01/2006", strings.TrimSpace(dob))
	if err != nil {
		return 0, false
	}
	now := time.Now()
	age := now.Year() - t.Year()
	if now.Month() < t.Month() || (now.Month() == t.Month() && now.Day() < t.Day()) {
		age--
	}
	if age < 0 {
		return 0, false
	}
	return age, true
}

// matchesAny reports whether the normalized input equals one of the
// candidate tokens.
func matchesAny(normalized string, candidates ...string) bool {
	for _, c := range candidates {
		if normalized == c {
			return true
		}
	}
	return false
}

// isAffirmative matches common yes-style replies and button values.
func isAffirmative(normalized string) bool {
	return matchesAny(normalized, "yes", "y", "ya", "yeah", "sure", "ok", "okay", "proceed")
}

// isNegative matches common no-style replies and button values.
func isNegative(normalized string) bool {
	return matchesAny(normalized, "no", "n", "no_thanks", "not_now", "not now", "no thanks", "maybe later", "later")
}

func mainMenuButtons() []models.Button {
	return []models.Button{{Label: "🏠 Return to Main Menu", Value: "main_menu"}}
}

func agentContactButtons() []models.Button {
	return []models.Button{
		{Label: "✅ Yes, contact me", Value: "contact_agent"},
		{Label: "❌ No thanks", Value: "no_contact"},
	}
}

// buildLead snapshots the session's collected profile into a lead record
// for a terminal transition. Identity and timestamp are stamped by the
// processor before the record reaches a sink.
func buildLead(s *models.Session, plan string, contact models.ContactStatus) *models.LeadRecord {
	name := s.Get(models.FieldName)
	if name == "" {
		name = "N/A"
	}
	lead := &models.LeadRecord{
		UserID:           s.UserID,
		Campaign:         s.Campaign,
		Name:             name,
		DOB:              s.Get(models.FieldDOB),
		Email:            s.Get(models.FieldEmail),
		PrimaryConcern:   s.Get(models.FieldPrimaryConcern),
		LifeStage:        s.Get(models.FieldLifeStage),
		Dependents:       s.Get(models.FieldDependents),
		ExistingCoverage: s.Get(models.FieldExistingCoverage),
		PremiumBudget:    s.Get(models.FieldPremiumBudget),
		SelectedPlan:     plan,
		CoverageLevel:    s.Get(models.FieldCoverageLevel),
		PackageTier:      s.Get(models.FieldPackageTier),
		Contact:          contact,
	}
	if amt, ok := parseAmount(s.Get(models.FieldLegacyAmount)); ok {
		lead.LegacyAmount = formatCurrency(amt)
	}
	if v, err := strconv.ParseFloat(s.Get(fieldAnnualPremium), 64); err == nil {
		lead.AnnualPremium = v
	}
	if v, err := strconv.ParseFloat(s.Get(fieldMonthlyPremium), 64); err == nil {
		lead.MonthlyPremium = v
	}
	return lead
}

// recordPremium stores a quote on the session so the eventual lead
// carries the figures the user was shown.
func recordPremium(s *models.Session, annual, monthly float64) {
	s.Set(fieldAnnualPremium, strconv.FormatFloat(annual, 'f', 2, 64))
	s.Set(fieldMonthlyPremium, strconv.FormatFloat(monthly, 'f', 2, 64))
}
