// Package models defines lead record structures handed to the lead sink.
package models

import "time"

// ContactStatus records the agent-contact preference captured at a terminal
// transition.
type ContactStatus string

const (
	// ContactRequested indicates the user asked for an agent to call.
	ContactRequested ContactStatus = "Yes, Contact Requested"
	// ContactDeclined indicates the user declined agent contact.
	ContactDeclined ContactStatus = "No, Contact Declined"
	// ContactIneligible indicates the flow ended on an eligibility decline.
	ContactIneligible ContactStatus = "Ineligible"
)

// LeadRecord is a flattened, write-once snapshot of a user's collected
// profile and plan interest, produced exactly once per terminal transition
// and handed to the external lead sink. The core never reads it back.
type LeadRecord struct {
	ID       string     `json:"id"`
	UserID   string     `json:"user_id"`
	Campaign CampaignID `json:"campaign"`

	Name             string `json:"name,omitempty"`
	DOB              string `json:"dob,omitempty"`
	Email            string `json:"email,omitempty"`
	PrimaryConcern   string `json:"primary_concern,omitempty"`
	LifeStage        string `json:"life_stage,omitempty"`
	Dependents       string `json:"dependents,omitempty"`
	ExistingCoverage string `json:"existing_coverage,omitempty"`
	PremiumBudget    string `json:"premium_budget,omitempty"`

	SelectedPlan   string  `json:"selected_plan"`
	LegacyAmount   string  `json:"legacy_amount,omitempty"`
	CoverageLevel  string  `json:"coverage_level,omitempty"`
	PackageTier    string  `json:"package_tier,omitempty"`
	AnnualPremium  float64 `json:"annual_premium,omitempty"`
	MonthlyPremium float64 `json:"monthly_premium,omitempty"`

	Contact   ContactStatus `json:"contact"`
	CreatedAt time.Time     `json:"created_at"`
}
