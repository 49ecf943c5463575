// Package models defines session state structures for campaign flows.
package models

import "time"

// Collected-field keys shared across campaigns. Campaign packages may define
// additional keys for data only they collect.
const (
	FieldName             = "name"
	FieldDOB              = "dob"
	FieldEmail            = "email"
	FieldAge              = "age"
	FieldPrimaryConcern   = "primary_concern"
	FieldLifeStage        = "life_stage"
	FieldDependents       = "dependents"
	FieldExistingCoverage = "existing_coverage"
	FieldPremiumBudget    = "premium_budget"
	FieldLegacyAmount     = "legacy_amount"
	FieldCoverageLevel    = "coverage_level"
	FieldPackageTier      = "package_tier"
)

// Session represents the conversational state of one user in one campaign.
// One session exists per (campaign, user) pair; it is created lazily on the
// first message and owned exclusively by the session store.
type Session struct {
	UserID      string            `json:"user_id"`
	Campaign    CampaignID        `json:"campaign"`
	CurrentStep StepID            `json:"current_step"`
	Collected   map[string]string `json:"collected,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	LastActive  time.Time         `json:"last_active"`
}

// NewSession creates a fresh session positioned at the campaign's
// initial step with both timestamps set to now.
func NewSession(userID string, campaign CampaignID, initial StepID) *Session {
	now := time.Now()
	return &Session{
		UserID:      userID,
		Campaign:    campaign,
		CurrentStep: initial,
		Collected:   make(map[string]string),
		CreatedAt:   now,
		LastActive:  now,
	}
}

// Set records a collected field value.
func (s *Session) Set(key, value string) {
	if s.Collected == nil {
		s.Collected = make(map[string]string)
	}
	s.Collected[key] = value
}

// Get returns a collected field value, or "" when absent.
func (s *Session) Get(key string) string {
	return s.Collected[key]
}

// Has reports whether a collected field has a non-empty value.
func (s *Session) Has(key string) bool {
	return s.Collected[key] != ""
}

// Reset returns the session to the given initial step and clears all
// collected data. Used for explicit main-menu resets only; normal
// transitions never drop collected fields.
func (s *Session) Reset(initial StepID) {
	s.CurrentStep = initial
	s.Collected = make(map[string]string)
}
