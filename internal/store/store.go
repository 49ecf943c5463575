// Package store provides storage backends for campaign sessions and leads.
//
// It includes an in-memory store for tests and single-process deployments,
// plus SQLite and PostgreSQL backends for persistent state.
package store

import (
	"strings"
	"time"

	"github.com/kkmjpaibot/AiChatBot/internal/models"
)

// Store is the persistence contract shared by all backends. Sessions are
// keyed by (user, campaign); leads are append-only records.
type Store interface {
	// GetSession returns the session for a user in a campaign, or nil when
	// none exists yet.
	GetSession(userID string, campaign models.CampaignID) (*models.Session, error)

	// SaveSession stores or replaces a session.
	SaveSession(s models.Session) error

	// DeleteSession removes a session; deleting a missing session is not an
	// error.
	DeleteSession(userID string, campaign models.CampaignID) error

	// AddLead appends a lead record.
	AddLead(rec models.LeadRecord) error

	// GetLeads returns all recorded leads.
	GetLeads() ([]models.LeadRecord, error)

	// Close releases backend resources.
	Close() error
}

// Opts holds configuration options for store backends.
type Opts struct {
	DSN        string
	SessionTTL time.Duration // in-memory eviction; zero disables
}

// Option defines a configuration option for store construction.
type Option func(*Opts)

// WithDSN sets the database connection string or file path.
func WithDSN(dsn string) Option {
	return func(o *Opts) {
		o.DSN = dsn
	}
}

// WithSessionTTL enables idle-session eviction on the in-memory store.
func WithSessionTTL(ttl time.Duration) Option {
	return func(o *Opts) {
		o.SessionTTL = ttl
	}
}

// DetectDSNType classifies a DSN as "postgres" or "sqlite" so the caller
// can pick a backend without a separate driver flag.
func DetectDSNType(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") || strings.Contains(dsn, "host=") {
		return "postgres"
	}
	return "sqlite"
}
