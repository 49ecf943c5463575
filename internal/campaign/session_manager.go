// Package campaign provides store-backed session management for the flows.
package campaign

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/kkmjpaibot/AiChatBot/internal/models"
	"github.com/kkmjpaibot/AiChatBot/internal/store"
)

// SessionManager mediates all session access for the processor. It
// serializes work per (campaign, user) pair so concurrent messages from
// one user are applied one at a time while different users proceed
// independently.
type SessionManager struct {
	store store.Store

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewSessionManager creates a session manager backed by a store.
func NewSessionManager(st store.Store) *SessionManager {
	slog.Debug("Creating SessionManager")
	return &SessionManager{
		store: st,
		locks: make(map[string]*sync.Mutex),
	}
}

// Lock acquires the per-user lock for a campaign and returns the unlock
// function. Locks are created lazily and never removed; the set of
// active (campaign, user) pairs is small.
func (m *SessionManager) Lock(userID string, campaign models.CampaignID) func() {
	key := string(campaign) + "\x00" + userID
	m.mu.Lock()
	l, ok := m.locks[key]
	if !ok {
		l = &sync.Mutex{}
		m.locks[key] = l
	}
	m.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// GetOrCreate loads the session for a user in a campaign, creating a
// fresh one at the given initial step when none exists.
func (m *SessionManager) GetOrCreate(userID string, campaign models.CampaignID, initial models.StepID) (*models.Session, error) {
	sess, err := m.store.GetSession(userID, campaign)
	if err != nil {
		slog.Error("SessionManager.GetOrCreate: load failed", "error", err, "userID", userID, "campaign", campaign)
		return nil, fmt.Errorf("failed to load session for %s: %w", userID, err)
	}
	if sess == nil {
		slog.Debug("SessionManager.GetOrCreate: creating session", "userID", userID, "campaign", campaign)
		sess = models.NewSession(userID, campaign, initial)
	}
	return sess, nil
}

// Save persists a session, refreshing its activity timestamp.
func (m *SessionManager) Save(sess *models.Session) error {
	sess.LastActive = time.Now()
	if err := m.store.SaveSession(*sess); err != nil {
		slog.Error("SessionManager.Save: persist failed", "error", err, "userID", sess.UserID, "campaign", sess.Campaign)
		return fmt.Errorf("failed to save session for %s: %w", sess.UserID, err)
	}
	return nil
}

// Get returns the stored session for a user, or nil when none exists.
func (m *SessionManager) Get(userID string, campaign models.CampaignID) (*models.Session, error) {
	return m.store.GetSession(userID, campaign)
}

// Reset removes a user's session so the next message starts the
// campaign from its initial step.
func (m *SessionManager) Reset(userID string, campaign models.CampaignID) error {
	if err := m.store.DeleteSession(userID, campaign); err != nil {
		slog.Error("SessionManager.Reset: delete failed", "error", err, "userID", userID, "campaign", campaign)
		return fmt.Errorf("failed to reset session for %s: %w", userID, err)
	}
	slog.Info("SessionManager.Reset: session cleared", "userID", userID, "campaign", campaign)
	return nil
}
