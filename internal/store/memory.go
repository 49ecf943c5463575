package store

import (
	"log/slog"
	"sync"
	"time"

	"github.com/kkmjpaibot/AiChatBot/internal/models"
)

// evictionInterval is how often the TTL janitor scans for idle sessions.
const evictionInterval = time.Minute

type sessionKey struct {
	userID   string
	campaign models.CampaignID
}

// InMemoryStore keeps sessions and leads in process memory. Suitable for
// tests and single-process deployments; state is lost on restart.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[sessionKey]models.Session
	leads    []models.LeadRecord

	ttl  time.Duration
	stop chan struct{}
	once sync.Once
}

// NewInMemoryStore creates an in-memory store. When a session TTL option is
// provided, a background janitor evicts sessions idle longer than the TTL.
func NewInMemoryStore(opts ...Option) *InMemoryStore {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	s := &InMemoryStore{
		sessions: make(map[sessionKey]models.Session),
		ttl:      cfg.SessionTTL,
		stop:     make(chan struct{}),
	}
	if s.ttl > 0 {
		slog.Debug("InMemoryStore: session eviction enabled", "ttl", s.ttl)
		go s.evictLoop()
	}
	return s
}

func (s *InMemoryStore) evictLoop() {
	ticker := time.NewTicker(evictionInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			s.evictIdle(now)
		}
	}
}

func (s *InMemoryStore) evictIdle(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, sess := range s.sessions {
		if now.Sub(sess.LastActive) > s.ttl {
			delete(s.sessions, key)
			slog.Info("InMemoryStore: evicted idle session", "userID", key.userID, "campaign", key.campaign)
		}
	}
}

// GetSession returns a copy of the stored session, or nil when absent.
func (s *InMemoryStore) GetSession(userID string, campaign models.CampaignID) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sessionKey{userID, campaign}]
	if !ok {
		return nil, nil
	}
	// Enforce the TTL on read; the janitor only reclaims memory between reads.
	if s.ttl > 0 && time.Since(sess.LastActive) > s.ttl {
		return nil, nil
	}
	// Copy the collected map so callers never alias stored state.
	cp := sess
	if sess.Collected != nil {
		cp.Collected = make(map[string]string, len(sess.Collected))
		for k, v := range sess.Collected {
			cp.Collected[k] = v
		}
	}
	return &cp, nil
}

// SaveSession stores or replaces a session.
func (s *InMemoryStore) SaveSession(sess models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionKey{sess.UserID, sess.Campaign}] = sess
	return nil
}

// DeleteSession removes a session.
func (s *InMemoryStore) DeleteSession(userID string, campaign models.CampaignID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionKey{userID, campaign})
	return nil
}

// AddLead appends a lead record.
func (s *InMemoryStore) AddLead(rec models.LeadRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leads = append(s.leads, rec)
	return nil
}

// GetLeads returns all recorded leads.
func (s *InMemoryStore) GetLeads() ([]models.LeadRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.LeadRecord, len(s.leads))
	copy(out, s.leads)
	return out, nil
}

// Close stops the eviction janitor.
func (s *InMemoryStore) Close() error {
	s.once.Do(func() { close(s.stop) })
	return nil
}
