// Package leads delivers captured lead records to external sinks.
//
// A sink is the boundary between the campaign flows and whatever system
// the sales team reads leads from. The flows never talk to a sink
// directly; the campaign processor appends exactly one record per
// terminal transition, best-effort.
package leads

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/kkmjpaibot/AiChatBot/internal/models"
	"github.com/kkmjpaibot/AiChatBot/internal/store"
)

// Sink receives captured lead records. Append must be safe for
// concurrent use; a failed append must not corrupt sink state.
type Sink interface {
	Append(ctx context.Context, lead models.LeadRecord) error
}

// Opts holds configuration for constructing lead sinks.
type Opts struct {
	WebhookURL string
	Token      string
	Timeout    time.Duration
}

// Option configures lead sink construction.
type Option func(*Opts)

// WithWebhookURL sets the webhook endpoint that receives sheet rows.
func WithWebhookURL(url string) Option {
	return func(o *Opts) { o.WebhookURL = url }
}

// WithToken sets the bearer token sent with webhook requests.
func WithToken(token string) Option {
	return func(o *Opts) { o.Token = token }
}

// WithTimeout sets the HTTP client timeout for webhook delivery.
func WithTimeout(d time.Duration) Option {
	return func(o *Opts) { o.Timeout = d }
}

// MemorySink records appended leads in memory. Used in tests and as a
// fallback when no other sink is configured.
type MemorySink struct {
	mu    sync.Mutex
	leads []models.LeadRecord
}

// NewMemorySink creates an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Append records the lead.
func (m *MemorySink) Append(_ context.Context, lead models.LeadRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leads = append(m.leads, lead)
	slog.Debug("MemorySink.Append: lead recorded", "leadID", lead.ID, "campaign", lead.Campaign)
	return nil
}

// Leads returns a copy of all appended leads in order.
func (m *MemorySink) Leads() []models.LeadRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.LeadRecord, len(m.leads))
	copy(out, m.leads)
	return out
}

// StoreSink persists leads into the session store's lead table so they
// remain queryable through the API even when webhook delivery fails.
type StoreSink struct {
	store store.Store
}

// NewStoreSink creates a sink backed by the given store.
func NewStoreSink(st store.Store) *StoreSink {
	return &StoreSink{store: st}
}

// Append persists the lead.
func (s *StoreSink) Append(_ context.Context, lead models.LeadRecord) error {
	if err := s.store.AddLead(lead); err != nil {
		return fmt.Errorf("failed to persist lead %s: %w", lead.ID, err)
	}
	slog.Debug("StoreSink.Append: lead persisted", "leadID", lead.ID, "campaign", lead.Campaign)
	return nil
}

// Fanout delivers each lead to every wrapped sink. All sinks are
// attempted even when one fails; the first error is returned.
type Fanout struct {
	sinks []Sink
}

// NewFanout creates a sink that forwards to all given sinks.
func NewFanout(sinks ...Sink) *Fanout {
	return &Fanout{sinks: sinks}
}

// Append forwards the lead to every sink.
func (f *Fanout) Append(ctx context.Context, lead models.LeadRecord) error {
	var firstErr error
	for _, s := range f.sinks {
		if err := s.Append(ctx, lead); err != nil {
			slog.Error("Fanout.Append: sink failed", "error", err, "leadID", lead.ID)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
