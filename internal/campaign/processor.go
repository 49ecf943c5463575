package campaign

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/kkmjpaibot/AiChatBot/internal/leads"
	"github.com/kkmjpaibot/AiChatBot/internal/models"
	"github.com/kkmjpaibot/AiChatBot/internal/store"
)

// DefaultLeadTimeout bounds the lead append performed after a terminal
// transition.
const DefaultLeadTimeout = 5 * time.Second

// Context keys the processor accepts from the orchestrating
// conversation. Unrecognized keys are dropped.
var recognizedContextKeys = map[string]bool{
	models.FieldName:             true,
	models.FieldDOB:              true,
	models.FieldEmail:            true,
	models.FieldAge:              true,
	models.FieldPrimaryConcern:   true,
	models.FieldLifeStage:        true,
	models.FieldDependents:       true,
	models.FieldExistingCoverage: true,
	models.FieldPremiumBudget:    true,
}

// Opts holds configuration for the processor.
type Opts struct {
	LeadTimeout time.Duration
}

// Option configures the processor.
type Option func(*Opts)

// WithLeadTimeout overrides the bound on lead sink appends.
func WithLeadTimeout(d time.Duration) Option {
	return func(o *Opts) { o.LeadTimeout = d }
}

// Processor is the single entry point the transport layer calls. It owns
// session loading and persistence, per-user serialization, external
// context merging, the panic boundary, and the one lead append per
// terminal transition.
type Processor struct {
	sessions    *SessionManager
	sink        leads.Sink
	leadTimeout time.Duration
}

// NewProcessor creates a processor over the given store and lead sink.
func NewProcessor(st store.Store, sink leads.Sink, opts ...Option) *Processor {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.LeadTimeout <= 0 {
		cfg.LeadTimeout = DefaultLeadTimeout
	}
	slog.Debug("Creating Processor", "leadTimeout", cfg.LeadTimeout)
	return &Processor{
		sessions:    NewSessionManager(st),
		sink:        sink,
		leadTimeout: cfg.LeadTimeout,
	}
}

// Sessions exposes the session manager for the API layer's session
// inspection and reset endpoints.
func (p *Processor) Sessions() *SessionManager {
	return p.sessions
}

// ProcessMessage advances one user's campaign session by one message.
//
// The returned error covers input preconditions only (empty user,
// unknown campaign); once a flow runs, no fault escapes. Validation
// failures re-prompt, sink failures are logged, and panics inside a
// handler reset the session and produce a generic apology.
func (p *Processor) ProcessMessage(ctx context.Context, campaignID models.CampaignID, userID string, msg models.Message, ext map[string]string) (resp models.Response, err error) {
	if userID == "" {
		return models.Response{}, models.ErrEmptyUserID
	}
	if campaignID == "" {
		return models.Response{}, models.ErrEmptyCampaign
	}
	def, ok := Get(campaignID)
	if !ok {
		slog.Warn("Processor.ProcessMessage: unknown campaign", "campaign", campaignID, "userID", userID)
		return models.Response{}, models.ErrUnknownCampaign
	}
	if verr := msg.Validate(); verr != nil {
		return models.Response{}, verr
	}

	unlock := p.sessions.Lock(userID, campaignID)
	defer unlock()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("Processor.ProcessMessage: recovered panic", "panic", r, "campaign", campaignID, "userID", userID)
			if rerr := p.sessions.Reset(userID, campaignID); rerr != nil {
				slog.Error("Processor.ProcessMessage: reset after panic failed", "error", rerr, "userID", userID)
			}
			resp = models.Response{
				Type:     models.ResponseTypeMessage,
				Content:  "I'm sorry, something went wrong. Let's start over.",
				NextStep: def.InitialStep,
			}
			err = nil
		}
	}()

	sess, err := p.sessions.GetOrCreate(userID, campaignID, def.InitialStep)
	if err != nil {
		// Storage trouble must not break the conversation; run the turn
		// on a fresh throwaway session.
		slog.Error("Processor.ProcessMessage: continuing with fresh session", "error", err, "userID", userID)
		sess = models.NewSession(userID, campaignID, def.InitialStep)
		err = nil
	}

	mergeContext(sess, ext)

	resp = Transition(def, sess, msg)

	if serr := p.sessions.Save(sess); serr != nil {
		slog.Error("Processor.ProcessMessage: session save failed", "error", serr, "userID", userID, "campaign", campaignID)
	}

	if resp.Lead != nil {
		p.appendLead(ctx, resp.Lead)
	}
	return resp, nil
}

// mergeContext copies recognized profile keys from the orchestrating
// conversation into the session. An unparseable age is dropped so an
// already-collected value survives.
func mergeContext(s *models.Session, ext map[string]string) {
	for key, value := range ext {
		if !recognizedContextKeys[key] || value == "" {
			continue
		}
		if key == models.FieldAge {
			if _, err := strconv.Atoi(value); err != nil {
				slog.Warn("Processor.mergeContext: dropping unparseable age", "userID", s.UserID, "value", value)
				continue
			}
		}
		s.Set(key, value)
	}
}

// appendLead stamps identity onto a terminal-transition lead and hands
// it to the sink, best effort. A sink failure never alters the response
// the user already earned.
func (p *Processor) appendLead(ctx context.Context, lead *models.LeadRecord) {
	lead.ID = uuid.NewString()
	lead.CreatedAt = time.Now()

	appendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.leadTimeout)
	defer cancel()

	if err := p.sink.Append(appendCtx, *lead); err != nil {
		slog.Error("Processor.appendLead: lead sink append failed", "error", err, "leadID", lead.ID, "campaign", lead.Campaign)
		return
	}
	slog.Info("Processor.appendLead: lead recorded", "leadID", lead.ID, "campaign", lead.Campaign, "contact", lead.Contact)
}
