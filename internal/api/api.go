// Package api provides HTTP handlers and the main API server logic for AiChatBot.
//
// It exposes RESTful endpoints for processing campaign messages, inspecting
// sessions, and retrieving collected leads. The API integrates with the
// campaign, store, and leads modules.
package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/kkmjpaibot/AiChatBot/internal/campaign"
	"github.com/kkmjpaibot/AiChatBot/internal/leads"
	"github.com/kkmjpaibot/AiChatBot/internal/store"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = ":8080"

// Opts holds configuration options for the API server.
type Opts struct {
	Addr string
}

// Option defines a configuration option for API server construction.
type Option func(*Opts)

// WithAddr overrides the default listen address.
func WithAddr(addr string) Option {
	return func(o *Opts) {
		o.Addr = addr
	}
}

// Server bundles the campaign processor and store behind the HTTP handlers.
type Server struct {
	processor *campaign.Processor
	st        store.Store
	addr      string
}

// NewServer creates an API server over an already-constructed processor and
// store.
func NewServer(processor *campaign.Processor, st store.Store, opts ...Option) *Server {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	return &Server{processor: processor, st: st, addr: cfg.Addr}
}

// Handler returns the routed HTTP handler for the API surface.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/messages", s.messagesHandler)
	mux.HandleFunc("/api/v1/campaigns", s.campaignsHandler)
	mux.HandleFunc("/api/v1/sessions", s.sessionsHandler)
	mux.HandleFunc("/api/v1/sessions/reset", s.resetSessionHandler)
	mux.HandleFunc("/api/v1/leads", s.leadsHandler)
	mux.HandleFunc("/health", s.healthHandler)
	return mux
}

// Serve blocks listening on the configured address until the listener fails.
func (s *Server) Serve() error {
	slog.Info("Server.Serve: AiChatBot API running", "addr", s.addr)
	return http.ListenAndServe(s.addr, s.Handler())
}

// Run assembles the full service from options: it selects a store backend
// from the DSN, builds the lead sink chain, wires the campaign processor,
// and serves the API. It blocks until the HTTP listener fails.
func Run(storeOpts []store.Option, leadOpts []leads.Option, apiOpts []Option) error {
	st, err := buildStore(storeOpts)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer st.Close()

	var leadCfg leads.Opts
	for _, opt := range leadOpts {
		opt(&leadCfg)
	}

	sink, err := buildSink(st, leadCfg, leadOpts)
	if err != nil {
		return fmt.Errorf("failed to initialize lead sink: %w", err)
	}

	processor := campaign.NewProcessor(st, sink, processorOptions(leadCfg)...)
	srv := NewServer(processor, st, apiOpts...)
	return srv.Serve()
}

// buildStore picks a backend from the configured DSN: empty means in-memory,
// otherwise DetectDSNType chooses between Postgres and SQLite.
func buildStore(storeOpts []store.Option) (store.Store, error) {
	var cfg store.Opts
	for _, opt := range storeOpts {
		opt(&cfg)
	}
	switch {
	case cfg.DSN == "":
		slog.Debug("api.buildStore: using in-memory store")
		return store.NewInMemoryStore(storeOpts...), nil
	case store.DetectDSNType(cfg.DSN) == "postgres":
		slog.Debug("api.buildStore: using Postgres store")
		return store.NewPostgresStore(storeOpts...)
	default:
		slog.Debug("api.buildStore: using SQLite store")
		return store.NewSQLiteStore(storeOpts...)
	}
}

// processorOptions maps lead delivery settings onto processor options, so
// a configured delivery timeout also bounds the processor's append.
func processorOptions(cfg leads.Opts) []campaign.Option {
	var opts []campaign.Option
	if cfg.Timeout > 0 {
		opts = append(opts, campaign.WithLeadTimeout(cfg.Timeout))
	}
	return opts
}

// buildSink always persists leads to the store; when a webhook URL is
// configured, deliveries fan out to the HTTP sink as well.
func buildSink(st store.Store, cfg leads.Opts, leadOpts []leads.Option) (leads.Sink, error) {
	storeSink := leads.NewStoreSink(st)
	if cfg.WebhookURL == "" {
		return storeSink, nil
	}
	httpSink, err := leads.NewHTTPSink(leadOpts...)
	if err != nil {
		return nil, err
	}
	slog.Debug("api.buildSink: lead webhook enabled", "url", cfg.WebhookURL)
	return leads.NewFanout(storeSink, httpSink), nil
}
