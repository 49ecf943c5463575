// Package leads delivers captured lead records to external sinks.
//
// This file implements the webhook sink that posts sheet rows to the
// spreadsheet bridge service.
package leads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/kkmjpaibot/AiChatBot/internal/models"
)

// DefaultTimeout bounds webhook delivery when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// sheetRowPayload is the wire format the spreadsheet bridge accepts:
// one ordered row of cell values plus the originating lead identity.
type sheetRowPayload struct {
	LeadID   string   `json:"lead_id"`
	Campaign string   `json:"campaign"`
	Row      []string `json:"row"`
}

// HTTPSink posts each lead's sheet row to a configured webhook.
type HTTPSink struct {
	url    string
	token  string
	client *http.Client
}

// NewHTTPSink creates a webhook sink from the given options. The
// webhook URL is required.
func NewHTTPSink(opts ...Option) (*HTTPSink, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.WebhookURL == "" {
		slog.Error("HTTPSink webhook URL not set")
		return nil, fmt.Errorf("lead webhook URL not set")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	slog.Debug("NewHTTPSink created", "url", cfg.WebhookURL, "token_set", cfg.Token != "", "timeout", timeout)
	return &HTTPSink{
		url:    cfg.WebhookURL,
		token:  cfg.Token,
		client: &http.Client{Timeout: timeout},
	}, nil
}

// Append posts the lead's sheet row to the webhook.
func (h *HTTPSink) Append(ctx context.Context, lead models.LeadRecord) error {
	payload := sheetRowPayload{
		LeadID:   lead.ID,
		Campaign: string(lead.Campaign),
		Row:      SheetRow(lead),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		slog.Error("HTTPSink.Append: marshal failed", "error", err, "leadID", lead.ID)
		return fmt.Errorf("failed to marshal lead %s: %w", lead.ID, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(body))
	if err != nil {
		slog.Error("HTTPSink.Append: request build failed", "error", err, "leadID", lead.ID)
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		slog.Error("HTTPSink.Append: webhook request failed", "error", err, "leadID", lead.ID)
		return fmt.Errorf("webhook request failed for lead %s: %w", lead.ID, err)
	}
	defer resp.Body.Close()
	// Drain so the connection can be reused.
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Error("HTTPSink.Append: webhook rejected lead", "status", resp.StatusCode, "leadID", lead.ID)
		return fmt.Errorf("webhook returned status %d for lead %s", resp.StatusCode, lead.ID)
	}
	slog.Info("HTTPSink.Append: lead delivered", "leadID", lead.ID, "campaign", lead.Campaign, "status", resp.StatusCode)
	return nil
}
