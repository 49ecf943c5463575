// Package api provides HTTP handlers for AiChatBot endpoints.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/kkmjpaibot/AiChatBot/internal/campaign"
	"github.com/kkmjpaibot/AiChatBot/internal/models"
)

// messageRequest is the inbound payload for POST /api/v1/messages.
type messageRequest struct {
	Campaign models.CampaignID `json:"campaign"`
	User     string            `json:"user"`
	Message  models.Message    `json:"message"`
	Context  map[string]string `json:"context,omitempty"`
}

// resetRequest is the inbound payload for POST /api/v1/sessions/reset.
type resetRequest struct {
	Campaign models.CampaignID `json:"campaign"`
	User     string            `json:"user"`
}

// campaignInfo is the public metadata returned for each registered campaign.
type campaignInfo struct {
	ID          models.CampaignID `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
}

// isClientError reports whether a processing error is the caller's fault.
func isClientError(err error) bool {
	return errors.Is(err, models.ErrEmptyUserID) ||
		errors.Is(err, models.ErrEmptyCampaign) ||
		errors.Is(err, models.ErrUnknownCampaign) ||
		errors.Is(err, models.ErrMessageTooLong)
}

func (s *Server) messagesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	slog.Debug("Server.messagesHandler: processing message request", "method", r.Method, "path", r.URL.Path)
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		slog.Warn("Server.messagesHandler: method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.messagesHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	slog.Debug("Server.messagesHandler: parsed request", "campaign", req.Campaign, "user", req.User)

	resp, err := s.processor.ProcessMessage(r.Context(), req.Campaign, req.User, req.Message, req.Context)
	if err != nil {
		if isClientError(err) {
			slog.Warn("Server.messagesHandler: validation failed", "error", err, "campaign", req.Campaign, "user", req.User)
			writeJSONResponse(w, http.StatusBadRequest, models.Error(err.Error()))
			return
		}
		slog.Error("Server.messagesHandler: failed to process message", "error", err, "campaign", req.Campaign, "user", req.User)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to process message"))
		return
	}

	slog.Debug("Server.messagesHandler: message processed", "campaign", req.Campaign, "user", req.User, "nextStep", resp.NextStep)
	writeJSONResponse(w, http.StatusOK, models.Success(resp))
}

// campaignsHandler lists the registered campaigns (GET /api/v1/campaigns).
func (s *Server) campaignsHandler(w http.ResponseWriter, r *http.Request) {
	slog.Debug("Server.campaignsHandler: processing campaigns request", "method", r.Method, "path", r.URL.Path)
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		slog.Warn("Server.campaignsHandler: method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	defs := campaign.List()
	infos := make([]campaignInfo, 0, len(defs))
	for _, def := range defs {
		infos = append(infos, campaignInfo{ID: def.ID, Name: def.Name, Description: def.Description})
	}
	slog.Debug("Server.campaignsHandler: campaigns listed", "count", len(infos))
	writeJSONResponse(w, http.StatusOK, models.Success(infos))
}

// sessionsHandler returns a single session (GET /api/v1/sessions?user=&campaign=).
func (s *Server) sessionsHandler(w http.ResponseWriter, r *http.Request) {
	slog.Debug("Server.sessionsHandler: processing session request", "method", r.Method, "path", r.URL.Path)
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		slog.Warn("Server.sessionsHandler: method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	user := r.URL.Query().Get("user")
	campaignID := models.CampaignID(r.URL.Query().Get("campaign"))
	if user == "" || campaignID == "" {
		slog.Warn("Server.sessionsHandler: missing query parameters", "user", user, "campaign", campaignID)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Missing required query parameters: user, campaign"))
		return
	}
	sess, err := s.processor.Sessions().Get(user, campaignID)
	if err != nil {
		slog.Error("Server.sessionsHandler: failed to fetch session", "error", err, "user", user, "campaign", campaignID)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to fetch session"))
		return
	}
	if sess == nil {
		writeJSONResponse(w, http.StatusNotFound, models.Error("Session not found"))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(sess))
}

// resetSessionHandler clears a session (POST /api/v1/sessions/reset).
func (s *Server) resetSessionHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	slog.Debug("Server.resetSessionHandler: processing reset request", "method", r.Method, "path", r.URL.Path)
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		slog.Warn("Server.resetSessionHandler: method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.resetSessionHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	if req.User == "" || req.Campaign == "" {
		slog.Warn("Server.resetSessionHandler: missing fields", "user", req.User, "campaign", req.Campaign)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Missing required fields: user, campaign"))
		return
	}
	if err := s.processor.Sessions().Reset(req.User, req.Campaign); err != nil {
		slog.Error("Server.resetSessionHandler: failed to reset session", "error", err, "user", req.User, "campaign", req.Campaign)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to reset session"))
		return
	}
	slog.Info("Server.resetSessionHandler: session reset", "user", req.User, "campaign", req.Campaign)
	writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("Session reset successfully", nil))
}

// leadsHandler returns all collected leads (GET /api/v1/leads).
func (s *Server) leadsHandler(w http.ResponseWriter, r *http.Request) {
	slog.Debug("Server.leadsHandler: processing leads request", "method", r.Method, "path", r.URL.Path)
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		slog.Warn("Server.leadsHandler: method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	records, err := s.st.GetLeads()
	if err != nil {
		slog.Error("Server.leadsHandler: failed to fetch leads", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to fetch leads"))
		return
	}
	slog.Debug("Server.leadsHandler: leads fetched", "count", len(records))
	writeJSONResponse(w, http.StatusOK, models.Success(records))
}

// healthHandler provides a health check endpoint for monitoring and load balancing
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	healthData := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"campaigns": len(campaign.List()),
	}

	// The store is the only external dependency worth probing.
	if _, err := s.st.GetLeads(); err != nil {
		slog.Warn("Health check: store probe failed", "error", err)
		healthData["status"] = "degraded"
		healthData["error"] = "Failed to reach store"
	}

	statusCode := http.StatusOK
	if healthData["status"] == "degraded" {
		statusCode = http.StatusServiceUnavailable
	}

	writeJSONResponse(w, statusCode, healthData)
}
