package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kkmjpaibot/AiChatBot/internal/campaign"
	"github.com/kkmjpaibot/AiChatBot/internal/leads"
	"github.com/kkmjpaibot/AiChatBot/internal/models"
	"github.com/kkmjpaibot/AiChatBot/internal/store"
)

func newTestServer(t *testing.T) (*Server, store.Store) {
	t.Helper()
	st := store.NewInMemoryStore()
	t.Cleanup(func() { st.Close() })
	processor := campaign.NewProcessor(st, leads.NewStoreSink(st))
	return NewServer(processor, st), st
}

func doRequest(t *testing.T, srv *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, target, reader)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)
	return rr
}

func TestMessagesHandlerReturnsWelcome(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := doRequest(t, srv, http.MethodPost, "/api/v1/messages",
		`{"campaign":"legacy","user":"api-user-1","message":"hi"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var env struct {
		Status string          `json:"status"`
		Result models.Response `json:"result"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if env.Status != string(models.APIStatusOK) {
		t.Errorf("expected ok status, got %q", env.Status)
	}
	if !strings.Contains(env.Result.Content, "Welcome to Tabung Warisan") {
		t.Errorf("expected welcome content, got %q", env.Result.Content)
	}
	if len(env.Result.Buttons) == 0 {
		t.Error("expected welcome buttons")
	}
}

func TestMessagesHandlerUnknownCampaign(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := doRequest(t, srv, http.MethodPost, "/api/v1/messages",
		`{"campaign":"pet_insurance","user":"api-user-1","message":"hi"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	var env models.APIResponse
	if err := json.NewDecoder(rr.Body).Decode(&env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if env.Status != string(models.APIStatusError) {
		t.Errorf("expected error status, got %q", env.Status)
	}
}

func TestMessagesHandlerInvalidJSON(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := doRequest(t, srv, http.MethodPost, "/api/v1/messages", `{not json`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestMessagesHandlerMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := doRequest(t, srv, http.MethodGet, "/api/v1/messages", "")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}
	if allow := rr.Header().Get("Allow"); allow != http.MethodPost {
		t.Errorf("expected Allow: POST, got %q", allow)
	}
}

func TestCampaignsHandlerListsRegistered(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := doRequest(t, srv, http.MethodGet, "/api/v1/campaigns", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var env struct {
		Status string         `json:"status"`
		Result []campaignInfo `json:"result"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(env.Result) != 3 {
		t.Fatalf("expected 3 campaigns, got %d", len(env.Result))
	}
	ids := []models.CampaignID{env.Result[0].ID, env.Result[1].ID, env.Result[2].ID}
	want := []models.CampaignID{campaign.CampaignCombo, campaign.CampaignLegacy, campaign.CampaignMedical}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("campaign %d: expected %q, got %q", i, want[i], ids[i])
		}
	}
	for _, info := range env.Result {
		if info.Name == "" {
			t.Errorf("campaign %q has no name", info.ID)
		}
	}
}

func TestSessionsHandlerLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := doRequest(t, srv, http.MethodGet, "/api/v1/sessions?user=api-user-2&campaign=legacy", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before any message, got %d", rr.Code)
	}

	doRequest(t, srv, http.MethodPost, "/api/v1/messages",
		`{"campaign":"legacy","user":"api-user-2","message":"hi"}`)

	rr = doRequest(t, srv, http.MethodGet, "/api/v1/sessions?user=api-user-2&campaign=legacy", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 after message, got %d", rr.Code)
	}
	var env struct {
		Status string         `json:"status"`
		Result models.Session `json:"result"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if env.Result.UserID != "api-user-2" {
		t.Errorf("expected user api-user-2, got %q", env.Result.UserID)
	}
	if env.Result.CurrentStep == "" {
		t.Error("expected a current step after welcome")
	}
}

func TestSessionsHandlerMissingParams(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := doRequest(t, srv, http.MethodGet, "/api/v1/sessions?user=api-user-3", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestResetSessionHandler(t *testing.T) {
	srv, _ := newTestServer(t)

	doRequest(t, srv, http.MethodPost, "/api/v1/messages",
		`{"campaign":"medical","user":"api-user-4","message":"hi"}`)

	rr := doRequest(t, srv, http.MethodPost, "/api/v1/sessions/reset",
		`{"campaign":"medical","user":"api-user-4"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = doRequest(t, srv, http.MethodGet, "/api/v1/sessions?user=api-user-4&campaign=medical", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after reset, got %d", rr.Code)
	}
}

func TestResetSessionHandlerMissingFields(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := doRequest(t, srv, http.MethodPost, "/api/v1/sessions/reset", `{"user":"api-user-5"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestLeadsHandlerReturnsRecords(t *testing.T) {
	srv, st := newTestServer(t)

	lead := models.LeadRecord{
		ID:           "lead-1",
		UserID:       "api-user-6",
		Campaign:     campaign.CampaignLegacy,
		Name:         "Aisyah",
		SelectedPlan: "tabung_warisan",
		Contact:      models.ContactRequested,
		CreatedAt:    time.Now(),
	}
	if err := st.AddLead(lead); err != nil {
		t.Fatalf("failed to seed lead: %v", err)
	}

	rr := doRequest(t, srv, http.MethodGet, "/api/v1/leads", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var env struct {
		Status string              `json:"status"`
		Result []models.LeadRecord `json:"result"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(env.Result) != 1 {
		t.Fatalf("expected 1 lead, got %d", len(env.Result))
	}
	if env.Result[0].Name != "Aisyah" {
		t.Errorf("expected lead name Aisyah, got %q", env.Result[0].Name)
	}
}

func TestWriteJSONResponseFallsBackOnMarshalFailure(t *testing.T) {
	rr := httptest.NewRecorder()
	// Channels have no JSON encoding, forcing the fallback path.
	writeJSONResponse(rr, http.StatusOK, map[string]interface{}{"ch": make(chan int)})

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 fallback, got %d", rr.Code)
	}
	var env models.APIResponse
	if err := json.NewDecoder(rr.Body).Decode(&env); err != nil {
		t.Fatalf("fallback body is not valid JSON: %v", err)
	}
	if env.Status != string(models.APIStatusError) {
		t.Errorf("expected error status in fallback, got %q", env.Status)
	}
}

func TestProcessorOptionsFollowLeadTimeout(t *testing.T) {
	if opts := processorOptions(leads.Opts{}); len(opts) != 0 {
		t.Errorf("expected no processor options without a timeout, got %d", len(opts))
	}
	if opts := processorOptions(leads.Opts{Timeout: 2 * time.Second}); len(opts) != 1 {
		t.Errorf("expected the lead timeout to map to a processor option, got %d", len(opts))
	}
}

func TestHealthHandler(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := doRequest(t, srv, http.MethodGet, "/health", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var health map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&health); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if health["status"] != "healthy" {
		t.Errorf("expected healthy status, got %v", health["status"])
	}
}
