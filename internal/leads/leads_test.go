package leads

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kkmjpaibot/AiChatBot/internal/models"
	"github.com/kkmjpaibot/AiChatBot/internal/store"
)

func sampleLead() models.LeadRecord {
	return models.LeadRecord{
		ID:             "lead-1",
		UserID:         "user-1",
		Campaign:       "legacy",
		Name:           "Aisha",
		Email:          "aisha@example.com",
		LifeStage:      "starting_family",
		SelectedPlan:   "tabung_warisan",
		LegacyAmount:   "RM 1,000,000.00",
		AnnualPremium:  9000,
		MonthlyPremium: 750,
		Contact:        models.ContactRequested,
	}
}

func TestSheetRowLayout(t *testing.T) {
	row := SheetRow(sampleLead())
	if len(row) != SheetColumns {
		t.Fatalf("expected %d columns, got %d", SheetColumns, len(row))
	}
	if row[0] != "Aisha" || row[2] != "aisha@example.com" {
		t.Errorf("profile columns wrong: %v", row[:3])
	}
	if row[4] != "Starting Family" {
		t.Errorf("life stage not mapped to display label: %q", row[4])
	}
	if row[8] != "Tabung Warisan" {
		t.Errorf("plan code not mapped to display label: %q", row[8])
	}
	if row[11] != "RM 1,000,000.00" {
		t.Errorf("legacy amount in wrong column: %v", row)
	}
	if row[16] != string(models.ContactRequested) {
		t.Errorf("contact status in wrong column: %q", row[16])
	}
	// Columns with no campaign value stay blank.
	for _, i := range []int{9, 10, 12, 13, 14, 15} {
		if row[i] != "" {
			t.Errorf("expected column %d blank, got %q", i, row[i])
		}
	}
}

func TestSheetRowCoverageAndTier(t *testing.T) {
	med := models.LeadRecord{Campaign: "medical", CoverageLevel: "3", Contact: models.ContactDeclined}
	row := SheetRow(med)
	if row[14] != "Comprehensive" {
		t.Errorf("coverage level not mapped: %q", row[14])
	}

	combo := models.LeadRecord{Campaign: "combo", PackageTier: "Gold", Contact: models.ContactRequested}
	row = SheetRow(combo)
	if row[15] != "Gold" {
		t.Errorf("package tier passed through wrong: %q", row[15])
	}
}

func TestMapCellTolerantMatching(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Starting Family", "Starting Family"},
		{"starting-family", "Starting Family"},
		{"TABUNG_WARISAN", "Tabung Warisan"},
		{"  unmapped value  ", "unmapped value"},
		{"1", "Basic"},
	}
	for _, c := range cases {
		if got := mapCell(c.in); got != c.want {
			t.Errorf("mapCell(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestHTTPSinkDeliversRow(t *testing.T) {
	var got sheetRowPayload
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("failed to decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sink, err := NewHTTPSink(WithWebhookURL(srv.URL), WithToken("secret"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := sink.Append(context.Background(), sampleLead()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if auth != "Bearer secret" {
		t.Errorf("expected bearer token, got %q", auth)
	}
	if got.LeadID != "lead-1" || len(got.Row) != SheetColumns {
		t.Errorf("payload wrong: %+v", got)
	}
}

func TestHTTPSinkRejectsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	sink, err := NewHTTPSink(WithWebhookURL(srv.URL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := sink.Append(context.Background(), sampleLead()); err == nil {
		t.Error("expected error for non-2xx response")
	}
}

func TestHTTPSinkRequiresURL(t *testing.T) {
	if _, err := NewHTTPSink(); err == nil {
		t.Error("expected error when webhook URL missing")
	}
}

func TestStoreSinkPersists(t *testing.T) {
	st := store.NewInMemoryStore()
	defer st.Close()

	sink := NewStoreSink(st)
	if err := sink.Append(context.Background(), sampleLead()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	leads, err := st.GetLeads()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(leads) != 1 || leads[0].ID != "lead-1" {
		t.Error("lead not persisted through store sink")
	}
}

type failingSink struct{}

func (failingSink) Append(context.Context, models.LeadRecord) error {
	return errors.New("sink down")
}

func TestFanoutAttemptsAllSinks(t *testing.T) {
	mem := NewMemorySink()
	fan := NewFanout(failingSink{}, mem)

	err := fan.Append(context.Background(), sampleLead())
	if err == nil {
		t.Error("expected first sink error to surface")
	}
	if len(mem.Leads()) != 1 {
		t.Error("second sink not attempted after first failed")
	}
}
