package models

import (
	"encoding/json"
	"testing"
)

func TestMessageUnmarshalString(t *testing.T) {
	var m Message
	if err := json.Unmarshal([]byte(`"Hello There"`), &m); err != nil {
		t.Fatalf("unmarshal string: %v", err)
	}
	if m.Text != "Hello There" || m.Value != "" {
		t.Errorf("unexpected message: %+v", m)
	}
	if got := m.Normalized(); got != "hello there" {
		t.Errorf("Normalized() = %q", got)
	}
}

func TestMessageUnmarshalObject(t *testing.T) {
	var m Message
	if err := json.Unmarshal([]byte(`{"value":"yes_benefits","text":"Yes, tell me more"}`), &m); err != nil {
		t.Fatalf("unmarshal object: %v", err)
	}
	// Button value takes precedence over free text.
	if got := m.Content(); got != "yes_benefits" {
		t.Errorf("Content() = %q, want value preferred", got)
	}
}

func TestMessageContentFallsBackToText(t *testing.T) {
	m := Message{Text: "  42  "}
	if got := m.Normalized(); got != "42" {
		t.Errorf("Normalized() = %q", got)
	}
}

func TestResponseValidate(t *testing.T) {
	r := Response{Type: ResponseTypeButtons, Content: "pick one", Buttons: []Button{{Label: "", Value: "1"}}}
	if err := r.Validate(); err != ErrEmptyButtonLabel {
		t.Errorf("expected ErrEmptyButtonLabel, got %v", err)
	}
	r.Buttons[0].Label = "ok"
	if err := r.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSessionCollectedAccumulates(t *testing.T) {
	s := Session{UserID: "u1", Campaign: "legacy"}
	s.Set(FieldAge, "40")
	s.Set(FieldName, "Aisyah")
	if !s.Has(FieldAge) || s.Get(FieldName) != "Aisyah" {
		t.Errorf("collected fields not retained: %+v", s.Collected)
	}
	s.Reset("welcome")
	if s.Has(FieldAge) || s.CurrentStep != "welcome" {
		t.Errorf("reset did not clear state: %+v", s)
	}
}
