// Package models defines the core data structures for the campaign chat bot.
//
// It includes inbound message payloads, outbound responses, sessions, and
// lead records, which are shared across modules.
package models

import (
	"encoding/json"
	"errors"
	"strings"
)

// CampaignID identifies a registered campaign.
type CampaignID string

// StepID identifies a point in a campaign's dialogue graph.
type StepID string

// ResponseType defines how the transport should render a response.
type ResponseType string

const (
	// ResponseTypeMessage renders plain text.
	ResponseTypeMessage ResponseType = "message"
	// ResponseTypeButtons renders text with selectable options.
	ResponseTypeButtons ResponseType = "buttons"
	// ResponseTypeReset instructs the transport to return to the main menu.
	ResponseTypeReset ResponseType = "reset_to_main"
)

// Validation constants for inbound payloads.
const (
	// MaxMessageLength defines the maximum accepted inbound message length.
	MaxMessageLength = 4096
	// MaxButtonLabelLength defines the maximum allowed length for button labels.
	MaxButtonLabelLength = 100
)

// Error variables for better error handling and testability.
var (
	ErrEmptyUserID      = errors.New("user id cannot be empty")
	ErrEmptyCampaign    = errors.New("campaign cannot be empty")
	ErrUnknownCampaign  = errors.New("unknown campaign")
	ErrMessageTooLong   = errors.New("message exceeds maximum length")
	ErrEmptyButtonLabel = errors.New("button label cannot be empty")
	ErrButtonLabelLong  = errors.New("button label exceeds maximum length")
)

// Button represents a selectable option rendered by the transport. Value is
// the literal string resubmitted as the next inbound message on selection.
type Button struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Message is an inbound user payload. The transport may deliver either a
// plain JSON string or a structured object carrying a button value and/or
// free text; both decode into this type.
type Message struct {
	Value string `json:"value,omitempty"`
	Text  string `json:"text,omitempty"`
}

// UnmarshalJSON accepts either a bare JSON string or a {value, text} object.
func (m *Message) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		m.Value = ""
		m.Text = s
		return nil
	}
	type alias Message
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*m = Message(a)
	return nil
}

// Content returns the effective payload, preferring a structured button
// value over free text.
func (m Message) Content() string {
	if m.Value != "" {
		return m.Value
	}
	return m.Text
}

// Normalized returns the payload lowercased and trimmed for matching.
func (m Message) Normalized() string {
	return strings.ToLower(strings.TrimSpace(m.Content()))
}

// Validate performs basic validation on an inbound message.
func (m Message) Validate() error {
	if len(m.Value) > MaxMessageLength || len(m.Text) > MaxMessageLength {
		return ErrMessageTooLong
	}
	return nil
}

// Response is the immutable value returned to the transport layer for one
// processed message. It is never mutated after construction.
type Response struct {
	Type         ResponseType      `json:"type"`
	Content      string            `json:"content"`
	Buttons      []Button          `json:"buttons,omitempty"`
	NextStep     StepID            `json:"next_step,omitempty"`
	CampaignData map[string]string `json:"campaign_data,omitempty"`

	// Lead, when set, is the terminal-transition snapshot the façade hands
	// to the lead sink. Internal only; never serialized to the transport.
	Lead *LeadRecord `json:"-"`
}

// Validate checks structural invariants of an outbound response.
func (r Response) Validate() error {
	for _, b := range r.Buttons {
		if b.Label == "" {
			return ErrEmptyButtonLabel
		}
		if len(b.Label) > MaxButtonLabelLength {
			return ErrButtonLabelLong
		}
	}
	return nil
}

// APIStatus represents the status of an API response.
type APIStatus string

const (
	// APIStatusOK indicates an API request completed successfully.
	APIStatusOK APIStatus = "ok"
	// APIStatusError indicates an API request failed with an error.
	APIStatusError APIStatus = "error"
)

// APIResponse represents a standard API envelope with a status and optional
// message and result data.
type APIResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Result  interface{} `json:"result,omitempty"`
}

// Success creates a successful API response with optional result data.
func Success(result interface{}) APIResponse {
	return APIResponse{Status: string(APIStatusOK), Result: result}
}

// SuccessWithMessage creates a successful API response with a message.
func SuccessWithMessage(message string, result interface{}) APIResponse {
	return APIResponse{Status: string(APIStatusOK), Message: message, Result: result}
}

// Error creates an error API response with a message.
func Error(message string) APIResponse {
	return APIResponse{Status: string(APIStatusError), Message: message}
}
