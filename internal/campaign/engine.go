// Package campaign implements the per-user conversational state machines
// for the insurance campaigns.
//
// Each campaign is a declarative Definition: a welcome function plus a map
// of step handlers over a shared transition engine. Handlers mutate the
// session they are given and return the outbound response; the engine owns
// global commands, welcome display, and unknown-step recovery.
package campaign

import (
	"log/slog"

	"github.com/kkmjpaibot/AiChatBot/internal/models"
)

// StepHandler processes one inbound message for a session positioned at
// the handler's step. It may mutate the session (advance the step, record
// collected fields) and must always return a response.
type StepHandler func(s *models.Session, msg models.Message) models.Response

// Definition describes one campaign's dialogue graph.
type Definition struct {
	ID          models.CampaignID
	Name        string
	Description string
	InitialStep models.StepID

	// Welcome produces the campaign's opening response for a session still
	// at InitialStep. It advances the session past the initial step; the
	// triggering message is not consumed.
	Welcome func(s *models.Session) models.Response

	Steps map[models.StepID]StepHandler
}

// Global commands recognized at any step. They reset the session before
// any step handler runs.
var globalCommands = map[string]bool{
	"main_menu": true,
	"restart":   true,
	"start":     true,
}

// Transition advances a session by one inbound message and returns the
// response to render. It is deterministic: same session state and message
// always produce the same response, and a validation failure never
// advances the step.
func Transition(def *Definition, s *models.Session, msg models.Message) models.Response {
	normalized := msg.Normalized()

	if globalCommands[normalized] {
		slog.Info("Campaign.Transition: global command reset", "campaign", def.ID, "userID", s.UserID, "command", normalized, "fromStep", s.CurrentStep)
		s.Reset(def.InitialStep)
		return models.Response{
			Type:     models.ResponseTypeReset,
			Content:  "Returning to main menu...",
			NextStep: def.InitialStep,
		}
	}

	// A session still at the initial step has not seen the welcome yet.
	// Show it without consuming the triggering message.
	if s.CurrentStep == "" || s.CurrentStep == def.InitialStep {
		resp := def.Welcome(s)
		slog.Info("Campaign.Transition: welcome shown", "campaign", def.ID, "userID", s.UserID, "nextStep", s.CurrentStep)
		return resp
	}

	handler, ok := def.Steps[s.CurrentStep]
	if !ok {
		slog.Warn("Campaign.Transition: unknown step, resetting", "campaign", def.ID, "userID", s.UserID, "step", s.CurrentStep)
		s.Reset(def.InitialStep)
		return def.Welcome(s)
	}

	fromStep := s.CurrentStep
	resp := handler(s, msg)
	resp.NextStep = s.CurrentStep
	if fromStep != s.CurrentStep {
		slog.Info("Campaign.Transition: step advanced", "campaign", def.ID, "userID", s.UserID, "from", fromStep, "to", s.CurrentStep)
	} else {
		slog.Debug("Campaign.Transition: step unchanged", "campaign", def.ID, "userID", s.UserID, "step", fromStep)
	}
	return resp
}
