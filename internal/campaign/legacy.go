package campaign

import (
	"fmt"

	"github.com/kkmjpaibot/AiChatBot/internal/models"
	"github.com/kkmjpaibot/AiChatBot/internal/premium"
)

// CampaignLegacy is the legacy-planning campaign identifier.
const CampaignLegacy models.CampaignID = "legacy"

const legacyPlanCode = "tabung_warisan"

// Legacy campaign steps.
const (
	stepLegacyWelcome       models.StepID = "welcome"
	stepLegacyWelcomeReply  models.StepID = "handle_welcome_response"
	stepLegacyBenefitsReply models.StepID = "handle_benefits_response"
	stepLegacyAmount        models.StepID = "get_legacy_amount"
	stepLegacyCustomAmount  models.StepID = "get_custom_legacy_amount"
	stepLegacyAge           models.StepID = "get_age"
	stepLegacyContact       models.StepID = "offer_agent_contact"
	stepLegacyDone          models.StepID = "main_menu"
)

const legacyWelcomeText = "🌟 *Welcome to Tabung Warisan!* 🌟\n\n" +
	"Protect your family's future with our legacy planning solution. " +
	"With Tabung Warisan, you can ensure your loved ones are taken care of " +
	"with guaranteed financial protection and wealth accumulation options."

const legacyBenefitsText = "*LIFETIME PROTECTION*\n" +
	"Your legacy is protected for life.\n" +
	"• Guaranteed payout to your beneficiaries\n" +
	"• Coverage that lasts your entire lifetime\n" +
	"• Financial security for your loved ones\n\n" +
	"*WEALTH ACCUMULATION*\n" +
	"Grow your wealth over time.\n" +
	"• Cash value that grows tax-deferred\n" +
	"• Potential for long-term growth\n" +
	"• Flexible premium payment options\n\n" +
	"*PEACE OF MIND*\n" +
	"Know your family is taken care of.\n" +
	"• Financial protection for your loved ones\n" +
	"• No medical check-up required\n" +
	"• Guaranteed acceptance\n"

const legacyIneligibleText = "Sorry, Tabung Warisan is only available for users aged 18 and above.\n" +
	"Please return to the main menu."

func legacyAmountButtons() []models.Button {
	return []models.Button{
		{Label: "RM 500,000", Value: "500000"},
		{Label: "RM 1,000,000", Value: "1000000"},
		{Label: "RM 1,500,000", Value: "1500000"},
		{Label: "RM 2,000,000", Value: "2000000"},
		{Label: "Other Amount", Value: "other_amount"},
	}
}

func newLegacyDefinition() *Definition {
	return &Definition{
		ID:          CampaignLegacy,
		Name:        "Tabung Warisan",
		Description: "Legacy planning to secure your family's future",
		InitialStep: stepLegacyWelcome,
		Welcome:     legacyWelcome,
		Steps: map[models.StepID]StepHandler{
			stepLegacyWelcomeReply:  legacyHandleWelcomeReply,
			stepLegacyBenefitsReply: legacyHandleBenefitsReply,
			stepLegacyAmount:        legacyHandleAmount,
			stepLegacyCustomAmount:  legacyHandleCustomAmount,
			stepLegacyAge:           legacyHandleAge,
			stepLegacyContact:       legacyHandleContact,
			stepLegacyDone:          legacyHandleDone,
		},
	}
}

func legacyWelcome(s *models.Session) models.Response {
	s.CurrentStep = stepLegacyWelcomeReply
	return models.Response{
		Type:    models.ResponseTypeMessage,
		Content: legacyWelcomeText + "\n\nWould you like to learn more about the benefits?",
		Buttons: []models.Button{
			{Label: "✅ Yes, tell me more", Value: "yes_benefits"},
			{Label: "❌ Not now, thanks", Value: "no_thanks"},
		},
		NextStep: stepLegacyWelcomeReply,
	}
}

func legacyBenefitsResponse(s *models.Session) models.Response {
	s.CurrentStep = stepLegacyBenefitsReply
	return models.Response{
		Type:    models.ResponseTypeButtons,
		Content: legacyBenefitsText + "\nWould you like to see how much coverage you can get?",
		Buttons: []models.Button{
			{Label: "✅ Yes, show me", Value: "yes_coverage"},
			{Label: "❌ Maybe later", Value: "no_thanks"},
		},
	}
}

func legacyHandleWelcomeReply(s *models.Session, msg models.Message) models.Response {
	n := msg.Normalized()
	switch {
	case matchesAny(n, "yes_benefits", "yes, tell me more") || isAffirmative(n):
		return legacyBenefitsResponse(s)
	case isNegative(n):
		return models.Response{
			Type:    models.ResponseTypeButtons,
			Content: "No problem! If you wish to return to the main menu and restart the bot, click below.",
			Buttons: mainMenuButtons(),
		}
	default:
		resp := legacyWelcome(s)
		resp.Type = models.ResponseTypeButtons
		return resp
	}
}

func legacyHandleBenefitsReply(s *models.Session, msg models.Message) models.Response {
	n := msg.Normalized()
	switch {
	case matchesAny(n, "yes_coverage", "yes, show me") || isAffirmative(n):
		if age, ok := parseAge(s.Get(models.FieldAge)); ok && age < premium.LegacyMinAge {
			return legacyIneligible(s)
		}
		s.CurrentStep = stepLegacyAmount
		return models.Response{
			Type: models.ResponseTypeButtons,
			Content: "Great! To calculate your coverage, I'll need a few details.\n\n" +
				"How much would you like to leave as a legacy for your loved ones?",
			Buttons: legacyAmountButtons(),
		}
	case isNegative(n):
		return models.Response{
			Type:    models.ResponseTypeButtons,
			Content: "Thank you for your interest in Tabung Warisan! If you wish to return to the main menu, click below.",
			Buttons: mainMenuButtons(),
		}
	default:
		return legacyBenefitsResponse(s)
	}
}

func legacyHandleAmount(s *models.Session, msg models.Message) models.Response {
	n := msg.Normalized()
	if matchesAny(n, "other", "other amount", "other_amount") {
		s.CurrentStep = stepLegacyCustomAmount
		return models.Response{
			Type:    models.ResponseTypeMessage,
			Content: "Please enter your desired legacy amount (minimum RM 1,000):",
		}
	}

	amount, ok := parseAmount(msg.Content())
	if !ok {
		return models.Response{
			Type:    models.ResponseTypeButtons,
			Content: "Please select a valid legacy amount:",
			Buttons: legacyAmountButtons(),
		}
	}
	if amount < premium.LegacyMinAmount {
		return models.Response{
			Type:    models.ResponseTypeButtons,
			Content: "The minimum legacy amount is RM 1,000. Please select an amount:",
			Buttons: legacyAmountButtons(),
		}
	}
	return legacyAcceptAmount(s, amount)
}

func legacyHandleCustomAmount(s *models.Session, msg models.Message) models.Response {
	amount, ok := parseAmount(msg.Content())
	if !ok {
		return models.Response{
			Type:    models.ResponseTypeMessage,
			Content: "Please enter a valid amount (e.g., 100000 or 100,000):",
		}
	}
	if amount < premium.LegacyMinAmount {
		return models.Response{
			Type:    models.ResponseTypeMessage,
			Content: "The minimum legacy amount is RM 1,000. Please enter a higher amount:",
		}
	}
	return legacyAcceptAmount(s, amount)
}

// legacyAcceptAmount records the chosen amount and either quotes
// immediately (age already known) or asks for the user's age.
func legacyAcceptAmount(s *models.Session, amount float64) models.Response {
	s.Set(models.FieldLegacyAmount, fmt.Sprintf("%.0f", amount))

	if age, ok := parseAge(s.Get(models.FieldAge)); ok {
		if age < premium.LegacyMinAge {
			return legacyIneligible(s)
		}
		if age > premium.LegacyMaxAge {
			s.CurrentStep = stepLegacyAge
			return models.Response{
				Type:    models.ResponseTypeMessage,
				Content: "Please enter a valid age between 18 and 70.",
			}
		}
		return legacyQuote(s, age, amount)
	}

	s.CurrentStep = stepLegacyAge
	return models.Response{
		Type: models.ResponseTypeMessage,
		Content: fmt.Sprintf("Great! You want to leave %s as a legacy.\n\n"+
			"Now, may I know your current age? (18-70 years)", formatCurrency(amount)),
	}
}

func legacyHandleAge(s *models.Session, msg models.Message) models.Response {
	age, ok := parseAge(msg.Content())
	if !ok {
		return models.Response{
			Type:    models.ResponseTypeMessage,
			Content: "Please enter a valid age between 18 and 70.",
		}
	}
	if age < premium.LegacyMinAge {
		return legacyIneligible(s)
	}
	if age > premium.LegacyMaxAge {
		return models.Response{
			Type:    models.ResponseTypeMessage,
			Content: "Please enter a valid age between 18 and 70.",
		}
	}

	s.Set(models.FieldAge, fmt.Sprintf("%d", age))
	amount, _ := parseAmount(s.Get(models.FieldLegacyAmount))
	return legacyQuote(s, age, amount)
}

func legacyQuote(s *models.Session, age int, amount float64) models.Response {
	res := premium.Legacy(age, amount)
	if !res.Eligible {
		return legacyIneligible(s)
	}
	recordPremium(s, res.Annual, res.Monthly)
	s.CurrentStep = stepLegacyContact
	return models.Response{
		Type: models.ResponseTypeButtons,
		Content: fmt.Sprintf("Great! I see you are %d years old and want to leave %s as a legacy.\n\n"+
			"Your estimated premium would be:\n"+
			"- Annual: *%s*\n"+
			"- Monthly: *%s*\n\n"+
			"Would you like an agent to contact you to further discuss the plan?",
			age, formatCurrency(amount), formatCurrency(res.Annual), formatCurrency(res.Monthly)),
		Buttons: agentContactButtons(),
	}
}

// legacyIneligible ends the flow for under-age users and records an
// ineligible lead. No premium is ever produced on this branch.
func legacyIneligible(s *models.Session) models.Response {
	s.CurrentStep = stepLegacyDone
	return models.Response{
		Type:    models.ResponseTypeButtons,
		Content: legacyIneligibleText,
		Buttons: mainMenuButtons(),
		Lead:    buildLead(s, legacyPlanCode, models.ContactIneligible),
	}
}

func legacyHandleContact(s *models.Session, msg models.Message) models.Response {
	n := msg.Normalized()
	switch {
	case matchesAny(n, "contact_agent", "contact me") || isAffirmative(n):
		s.CurrentStep = stepLegacyDone
		return models.Response{
			Type:    models.ResponseTypeButtons,
			Content: "Thank you for your interest in Tabung Warisan! If you wish to return to the main menu, click below.",
			Buttons: mainMenuButtons(),
			Lead:    buildLead(s, legacyPlanCode, models.ContactRequested),
		}
	case matchesAny(n, "no_contact") || isNegative(n):
		s.CurrentStep = stepLegacyDone
		return models.Response{
			Type:    models.ResponseTypeButtons,
			Content: "Thank you for your interest! You may return to the main menu below.",
			Buttons: mainMenuButtons(),
			Lead:    buildLead(s, legacyPlanCode, models.ContactDeclined),
		}
	default:
		return models.Response{
			Type:    models.ResponseTypeButtons,
			Content: "Would you like an agent to contact you to further discuss the plan?",
			Buttons: agentContactButtons(),
		}
	}
}

func legacyHandleDone(s *models.Session, msg models.Message) models.Response {
	return models.Response{
		Type:    models.ResponseTypeButtons,
		Content: "Thank you for your interest! You may return to the main menu below.",
		Buttons: mainMenuButtons(),
	}
}
