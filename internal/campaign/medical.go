package campaign

import (
	"fmt"

	"github.com/kkmjpaibot/AiChatBot/internal/models"
	"github.com/kkmjpaibot/AiChatBot/internal/premium"
)

// CampaignMedical is the medical-fund campaign identifier.
const CampaignMedical models.CampaignID = "medical"

const medicalPlanCode = "tabung_perubatan"

// Medical campaign steps.
const (
	stepMedicalWelcome       models.StepID = "welcome"
	stepMedicalInterest      models.StepID = "check_interest_response"
	stepMedicalEstimateReply models.StepID = "handle_estimation_response"
	stepMedicalAge           models.StepID = "collect_age"
	stepMedicalCoverage      models.StepID = "get_coverage_level"
	stepMedicalContact       models.StepID = "offer_agent_contact"
	stepMedicalDone          models.StepID = "end_conversation"
)

const medicalWelcomeText = "🏥 *Welcome to Tabung Perubatan!* 🏥\n\n" +
	"Let's talk about something important: your health and your savings.\n\n" +
	"A single hospital stay can cost tens of thousands of Ringgit. " +
	"This plan is a 'Medical Fund' that protects your life savings from " +
	"being wiped out by unexpected medical bills."

const medicalPlanExplanation = "🌟 *What is Tabung Perubatan?*\n\n" +
	"It's your personal financial safety net for healthcare. Think of it as a " +
	"\"Medical Card\" that gives you:\n\n" +
	"• **Cashless Hospital Admission:** Walk into any of our panel hospitals, focus on getting better. " +
	"We settle the bill directly. No large upfront payments.\n" +
	"• **High Annual Limit:** Coverage from RM 180,000 to over RM 1,000,000 per year " +
	"for surgeries, ICU, room & board, and medication.\n" +
	"• **Protection for Your Savings:** Shields your family's finances from the shock " +
	"of a major medical event. Your savings remain for your dreams, not hospital bills."

const medicalIneligibleText = "Sorry, Tabung Perubatan is only available for users aged 18 and above.\n" +
	"You cannot continue with this campaign."

const medicalDeclineText = "Understood. If you have any questions about medical coverage in the future, feel free to ask. Stay healthy!"

const medicalSeniorNote = "\n\n⚠️ **Note for Senior Applicants:**\n" +
	"Medical insurance for seniors may have certain conditions. " +
	"Our advisor will explain all details and available options."

func medicalCoverageButtons() []models.Button {
	return []models.Button{
		{Label: "🏥 Basic (RM180k/year)", Value: "1"},
		{Label: "🏥🏥🏥 Comprehensive (RM1M+/year)", Value: "3"},
	}
}

func newMedicalDefinition() *Definition {
	return &Definition{
		ID:          CampaignMedical,
		Name:        "Tabung Perubatan",
		Description: "Comprehensive medical coverage with cashless hospital admissions and extensive benefits",
		InitialStep: stepMedicalWelcome,
		Welcome:     medicalWelcome,
		Steps: map[models.StepID]StepHandler{
			stepMedicalInterest:      medicalHandleInterest,
			stepMedicalEstimateReply: medicalHandleEstimateReply,
			stepMedicalAge:           medicalHandleAge,
			stepMedicalCoverage:      medicalHandleCoverage,
			stepMedicalContact:       medicalHandleContact,
			stepMedicalDone:          medicalHandleDone,
		},
	}
}

func medicalWelcome(s *models.Session) models.Response {
	s.CurrentStep = stepMedicalInterest
	return models.Response{
		Type:    models.ResponseTypeMessage,
		Content: medicalWelcomeText + "\n\nWould you like to know more about this medical coverage plan?",
		Buttons: []models.Button{
			{Label: "✅ Yes, tell me more", Value: "yes"},
			{Label: "❌ Not now, thanks", Value: "no"},
		},
		NextStep: stepMedicalInterest,
	}
}

func medicalEstimateQuestion(s *models.Session) models.Response {
	s.CurrentStep = stepMedicalEstimateReply
	return models.Response{
		Type:    models.ResponseTypeButtons,
		Content: "Would you like to see an estimation of the coverage you can receive?",
		Buttons: []models.Button{
			{Label: "✅ Yes, show me an estimate", Value: "yes_estimate"},
			{Label: "❌ Not now, thanks", Value: "no"},
		},
	}
}

func medicalHandleInterest(s *models.Session, msg models.Message) models.Response {
	n := msg.Normalized()
	switch {
	case isAffirmative(n):
		s.CurrentStep = stepMedicalEstimateReply
		return models.Response{
			Type:    models.ResponseTypeButtons,
			Content: medicalPlanExplanation + "\n\nWould you like to see an estimation of the coverage you can receive?",
			Buttons: []models.Button{
				{Label: "✅ Yes, show me an estimate", Value: "yes_estimate"},
				{Label: "❌ Not now, thanks", Value: "no"},
			},
		}
	case isNegative(n):
		s.CurrentStep = stepMedicalDone
		return models.Response{
			Type:    models.ResponseTypeButtons,
			Content: medicalDeclineText,
			Buttons: mainMenuButtons(),
		}
	default:
		resp := medicalWelcome(s)
		resp.Type = models.ResponseTypeButtons
		return resp
	}
}

func medicalHandleEstimateReply(s *models.Session, msg models.Message) models.Response {
	n := msg.Normalized()
	switch {
	case matchesAny(n, "yes_estimate", "estimate") || isAffirmative(n):
		if age, ok := parseAge(s.Get(models.FieldAge)); ok {
			if age < premium.MedicalMinAge {
				return medicalIneligible(s)
			}
			if age <= premium.MedicalMaxAge {
				s.CurrentStep = stepMedicalCoverage
				return models.Response{
					Type:    models.ResponseTypeButtons,
					Content: fmt.Sprintf("I see you're %d years old. Please select your desired coverage level:", age),
					Buttons: medicalCoverageButtons(),
				}
			}
		}
		s.CurrentStep = stepMedicalAge
		return models.Response{
			Type:    models.ResponseTypeMessage,
			Content: "May I know your age? (18-64 years)",
		}
	case isNegative(n):
		s.CurrentStep = stepMedicalDone
		return models.Response{
			Type:    models.ResponseTypeButtons,
			Content: medicalDeclineText,
			Buttons: mainMenuButtons(),
		}
	default:
		return medicalEstimateQuestion(s)
	}
}

func medicalHandleAge(s *models.Session, msg models.Message) models.Response {
	age, ok := parseAge(msg.Content())
	if !ok {
		return models.Response{
			Type:    models.ResponseTypeMessage,
			Content: "Please enter a valid age between 18 and 64.",
		}
	}
	if age < premium.MedicalMinAge {
		return medicalIneligible(s)
	}
	if age > premium.MedicalMaxAge {
		return models.Response{
			Type:    models.ResponseTypeMessage,
			Content: "Please enter a valid age between 18 and 64.",
		}
	}

	s.Set(models.FieldAge, fmt.Sprintf("%d", age))
	s.CurrentStep = stepMedicalCoverage
	return models.Response{
		Type:    models.ResponseTypeButtons,
		Content: "Please select your desired coverage level:",
		Buttons: medicalCoverageButtons(),
	}
}

func medicalHandleCoverage(s *models.Session, msg models.Message) models.Response {
	n := msg.Normalized()
	var tier premium.MedicalTier
	switch {
	case matchesAny(n, "1") || n == "basic" || n == "180k":
		tier = premium.MedicalBasic
	case matchesAny(n, "3") || n == "comprehensive" || n == "1m" || n == "1m+":
		tier = premium.MedicalComprehensive
	default:
		return models.Response{
			Type:    models.ResponseTypeButtons,
			Content: "Please select a valid coverage level.",
			Buttons: medicalCoverageButtons(),
		}
	}

	age, _ := parseAge(s.Get(models.FieldAge))
	res := premium.Medical(age, tier)
	if !res.Eligible {
		s.CurrentStep = stepMedicalDone
		return models.Response{
			Type:    models.ResponseTypeButtons,
			Content: fmt.Sprintf("Sorry, there was an error calculating your premium: %s", res.Reason),
			Buttons: mainMenuButtons(),
			Lead:    buildLead(s, medicalPlanCode, models.ContactIneligible),
		}
	}

	s.Set(models.FieldCoverageLevel, fmt.Sprintf("%d", int(tier)))
	recordPremium(s, res.Annual, res.Monthly)

	tierName := "Basic"
	coverageAmount := "RM180,000"
	if tier == premium.MedicalComprehensive {
		tierName = "Comprehensive"
		coverageAmount = "RM1,000,000"
	}

	content := fmt.Sprintf("Based on your age (%d) and selected coverage level (%s):\n\n"+
		"• Estimated Monthly Premium: %s\n"+
		"• Annual Coverage: %s",
		age, tierName, formatCurrency(res.Monthly), coverageAmount)
	if age >= 61 {
		content += medicalSeniorNote
	}

	s.CurrentStep = stepMedicalContact
	return models.Response{
		Type:    models.ResponseTypeButtons,
		Content: content + "\n\nWould you like an agent to contact you to further discuss the plan?",
		Buttons: agentContactButtons(),
	}
}

// medicalIneligible ends the flow for under-age users and records an
// ineligible lead.
func medicalIneligible(s *models.Session) models.Response {
	s.CurrentStep = stepMedicalDone
	return models.Response{
		Type:    models.ResponseTypeButtons,
		Content: medicalIneligibleText,
		Buttons: mainMenuButtons(),
		Lead:    buildLead(s, medicalPlanCode, models.ContactIneligible),
	}
}

func medicalHandleContact(s *models.Session, msg models.Message) models.Response {
	n := msg.Normalized()
	switch {
	case matchesAny(n, "contact_agent", "contact me") || isAffirmative(n):
		s.CurrentStep = stepMedicalDone
		return models.Response{
			Type:    models.ResponseTypeButtons,
			Content: "Great! Our agent will contact you soon. You will also receive an email about further information on the plans we offer.",
			Buttons: mainMenuButtons(),
			Lead:    buildLead(s, medicalPlanCode, models.ContactRequested),
		}
	case matchesAny(n, "no_contact") || isNegative(n):
		s.CurrentStep = stepMedicalDone
		return models.Response{
			Type:    models.ResponseTypeButtons,
			Content: "Thank you for your interest in Tabung Perubatan! If you wish to return to the main menu, click below.",
			Buttons: mainMenuButtons(),
			Lead:    buildLead(s, medicalPlanCode, models.ContactDeclined),
		}
	default:
		return models.Response{
			Type:    models.ResponseTypeButtons,
			Content: "Would you like an agent to contact you to further discuss the plan?",
			Buttons: agentContactButtons(),
		}
	}
}

func medicalHandleDone(s *models.Session, msg models.Message) models.Response {
	return models.Response{
		Type:    models.ResponseTypeButtons,
		Content: "Thank you for your interest in Tabung Perubatan. Have a great day!",
		Buttons: mainMenuButtons(),
	}
}
