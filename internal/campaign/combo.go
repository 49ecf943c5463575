package campaign

import (
	"fmt"

	"github.com/kkmjpaibot/AiChatBot/internal/models"
	"github.com/kkmjpaibot/AiChatBot/internal/premium"
)

// CampaignCombo is the combined-protection campaign identifier.
const CampaignCombo models.CampaignID = "combo"

const comboPlanCode = "perlindungan_combo"

// Combo campaign steps. Onboarding steps run only when the profile is
// missing a name; sessions seeded with one skip straight to the welcome.
const (
	stepComboWelcome  models.StepID = "welcome"
	stepComboName     models.StepID = "get_name"
	stepComboDOB      models.StepID = "get_dob"
	stepComboEmail    models.StepID = "get_email"
	stepComboIntro    models.StepID = "after_welcome"
	stepComboBenefits models.StepID = "show_benefits_response"
	stepComboAge      models.StepID = "get_age"
	stepComboPackage  models.StepID = "get_package"
	stepComboConfirm  models.StepID = "confirm_package"
	stepComboContact  models.StepID = "follow_up_contact"
	stepComboDone     models.StepID = "end_conversation"
)

const comboWelcomeText = "*🛡️ Welcome to Perlindungan Combo - Your Complete Protection Solution*\n\n" +
	"I can help you find the perfect protection plan that combines:\n" +
	"• Life Insurance\n" +
	"• Critical Illness Coverage\n" +
	"• Medical Protection\n" +
	"• Accident Coverage\n\n" +
	"All in one simple, affordable package. Would you like to learn more about the benefits?"

const comboBenefitsText = "💎 *Benefits of Combo Protection:*\n\n" +
	"• All-in-one coverage: Life, Medical, Critical Illness, Accident\n" +
	"• Single premium payment - simpler to manage\n" +
	"• Better value than buying separate policies\n" +
	"• No coverage gaps - complete protection\n" +
	"• Guaranteed insurability for all coverage types\n\n" +
	"Would you like to get a quick estimate of your premium based on your age and desired coverage?"

const comboIneligibleText = "Sorry, combo plans are only available for users aged 18 and above. Returning to main menu."

var comboPackageNames = map[premium.ComboTier]string{
	premium.ComboSilver:   "Silver - Essential Protection",
	premium.ComboGold:     "Gold - Balanced Protection",
	premium.ComboPlatinum: "Platinum - Comprehensive Protection",
}

var comboCoverageDetails = map[premium.ComboTier]string{
	premium.ComboSilver:   "Life: RM 100,000\nCritical Illness: RM 50,000\nMedical Card: RM 180,000",
	premium.ComboGold:     "Life: RM 150,000\nCritical Illness: RM 75,000\nMedical Card: RM 180,000",
	premium.ComboPlatinum: "Life: RM 200,000\nCritical Illness: RM 100,000\nMedical Card: RM 1,000,000",
}

func comboPackageButtons() []models.Button {
	return []models.Button{
		{Label: "1️⃣ Silver - Essential Protection", Value: "1"},
		{Label: "2️⃣ Gold - Balanced Protection", Value: "2"},
		{Label: "3️⃣ Platinum - Comprehensive Protection", Value: "3"},
	}
}

func comboConfirmButtons() []models.Button {
	return []models.Button{
		{Label: "✅ Yes, Proceed", Value: "yes"},
		{Label: "❌ No, Choose Another Package", Value: "no"},
	}
}

func comboAgentButtons() []models.Button {
	return []models.Button{
		{Label: "✅ Yes, Contact Me", Value: "yes"},
		{Label: "❌ No Thanks", Value: "no"},
	}
}

func newComboDefinition() *Definition {
	return &Definition{
		ID:          CampaignCombo,
		Name:        "Perlindungan Combo",
		Description: "A comprehensive protection plan combining life, medical, and critical illness coverage",
		InitialStep: stepComboWelcome,
		Welcome:     comboWelcome,
		Steps: map[models.StepID]StepHandler{
			stepComboName:     comboHandleName,
			stepComboDOB:      comboHandleDOB,
			stepComboEmail:    comboHandleEmail,
			stepComboIntro:    comboHandleIntro,
			stepComboBenefits: comboHandleBenefits,
			stepComboAge:      comboHandleAge,
			stepComboPackage:  comboHandlePackage,
			stepComboConfirm:  comboHandleConfirm,
			stepComboContact:  comboHandleContact,
			stepComboDone:     comboHandleDone,
		},
	}
}

// comboWelcome starts onboarding when no name is known yet, otherwise
// opens with the campaign pitch.
func comboWelcome(s *models.Session) models.Response {
	if !s.Has(models.FieldName) {
		s.CurrentStep = stepComboName
		return models.Response{
			Type:     models.ResponseTypeMessage,
			Content:  "Welcome! Let's start. What is your name?",
			NextStep: stepComboName,
		}
	}
	return comboIntroResponse(s)
}

func comboIntroResponse(s *models.Session) models.Response {
	s.CurrentStep = stepComboIntro
	return models.Response{
		Type:    models.ResponseTypeButtons,
		Content: comboWelcomeText,
		Buttons: []models.Button{
			{Label: "📚 Learn More", Value: "learn_more"},
			{Label: "❌ Not Now", Value: "not_now"},
		},
		NextStep: stepComboIntro,
	}
}

func comboBenefitsResponse(s *models.Session) models.Response {
	s.CurrentStep = stepComboBenefits
	return models.Response{
		Type:    models.ResponseTypeButtons,
		Content: comboBenefitsText,
		Buttons: []models.Button{
			{Label: "✅ Yes, Show My Estimate", Value: "show_estimate"},
			{Label: "❌ No Thanks", Value: "not_now"},
		},
	}
}

func comboHandleName(s *models.Session, msg models.Message) models.Response {
	name := msg.Content()
	if name == "" {
		return models.Response{
			Type:    models.ResponseTypeMessage,
			Content: "Please tell me your name to get started.",
		}
	}
	s.Set(models.FieldName, name)
	s.CurrentStep = stepComboDOB
	return models.Response{
		Type:    models.ResponseTypeMessage,
		Content: fmt.Sprintf("Hi %s! What is your date of birth? (DD/MM/YYYY)", name),
	}
}

func comboHandleDOB(s *models.Session, msg models.Message) models.Response {
	dob := msg.Content()
	s.Set(models.FieldDOB, dob)
	if age, ok := ageFromDOB(dob); ok {
		if age < premium.ComboMinAge {
			return comboIneligible(s)
		}
		s.Set(models.FieldAge, fmt.Sprintf("%d", age))
	}
	s.CurrentStep = stepComboEmail
	return models.Response{
		Type:    models.ResponseTypeMessage,
		Content: "What is your email address?",
	}
}

func comboHandleEmail(s *models.Session, msg models.Message) models.Response {
	email := msg.Content()
	if email == "" {
		return models.Response{
			Type:    models.ResponseTypeMessage,
			Content: "Please enter your email address.",
		}
	}
	s.Set(models.FieldEmail, email)
	return comboIntroResponse(s)
}

func comboHandleIntro(s *models.Session, msg models.Message) models.Response {
	n := msg.Normalized()
	switch {
	case matchesAny(n, "learn_more", "show_benefits", "benefits") || isAffirmative(n):
		return comboBenefitsResponse(s)
	case isNegative(n):
		s.CurrentStep = stepComboDone
		return models.Response{
			Type:    models.ResponseTypeButtons,
			Content: "Understood. Feel free to ask later. Would you like to return to the main menu?",
			Buttons: mainMenuButtons(),
		}
	default:
		return comboIntroResponse(s)
	}
}

func comboHandleBenefits(s *models.Session, msg models.Message) models.Response {
	n := msg.Normalized()
	switch {
	case matchesAny(n, "show_estimate") || isAffirmative(n):
		if age, ok := parseAge(s.Get(models.FieldAge)); ok {
			if age < premium.ComboMinAge {
				return comboIneligible(s)
			}
			if age <= premium.ComboMaxIntakeAge {
				s.CurrentStep = stepComboPackage
				return models.Response{
					Type:    models.ResponseTypeButtons,
					Content: fmt.Sprintf("Great! Based on your age (%d), please select a protection package:", age),
					Buttons: comboPackageButtons(),
				}
			}
		}
		s.CurrentStep = stepComboAge
		return models.Response{
			Type:    models.ResponseTypeMessage,
			Content: "To show your estimate, please enter your age (18-60):",
		}
	case isNegative(n):
		s.CurrentStep = stepComboDone
		return models.Response{
			Type:    models.ResponseTypeButtons,
			Content: "Understood. Would you like to return to the main menu?",
			Buttons: mainMenuButtons(),
		}
	default:
		return comboBenefitsResponse(s)
	}
}

func comboHandleAge(s *models.Session, msg models.Message) models.Response {
	age, ok := parseAge(msg.Content())
	if !ok {
		return models.Response{
			Type:    models.ResponseTypeMessage,
			Content: "Please enter a valid number (18-60):",
		}
	}
	if age < premium.ComboMinAge {
		return comboIneligible(s)
	}
	if age > premium.ComboMaxIntakeAge {
		return models.Response{
			Type:    models.ResponseTypeMessage,
			Content: "Age must be 18-60. Please enter a valid age:",
		}
	}

	s.Set(models.FieldAge, fmt.Sprintf("%d", age))
	s.CurrentStep = stepComboPackage
	return models.Response{
		Type:    models.ResponseTypeButtons,
		Content: fmt.Sprintf("Great! You are %d years old.\n\nPlease select a protection package:", age),
		Buttons: comboPackageButtons(),
	}
}

func comboHandlePackage(s *models.Session, msg models.Message) models.Response {
	n := msg.Normalized()
	var tier premium.ComboTier
	switch n {
	case "1", "silver":
		tier = premium.ComboSilver
	case "2", "gold":
		tier = premium.ComboGold
	case "3", "platinum":
		tier = premium.ComboPlatinum
	default:
		return models.Response{
			Type:    models.ResponseTypeButtons,
			Content: "Please select a package (1-3):",
			Buttons: comboPackageButtons(),
		}
	}

	s.Set(models.FieldPackageTier, fmt.Sprintf("%d", int(tier)))
	age, _ := parseAge(s.Get(models.FieldAge))

	res := premium.Combo(age, tier)
	if !res.Eligible {
		// Ages past the quote table reach an advisor instead of a table
		// price. The flow continues straight to the contact offer.
		s.CurrentStep = stepComboContact
		return models.Response{
			Type: models.ResponseTypeButtons,
			Content: res.Reason +
				"\n\nWould you like our agent to contact you to discuss the options available to you?",
			Buttons: comboAgentButtons(),
		}
	}

	recordPremium(s, res.Annual, res.Monthly)
	s.CurrentStep = stepComboConfirm
	return models.Response{
		Type:         models.ResponseTypeButtons,
		Content:      comboEstimateMessage(age, tier, res) + "\n\nWould you like to proceed with this plan?",
		Buttons:      comboConfirmButtons(),
		CampaignData: comboCampaignData(tier, res.Annual, res.Monthly),
	}
}

// comboCampaignData exposes the quoted plan to the transport alongside the
// rendered text.
func comboCampaignData(tier premium.ComboTier, annual, monthly float64) map[string]string {
	return map[string]string{
		"package":         comboPackageNames[tier],
		"package_tier":    fmt.Sprintf("%d", int(tier)),
		"annual_premium":  fmt.Sprintf("%.2f", annual),
		"monthly_premium": fmt.Sprintf("%.2f", monthly),
	}
}

func comboEstimateMessage(age int, tier premium.ComboTier, res premium.Result) string {
	return fmt.Sprintf("🔍 *Your Combo Plan Estimate*\n"+
		"• Package: %s\n"+
		"• Age: %d years old\n"+
		"• Annual Premium: %s\n"+
		"• Monthly Premium: %s\n\n"+
		"Includes:\n%s\n\n"+
		"💡 This is a rough estimate. Your final premium depends on your health assessment and exact coverage amounts.",
		comboPackageNames[tier], age, formatCurrency(res.Annual), formatCurrency(res.Monthly),
		comboCoverageDetails[tier])
}

func comboHandleConfirm(s *models.Session, msg models.Message) models.Response {
	n := msg.Normalized()
	switch {
	case isAffirmative(n):
		s.CurrentStep = stepComboContact
		tier := comboTierFromSession(s)
		annual, monthly := comboPremiumsFromSession(s)
		return models.Response{
			Type: models.ResponseTypeButtons,
			Content: fmt.Sprintf("Excellent choice! Your %s plan:\n"+
				"• Annual: %s\n"+
				"• Monthly: %s\n\n"+
				"Would you like an agent to contact you for more details?",
				comboPackageNames[tier], formatCurrency(annual), formatCurrency(monthly)),
			Buttons:      comboAgentButtons(),
			CampaignData: comboCampaignData(tier, annual, monthly),
		}
	case matchesAny(n, "change") || isNegative(n):
		s.CurrentStep = stepComboPackage
		return models.Response{
			Type:    models.ResponseTypeButtons,
			Content: "No problem! Please select another package:",
			Buttons: comboPackageButtons(),
		}
	default:
		age, _ := parseAge(s.Get(models.FieldAge))
		tier := comboTierFromSession(s)
		res := premium.Combo(age, tier)
		if !res.Eligible {
			s.CurrentStep = stepComboPackage
			return models.Response{
				Type:    models.ResponseTypeButtons,
				Content: "Please select a package first:",
				Buttons: comboPackageButtons(),
			}
		}
		return models.Response{
			Type:         models.ResponseTypeButtons,
			Content:      comboEstimateMessage(age, tier, res) + "\n\nWould you like to proceed?",
			Buttons:      comboConfirmButtons(),
			CampaignData: comboCampaignData(tier, res.Annual, res.Monthly),
		}
	}
}

func comboHandleContact(s *models.Session, msg models.Message) models.Response {
	n := msg.Normalized()
	switch {
	case matchesAny(n, "contact", "contact me", "contact_agent") || isAffirmative(n):
		s.CurrentStep = stepComboDone
		return models.Response{
			Type:    models.ResponseTypeButtons,
			Content: "Thank you! One of our agents will contact you shortly via email with more details on your plan.",
			Buttons: mainMenuButtons(),
			Lead:    buildLead(s, comboPlanCode, models.ContactRequested),
		}
	case isNegative(n):
		s.CurrentStep = stepComboDone
		return models.Response{
			Type:    models.ResponseTypeButtons,
			Content: "No problem! If you change your mind, feel free to ask. Would you like to return to the main menu?",
			Buttons: mainMenuButtons(),
			Lead:    buildLead(s, comboPlanCode, models.ContactDeclined),
		}
	default:
		tier := comboTierFromSession(s)
		return models.Response{
			Type:    models.ResponseTypeButtons,
			Content: fmt.Sprintf("Regarding your %s plan, would you like an agent to contact you?", comboPackageNames[tier]),
			Buttons: comboAgentButtons(),
		}
	}
}

// comboIneligible ends the flow for under-age users and records an
// ineligible lead.
func comboIneligible(s *models.Session) models.Response {
	s.CurrentStep = stepComboDone
	return models.Response{
		Type:    models.ResponseTypeButtons,
		Content: comboIneligibleText,
		Buttons: mainMenuButtons(),
		Lead:    buildLead(s, comboPlanCode, models.ContactIneligible),
	}
}

func comboHandleDone(s *models.Session, msg models.Message) models.Response {
	return models.Response{
		Type:    models.ResponseTypeButtons,
		Content: "Thanks for chatting! What would you like to do next?",
		Buttons: mainMenuButtons(),
	}
}

func comboTierFromSession(s *models.Session) premium.ComboTier {
	if v, ok := parseAge(s.Get(models.FieldPackageTier)); ok {
		return premium.ComboTier(v)
	}
	return 0
}

func comboPremiumsFromSession(s *models.Session) (annual, monthly float64) {
	annual, _ = parseAmount(s.Get(fieldAnnualPremium))
	monthly, _ = parseAmount(s.Get(fieldMonthlyPremium))
	return annual, monthly
}
