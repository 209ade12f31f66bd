package models

import "time"

/************************************************
/**** MARK: ONBOARDING STEPS ****/
/************************************************/
const ONBOARDING_STEP_WELCOME = "welcome"
const ONBOARDING_STEP_PROFILE = "profile"
const ONBOARDING_STEP_INTERESTS = "interests"
const ONBOARDING_STEP_WALLET = "wallet"
const ONBOARDING_STEP_COMPLETE = "complete"

var OnboardingSteps = []string{
	ONBOARDING_STEP_WELCOME,
	ONBOARDING_STEP_PROFILE,
	ONBOARDING_STEP_INTERESTS,
	ONBOARDING_STEP_WALLET,
	ONBOARDING_STEP_COMPLETE,
}

// OnboardingProgress stores where a user left the onboarding wizard.
// Interests and ProfileData are JSON documents.
type OnboardingProgress struct {
	UserID      string     `gorm:"primary_key;type:varchar(36)" json:"user_id"`
	Step        string     `gorm:"not null;default:'welcome'" json:"step"`
	Interests   string     `gorm:"type:text" json:"-"`
	ProfileData string     `gorm:"type:text" json:"-"`
	Completed   bool       `gorm:"not null;default:false" json:"completed"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

func (OnboardingProgress) TableName() string { return "onboarding_progress" }

// OnboardingStepIndex returns the position of step, or -1.
func OnboardingStepIndex(step string) int {
	for i, s := range OnboardingSteps {
		if s == step {
			return i
		}
	}
	return -1
}

// OnboardingPercent is the share of the wizard reached at step.
func OnboardingPercent(step string) float64 {
	i := OnboardingStepIndex(step)
	if i < 0 {
		i = 0
	}
	return float64(i+1) / float64(len(OnboardingSteps)) * 100
}
