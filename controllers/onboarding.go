package controllers

import (
	"encoding/json"
	"maps"
	"net/http"

	"fusevip/logger"
	"fusevip/models"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

type OnboardingState struct {
	Step        string         `json:"step"`
	Progress    float64        `json:"progress"`
	Interests   []string       `json:"interests"`
	ProfileData map[string]any `json:"profile_data"`
	Completed   bool           `json:"completed"`
}

type OnboardingUpdate struct {
	Step        string         `json:"step"`
	Interests   []string       `json:"interests"`
	ProfileData map[string]any `json:"profile_data"`
}

func loadOnboarding(db *gorm.DB, userID string) models.OnboardingProgress {
	p := models.OnboardingProgress{UserID: userID, Step: models.ONBOARDING_STEP_WELCOME}
	if err := db.Where("user_id = ?", userID).First(&p).Error; err != nil && !gorm.IsRecordNotFoundError(err) {
		logger.Get().Warn("onboarding: load progress", "user_id", userID, "error", err)
	}
	return p
}

func onboardingState(p models.OnboardingProgress) OnboardingState {
	st := OnboardingState{
		Step:        p.Step,
		Progress:    models.OnboardingPercent(p.Step),
		Interests:   []string{},
		ProfileData: map[string]any{},
		Completed:   p.Completed,
	}
	if p.Interests != "" {
		_ = json.Unmarshal([]byte(p.Interests), &st.Interests)
	}
	if p.ProfileData != "" {
		_ = json.Unmarshal([]byte(p.ProfileData), &st.ProfileData)
	}
	return st
}

// applyOnboarding moves the wizard to a known step, replaces the interests
// and merges profile data into what was saved before.
func applyOnboarding(p *models.OnboardingProgress, u OnboardingUpdate) error {
	if u.Step != "" {
		if models.OnboardingStepIndex(u.Step) < 0 {
			return errInvalidStep
		}
		p.Step = u.Step
	}
	if u.Interests != nil {
		b, _ := json.Marshal(u.Interests)
		p.Interests = string(b)
	}
	if u.ProfileData != nil {
		merged := onboardingState(*p).ProfileData
		maps.Copy(merged, u.ProfileData)
		b, _ := json.Marshal(merged)
		p.ProfileData = string(b)
	}
	return nil
}

// GET /api/onboarding
func GetOnboarding(c *gin.Context) {
	session, _ := GetSession(c)
	db, ok := requireDB(c)
	if !ok {
		return
	}
	RespondSuccess(c, onboardingState(loadOnboarding(db, session.User.ID)))
}

// PUT /api/onboarding
func UpdateOnboarding(c *gin.Context) {
	session, _ := GetSession(c)
	db, ok := requireDB(c)
	if !ok {
		return
	}

	var u OnboardingUpdate
	if err := c.ShouldBindJSON(&u); err != nil {
		RespondError(c, "invalid request body", http.StatusBadRequest)
		return
	}

	p := loadOnboarding(db, session.User.ID)
	if err := applyOnboarding(&p, u); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if err := db.Save(&p).Error; err != nil {
		logger.Get().Error("onboarding: save progress", "user_id", session.User.ID, "error", err)
		RespondError(c, errSaveFailed.Error(), http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, onboardingState(p))
}

// POST /api/onboarding/complete
func CompleteOnboarding(c *gin.Context) {
	finishOnboarding(c)
}

// POST /api/onboarding/skip
func SkipOnboarding(c *gin.Context) {
	finishOnboarding(c)
}

func finishOnboarding(c *gin.Context) {
	session, _ := GetSession(c)
	db, ok := requireDB(c)
	if !ok {
		return
	}

	p := loadOnboarding(db, session.User.ID)
	p.Step = models.ONBOARDING_STEP_COMPLETE
	p.Completed = true
	if err := db.Save(&p).Error; err != nil {
		logger.Get().Error("onboarding: finish", "user_id", session.User.ID, "error", err)
		RespondError(c, errSaveFailed.Error(), http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, gin.H{"state": onboardingState(p), "redirect": "/dashboard"})
}
