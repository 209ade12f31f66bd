package controllers

import (
	"net/http"
	"strings"

	"fusevip/logger"
	"fusevip/models"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

type FeatureStatus struct {
	IsFeatured bool `json:"is_featured"`
	HasApplied bool `json:"has_applied"`
}

func featureStatus(db *gorm.DB, businessID string) FeatureStatus {
	var st FeatureStatus
	log := logger.Get().With("business_id", businessID)

	var b models.Business
	if err := db.Select("is_featured").Where("id = ?", businessID).First(&b).Error; err != nil {
		log.Warn("feature status: load business", "error", err)
	}
	st.IsFeatured = b.IsFeatured

	var pending int
	if err := db.Model(&models.BusinessFeatureApplication{}).
		Where("business_id = ? AND status = ?", businessID, models.APPLICATION_STATUS_PENDING).
		Count(&pending).Error; err != nil {
		log.Warn("feature status: count applications", "error", err)
	}
	st.HasApplied = pending > 0
	return st
}

// GET /api/businesses/mine/feature-application
func GetFeatureApplicationStatus(c *gin.Context) {
	session, _ := GetSession(c)
	db, ok := requireDB(c)
	if !ok {
		return
	}
	RespondSuccess(c, featureStatus(db, session.BusinessID))
}

// POST /api/businesses/mine/feature-application
func ApplyForFeature(c *gin.Context) {
	session, _ := GetSession(c)
	db, ok := requireDB(c)
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason" form:"reason"`
	}
	_ = c.ShouldBind(&req)

	st := featureStatus(db, session.BusinessID)
	if st.IsFeatured {
		RespondError(c, errAlreadyFeatured.Error(), http.StatusConflict)
		return
	}
	if st.HasApplied {
		RespondError(c, errAlreadyApplied.Error(), http.StatusConflict)
		return
	}

	app := models.BusinessFeatureApplication{
		BusinessID: session.BusinessID,
		UserID:     session.User.ID,
		Reason:     strings.TrimSpace(req.Reason),
		Status:     models.APPLICATION_STATUS_PENDING,
	}
	if err := db.Create(&app).Error; err != nil {
		logger.Get().Error("create feature application", "business_id", session.BusinessID, "error", err)
		RespondError(c, errSaveFailed.Error(), http.StatusInternalServerError)
		return
	}
	RespondCreated(c, app)
}
