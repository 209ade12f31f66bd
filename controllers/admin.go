package controllers

import (
	"net/http"
	"time"

	"fusevip/logger"
	"fusevip/models"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

type AdminOverview struct {
	Applications        []models.AdminApplication           `json:"applications"`
	FeatureApplications []models.BusinessFeatureApplication `json:"feature_applications"`
	RecentBusinesses    []models.Business                   `json:"recent_businesses"`
}

func adminOverview(db *gorm.DB) AdminOverview {
	log := logger.Get()
	ov := AdminOverview{
		Applications:        []models.AdminApplication{},
		FeatureApplications: []models.BusinessFeatureApplication{},
		RecentBusinesses:    []models.Business{},
	}

	if err := db.Preload("Profile").
		Where("status = ?", models.APPLICATION_STATUS_PENDING).
		Order("created_at desc").
		Find(&ov.Applications).Error; err != nil {
		log.Error("admin overview: applications", "error", err)
	}
	if err := db.Preload("Business").
		Where("status = ?", models.APPLICATION_STATUS_PENDING).
		Order("created_at desc").
		Find(&ov.FeatureApplications).Error; err != nil {
		log.Error("admin overview: feature applications", "error", err)
	}
	if err := db.Order("created_at desc").Limit(5).Find(&ov.RecentBusinesses).Error; err != nil {
		log.Error("admin overview: businesses", "error", err)
	}
	return ov
}

// GET /api/admin/overview
func GetAdminOverview(c *gin.Context) {
	db, ok := requireDB(c)
	if !ok {
		return
	}
	RespondSuccess(c, adminOverview(db))
}

/************************************************
/**** MARK: ADMIN APPLICATIONS ****/
/************************************************/

// GET /api/admin/applications?status=
func ListAdminApplications(c *gin.Context) {
	db, ok := requireDB(c)
	if !ok {
		return
	}

	q := db.Preload("Profile").Order("created_at desc")
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	out := []models.AdminApplication{}
	if err := q.Find(&out).Error; err != nil {
		logger.Get().Error("list admin applications", "error", err)
		out = []models.AdminApplication{}
	}
	RespondSuccess(c, out)
}

// POST /api/admin/applications/:id/approve
func ApproveAdminApplication(c *gin.Context) {
	reviewAdminApplication(c, models.APPLICATION_STATUS_APPROVED)
}

// POST /api/admin/applications/:id/reject
func RejectAdminApplication(c *gin.Context) {
	reviewAdminApplication(c, models.APPLICATION_STATUS_REJECTED)
}

// reviewAdminApplication records the decision. Approval also grants the
// admin portal role, in the same transaction.
func reviewAdminApplication(c *gin.Context, status string) {
	session, _ := GetSession(c)
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	db, ok := requireDB(c)
	if !ok {
		return
	}

	var app models.AdminApplication
	if err := db.Where("id = ?", id).First(&app).Error; err != nil {
		RespondError(c, "application not found", http.StatusNotFound)
		return
	}
	if app.Status != models.APPLICATION_STATUS_PENDING {
		RespondError(c, errAlreadyReviewed.Error(), http.StatusConflict)
		return
	}

	now := time.Now()
	reviewer := session.User.ID
	tx := db.Begin()
	if err := tx.Model(&app).Updates(map[string]any{
		"status":      status,
		"reviewed_by": &reviewer,
		"reviewed_at": &now,
	}).Error; err != nil {
		tx.Rollback()
		logger.Get().Error("review admin application", "application_id", id, "error", err)
		RespondError(c, errSaveFailed.Error(), http.StatusInternalServerError)
		return
	}

	if status == models.APPLICATION_STATUS_APPROVED {
		var existing int
		if err := tx.Model(&models.PortalRole{}).Where("user_id = ? AND role = ?", app.UserID, models.ROLE_ADMIN).Count(&existing).Error; err != nil {
			tx.Rollback()
			logger.Get().Error("check admin portal role", "user_id", app.UserID, "error", err)
			RespondError(c, errSaveFailed.Error(), http.StatusInternalServerError)
			return
		}
		if existing == 0 {
			if err := tx.Create(&models.PortalRole{UserID: app.UserID, Role: models.ROLE_ADMIN}).Error; err != nil {
				tx.Rollback()
				logger.Get().Error("grant admin portal role", "user_id", app.UserID, "error", err)
				RespondError(c, errSaveFailed.Error(), http.StatusInternalServerError)
				return
			}
		}
	}

	if err := tx.Commit().Error; err != nil {
		RespondError(c, errSaveFailed.Error(), http.StatusInternalServerError)
		return
	}

	logger.Get().Info("admin application reviewed", "application_id", id, "status", status, "reviewer", session.User.ID)
	RespondSuccess(c, app)
}

/************************************************
/**** MARK: BUSINESSES ****/
/************************************************/

func adminBusinesses(db *gorm.DB, status string) []models.Business {
	q := db.Preload("Owner").Order("created_at desc")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	out := []models.Business{}
	if err := q.Find(&out).Error; err != nil {
		logger.Get().Error("admin list businesses", "status", status, "error", err)
		return []models.Business{}
	}
	return out
}

// GET /api/admin/businesses?status=
func ListBusinessesForReview(c *gin.Context) {
	db, ok := requireDB(c)
	if !ok {
		return
	}
	status := c.Query("status")
	switch status {
	case "", models.BUSINESS_STATUS_PENDING, models.BUSINESS_STATUS_APPROVED, models.BUSINESS_STATUS_REJECTED:
	default:
		RespondError(c, "invalid status", http.StatusBadRequest)
		return
	}
	RespondSuccess(c, adminBusinesses(db, status))
}

// POST /api/admin/businesses/:id/approve
func ApproveBusiness(c *gin.Context) {
	reviewBusiness(c, models.BUSINESS_STATUS_APPROVED)
}

// POST /api/admin/businesses/:id/reject
func RejectBusiness(c *gin.Context) {
	reviewBusiness(c, models.BUSINESS_STATUS_REJECTED)
}

func reviewBusiness(c *gin.Context, status string) {
	session, _ := GetSession(c)
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	db, ok := requireDB(c)
	if !ok {
		return
	}

	b, err := setBusinessStatus(db, id, status, session.User.ID)
	if gorm.IsRecordNotFoundError(err) {
		RespondError(c, "business not found", http.StatusNotFound)
		return
	} else if err != nil {
		logger.Get().Error("review business", "business_id", id, "error", err)
		RespondError(c, errSaveFailed.Error(), http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, b)
}

// setBusinessStatus records an approval decision; rejections are stamped
// the same way so the reviewer is known either way.
func setBusinessStatus(db *gorm.DB, id, status, reviewer string) (models.Business, error) {
	var b models.Business
	if err := db.Where("id = ?", id).First(&b).Error; err != nil {
		return b, err
	}
	now := time.Now()
	err := db.Model(&b).Updates(map[string]any{
		"status":      status,
		"approved_by": &reviewer,
		"approved_at": &now,
	}).Error
	return b, err
}

/************************************************
/**** MARK: FEATURE APPLICATIONS ****/
/************************************************/

// GET /api/admin/feature-applications?status=
func ListFeatureApplications(c *gin.Context) {
	db, ok := requireDB(c)
	if !ok {
		return
	}

	q := db.Preload("Business").Order("created_at desc")
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	out := []models.BusinessFeatureApplication{}
	if err := q.Find(&out).Error; err != nil {
		logger.Get().Error("list feature applications", "error", err)
		out = []models.BusinessFeatureApplication{}
	}
	RespondSuccess(c, out)
}

// POST /api/admin/feature-applications/:id/approve
func ApproveFeatureApplication(c *gin.Context) {
	reviewFeatureApplication(c, models.APPLICATION_STATUS_APPROVED)
}

// POST /api/admin/feature-applications/:id/reject
func RejectFeatureApplication(c *gin.Context) {
	reviewFeatureApplication(c, models.APPLICATION_STATUS_REJECTED)
}

func reviewFeatureApplication(c *gin.Context, status string) {
	session, _ := GetSession(c)
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	db, ok := requireDB(c)
	if !ok {
		return
	}

	var app models.BusinessFeatureApplication
	if err := db.Where("id = ?", id).First(&app).Error; err != nil {
		RespondError(c, "application not found", http.StatusNotFound)
		return
	}
	if app.Status != models.APPLICATION_STATUS_PENDING {
		RespondError(c, errAlreadyReviewed.Error(), http.StatusConflict)
		return
	}

	now := time.Now()
	reviewer := session.User.ID
	tx := db.Begin()
	if err := tx.Model(&app).Updates(map[string]any{
		"status":      status,
		"reviewed_by": &reviewer,
		"reviewed_at": &now,
	}).Error; err != nil {
		tx.Rollback()
		RespondError(c, errSaveFailed.Error(), http.StatusInternalServerError)
		return
	}
	if status == models.APPLICATION_STATUS_APPROVED {
		if err := tx.Model(&models.Business{}).Where("id = ?", app.BusinessID).Update("is_featured", true).Error; err != nil {
			tx.Rollback()
			RespondError(c, errSaveFailed.Error(), http.StatusInternalServerError)
			return
		}
	}
	if err := tx.Commit().Error; err != nil {
		RespondError(c, errSaveFailed.Error(), http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, app)
}
