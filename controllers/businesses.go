package controllers

import (
	"net/http"
	"strings"

	"fusevip/logger"
	"fusevip/models"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

// GET /api/businesses?q=
// Approved businesses for pickers, matched by name.
func SearchBusinesses(c *gin.Context) {
	db, ok := requireDB(c)
	if !ok {
		return
	}

	q := db.Model(&models.Business{}).
		Select("id, name, category").
		Where("status = ?", models.BUSINESS_STATUS_APPROVED)
	if term := strings.TrimSpace(c.Query("q")); term != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(term)+"%")
	}

	out := []models.BusinessSummary{}
	if err := q.Order("name asc").Limit(20).Scan(&out).Error; err != nil {
		logger.Get().Error("search businesses", "error", err)
		out = []models.BusinessSummary{}
	}
	RespondSuccess(c, out)
}

// GET /api/businesses/featured
func FeaturedBusinesses(c *gin.Context) {
	db, ok := requireDB(c)
	if !ok {
		return
	}

	out := []models.Business{}
	if err := db.Where("is_featured = ?", true).Limit(3).Find(&out).Error; err != nil {
		logger.Get().Error("featured businesses", "error", err)
		out = []models.Business{}
	}
	RespondSuccess(c, out)
}

// GET /api/industry?category=&q=
func IndustryBusinesses(c *gin.Context) {
	db, ok := requireDB(c)
	if !ok {
		return
	}
	RespondSuccess(c, listIndustry(db, c.Query("category"), c.Query("q")))
}

func listIndustry(db *gorm.DB, category, term string) []models.Business {
	q := db.Order("name asc")
	if category = strings.TrimSpace(category); category != "" && category != "all" {
		if category == "spotlight" {
			q = q.Where("is_featured = ?", true)
		} else {
			q = q.Where("category = ?", category)
		}
	}
	if term = strings.TrimSpace(term); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	out := []models.Business{}
	if err := q.Find(&out).Error; err != nil {
		logger.Get().Error("list industry businesses", "error", err)
		return []models.Business{}
	}
	return out
}

// POST /api/businesses
func CreateBusiness(c *gin.Context) {
	session, ok := GetSession(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}
	db, ok := requireDB(c)
	if !ok {
		return
	}

	var input models.Business
	if err := c.Bind(&input); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	business, code, err := submitBusiness(db, session, input)
	if err != nil {
		RespondError(c, err.Error(), code)
		return
	}
	RespondCreated(c, business)
}

// submitBusiness stores a new pending business owned by the session user.
func submitBusiness(db *gorm.DB, session Session, input models.Business) (models.Business, int, error) {
	if missing := input.MissingFields(); missing != "" {
		return models.Business{}, http.StatusBadRequest, errMissingField(missing)
	}
	if session.IsBusinessOwner {
		return models.Business{}, http.StatusConflict, errBusinessExists
	}

	b := models.Business{
		UserID:              session.User.ID,
		Name:                strings.TrimSpace(input.Name),
		Category:            strings.TrimSpace(input.Category),
		Description:         input.Description,
		BusinessAddress:     input.BusinessAddress,
		ContactName:         input.ContactName,
		ContactEmail:        input.ContactEmail,
		ContactPhone:        input.ContactPhone,
		Website:             input.Website,
		LogoURL:             input.LogoURL,
		PremiumDiscount:     input.PremiumDiscount,
		Referral:            input.Referral,
		BusinessReferral:    input.BusinessReferral,
		ReferringBusinessID: input.ReferringBusinessID,
		Status:              models.BUSINESS_STATUS_PENDING,
	}
	if b.ReferringBusinessID != nil && *b.ReferringBusinessID == "" {
		b.ReferringBusinessID = nil
	}
	if b.ContactEmail == "" {
		b.ContactEmail = session.User.Email
	}

	if err := db.Create(&b).Error; err != nil {
		logger.Get().Error("create business", "user_id", session.User.ID, "error", err)
		return models.Business{}, http.StatusInternalServerError, errSaveFailed
	}
	return b, http.StatusCreated, nil
}

// GET /api/businesses/mine
func GetMyBusiness(c *gin.Context) {
	session, _ := GetSession(c)
	db, ok := requireDB(c)
	if !ok {
		return
	}

	var b models.Business
	if err := db.Where("user_id = ?", session.User.ID).First(&b).Error; err != nil {
		RespondError(c, "business not found", http.StatusNotFound)
		return
	}
	RespondSuccess(c, b)
}

// PUT /api/businesses/mine
// Updates the owner's business, creating a pending one when none exists.
func UpdateMyBusiness(c *gin.Context) {
	session, ok := GetSession(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}
	db, ok := requireDB(c)
	if !ok {
		return
	}

	var input models.Business
	if err := c.Bind(&input); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	var existing models.Business
	err := db.Where("user_id = ?", session.User.ID).First(&existing).Error
	if gorm.IsRecordNotFoundError(err) {
		b, code, err := submitBusiness(db, session, input)
		if err != nil {
			RespondError(c, err.Error(), code)
			return
		}
		RespondCreated(c, b)
		return
	} else if err != nil {
		logger.Get().Error("load own business", "user_id", session.User.ID, "error", err)
		RespondError(c, errSaveFailed.Error(), http.StatusInternalServerError)
		return
	}

	if missing := input.MissingFields(); missing != "" {
		RespondError(c, errMissingField(missing).Error(), http.StatusBadRequest)
		return
	}

	// status, featuring and approval stay under admin control; the owner may
	// blank any of the editable columns
	changes := map[string]any{
		"name":              strings.TrimSpace(input.Name),
		"category":          strings.TrimSpace(input.Category),
		"description":       input.Description,
		"business_address":  input.BusinessAddress,
		"contact_name":      input.ContactName,
		"contact_email":     input.ContactEmail,
		"contact_phone":     input.ContactPhone,
		"website":           input.Website,
		"logo_url":          input.LogoURL,
		"premium_discount":  input.PremiumDiscount,
		"referral":          input.Referral,
		"business_referral": input.BusinessReferral,
	}
	if err := db.Model(&existing).Updates(changes).Error; err != nil {
		logger.Get().Error("update own business", "business_id", existing.ID, "error", err)
		RespondError(c, errSaveFailed.Error(), http.StatusInternalServerError)
		return
	}

	db.Where("id = ?", existing.ID).First(&existing)
	RespondSuccess(c, existing)
}

// GET /api/businesses/mine/purchases
func MyBusinessPurchases(c *gin.Context) {
	session, _ := GetSession(c)
	db, ok := requireDB(c)
	if !ok {
		return
	}

	out := []models.Purchase{}
	if err := db.Where("business_id = ?", session.BusinessID).Order("created_at desc").Find(&out).Error; err != nil {
		logger.Get().Error("list business purchases", "business_id", session.BusinessID, "error", err)
		out = []models.Purchase{}
	}
	RespondSuccess(c, out)
}

// GET /api/businesses/mine/referrals
func MyBusinessReferrals(c *gin.Context) {
	session, _ := GetSession(c)
	db, ok := requireDB(c)
	if !ok {
		return
	}

	out := []models.Referral{}
	if err := db.Where("business_id = ?", session.BusinessID).Order("created_at desc").Find(&out).Error; err != nil {
		logger.Get().Error("list business referrals", "business_id", session.BusinessID, "error", err)
		out = []models.Referral{}
	}
	RespondSuccess(c, out)
}
