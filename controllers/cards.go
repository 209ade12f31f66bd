package controllers

import (
	"net/http"

	"fusevip/logger"
	"fusevip/models"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

func userCards(db *gorm.DB, userID string) []models.UserCard {
	out := []models.UserCard{}
	if err := db.Where("user_id = ?", userID).Order("purchase_date desc").Find(&out).Error; err != nil {
		logger.Get().Error("list user cards", "user_id", userID, "error", err)
		return []models.UserCard{}
	}
	return out
}

// GET /api/cards
func GetMyCards(c *gin.Context) {
	session, _ := GetSession(c)
	db, ok := requireDB(c)
	if !ok {
		return
	}
	RespondSuccess(c, userCards(db, session.User.ID))
}

// GET /api/cards/:id
func GetMyCard(c *gin.Context) {
	session, _ := GetSession(c)
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	db, ok := requireDB(c)
	if !ok {
		return
	}

	var card models.UserCard
	if err := db.Where("id = ? AND user_id = ?", id, session.User.ID).First(&card).Error; err != nil {
		RespondError(c, "card not found", http.StatusNotFound)
		return
	}
	RespondSuccess(c, card)
}
