package controllers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	dbpkg "fusevip/db"
	"fusevip/logger"
	"fusevip/models"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
	"github.com/stripe/stripe-go/v81"
)

const maxWebhookBody = 64 << 10

// POST /api/webhook
//
// The signature is checked against the raw body before anything is
// decoded or written.
func StripeWebhook(c *gin.Context) {
	log := logger.Get()

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		RespondError(c, "failed to read body", http.StatusBadRequest)
		return
	}

	deps := DepsInstance(c)
	if deps.Payments == nil {
		log.Error("webhook: payment gateway not configured")
		RespondError(c, "Webhook signature verification failed", http.StatusBadRequest)
		return
	}

	event, err := deps.Payments.ConstructEvent(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		log.Warn("webhook: signature verification failed", "error", err)
		RespondError(c, "Webhook signature verification failed", http.StatusBadRequest)
		return
	}

	if event.Type != stripe.EventTypeCheckoutSessionCompleted {
		RespondSuccess(c, gin.H{"received": true})
		return
	}

	var session stripe.CheckoutSession
	if event.Data == nil {
		RespondError(c, "Error processing webhook", http.StatusBadRequest)
		return
	}
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		log.Error("webhook: decode checkout session", "event_id", event.ID, "error", err)
		RespondError(c, "Error processing webhook", http.StatusBadRequest)
		return
	}

	db, ok := requireDB(c)
	if !ok {
		return
	}

	if err := RecordCheckout(db, session, time.Now()); err != nil {
		log.Error("webhook: record checkout", "session_id", session.ID, "error", err)
		RespondError(c, "Error processing webhook", http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, gin.H{"received": true})
}

// RecordCheckout stores a completed checkout. Guest purchases become one
// guest_purchases row; purchases by a signed in user flag the profile as
// card holder and issue one card. Sessions without a user are ignored.
// Redelivered sessions hit the unique session_id indexes and are skipped.
func RecordCheckout(db *gorm.DB, s stripe.CheckoutSession, now time.Time) error {
	md := s.Metadata
	isGuest := md["isGuest"] == "true"
	userID := md["userId"]

	if !isGuest && (userID == "" || userID == "guest") {
		logger.Get().Warn("webhook: checkout without user", "session_id", s.ID)
		return nil
	}

	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	if isGuest {
		purchase := models.GuestPurchase{
			Email:     md["guestEmail"],
			CardType:  md["cardType"],
			SessionID: s.ID,
			Amount:    float64(s.AmountTotal) / 100,
			Status:    models.GUEST_PURCHASE_STATUS_COMPLETED,
			CreatedAt: &now,
		}
		if err := tx.Create(&purchase).Error; err != nil {
			tx.Rollback()
			return alreadyRecorded(err, s.ID)
		}
		return tx.Commit().Error
	}

	res := tx.Model(&models.Profile{}).Where("id = ?", userID).Update("is_card_holder", true)
	if res.Error != nil {
		tx.Rollback()
		return res.Error
	}
	if res.RowsAffected == 0 {
		logger.Get().Warn("webhook: no profile to flag as card holder", "user_id", userID)
	}

	card := models.UserCard{
		UserID:       userID,
		CardType:     md["cardType"],
		PurchaseDate: &now,
		Status:       models.USER_CARD_STATUS_ACTIVE,
	}
	if s.ID != "" {
		card.SessionID = &s.ID
	}
	if err := tx.Create(&card).Error; err != nil {
		tx.Rollback()
		return alreadyRecorded(err, s.ID)
	}

	return tx.Commit().Error
}

// alreadyRecorded swallows the unique violation of a redelivered session.
func alreadyRecorded(err error, sessionID string) error {
	if dbpkg.IsUniqueViolation(err) {
		logger.Get().Info("webhook: checkout already recorded", "session_id", sessionID)
		return nil
	}
	return err
}
