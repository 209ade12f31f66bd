package workers

import (
	"context"
	"strings"
	"time"

	"fusevip/logger"
	"fusevip/models"

	"github.com/jinzhu/gorm"
)

// StartGuestClaimer periodically hands completed guest purchases to the
// profile registered with the same email.
func StartGuestClaimer(ctx context.Context, db *gorm.DB, every time.Duration) {
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				ClaimPendingGuestPurchases(db)
			}
		}
	}()
}

// ClaimPendingGuestPurchases claims every completed guest purchase whose
// email now belongs to a profile and returns how many were claimed.
func ClaimPendingGuestPurchases(db *gorm.DB) int {
	log := logger.Get()

	var pending []models.GuestPurchase
	if err := db.
		Where("status = ?", models.GUEST_PURCHASE_STATUS_COMPLETED).
		Order("created_at asc").
		Limit(50).
		Find(&pending).Error; err != nil {
		log.Error("guest claims worker: query", "error", err)
		return 0
	}

	claimed := 0
	for _, gp := range pending {
		var profile models.Profile
		if err := db.Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(gp.Email))).First(&profile).Error; err != nil {
			if !gorm.IsRecordNotFoundError(err) {
				log.Warn("guest claims worker: find profile", "purchase_id", gp.ID, "error", err)
			}
			continue
		}

		ok, err := claimGuestPurchase(db, gp, profile.ID)
		if err != nil {
			log.Error("guest claims worker: claim", "purchase_id", gp.ID, "error", err)
			continue
		}
		if ok {
			claimed++
		}
	}
	return claimed
}

// ClaimGuestPurchasesFor claims the completed guest purchases made with
// the profile's email. It runs right after sign-up.
func ClaimGuestPurchasesFor(db *gorm.DB, profile models.Profile) (int, error) {
	email := strings.ToLower(strings.TrimSpace(profile.Email))
	if email == "" {
		return 0, nil
	}

	var pending []models.GuestPurchase
	if err := db.
		Where("status = ? AND LOWER(email) = ?", models.GUEST_PURCHASE_STATUS_COMPLETED, email).
		Find(&pending).Error; err != nil {
		return 0, err
	}

	claimed := 0
	for _, gp := range pending {
		ok, err := claimGuestPurchase(db, gp, profile.ID)
		if err != nil {
			return claimed, err
		}
		if ok {
			claimed++
		}
	}
	return claimed, nil
}

// claimGuestPurchase moves one purchase to claimed, issues the card and
// flags the profile as card holder in a single transaction. It reports
// false when another claimer got there first.
func claimGuestPurchase(db *gorm.DB, gp models.GuestPurchase, userID string) (bool, error) {
	now := time.Now()

	tx := db.Begin()
	if tx.Error != nil {
		return false, tx.Error
	}

	// optimistic lock: only the claimer that flips the status proceeds
	res := tx.Model(&models.GuestPurchase{}).
		Where("id = ? AND status = ?", gp.ID, models.GUEST_PURCHASE_STATUS_COMPLETED).
		Updates(map[string]any{
			"status":     models.GUEST_PURCHASE_STATUS_CLAIMED,
			"claimed_by": &userID,
			"claimed_at": &now,
		})
	if res.Error != nil {
		tx.Rollback()
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		return false, nil
	}

	purchaseDate := gp.CreatedAt
	if purchaseDate == nil {
		purchaseDate = &now
	}
	card := models.UserCard{
		UserID:       userID,
		CardType:     gp.CardType,
		PurchaseDate: purchaseDate,
		Status:       models.USER_CARD_STATUS_ACTIVE,
	}
	if gp.SessionID != "" {
		card.SessionID = &gp.SessionID
	}
	if err := tx.Create(&card).Error; err != nil {
		tx.Rollback()
		return false, err
	}

	if err := tx.Model(&models.Profile{}).Where("id = ?", userID).Update("is_card_holder", true).Error; err != nil {
		tx.Rollback()
		return false, err
	}

	if err := tx.Commit().Error; err != nil {
		return false, err
	}

	logger.Get().Info("guest purchase claimed", "purchase_id", gp.ID, "user_id", userID, "card_type", gp.CardType)
	return true, nil
}
