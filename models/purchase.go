package models

import (
	"time"

	"github.com/jinzhu/gorm"
)

// Purchase is a sale recorded by a business for a card holder.
type Purchase struct {
	ID          string     `gorm:"primary_key;type:varchar(36)" json:"id"`
	BusinessID  string     `gorm:"not null;index" json:"business_id"`
	UserID      string     `gorm:"index" json:"user_id"`
	Amount      float64    `gorm:"not null;default:0" json:"amount"`
	Description string     `json:"description"`
	CreatedAt   *time.Time `json:"created_at"`
}

func (Purchase) TableName() string { return "purchases" }

func (p *Purchase) BeforeCreate(scope *gorm.Scope) error { return assignID(scope) }

/************************************************
/**** MARK: GUEST PURCHASE STATUS ****/
/************************************************/
const GUEST_PURCHASE_STATUS_COMPLETED = "completed"
const GUEST_PURCHASE_STATUS_CLAIMED = "claimed"

// GuestPurchase records a card bought without an account. It is claimed by
// the profile that later signs up with the same email.
type GuestPurchase struct {
	ID        string     `gorm:"primary_key;type:varchar(36)" json:"id"`
	Email     string     `gorm:"not null;index" json:"email"`
	CardType  string     `gorm:"not null" json:"card_type"`
	SessionID string     `gorm:"unique_index" json:"session_id"`
	Amount    float64    `gorm:"not null;default:0" json:"amount"`
	Status    string     `gorm:"not null;default:'completed';index" json:"status"`
	ClaimedBy *string    `json:"claimed_by"`
	ClaimedAt *time.Time `json:"claimed_at"`
	CreatedAt *time.Time `json:"created_at"`
}

func (GuestPurchase) TableName() string { return "guest_purchases" }

func (g *GuestPurchase) BeforeCreate(scope *gorm.Scope) error { return assignID(scope) }
