package models

import (
	"time"

	"github.com/jinzhu/gorm"
)

const USER_CARD_STATUS_ACTIVE = "active"

type UserCard struct {
	ID           string     `gorm:"primary_key;type:varchar(36)" json:"id"`
	UserID       string     `gorm:"not null;index" json:"user_id"`
	CardType     string     `gorm:"not null" json:"card_type"`
	PurchaseDate *time.Time `json:"purchase_date"`
	Status       string     `gorm:"not null;default:'active'" json:"status"`
	// checkout session that paid for the card; nil for cards issued by hand
	SessionID    *string    `gorm:"unique_index" json:"session_id,omitempty"`
	CreatedAt    *time.Time `json:"created_at"`
}

func (UserCard) TableName() string { return "user_cards" }

func (u *UserCard) BeforeCreate(scope *gorm.Scope) error { return assignID(scope) }
