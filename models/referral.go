package models

import (
	"time"

	"github.com/jinzhu/gorm"
)

type Referral struct {
	ID            string     `gorm:"primary_key;type:varchar(36)" json:"id"`
	BusinessID    string     `gorm:"not null;index" json:"business_id"`
	ReferrerID    string     `json:"referrer_id"`
	ReferredEmail string     `json:"referred_email"`
	Status        string     `gorm:"default:'pending'" json:"status"`
	CreatedAt     *time.Time `json:"created_at"`
}

func (Referral) TableName() string { return "referrals" }

func (r *Referral) BeforeCreate(scope *gorm.Scope) error { return assignID(scope) }
