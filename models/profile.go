package models

import (
	"strings"
	"time"
)

// Profile carries the public data of an auth user. Its ID is the auth user id.
type Profile struct {
	ID            string     `gorm:"primary_key;type:varchar(36)" json:"id"`
	FirstName     string     `json:"first_name" form:"first_name"`
	LastName      string     `json:"last_name" form:"last_name"`
	Email         string     `gorm:"index" json:"email" form:"email"`
	Phone         string     `json:"phone" form:"phone"`
	IsCardHolder  bool       `gorm:"not null;default:false" json:"is_card_holder"`
	WalletAddress string     `json:"wallet_address"`
	CreatedAt     *time.Time `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }

func (p Profile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}
