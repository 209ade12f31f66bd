package models

import (
	"strings"
	"time"

	"github.com/jinzhu/gorm"
)

/************************************************
/**** MARK: BUSINESS STATUS ****/
/************************************************/
const BUSINESS_STATUS_PENDING = "pending"
const BUSINESS_STATUS_APPROVED = "approved"
const BUSINESS_STATUS_REJECTED = "rejected"

// Business is a merchant taking part in the rewards network. New rows start
// pending until an admin approves them.
type Business struct {
	ID                  string     `gorm:"primary_key;type:varchar(36)" json:"id"`
	UserID              string     `gorm:"index" json:"user_id"`
	Name                string     `gorm:"not null" json:"name" form:"name"`
	Category            string     `json:"category" form:"category"`
	Description         string     `gorm:"type:text" json:"description" form:"description"`
	BusinessAddress     string     `json:"business_address" form:"business_address"`
	ContactName         string     `json:"contact_name" form:"contact_name"`
	ContactEmail        string     `json:"contact_email" form:"contact_email"`
	ContactPhone        string     `json:"contact_phone" form:"contact_phone"`
	Website             string     `json:"website" form:"website"`
	LogoURL             string     `gorm:"column:logo_url" json:"logo_url" form:"logo_url"`
	PremiumDiscount     string     `json:"premium_discount" form:"premium_discount"`
	Referral            string     `json:"referral" form:"referral"`
	BusinessReferral    string     `json:"business_referral" form:"business_referral"`
	ReferringBusinessID *string    `json:"referring_business_id" form:"referring_business_id"`
	Status              string     `gorm:"not null;default:'pending';index" json:"status"`
	IsFeatured          bool       `gorm:"not null;default:false" json:"is_featured"`
	ApprovedBy          *string    `json:"approved_by"`
	ApprovedAt          *time.Time `json:"approved_at"`
	CreatedAt           *time.Time `json:"created_at"`
	UpdatedAt           *time.Time `json:"updated_at"`

	Owner *Profile `gorm:"foreignkey:UserID;association_foreignkey:ID;association_autoupdate:false;association_autocreate:false" json:"profiles,omitempty"`
}

func (Business) TableName() string { return "businesses" }

func (b *Business) BeforeCreate(scope *gorm.Scope) error { return assignID(scope) }

func (b Business) MissingFields() string {
	if strings.TrimSpace(b.Name) == "" {
		return "name"
	} else if strings.TrimSpace(b.Category) == "" {
		return "category"
	}
	return ""
}

// BusinessSummary is the projection used by pickers and listings.
type BusinessSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}
