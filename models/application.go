package models

import (
	"time"

	"github.com/jinzhu/gorm"
)

/************************************************
/**** MARK: APPLICATION STATUS ****/
/************************************************/
const APPLICATION_STATUS_PENDING = "pending"
const APPLICATION_STATUS_APPROVED = "approved"
const APPLICATION_STATUS_REJECTED = "rejected"

// AdminApplication is a request from a user to join the admin portal.
type AdminApplication struct {
	ID         string     `gorm:"primary_key;type:varchar(36)" json:"id"`
	UserID     string     `gorm:"not null;index" json:"user_id"`
	Reason     string     `gorm:"type:text" json:"reason"`
	Status     string     `gorm:"not null;default:'pending';index" json:"status"`
	ReviewedBy *string    `json:"reviewed_by"`
	ReviewedAt *time.Time `json:"reviewed_at"`
	CreatedAt  *time.Time `json:"created_at"`

	Profile *Profile `gorm:"foreignkey:UserID;association_foreignkey:ID;association_autoupdate:false;association_autocreate:false" json:"profiles,omitempty"`
}

func (AdminApplication) TableName() string { return "admin_applications" }

func (a *AdminApplication) BeforeCreate(scope *gorm.Scope) error { return assignID(scope) }

// BusinessFeatureApplication asks for a business to be featured in the
// spotlight.
type BusinessFeatureApplication struct {
	ID         string     `gorm:"primary_key;type:varchar(36)" json:"id"`
	BusinessID string     `gorm:"not null;index" json:"business_id"`
	UserID     string     `gorm:"index" json:"user_id"`
	Reason     string     `gorm:"type:text" json:"reason"`
	Status     string     `gorm:"not null;default:'pending';index" json:"status"`
	ReviewedBy *string    `json:"reviewed_by"`
	ReviewedAt *time.Time `json:"reviewed_at"`
	CreatedAt  *time.Time `json:"created_at"`

	Business *Business `gorm:"foreignkey:BusinessID;association_foreignkey:ID;association_autoupdate:false;association_autocreate:false" json:"businesses,omitempty"`
}

func (BusinessFeatureApplication) TableName() string { return "business_feature_applications" }

func (a *BusinessFeatureApplication) BeforeCreate(scope *gorm.Scope) error { return assignID(scope) }
