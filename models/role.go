package models

import "github.com/jinzhu/gorm"

const ROLE_ADMIN = "admin"

// UserRole and PortalRole are two role tables kept by the hosted backend.
// A user holds a role when either table lists it.
type UserRole struct {
	ID     string `gorm:"primary_key;type:varchar(36)" json:"id"`
	UserID string `gorm:"not null;index" json:"user_id"`
	Role   string `gorm:"not null" json:"role"`
}

func (UserRole) TableName() string { return "user_roles" }

func (r *UserRole) BeforeCreate(scope *gorm.Scope) error { return assignID(scope) }

type PortalRole struct {
	ID     string `gorm:"primary_key;type:varchar(36)" json:"id"`
	UserID string `gorm:"not null;index" json:"user_id"`
	Role   string `gorm:"not null" json:"role"`
}

func (PortalRole) TableName() string { return "portal_roles" }

func (r *PortalRole) BeforeCreate(scope *gorm.Scope) error { return assignID(scope) }
