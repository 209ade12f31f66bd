package controllers

import (
	"slices"

	"fusevip/logger"
	"fusevip/models"
	"fusevip/tools"

	"github.com/jinzhu/gorm"
)

// Session is everything the portal knows about the signed in user.
type Session struct {
	User            tools.AuthUser  `json:"user"`
	Profile         *models.Profile `json:"profile"`
	Roles           []string        `json:"roles"`
	PortalRoles     []string        `json:"portal_roles"`
	IsAdmin         bool            `json:"is_admin"`
	IsBusinessOwner bool            `json:"is_business_owner"`
	BusinessID      string          `json:"business_id,omitempty"`
	ReferralCount   int             `json:"referral_count"`
}

// HasRole reports whether either role table grants role. The admin role is
// also held by anyone flagged IsAdmin.
func (s Session) HasRole(role string) bool {
	if slices.Contains(s.Roles, role) || slices.Contains(s.PortalRoles, role) {
		return true
	}
	return role == models.ROLE_ADMIN && s.IsAdmin
}

// ResolveSession loads profile, roles, business ownership and, for owners,
// the referral count. The reads run one after another; a failed read is
// logged and leaves its part of the session empty.
func ResolveSession(db *gorm.DB, user tools.AuthUser) Session {
	s := Session{User: user, Roles: []string{}, PortalRoles: []string{}}
	if db == nil {
		return s
	}
	log := logger.Get().With("user_id", user.ID)

	var profile models.Profile
	if err := db.Where("id = ?", user.ID).First(&profile).Error; err == nil {
		s.Profile = &profile
	} else if !gorm.IsRecordNotFoundError(err) {
		log.Warn("session: load profile", "error", err)
	}

	var userRoles []models.UserRole
	if err := db.Where("user_id = ?", user.ID).Find(&userRoles).Error; err != nil {
		log.Warn("session: load user roles", "error", err)
	}
	for _, r := range userRoles {
		s.Roles = append(s.Roles, r.Role)
	}

	var portalRoles []models.PortalRole
	if err := db.Where("user_id = ?", user.ID).Find(&portalRoles).Error; err != nil {
		log.Warn("session: load portal roles", "error", err)
	}
	for _, r := range portalRoles {
		s.PortalRoles = append(s.PortalRoles, r.Role)
	}

	s.IsAdmin = slices.Contains(s.Roles, models.ROLE_ADMIN) || slices.Contains(s.PortalRoles, models.ROLE_ADMIN)

	var business models.Business
	if err := db.Select("id").Where("user_id = ?", user.ID).First(&business).Error; err == nil {
		s.IsBusinessOwner = true
		s.BusinessID = business.ID
	} else if !gorm.IsRecordNotFoundError(err) {
		log.Warn("session: load business", "error", err)
	}

	if s.IsBusinessOwner {
		if err := db.Model(&models.Referral{}).Where("business_id = ?", s.BusinessID).Count(&s.ReferralCount).Error; err != nil {
			log.Warn("session: count referrals", "error", err)
			s.ReferralCount = 0
		}
	}

	return s
}
