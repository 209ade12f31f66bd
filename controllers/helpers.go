package controllers

import (
	"net/http"
	"strings"

	dbpkg "fusevip/db"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
)

// ParamID reads a UUID path parameter and answers 400 when it is malformed.
func ParamID(c *gin.Context, name string) (string, bool) {
	v := strings.TrimSpace(c.Param(name))
	if v == "" {
		RespondError(c, name+" is required", http.StatusBadRequest)
		return "", false
	}
	if _, err := uuid.Parse(v); err != nil {
		RespondError(c, "invalid "+name, http.StatusBadRequest)
		return "", false
	}
	return v, true
}

// requireDB answers 500 when no database was injected.
func requireDB(c *gin.Context) (*gorm.DB, bool) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "database not configured", http.StatusInternalServerError)
		return nil, false
	}
	return db, true
}

// requestOrigin is the base URL used for redirects handed to third parties.
func requestOrigin(c *gin.Context, siteURL string) string {
	if o := strings.TrimRight(c.GetHeader("Origin"), "/"); o != "" {
		return o
	}
	if siteURL != "" {
		return siteURL
	}
	scheme := "http"
	if c.Request.TLS != nil || strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}
