package controllers

import (
	"errors"
	"os"
	"strings"

	dbpkg "fusevip/db"
	"fusevip/models"
	"fusevip/tools"

	"github.com/gin-gonic/gin"
)

const connectedOK = "Connected successfully"

type EnvPresence struct {
	HasSupabaseURL               bool `json:"hasSupabaseUrl"`
	HasSupabaseAnonKey           bool `json:"hasSupabaseAnonKey"`
	HasSupabaseJWTSecret         bool `json:"hasSupabaseJwtSecret"`
	HasNextPublicSupabaseURL     bool `json:"hasNextPublicSupabaseUrl"`
	HasNextPublicSupabaseAnonKey bool `json:"hasNextPublicSupabaseAnonKey"`
	HasStripeSecretKey           bool `json:"hasStripeSecretKey"`
	HasStripeWebhookSecret       bool `json:"hasStripeWebhookSecret"`
	HasXamanAPIKey               bool `json:"hasXamanApiKey"`
}

type ConnectionReport struct {
	Success  bool        `json:"success"`
	Database string      `json:"database"`
	Auth     string      `json:"auth"`
	Env      EnvPresence `json:"env"`
}

func envSet(name string) bool {
	return strings.TrimSpace(os.Getenv(name)) != ""
}

// GET /api/test-supabase
// Reports whether the database and the auth service answer, and which
// integration settings are present. Values are never echoed.
func TestSupabase(c *gin.Context) {
	deps := DepsInstance(c)
	conf := deps.Config

	report := ConnectionReport{
		Success:  true,
		Database: "Not tested",
		Auth:     "Not tested",
		Env: EnvPresence{
			HasSupabaseURL:               conf.Supabase.URL != "",
			HasSupabaseAnonKey:           conf.Supabase.AnonKey != "",
			HasSupabaseJWTSecret:         conf.Supabase.JWTSecret != "",
			HasNextPublicSupabaseURL:     envSet("NEXT_PUBLIC_SUPABASE_URL"),
			HasNextPublicSupabaseAnonKey: envSet("NEXT_PUBLIC_SUPABASE_ANON_KEY"),
			HasStripeSecretKey:           conf.Stripe.SecretKey != "",
			HasStripeWebhookSecret:       conf.Stripe.WebhookSecret != "",
			HasXamanAPIKey:               conf.Xaman.APIKey != "",
		},
	}

	if db := dbpkg.DBInstance(c); db != nil {
		var n int
		if err := db.Model(&models.Profile{}).Count(&n).Error; err != nil {
			report.Database = "Error: " + err.Error()
		} else {
			report.Database = connectedOK
		}
	}

	if deps.Auth != nil {
		if err := deps.Auth.Health(c.Request.Context()); err != nil {
			if errors.Is(err, tools.ErrNotConfigured) {
				report.Auth = "Not configured"
			} else {
				report.Auth = "Error: " + err.Error()
			}
		} else {
			report.Auth = connectedOK
		}
	}

	RespondSuccess(c, report)
}

// GET /health
func Health(c *gin.Context) {
	status := "ok"
	if db := dbpkg.DBInstance(c); db != nil {
		if err := db.DB().PingContext(c.Request.Context()); err != nil {
			status = "degraded"
		}
	}
	RespondSuccess(c, gin.H{"status": status})
}
