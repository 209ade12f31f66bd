package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Supabase struct {
	URL            string `json:"url" yaml:"url" env:"SUPABASE_URL"`
	AnonKey        string `json:"anon_key" yaml:"anon_key" env:"SUPABASE_ANON_KEY"`
	ServiceRoleKey string `json:"service_role_key" yaml:"service_role_key" env:"SUPABASE_SERVICE_ROLE_KEY"`
	JWTSecret      string `json:"jwt_secret" yaml:"jwt_secret" env:"SUPABASE_JWT_SECRET"`
}

type Stripe struct {
	SecretKey      string `json:"secret_key" yaml:"secret_key" env:"STRIPE_SECRET_KEY"`
	WebhookSecret  string `json:"webhook_secret" yaml:"webhook_secret" env:"STRIPE_WEBHOOK_SECRET"`
	PublishableKey string `json:"publishable_key" yaml:"publishable_key" env:"STRIPE_PUBLISHABLE_KEY"`
}

type Xaman struct {
	APIKey    string `json:"api_key" yaml:"api_key" env:"XAMAN_API_KEY"`
	APISecret string `json:"api_secret" yaml:"api_secret" env:"XAMAN_API_SECRET"`
}

type Workers struct {
	PriceRefreshSeconds int `json:"price_refresh_seconds" yaml:"price_refresh_seconds" env:"XRP_PRICE_REFRESH_SECONDS"`
	GuestClaimSeconds   int `json:"guest_claim_seconds" yaml:"guest_claim_seconds" env:"GUEST_CLAIM_INTERVAL_SECONDS"`
}

type Configuration struct {
	ApiPort  string `json:"api_port" yaml:"api_port" env:"PORT" validate:"required,numeric"`
	SiteURL  string `json:"site_url" yaml:"site_url" env:"SITE_URL" validate:"omitempty,url"`
	LogPath  string `json:"log_path" yaml:"log_path" env:"LOG_PATH"`
	LogType  string `json:"log_type" yaml:"log_type" env:"LOG_TYPE" validate:"oneof=console file"`
	LogLevel string `json:"log_level" yaml:"log_level" env:"LOG_LEVEL" validate:"oneof=debug info warning error"`

	Database    string `json:"database" yaml:"database" env:"DATABASE" validate:"oneof=sqlite3 postgres postgresql"`
	DatabaseURL string `json:"database_url" yaml:"database_url" env:"DATABASE_URL"`
	SqlitePath  string `json:"sqlite_path" yaml:"sqlite_path" env:"SQLITE_PATH"`
	DbHost      string `json:"db_host" yaml:"db_host" env:"DB_HOST"`
	DbPort      string `json:"db_port" yaml:"db_port" env:"DB_PORT"`
	DbUser      string `json:"db_user" yaml:"db_user" env:"DB_USER"`
	DbName      string `json:"db_name" yaml:"db_name" env:"DB_NAME"`
	DbPass      string `json:"db_pass" yaml:"db_pass" env:"DB_PASS"`
	AutoMigrate bool   `json:"auto_migrate" yaml:"auto_migrate" env:"AUTOMIGRATE"`

	Supabase Supabase `json:"supabase" yaml:"supabase"`
	Stripe   Stripe   `json:"stripe" yaml:"stripe"`
	Xaman    Xaman    `json:"xaman" yaml:"xaman"`
	Workers  Workers  `json:"workers" yaml:"workers"`
}

// aliases holds the secondary names each key may be published under by
// the frontend build tooling. The first non-empty value wins.
type aliases struct {
	NextSupabaseURL     string `env:"NEXT_PUBLIC_SUPABASE_URL"`
	ViteSupabaseURL     string `env:"VITE_SUPABASE_URL"`
	NextSupabaseAnonKey string `env:"NEXT_PUBLIC_SUPABASE_ANON_KEY"`
	ViteSupabaseAnonKey string `env:"VITE_SUPABASE_ANON_KEY"`
	NextStripePubKey    string `env:"NEXT_PUBLIC_STRIPE_PUBLISHABLE_KEY"`
	ViteStripePubKey    string `env:"VITE_STRIPE_PUBLISHABLE_KEY"`
	NextXamanAPIKey     string `env:"NEXT_PUBLIC_XAMAN_API_KEY"`
	ViteXamanAPIKey     string `env:"VITE_XAMAN_API_KEY"`
}

// Load reads the optional config file at path (JSON or YAML), applies
// environment overrides and fills defaults.
func Load(path string) (Configuration, error) {
	var c Configuration

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return c, fmt.Errorf("read config %s: %w", path, err)
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			err = yaml.Unmarshal(b, &c)
		default:
			err = json.Unmarshal(b, &c)
		}
		if err != nil {
			return c, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := env.Parse(&c); err != nil {
		return c, fmt.Errorf("parse env: %w", err)
	}

	var a aliases
	if err := env.Parse(&a); err != nil {
		return c, fmt.Errorf("parse env aliases: %w", err)
	}
	c.Supabase.URL = firstNonEmpty(c.Supabase.URL, a.NextSupabaseURL, a.ViteSupabaseURL)
	c.Supabase.AnonKey = firstNonEmpty(c.Supabase.AnonKey, a.NextSupabaseAnonKey, a.ViteSupabaseAnonKey)
	c.Stripe.PublishableKey = firstNonEmpty(c.Stripe.PublishableKey, a.NextStripePubKey, a.ViteStripePubKey)
	c.Xaman.APIKey = firstNonEmpty(c.Xaman.APIKey, a.NextXamanAPIKey, a.ViteXamanAPIKey)

	applyDefaults(&c)
	return c, nil
}

func applyDefaults(c *Configuration) {
	if c.ApiPort == "" {
		c.ApiPort = "8080"
	}
	if c.LogPath == "" {
		c.LogPath = "logs/server.log"
	}
	if c.LogType == "" {
		c.LogType = "console"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Database == "" {
		// a hosted connection string implies postgres
		if c.DatabaseURL != "" {
			c.Database = "postgres"
		} else {
			c.Database = "sqlite3"
		}
	}
	if c.SqlitePath == "" {
		c.SqlitePath = "db/database.db"
	}
	if c.Workers.PriceRefreshSeconds <= 0 {
		c.Workers.PriceRefreshSeconds = 60
	}
	if c.Workers.GuestClaimSeconds <= 0 {
		c.Workers.GuestClaimSeconds = 30
	}
	c.SiteURL = strings.TrimRight(c.SiteURL, "/")
	c.Supabase.URL = strings.TrimRight(c.Supabase.URL, "/")
}

// Validate checks field formats. Missing integration keys are not errors,
// see MissingKeys.
func (c Configuration) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("validation failed for Configuration: %w", err)
	}
	return nil
}

// MissingKeys lists the integration settings that are absent. Features
// depending on them degrade instead of failing startup.
func (c Configuration) MissingKeys() []string {
	var missing []string
	check := func(name, v string) {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	check("SUPABASE_URL", c.Supabase.URL)
	check("SUPABASE_ANON_KEY", c.Supabase.AnonKey)
	check("SUPABASE_JWT_SECRET", c.Supabase.JWTSecret)
	check("STRIPE_SECRET_KEY", c.Stripe.SecretKey)
	check("STRIPE_WEBHOOK_SECRET", c.Stripe.WebhookSecret)
	check("XAMAN_API_KEY", c.Xaman.APIKey)
	return missing
}

func (c Configuration) IsPostgres() bool {
	return c.Database == "postgres" || c.Database == "postgresql"
}

func (w Workers) PriceRefresh() time.Duration {
	return time.Duration(w.PriceRefreshSeconds) * time.Second
}

func (w Workers) GuestClaim() time.Duration {
	return time.Duration(w.GuestClaimSeconds) * time.Second
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
