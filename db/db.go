package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"fusevip/config"
	"fusevip/logger"
	"fusevip/models"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

const pqUniqueViolation = "23505"

// Connect opens the hosted Postgres (or a local sqlite3 file for
// development) and migrates the schema when AutoMigrate is set.
func Connect(conf config.Configuration) (*gorm.DB, error) {
	log := logger.Get()

	var (
		db  *gorm.DB
		err error
	)

	if conf.IsPostgres() {
		log.Info("using postgres connection")
		db, err = gorm.Open("postgres", postgresDSN(conf))
	} else {
		log.Info("using sqlite3 connection", "path", conf.SqlitePath)
		if dir := filepath.Dir(conf.SqlitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		db, err = gorm.Open("sqlite3", conf.SqlitePath)
		if err == nil {
			// handlers and workers share one writer
			db.DB().SetMaxOpenConns(1)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	db.LogMode(conf.LogLevel == "debug")

	if conf.AutoMigrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// postgresDSN prefers the full connection string handed out by the hosted
// backend and falls back to the discrete fields.
func postgresDSN(conf config.Configuration) string {
	if conf.DatabaseURL != "" {
		return conf.DatabaseURL
	}
	path := "host=" + conf.DbHost + " port=" + conf.DbPort
	path += " user=" + conf.DbUser + " dbname=" + conf.DbName
	path += " password=" + conf.DbPass
	return path
}

// Migrate creates or extends every table the portal touches.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Profile{},
		&models.Business{},
		&models.UserCard{},
		&models.Purchase{},
		&models.GuestPurchase{},
		&models.Referral{},
		&models.AdminApplication{},
		&models.BusinessFeatureApplication{},
		&models.UserRole{},
		&models.PortalRole{},
		&models.OnboardingProgress{},
	).Error
	if err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}

// IsUniqueViolation reports whether err comes from a unique index, on
// either engine.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
