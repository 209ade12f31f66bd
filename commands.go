package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fusevip/config"
	"fusevip/controllers"
	dbpkg "fusevip/db"
	"fusevip/logger"
	"fusevip/router"
	"fusevip/tools"
	"fusevip/workers"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
	"github.com/spf13/cobra"
)

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web portal and background workers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(*configPath)
		},
	}
}

func migrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or extend the database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := setup(*configPath)
			if err != nil {
				return err
			}
			conf.AutoMigrate = false
			db, err := dbpkg.Connect(conf)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := dbpkg.Migrate(db); err != nil {
				return err
			}
			logger.Get().Info("migrations completed")
			return nil
		},
	}
}

func schemaCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the database schema as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := setup(*configPath)
			if err != nil {
				return err
			}
			db, err := dbpkg.Connect(conf)
			if err != nil {
				return err
			}
			defer db.Close()

			tables, err := controllers.ExploreSchema(db)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(gin.H{"tables": tables})
		},
	}
}

// setup loads and validates the configuration and starts the logger.
// Missing integration keys only produce warnings.
func setup(configPath string) (config.Configuration, error) {
	conf, err := config.Load(configPath)
	if err != nil {
		return conf, err
	}
	if err := conf.Validate(); err != nil {
		return conf, err
	}
	err = logger.Init(logger.Settings{
		Level:    conf.LogLevel,
		Type:     conf.LogType,
		FilePath: conf.LogPath,
	})
	if err != nil {
		return conf, fmt.Errorf("init logger: %w", err)
	}

	for _, key := range conf.MissingKeys() {
		logger.Get().Warn("missing configuration, dependent features are disabled", "key", key)
	}
	return conf, nil
}

func buildDeps(conf config.Configuration, prices controllers.PriceReader) *controllers.Deps {
	auth := tools.NewSupabaseAuth(conf.Supabase.URL, conf.Supabase.AnonKey)
	return &controllers.Deps{
		Config:   conf,
		Auth:     auth,
		Payments: tools.NewStripeGateway(conf.Stripe.SecretKey, conf.Stripe.WebhookSecret),
		Wallet:   tools.NewXamanClient(conf.Xaman.APIKey, conf.Xaman.APISecret),
		Prices:   prices,
		Verifier: controllers.NewTokenVerifier(conf.Supabase.JWTSecret, auth),
	}
}

func runServe(configPath string) error {
	conf, err := setup(configPath)
	if err != nil {
		return err
	}
	log := logger.Get()

	db, err := dbpkg.Connect(conf)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	prices := workers.NewPriceCache()
	workers.StartPriceRefresher(ctx, tools.NewCoinGecko(), prices, conf.Workers.PriceRefresh())
	workers.StartGuestClaimer(ctx, db, conf.Workers.GuestClaim())

	return serve(conf, buildDeps(conf, prices), db, log.With("port", conf.ApiPort))
}

func serve(conf config.Configuration, deps *controllers.Deps, db *gorm.DB, log *slog.Logger) error {
	if conf.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	if err := router.Initialize(r, deps, db); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + conf.ApiPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- fmt.Errorf("server failed to start: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return err
	case sig := <-quit:
		log.Info("received signal, shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}
