// Storefront Core - catalogue and accounts service
//
// This is the main entry point for the Storefront Core application:
// a REST API for user accounts, bearer-token authentication, and a
// product catalogue with ownership-based write access.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/nerrad567/storefront-core/migrations"

	"github.com/nerrad567/storefront-core/internal/api"
	"github.com/nerrad567/storefront-core/internal/audit"
	"github.com/nerrad567/storefront-core/internal/auth"
	"github.com/nerrad567/storefront-core/internal/infrastructure/config"
	"github.com/nerrad567/storefront-core/internal/infrastructure/database"
	"github.com/nerrad567/storefront-core/internal/infrastructure/logging"
	"github.com/nerrad567/storefront-core/internal/product"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Storefront Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Wire repositories and the auth service
	userRepo := auth.NewUserRepository(db.SqlDB())
	productRepo := product.NewRepository(db.SqlDB())
	auditRepo := audit.NewSQLiteRepository(db.SqlDB())
	authSvc := auth.NewService(userRepo, cfg.Security.JWT.Secret, cfg.TokenTTL(), log.Logger)

	// Seed the first admin account on an empty database
	if _, seedErr := auth.SeedAdmin(ctx, userRepo, cfg.Seed.AdminName, cfg.Seed.AdminEmail, log.Logger); seedErr != nil {
		return fmt.Errorf("seeding admin account: %w", seedErr)
	}

	// Start the API server
	server, err := api.New(api.Deps{
		Config:   cfg,
		Logger:   log,
		Auth:     authSvc,
		Products: productRepo,
		Audit:    auditRepo,
		DB:       db,
		Version:  version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if startErr := server.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order: API server, database.

	log.Info("Storefront Core stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses STOREFRONT_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("STOREFRONT_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
