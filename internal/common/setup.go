package common

import (
	"context"
	"log"
	"strings"

	"commerce-context-go/internal/analytics"
	"commerce-context-go/internal/correlate"
	"commerce-context-go/internal/database"
	"commerce-context-go/internal/models"
	"commerce-context-go/internal/registry"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// init loads environment variables from .env file if it exists
func init() {
	// Try to load .env file - if it doesn't exist, that's okay
	// Environment variables can be set via other means (shell export, docker, etc.)
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: No .env file found or unable to load it: %v\n", err)
	} else {
		log.Println("✓ Loaded environment variables from .env file")
	}
}

// Services bundles everything a command needs once the store is open.
type Services struct {
	DbService  *database.Service
	Correlator *correlate.Engine
	Analytics  *analytics.Service
	Registry   *registry.Registry
}

func InitializeLogger() (*zap.Logger, func()) {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		if err := logger.Sync(); err != nil {
			if !isIgnorableSyncError(err) {
				log.Printf("Failed to sync logger: %v\n", err)
			}
		}
	}

	return logger, cleanup
}

// InitializeServices opens the store and wires the correlation engine,
// analytics service and capability registry on top of it.
func InitializeServices(ctx context.Context, cfg *models.Config) (*Services, error) {
	dbService, err := database.NewService(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	correlator := correlate.NewEngine(dbService, cfg.Analytics)
	analyticsService := analytics.NewService(dbService, cfg.Analytics)
	capabilityRegistry := registry.New(dbService, correlator, analyticsService)

	return &Services{
		DbService:  dbService,
		Correlator: correlator,
		Analytics:  analyticsService,
		Registry:   capabilityRegistry,
	}, nil
}

// InitializeDatabaseOnly opens just the store, for commands that do not need
// the registry stack.
func InitializeDatabaseOnly(ctx context.Context, cfg *models.Config) (*database.Service, error) {
	dbService, err := database.NewService(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	return dbService, nil
}

func (cs *Services) Close() {
	if cs.DbService != nil {
		cs.DbService.Close()
	}
}

func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "sync /dev/stderr: inappropriate ioctl for device") ||
		strings.Contains(msg, "sync /dev/stdout: inappropriate ioctl for device")
}
