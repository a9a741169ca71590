package internal

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"trackboard/internal/analytics"
	"trackboard/internal/config"
	"trackboard/internal/database"
	"trackboard/internal/jobs"
	"trackboard/internal/logger"
	"trackboard/internal/observations"
	"trackboard/internal/tracks"
)

// Application wires configuration, logging, storage, the aggregation
// pipeline and the HTTP server together.
type Application struct {
	Config    *config.Config
	Logger    *logrus.Logger
	DBManager *database.Manager
	Pipeline  *analytics.Pipeline
	Scheduler *jobs.Scheduler
	Server    *fiber.App
}

// NewApp creates a new application instance with default settings
func NewApp() (*Application, error) {
	cfg := config.GetConfig()
	return NewAppWithConfig(cfg)
}

// NewAppWithConfig creates a new application with the provided config
func NewAppWithConfig(cfg *config.Config) (*Application, error) {
	log := logger.New(cfg)

	dbManager := database.NewManager(cfg, log)
	if err := dbManager.Connect(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	app := &Application{
		Config:    cfg,
		Logger:    log,
		DBManager: dbManager,
		Pipeline:  analytics.NewPipeline(tracks.DefaultResolver{}, cfg.Engine()),
		Server: fiber.New(fiber.Config{
			AppName:               cfg.AppName,
			DisableStartupMessage: cfg.IsTest(),
		}),
	}
	app.Scheduler = jobs.NewScheduler(dbManager.GetConnection(), log, cfg)
	app.MountRoutes(app.Server)
	return app, nil
}

// Migrate runs the database migrations for all persisted models.
func (a *Application) Migrate() error {
	return a.DBManager.Migrate(
		&observations.Observation{},
		&observations.IngestBatch{},
	)
}

// Start launches the background jobs, then listens on the configured port
// and blocks until the server stops.
func (a *Application) Start() error {
	a.Scheduler.Start()
	addr := ":" + a.Config.AppPort
	a.Logger.WithField("addr", addr).Info("Starting server")
	return a.Server.Listen(addr)
}

// Shutdown stops the background jobs and the HTTP server, then closes the
// database.
func (a *Application) Shutdown(ctx context.Context) error {
	a.Scheduler.Stop()
	if err := a.Server.ShutdownWithContext(ctx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}
	if err := a.DBManager.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	a.Logger.Info("Shutdown complete")
	return nil
}
