package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/brevio/brevio-api/internal/config"
	"github.com/brevio/brevio-api/internal/platform/logger"
	"github.com/brevio/brevio-api/internal/platform/postgres"
	"github.com/brevio/brevio-api/internal/service"
	"github.com/brevio/brevio-api/internal/service/auth"
	"github.com/brevio/brevio-api/internal/store"
	"github.com/brevio/brevio-api/internal/summarize"
	"github.com/brevio/brevio-api/internal/task"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore store.UserStore
	noteStore store.NoteStore

	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	noteService      *service.NoteService

	broker    *task.Broker
	processor *task.Processor
}

// newApplication wires the application together: config, logging,
// database, stores, services and the background processor. The processor
// is created but not started; run() starts and stops it around the HTTP
// server's lifetime.
func newApplication() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(logger.LoggerConfig{Level: cfg.Server.LogLevel})
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	db, err := openDatabase(cfg, log)
	if err != nil {
		return nil, err
	}

	if err := runMigrations(db, log); err != nil {
		return nil, err
	}

	userStore := postgres.NewPostgresUserStore(db, bcrypt.DefaultCost)
	noteStore := postgres.NewPostgresNoteStore(db)

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	broker := task.NewBroker(cfg.Worker.QueueSize, log)

	processor := task.NewProcessor(
		broker,
		noteStore,
		task.SummarizeFunc(summarize.Summarize),
		task.ProcessorConfig{
			WorkerCount:   cfg.Worker.Count,
			SoftTimeLimit: time.Duration(cfg.Worker.SoftTimeLimitSeconds) * time.Second,
			HardTimeLimit: time.Duration(cfg.Worker.HardTimeLimitSeconds) * time.Second,
			Retry: task.RetryPolicy{
				MaxRetries: cfg.Worker.MaxRetries,
				BaseDelay:  time.Duration(cfg.Worker.RetryBaseDelaySeconds) * time.Second,
				MaxDelay:   time.Duration(cfg.Worker.RetryMaxDelaySeconds) * time.Second,
			},
		},
		log,
	)

	app := &application{
		config:           cfg,
		logger:           log,
		db:               db,
		userStore:        userStore,
		noteStore:        noteStore,
		jwtService:       jwtService,
		passwordVerifier: auth.NewBcryptVerifier(),
		noteService:      service.NewNoteService(noteStore, broker),
		broker:           broker,
		processor:        processor,
	}

	return app, nil
}

// cleanup releases resources held by the application. Safe to call once
// after the server has stopped.
func (app *application) cleanup() {
	app.broker.Close()
	app.processor.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("failed to close database connection", "error", err)
	}
}
