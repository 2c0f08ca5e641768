package main

import (
	"fmt"
	"log/slog"

	"github.com/MarcKarbowiak/meeting-action-extractor/internal/config"
	"github.com/MarcKarbowiak/meeting-action-extractor/internal/flags"
	"github.com/MarcKarbowiak/meeting-action-extractor/internal/platform/jsonfile"
	"github.com/MarcKarbowiak/meeting-action-extractor/internal/platform/logger"
	"github.com/MarcKarbowiak/meeting-action-extractor/internal/store"
)

// application holds the server's wired dependencies.
type application struct {
	config *config.Config
	logger *slog.Logger
	store  store.Store
	flags  flags.Flags
}

// initializeApp loads configuration and sets up application components.
// Returns the wired application and any initialization error.
func initializeApp() (*application, error) {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// Set up structured logging using the configured log level
	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("Server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("mode", cfg.Server.Mode),
		slog.String("data_dir", cfg.Store.DataDir))

	// Open the JSON document store, creating the file when absent
	st := jsonfile.New(cfg.Store.DataDir, jsonfile.Options{LockTTL: cfg.Worker.LockTTL}, log)
	if err := st.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	return &application{
		config: cfg,
		logger: log,
		store:  st,
		flags:  flags.FromEnv(!cfg.Server.IsDevelopment()),
	}, nil
}

// run serves HTTP until interrupted.
func (app *application) run() error {
	return app.startHTTPServer(app.setupRouter())
}
