// Package main implements the extraction worker: it polls the job
// queue and turns submitted meeting notes into suggested action items.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/MarcKarbowiak/meeting-action-extractor/internal/config"
	"github.com/MarcKarbowiak/meeting-action-extractor/internal/extraction"
	"github.com/MarcKarbowiak/meeting-action-extractor/internal/flags"
	"github.com/MarcKarbowiak/meeting-action-extractor/internal/platform/gemini"
	"github.com/MarcKarbowiak/meeting-action-extractor/internal/platform/jsonfile"
	"github.com/MarcKarbowiak/meeting-action-extractor/internal/platform/logger"
	"github.com/MarcKarbowiak/meeting-action-extractor/internal/worker"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Worker exited with error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logr, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	st := jsonfile.New(cfg.Store.DataDir, jsonfile.Options{LockTTL: cfg.Worker.LockTTL}, logr)
	if err := st.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	provider, err := buildProvider(ctx, cfg, logr)
	if err != nil {
		return err
	}

	w := worker.New(st, provider, worker.Config{
		MaxJobs:     cfg.Worker.MaxJobs,
		MaxAttempts: cfg.Worker.MaxAttempts,
		Interval:    cfg.Worker.Interval,
	}, logr)

	logr.Info("Worker starting",
		slog.String("data_dir", cfg.Store.DataDir),
		slog.Duration("interval", cfg.Worker.Interval))

	w.Run(ctx)

	logr.Info("Worker shutdown completed")
	return nil
}

// buildProvider selects the extraction provider. The feature-flag
// environment override wins over the static config so the provider can
// be swapped without redeploying.
func buildProvider(ctx context.Context, cfg *config.Config, logr *slog.Logger) (extraction.Provider, error) {
	envFlags := flags.FromEnv(!cfg.Server.IsDevelopment())
	name := envFlags.String(flags.KeyExtractorProvider, cfg.Extractor.Provider)

	switch name {
	case extraction.ProviderGemini:
		provider, err := gemini.NewProvider(ctx, gemini.Config{
			APIKey: cfg.Extractor.GeminiAPIKey,
			Model:  cfg.Extractor.GeminiModel,
		}, logr)
		if err != nil {
			return nil, fmt.Errorf("failed to build gemini provider: %w", err)
		}
		return provider, nil
	case extraction.ProviderRules:
		return extraction.NewRulesProvider(), nil
	default:
		return nil, fmt.Errorf("unknown extraction provider %q", name)
	}
}
