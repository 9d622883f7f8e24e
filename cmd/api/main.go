// Package main provides the entry point for the API server.
package main

import (
	"context"
	"errors"
	"os"

	"github.com/narvanalabs/logsight/internal/ai"
	"github.com/narvanalabs/logsight/internal/analysis"
	"github.com/narvanalabs/logsight/internal/api"
	"github.com/narvanalabs/logsight/internal/loader"
	"github.com/narvanalabs/logsight/internal/shutdown"
	pgstore "github.com/narvanalabs/logsight/internal/store/postgres"
	"github.com/narvanalabs/logsight/pkg/config"
	"github.com/narvanalabs/logsight/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Default().Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Initialize logger; the file copy is what the seed step reads on the next start
	log, closer, err := logger.NewWithOptions(logger.Options{
		Level: logger.ParseLevel(cfg.Log.Level),
		JSON:  cfg.Log.Format == "json",
		File:  cfg.Log.File,
	})
	if err != nil {
		logger.Default().Error("failed to initialize logger", "error", err)
		os.Exit(1)
	}

	// Initialize database store
	storeCfg := pgstore.DefaultConfig(cfg.DatabaseDSN)
	storeCfg.MaxOpenConns = cfg.DB.MaxOpenConns
	storeCfg.MaxIdleConns = cfg.DB.MaxIdleConns
	store, err := pgstore.NewPostgresStore(storeCfg, log.WithComponent("store").Logger)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		closer.Close()
		os.Exit(1)
	}

	ctx := context.Background()
	if err := store.EnsureSchema(ctx); err != nil {
		log.Error("failed to bootstrap schema", "error", err)
		store.Close()
		closer.Close()
		os.Exit(1)
	}

	// Seed from the log file when the store is empty
	seeder := loader.New(store, log.Logger)
	if res, err := seeder.SeedIfEmpty(ctx, cfg.SeedLogFile); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Warn("seed log file not found, starting empty", "path", cfg.SeedLogFile)
		} else {
			log.Error("failed to seed logs", "error", err, "path", cfg.SeedLogFile)
		}
	} else if res != nil {
		log.Info("seeded logs", "load_id", res.LoadID, "inserted", res.Inserted, "skipped", res.Skipped, "failed", res.Failed)
	}

	completer := ai.NewClient(ai.Config{
		APIKey:  cfg.AI.APIKey,
		BaseURL: cfg.AI.BaseURL,
		Model:   cfg.AI.Model,
		Timeout: cfg.AI.Timeout,
	}, log.WithComponent("ai").Logger)
	analyzer := analysis.NewService(store, completer, log.Logger)

	// Create and start the API server
	server := api.NewServer(cfg, store, analyzer, log.WithComponent("api").Logger)

	// Shutdown runs newest first: server, then store, then log file
	coordinator := shutdown.NewCoordinator(
		shutdown.WithTimeout(cfg.ShutdownTimeout),
		shutdown.WithLogger(log.Logger),
	)
	coordinator.Register(shutdown.NewCloserComponent("log file", closer))
	coordinator.Register(shutdown.NewCloserComponent("store", store))
	coordinator.Register(shutdown.NewServerComponent("api server", server))
	go coordinator.WaitForSignal()

	if err := server.Start(ctx); err != nil {
		log.Error("server error", "error", err)
		coordinator.Shutdown()
		coordinator.Wait()
		os.Exit(1)
	}

	coordinator.Wait()
	log.Info("server stopped")
	os.Exit(coordinator.ExitCode())
}
