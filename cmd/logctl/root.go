package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/narvanalabs/logsight/internal/store"
	pgstore "github.com/narvanalabs/logsight/internal/store/postgres"
	"github.com/narvanalabs/logsight/pkg/config"
	"github.com/narvanalabs/logsight/pkg/logger"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	verbose bool

	cfg *config.Config
	log *logger.Logger

	// openStore is replaced in tests.
	openStore func(cfg *config.Config, log *slog.Logger) (store.Store, error)
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(&app{openStore: openPostgres})
}

func newRootCmdWith(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "logctl",
		Short: "logctl - operate the logsight log store",
		Long: `logctl bootstraps the logsight schema, loads log files and queries
stored entries without going through the HTTP API.

Examples:
  logctl schema                     # Create tables and indexes
  logctl load logs/app.log          # Load a log file
  logctl logs --level ERROR,WARNING # Show entries with their sources
  logctl analyze                    # Print an AI summary of recent logs

Configuration comes from the same environment variables as the API server
(DATABASE_URL, OPENAI_API_KEY, ...) and the optional LOGSIGHT_CONFIG file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		newSchemaCmd(a),
		newLoadCmd(a),
		newLogsCmd(a),
		newAnalyzeCmd(a),
	)
	return rootCmd
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Read()
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := logger.ParseLevel(cfg.Log.Level)
	if a.verbose {
		level = slog.LevelDebug
	}
	log, _, err := logger.NewWithOptions(logger.Options{Level: level, Stdout: cmd.ErrOrStderr()})
	if err != nil {
		return err
	}
	a.log = log
	return nil
}

// store opens the configured store and bootstraps the schema.
func (a *app) store(cmd *cobra.Command) (store.Store, error) {
	if err := a.cfg.RequireDatabase(); err != nil {
		return nil, err
	}
	st, err := a.openStore(a.cfg, a.log.WithComponent("store").Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := st.EnsureSchema(cmd.Context()); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

func openPostgres(cfg *config.Config, log *slog.Logger) (store.Store, error) {
	storeCfg := pgstore.DefaultConfig(cfg.DatabaseDSN)
	storeCfg.MaxOpenConns = cfg.DB.MaxOpenConns
	storeCfg.MaxIdleConns = cfg.DB.MaxIdleConns
	st, err := pgstore.NewPostgresStore(storeCfg, log)
	if err != nil {
		return nil, err
	}
	return st, nil
}
