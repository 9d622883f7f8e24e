// Package postgres provides PostgreSQL implementation of the store interfaces.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/narvanalabs/logsight/internal/store"
)

// PostgresStore implements the Store interface using PostgreSQL.
type PostgresStore struct {
	db      *sql.DB
	logger  *slog.Logger
	sources *SourceStore
	logs    *LogStore
}

// Config holds PostgreSQL connection configuration.
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig(dsn string) *Config {
	return &Config{
		DSN:             dsn,
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: 1 * time.Minute,
	}
}

// NewPostgresStore creates a new PostgreSQL store with the given configuration.
// A failed ping is returned as a connection error; callers treat it as fatal.
func NewPostgresStore(cfg *Config, logger *slog.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	logger.Info("connected to PostgreSQL database")
	return newStore(db, logger), nil
}

// newStore wires the sub-stores around an open handle.
func newStore(db *sql.DB, logger *slog.Logger) *PostgresStore {
	return &PostgresStore{
		db:      db,
		logger:  logger,
		sources: &SourceStore{db: db, logger: logger},
		logs:    &LogStore{db: db, logger: logger},
	}
}

// Sources returns the SourceStore.
func (s *PostgresStore) Sources() store.SourceStore {
	return s.sources
}

// Logs returns the LogStore.
func (s *PostgresStore) Logs() store.LogStore {
	return s.logs
}

// EnsureSchema creates the log tables if they do not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if err := EnsureSchema(ctx, s.db); err != nil {
		return err
	}
	s.logger.Info("database schema ready")
	return nil
}

// WithTx executes the given function within a database transaction.
func (s *PostgresStore) WithTx(ctx context.Context, fn func(store.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	txStore := &txStore{
		tx:     tx,
		logger: s.logger,
	}

	if err := fn(txStore); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("failed to rollback transaction", "error", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// WithSavepoint outside a transaction is a plain transaction.
func (s *PostgresStore) WithSavepoint(ctx context.Context, fn func(store.Store) error) error {
	return s.WithTx(ctx, fn)
}

// Ping verifies the database connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	s.logger.Info("closing PostgreSQL connection")
	return s.db.Close()
}

// DB returns the underlying database connection.
func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

// txStore wraps a transaction and implements the Store interface.
type txStore struct {
	tx         *sql.Tx
	logger     *slog.Logger
	sources    *SourceStore
	logs       *LogStore
	savepoints atomic.Int64
}

func (s *txStore) Sources() store.SourceStore {
	if s.sources == nil {
		s.sources = &SourceStore{tx: s.tx, logger: s.logger}
	}
	return s.sources
}

func (s *txStore) Logs() store.LogStore {
	if s.logs == nil {
		s.logs = &LogStore{tx: s.tx, logger: s.logger}
	}
	return s.logs
}

func (s *txStore) EnsureSchema(ctx context.Context) error {
	return EnsureSchema(ctx, s.tx)
}

func (s *txStore) WithTx(ctx context.Context, fn func(store.Store) error) error {
	// Already in a transaction, just execute the function
	return fn(s)
}

// WithSavepoint isolates fn so a failed statement does not abort the
// surrounding transaction.
func (s *txStore) WithSavepoint(ctx context.Context, fn func(store.Store) error) error {
	name := fmt.Sprintf("sp_%d", s.savepoints.Add(1))

	if _, err := s.tx.ExecContext(ctx, "SAVEPOINT "+name); err != nil {
		return fmt.Errorf("creating savepoint: %w", err)
	}

	if err := fn(s); err != nil {
		if _, rbErr := s.tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+name); rbErr != nil {
			s.logger.Error("failed to rollback to savepoint", "savepoint", name, "error", rbErr)
			return fmt.Errorf("rolling back to savepoint: %w (after %v)", rbErr, err)
		}
		return err
	}

	if _, err := s.tx.ExecContext(ctx, "RELEASE SAVEPOINT "+name); err != nil {
		return fmt.Errorf("releasing savepoint: %w", err)
	}
	return nil
}

func (s *txStore) Ping(ctx context.Context) error {
	return nil
}

func (s *txStore) Close() error {
	// No-op for transaction store
	return nil
}

// queryable is an interface that both *sql.DB and *sql.Tx implement.
type queryable interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
