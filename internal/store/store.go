// Package store provides database access interfaces and implementations.
package store

import (
	"context"

	"github.com/narvanalabs/logsight/internal/models"
)

// SourceStore defines operations for log source attribution.
type SourceStore interface {
	// Resolve returns the id of the (ip, endpoint) source, creating it if absent.
	// At least one half must be non-nil.
	Resolve(ctx context.Context, ip, endpoint *string) (int64, error)
	// List retrieves all known sources ordered by id.
	List(ctx context.Context) ([]*models.LogSource, error)
}

// LogStore defines operations for persisted log entries.
type LogStore interface {
	// Create inserts a new entry and sets its ID.
	Create(ctx context.Context, entry *models.LogEntry) error
	// Count returns the total number of entries.
	Count(ctx context.Context) (int, error)
	// ListWithSources returns entries joined with their sources, newest first.
	ListWithSources(ctx context.Context, filter models.LogFilter) ([]*models.LogView, error)
	// Recent returns the most recent entries, newest first.
	Recent(ctx context.Context, limit int) ([]*models.LogEntry, error)
}

// Store is the main interface for database operations.
type Store interface {
	// Sources returns the SourceStore.
	Sources() SourceStore
	// Logs returns the LogStore.
	Logs() LogStore

	// EnsureSchema creates the tables and indexes if they do not exist.
	EnsureSchema(ctx context.Context) error

	// WithTx executes the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// Otherwise, the transaction is committed.
	WithTx(ctx context.Context, fn func(Store) error) error

	// WithSavepoint runs fn inside a savepoint of the current transaction.
	// An error rolls back only the work done by fn; the transaction stays usable.
	// Outside a transaction it behaves like WithTx.
	WithSavepoint(ctx context.Context, fn func(Store) error) error

	// Ping verifies the database is reachable.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
