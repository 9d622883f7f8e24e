package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/narvanalabs/logsight/internal/models"
)

// SourceStore implements store.SourceStore using PostgreSQL.
type SourceStore struct {
	db     *sql.DB
	tx     *sql.Tx
	logger *slog.Logger
}

// conn returns the queryable connection (transaction or database).
func (s *SourceStore) conn() queryable {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

// Resolve returns the id for the (ip, endpoint) pair, inserting it when absent.
//
// The insert uses ON CONFLICT DO NOTHING; when it is a no-op the row already
// exists and is looked up by the exact pair. The unique constraint is the only
// guard, so concurrent callers (in any process) converge on one id.
func (s *SourceStore) Resolve(ctx context.Context, ip, endpoint *string) (int64, error) {
	if ip == nil && endpoint == nil {
		return 0, ErrEmptySourceKey
	}

	insert := `
		INSERT INTO log_sources (source_ip, endpoint)
		VALUES ($1::text::inet, $2)
		ON CONFLICT (source_ip, endpoint) DO NOTHING
		RETURNING id`

	var id int64
	err := s.conn().QueryRowContext(ctx, insert, nullString(ip), nullString(endpoint)).Scan(&id)
	if err == nil {
		s.logger.Debug("created log source", "source_id", id, "source", models.FormatSourceKey(ip, endpoint))
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("inserting log source: %w", classify(err))
	}

	lookup := `
		SELECT id FROM log_sources
		WHERE source_ip IS NOT DISTINCT FROM $1::text::inet
		  AND endpoint IS NOT DISTINCT FROM $2`

	err = s.conn().QueryRowContext(ctx, lookup, nullString(ip), nullString(endpoint)).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		s.logger.Error("log source neither inserted nor found", "source", models.FormatSourceKey(ip, endpoint))
		return 0, fmt.Errorf("resolving source %s: %w", models.FormatSourceKey(ip, endpoint), ErrIntegrity)
	}
	if err != nil {
		return 0, fmt.Errorf("looking up log source: %w", classify(err))
	}

	return id, nil
}

// List retrieves all sources ordered by id.
func (s *SourceStore) List(ctx context.Context) ([]*models.LogSource, error) {
	query := `SELECT id, host(source_ip), endpoint FROM log_sources ORDER BY id`

	rows, err := s.conn().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying log sources: %w", err)
	}
	defer rows.Close()

	sources := []*models.LogSource{}
	for rows.Next() {
		var (
			src      models.LogSource
			ip, path sql.NullString
		)
		if err := rows.Scan(&src.ID, &ip, &path); err != nil {
			return nil, fmt.Errorf("scanning log source row: %w", err)
		}
		src.SourceIP = stringPtr(ip)
		src.Endpoint = stringPtr(path)
		sources = append(sources, &src)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating log source rows: %w", err)
	}

	return sources, nil
}

// nullString converts an optional string to a SQL parameter.
func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// stringPtr converts a scanned nullable column back to an optional string.
func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
