package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/lib/pq"
	"github.com/narvanalabs/logsight/internal/models"
)

// LogStore implements store.LogStore using PostgreSQL.
type LogStore struct {
	db     *sql.DB
	tx     *sql.Tx
	logger *slog.Logger
}

// conn returns the queryable connection (transaction or database).
func (s *LogStore) conn() queryable {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

// Create creates a new log entry.
func (s *LogStore) Create(ctx context.Context, entry *models.LogEntry) error {
	query := `
		INSERT INTO logs (timestamp, log_level, message, details, source_id)
		VALUES ($1, $2, $3, $4::text::jsonb, $5)
		RETURNING id`

	details := entry.Details
	if details == nil {
		details = models.Details{}
	}
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("marshaling log details: %w", err)
	}

	var sourceID sql.NullInt64
	if entry.SourceID != nil {
		sourceID = sql.NullInt64{Int64: *entry.SourceID, Valid: true}
	}

	err = s.conn().QueryRowContext(ctx, query,
		entry.Timestamp.UTC(),
		entry.Level,
		entry.Message,
		string(detailsJSON),
		sourceID,
	).Scan(&entry.ID)

	if err != nil {
		return fmt.Errorf("inserting log entry: %w", classify(err))
	}

	return nil
}

// Count returns the total number of log entries.
func (s *LogStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.conn().QueryRowContext(ctx, `SELECT COUNT(*) FROM logs`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting logs: %w", err)
	}
	return count, nil
}

// ListWithSources retrieves every log entry left-joined with its source,
// newest first. There is no limit.
func (s *LogStore) ListWithSources(ctx context.Context, filter models.LogFilter) ([]*models.LogView, error) {
	query := `
		SELECT l.id, l.timestamp, l.log_level, l.message, COALESCE(l.details::text, '{}'),
		       host(src.source_ip), src.endpoint
		FROM logs l
		LEFT JOIN log_sources src ON l.source_id = src.id`

	var args []any
	if len(filter.Levels) > 0 {
		query += ` WHERE l.log_level = ANY($1)`
		args = append(args, pq.Array(filter.Levels))
	}
	query += ` ORDER BY l.timestamp DESC, l.id DESC`

	rows, err := s.conn().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying logs with sources: %w", err)
	}
	defer rows.Close()

	views := []*models.LogView{}
	for rows.Next() {
		var (
			view         models.LogView
			details      string
			ip, endpoint sql.NullString
		)
		if err := rows.Scan(&view.ID, &view.Timestamp, &view.Level, &view.Message, &details, &ip, &endpoint); err != nil {
			return nil, fmt.Errorf("scanning log view row: %w", err)
		}
		if view.Details, err = decodeDetails(details); err != nil {
			return nil, err
		}
		view.SourceIP = stringPtr(ip)
		view.Endpoint = stringPtr(endpoint)
		views = append(views, &view)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating log view rows: %w", err)
	}

	return views, nil
}

// Recent retrieves the most recent log entries.
func (s *LogStore) Recent(ctx context.Context, limit int) ([]*models.LogEntry, error) {
	query := `
		SELECT id, timestamp, log_level, message, COALESCE(details::text, '{}'), source_id
		FROM logs
		ORDER BY timestamp DESC, id DESC
		LIMIT $1`

	rows, err := s.conn().QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent logs: %w", err)
	}
	defer rows.Close()

	return s.scanLogs(rows)
}

// scanLogs scans multiple log entry rows.
func (s *LogStore) scanLogs(rows *sql.Rows) ([]*models.LogEntry, error) {
	entries := []*models.LogEntry{}

	for rows.Next() {
		var (
			entry    models.LogEntry
			details  string
			sourceID sql.NullInt64
		)

		err := rows.Scan(
			&entry.ID,
			&entry.Timestamp,
			&entry.Level,
			&entry.Message,
			&details,
			&sourceID,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning log row: %w", err)
		}

		if entry.Details, err = decodeDetails(details); err != nil {
			return nil, err
		}
		if sourceID.Valid {
			id := sourceID.Int64
			entry.SourceID = &id
		}

		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating log rows: %w", err)
	}

	return entries, nil
}

// decodeDetails unmarshals a JSONB details column. Non-string values written
// by other tools are kept in their JSON text form.
func decodeDetails(raw string) (models.Details, error) {
	details := models.Details{}
	if raw == "" || raw == "null" {
		return details, nil
	}

	var generic map[string]any
	if err := json.Unmarshal([]byte(raw), &generic); err != nil {
		return nil, fmt.Errorf("decoding log details: %w", err)
	}
	for k, v := range generic {
		if str, ok := v.(string); ok {
			details[k] = str
			continue
		}
		b, _ := json.Marshal(v)
		details[k] = string(b)
	}
	return details, nil
}
