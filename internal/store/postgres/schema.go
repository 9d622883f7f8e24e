package postgres

import (
	"context"
	"fmt"
)

// schemaStatements create the log tables. Every statement is create-if-absent
// so EnsureSchema can run on every startup.
//
// NULLS NOT DISTINCT (PostgreSQL 15+) lets the unique constraint, and with it
// ON CONFLICT, see half-null pairs such as (127.0.0.1, NULL) as duplicates.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS log_sources (
		id SERIAL PRIMARY KEY,
		source_ip INET,
		endpoint TEXT,
		CONSTRAINT log_sources_source_ip_endpoint_key UNIQUE NULLS NOT DISTINCT (source_ip, endpoint)
	)`,
	`CREATE TABLE IF NOT EXISTS logs (
		id SERIAL PRIMARY KEY,
		timestamp TIMESTAMP NOT NULL,
		log_level VARCHAR(10) NOT NULL,
		message TEXT NOT NULL,
		details JSONB NOT NULL DEFAULT '{}'::jsonb,
		source_id INT REFERENCES log_sources(id) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_logs_timestamp ON logs (timestamp DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_logs_source_id ON logs (source_id)`,
}

// EnsureSchema idempotently creates the log_sources and logs tables.
// It must run before any read or write.
func EnsureSchema(ctx context.Context, db queryable) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensuring schema: %w", err)
		}
	}
	return nil
}
