package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/narvanalabs/logsight/internal/store"
)

// Aliases of the store sentinels, for callers holding a *PostgresStore.
var (
	ErrIntegrity      = store.ErrIntegrity
	ErrEmptySourceKey = store.ErrEmptySourceKey
)

// PostgreSQL SQLSTATE codes the store cares about.
const (
	codeForeignKeyViolation = "23503"
	codeStringTooLong       = "22001"
	codeInvalidText         = "22P02"
)

// sqlState returns the SQLSTATE of a PostgreSQL error, or "".
func sqlState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsDataError reports whether err was caused by a value the schema rejects,
// such as an over-long level or an unparsable address.
func IsDataError(err error) bool {
	switch sqlState(err) {
	case codeStringTooLong, codeInvalidText, codeForeignKeyViolation:
		return true
	}
	return false
}

// classify tags data errors with store.ErrRejected so callers need not know
// SQLSTATE codes. Other errors pass through unchanged.
func classify(err error) error {
	if IsDataError(err) {
		return fmt.Errorf("%w: %w", store.ErrRejected, err)
	}
	return err
}
