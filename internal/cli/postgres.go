package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// PostgreSQL error codes the CLI reacts to.
const (
	pgUndefinedTable    = "42P01"
	pgUndefinedColumn   = "42703"
	pgUndefinedFunction = "42883"
	pgInvalidDatabase   = "3D000"
)

// SQLState extracts the SQLSTATE code from a PostgreSQL error returned by
// either lib/pq or pgx. Returns "" for anything else.
func SQLState(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// DatabaseError maps a database failure to an exit code. Connection and
// authentication failures exit with ExitDBConnect; a table that lacks the
// contributions layout is a configuration problem.
func DatabaseError(msg string, err error) *ExitError {
	code := SQLState(err)
	switch {
	case code == "":
		return GeneralError(msg, err)
	case strings.HasPrefix(code, "08"), strings.HasPrefix(code, "28"), code == pgInvalidDatabase:
		return DBConnectError(msg, err)
	case code == pgUndefinedTable:
		return ConfigError(msg, fmt.Errorf("check.table does not exist: %w", err))
	case code == pgUndefinedColumn, code == pgUndefinedFunction:
		return ConfigError(msg, fmt.Errorf("check.table does not have the contributions layout: %w", err))
	}
	return GeneralError(msg, err)
}

// QuoteTable quotes each part of a possibly schema-qualified table name.
func QuoteTable(table string) string {
	parts := strings.Split(table, ".")
	for i, p := range parts {
		parts[i] = pq.QuoteIdentifier(p)
	}
	return strings.Join(parts, ".")
}

// BindArgs wraps slice parameters for lib/pq, which has no native array
// encoding. Scalars pass through unchanged.
func BindArgs(args []any) []any {
	out := make([]any, len(args))
	for i, a := range args {
		switch a.(type) {
		case []string, []int64:
			out[i] = pq.Array(a)
		default:
			out[i] = a
		}
	}
	return out
}
