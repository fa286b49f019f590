package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"travel-tracker/internal/errors"
)

// updated_at is always written as UTC RFC3339.
func formatStamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseStamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// scopeError converts a driver failure on scope into an app error. Deadline
// overruns from the configured timeouts become timeout errors.
func scopeError(scope Scope, operation string, err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.NewTimeoutError(fmt.Sprintf("%s in %s storage", operation, scope), err.Error()).
			WithContext("scope", string(scope))
	}
	return errors.NewStorageError(fmt.Sprintf("%s in %s storage", operation, scope), err).
		WithContext("scope", string(scope))
}

// exec runs a statement against scope that returns no rows
func exec(ctx context.Context, db *sql.DB, scope Scope, operation, query string, args ...interface{}) error {
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return scopeError(scope, operation, err)
	}
	return nil
}

// queryItem reads the single item stored under key
func queryItem(ctx context.Context, db *sql.DB, scope Scope, query, key string) (*Item, error) {
	item, err := ScanItem(db.QueryRowContext(ctx, query, key))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("item", key).WithContext("scope", string(scope))
	}
	if err != nil {
		return nil, scopeError(scope, "read "+key, err)
	}
	return item, nil
}

// queryKeys reads one string column from every row
func queryKeys(ctx context.Context, db *sql.DB, scope Scope, query string) ([]string, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, scopeError(scope, "list keys", err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, scopeError(scope, "list keys", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, scopeError(scope, "list keys", err)
	}
	return keys, nil
}
