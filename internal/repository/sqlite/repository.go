package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"travel-tracker/internal/errors"
	"travel-tracker/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// Repository defines the key/value operations of client-local storage
type Repository interface {
	GetItem(ctx context.Context, scope Scope, key string) (*Item, error)
	SetItem(ctx context.Context, scope Scope, key, value string) error
	RemoveItem(ctx context.Context, scope Scope, key string) error
	ClearScope(ctx context.Context, scope Scope) error
	Keys(ctx context.Context, scope Scope) ([]string, error)

	// Utility
	Close() error
}

// SQLiteRepository implements the Repository interface
type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time

	queryTimeout time.Duration
	writeTimeout time.Duration
}

// New creates a new SQLite repository instance
func New(dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.NewStorageError("open database", err)
	}

	// In-memory databases are per connection.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := migrations.RunMigrations(db); err != nil {
		db.Close()
		return nil, errors.NewStorageError("run migrations", err)
	}

	return NewWithDB(db), nil
}

// NewWithDB wraps an already migrated database handle.
func NewWithDB(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

// SetTimeouts bounds every read and write. Zero leaves the caller's context as is.
func (r *SQLiteRepository) SetTimeouts(query, write time.Duration) {
	r.queryTimeout = query
	r.writeTimeout = write
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func tableFor(scope Scope) (string, error) {
	table, ok := scope.table()
	if !ok {
		return "", errors.NewInvalidInputError("scope", string(scope), "must be local or session")
	}
	return table, nil
}

// GetItem returns the item stored under key, or a not found error
func (r *SQLiteRepository) GetItem(ctx context.Context, scope Scope, key string) (*Item, error) {
	table, err := tableFor(scope)
	if err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, r.queryTimeout)
	defer cancel()

	query := fmt.Sprintf("SELECT key, value, updated_at FROM %s WHERE key = ?", table)
	return queryItem(ctx, r.db, scope, query, key)
}

// SetItem inserts or replaces the value stored under key
func (r *SQLiteRepository) SetItem(ctx context.Context, scope Scope, key, value string) error {
	table, err := tableFor(scope)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
	INSERT INTO %s (key, value, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`, table)

	ctx, cancel := withTimeout(ctx, r.writeTimeout)
	defer cancel()

	return exec(ctx, r.db, scope, "write "+key, query, key, value, formatStamp(r.now()))
}

// RemoveItem deletes key. Removing an absent key is not an error.
func (r *SQLiteRepository) RemoveItem(ctx context.Context, scope Scope, key string) error {
	table, err := tableFor(scope)
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(ctx, r.writeTimeout)
	defer cancel()

	query := fmt.Sprintf("DELETE FROM %s WHERE key = ?", table)
	return exec(ctx, r.db, scope, "remove "+key, query, key)
}

// ClearScope deletes every key in the scope
func (r *SQLiteRepository) ClearScope(ctx context.Context, scope Scope) error {
	table, err := tableFor(scope)
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(ctx, r.writeTimeout)
	defer cancel()

	return exec(ctx, r.db, scope, "clear", fmt.Sprintf("DELETE FROM %s", table))
}

// Keys lists the keys of a scope in lexical order
func (r *SQLiteRepository) Keys(ctx context.Context, scope Scope) ([]string, error) {
	table, err := tableFor(scope)
	if err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, r.queryTimeout)
	defer cancel()

	return queryKeys(ctx, r.db, scope, fmt.Sprintf("SELECT key FROM %s ORDER BY key", table))
}
