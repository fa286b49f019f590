package migrations

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"
)

//go:embed *.sql
var migrationsFS embed.FS

// versionTable records which embedded migrations have run.
const versionTable = "migrations"

// Migration is one numbered up/down pair of SQL scripts
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

// RunMigrations brings the storage schema up to date. Already applied
// versions are skipped, so it is safe to call on every open.
func RunMigrations(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS ` + versionTable + ` (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("failed to create %s table: %w", versionTable, err)
	}

	pending, err := pendingMigrations(db)
	if err != nil {
		return err
	}

	for _, m := range pending {
		err := inTx(db, func(tx *sql.Tx) error {
			if _, err := tx.Exec(m.Up); err != nil {
				return err
			}
			_, err := tx.Exec("INSERT INTO "+versionTable+" (version) VALUES (?)", m.Version)
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to apply migration %d (%s): %w", m.Version, m.Name, err)
		}
	}
	return nil
}

// RollbackLast reverts the newest applied migration. It does nothing when
// no migration has run.
func RollbackLast(db *sql.DB) error {
	all, err := LoadMigrations()
	if err != nil {
		return err
	}
	applied, err := AppliedVersions(db)
	if err != nil {
		return err
	}

	for i := len(all) - 1; i >= 0; i-- {
		m := all[i]
		if !applied[m.Version] {
			continue
		}
		err := inTx(db, func(tx *sql.Tx) error {
			if _, err := tx.Exec(m.Down); err != nil {
				return err
			}
			_, err := tx.Exec("DELETE FROM "+versionTable+" WHERE version = ?", m.Version)
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to revert migration %d (%s): %w", m.Version, m.Name, err)
		}
		return nil
	}
	return nil
}

func pendingMigrations(db *sql.DB) ([]Migration, error) {
	all, err := LoadMigrations()
	if err != nil {
		return nil, err
	}
	applied, err := AppliedVersions(db)
	if err != nil {
		return nil, err
	}

	var pending []Migration
	for _, m := range all {
		if !applied[m.Version] {
			pending = append(pending, m)
		}
	}
	return pending, nil
}

// LoadMigrations returns the embedded migrations in version order. Files
// without a numeric prefix are ignored.
func LoadMigrations() ([]Migration, error) {
	ups, err := fs.Glob(migrationsFS, "*.up.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}

	var all []Migration
	for _, file := range ups {
		version, name, ok := parseFilename(file)
		if !ok {
			continue
		}

		up, err := migrationsFS.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		downFile := strings.TrimSuffix(file, ".up.sql") + ".down.sql"
		down, err := migrationsFS.ReadFile(downFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", downFile, err)
		}

		all = append(all, Migration{Version: version, Name: name, Up: string(up), Down: string(down)})
	}

	sort.Slice(all, func(i, j int) bool { return all[i].Version < all[j].Version })
	return all, nil
}

// AppliedVersions returns the set of versions already run against db.
func AppliedVersions(db *sql.DB) (map[int]bool, error) {
	rows, err := db.Query("SELECT version FROM " + versionTable)
	if err != nil {
		return nil, fmt.Errorf("failed to read applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func inTx(db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// parseFilename splits "000002_create_session_storage.up.sql" into its
// version and name.
func parseFilename(file string) (int, string, bool) {
	base := strings.TrimSuffix(file, ".up.sql")
	prefix, name, found := strings.Cut(base, "_")
	if !found {
		return 0, "", false
	}
	version, err := strconv.Atoi(prefix)
	if err != nil || version <= 0 {
		return 0, "", false
	}
	return version, name, true
}
