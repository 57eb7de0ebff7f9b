// Package sqlutil holds the helpers shared by the database/sql stores:
// versioned migrations and metadata encoding.
package sqlutil

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

// Dialect holds the SQL that differs between databases.
type Dialect struct {
	// CreateTable creates the schema_migrations table if missing.
	CreateTable string

	// InsertVersion records an applied version. It takes one parameter.
	InsertVersion string
}

// SQLite is the dialect for modernc.org/sqlite.
var SQLite = Dialect{
	CreateTable: `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	InsertVersion: "INSERT INTO schema_migrations (version) VALUES (?)",
}

// Postgres is the dialect for lib/pq.
var Postgres = Dialect{
	CreateTable: `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMPTZ DEFAULT NOW()
		)`,
	InsertVersion: "INSERT INTO schema_migrations (version) VALUES ($1)",
}

// Migrate applies every NNN_name.up.sql file in fsys newer than the current
// version, in order, each in its own transaction.
func Migrate(ctx context.Context, db *sql.DB, fsys fs.FS, dialect Dialect) error {
	if _, err := db.ExecContext(ctx, dialect.CreateTable); err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	currentVersion, err := Version(ctx, db)
	if err != nil {
		return err
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_documents.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if err := apply(ctx, db, dialect, version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// Version returns the highest applied migration version.
func Version(ctx context.Context, db *sql.DB) (int, error) {
	var version int
	row := db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&version); err != nil {
		return 0, fmt.Errorf("getting current version: %w", err)
	}
	return version, nil
}

func apply(ctx context.Context, db *sql.DB, dialect Dialect, version int, script string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, script); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, dialect.InsertVersion, version); err != nil {
		return fmt.Errorf("recording version: %w", err)
	}
	return tx.Commit()
}
