package database

import (
	"database/sql"
	"fmt"
	"time"
)

// Migration is one schema step. Statements run in order inside a single
// transaction together with the schema_version bookkeeping row.
type Migration struct {
	Version     int
	Description string
	Statements  []string
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Create schema_version table",
		Statements: []string{`
			CREATE TABLE IF NOT EXISTS schema_version (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				version INTEGER NOT NULL UNIQUE,
				description TEXT NOT NULL,
				applied_at DATETIME NOT NULL
			)`,
		},
	},
	{
		Version:     2,
		Description: "Create scan_passes table",
		Statements: []string{`
			CREATE TABLE scan_passes (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				run_id TEXT NOT NULL,
				center_x INTEGER NOT NULL,
				center_y INTEGER NOT NULL,
				cells INTEGER NOT NULL,
				failed_cells INTEGER NOT NULL DEFAULT 0,
				best_x INTEGER NOT NULL,
				best_y INTEGER NOT NULL,
				best_ratio REAL NOT NULL,
				target_found BOOLEAN NOT NULL,
				duration_ms INTEGER NOT NULL,
				recorded_at DATETIME NOT NULL
			)`,
			`CREATE INDEX idx_scan_passes_run ON scan_passes(run_id)`,
		},
	},
	{
		// moves issued by the worker or the control surface
		Version:     3,
		Description: "Create cursor_moves table",
		Statements: []string{`
			CREATE TABLE cursor_moves (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				source TEXT NOT NULL,
				from_x INTEGER NOT NULL,
				from_y INTEGER NOT NULL,
				to_x INTEGER NOT NULL,
				to_y INTEGER NOT NULL,
				smooth BOOLEAN NOT NULL,
				error_message TEXT,
				recorded_at DATETIME NOT NULL
			)`,
		},
	},
}

// RunMigrations applies every migration newer than the stored version
func (db *DB) RunMigrations() error {
	current, err := db.getCurrentVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		if err := db.ExecTx(func(tx *sql.Tx) error { return m.apply(tx) }); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}
	}
	return nil
}

func (m Migration) apply(tx *sql.Tx) error {
	for i, stmt := range m.Statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("statement %d: %w", i+1, err)
		}
	}
	_, err := tx.Exec(
		`INSERT INTO schema_version (version, description, applied_at) VALUES (?, ?, ?)`,
		m.Version, m.Description, time.Now(),
	)
	return err
}

// getCurrentVersion returns 0 for a database that has never been migrated
func (db *DB) getCurrentVersion() (int, error) {
	var version int
	err := db.conn.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version)
	if err == nil {
		return version, nil
	}

	var tables int
	if qerr := db.conn.QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'schema_version'`,
	).Scan(&tables); qerr != nil {
		return 0, qerr
	}
	if tables == 0 {
		return 0, nil
	}
	return 0, err
}
