package database

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// MemoryDSN opens a private in-memory database. Nothing written to it
// outlives the process.
const MemoryDSN = ":memory:"

// DB wraps the SQLite connection holding the scan journal
type DB struct {
	conn      *sql.DB
	dsn       string
	maxPasses int
}

// Open opens a SQLite database and runs migrations
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// A single long-lived connection keeps an in-memory database alive.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)

	db := &DB{
		conn:      conn,
		dsn:       dsn,
		maxPasses: 500,
	}

	if err := db.RunMigrations(); err != nil {
		conn.Close()
		return nil, err
	}

	return db, nil
}

// OpenInMemory opens the process-scoped journal
func OpenInMemory() (*DB, error) {
	return Open(MemoryDSN)
}

// SetMaxPasses bounds how many scan passes are retained
func (db *DB) SetMaxPasses(n int) {
	if n > 0 {
		db.maxPasses = n
	}
}

// Close closes the database connection
func (db *DB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// Conn returns the underlying sql.DB connection
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// ExecTx executes a function within a transaction
func (db *DB) ExecTx(fn func(*sql.Tx) error) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}

	err = fn(tx)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	return tx.Commit()
}

// GetVersion returns the current database schema version
func (db *DB) GetVersion() (int, error) {
	return db.getCurrentVersion()
}
