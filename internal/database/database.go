package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// Database wraps a *sql.DB exposing the string key/value store that holds
// persisted client data. It is safe for concurrent use because the
// underlying *sql.DB is concurrency-safe.
type Database struct {
	conn   *sql.DB
	logger *logrus.Logger

	getStmt    *sql.Stmt
	setStmt    *sql.Stmt
	deleteStmt *sql.Stmt
	keysStmt   *sql.Stmt
}

// NewDatabase opens (or creates) a SQLite database at the provided path and
// ensures the key/value table exists. Caller should Close() it when finished.
func NewDatabase(dbPath string, maxConnections int, logger *logrus.Logger) (*Database, error) {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	if maxConnections < 1 {
		maxConnections = 1
	}

	conn, err := sql.Open("sqlite3", dbPath+"?cache=shared&mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	conn.SetMaxOpenConns(maxConnections)
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(15 * time.Minute)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA cache_size=2000;",
		"PRAGMA temp_store=memory;",
	}

	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			logger.WithError(err).WithField("pragma", pragma).Warn("Failed to set pragma")
		}
	}

	db := &Database{
		conn:   conn,
		logger: logger,
	}

	if err := db.createTables(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	if err := db.prepareStatements(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	logger.WithField("db_path", dbPath).Info("Database initialized successfully")
	return db, nil
}

// createTables is idempotent and safe to call multiple times.
func (db *Database) createTables() error {
	kvTable := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`

	if _, err := db.conn.Exec(kvTable); err != nil {
		return err
	}

	return db.runMigrations()
}

// runMigrations performs incremental schema updates in-place. Each migration
// must be idempotent.
func (db *Database) runMigrations() error {
	// Migration 1: track when a key was last written
	var columnExists bool
	err := db.conn.QueryRow(`
		SELECT COUNT(*) > 0
		FROM pragma_table_info('kv')
		WHERE name = 'updated_at'`).Scan(&columnExists)
	if err != nil {
		return err
	}

	if !columnExists {
		if _, err := db.conn.Exec("ALTER TABLE kv ADD COLUMN updated_at DATETIME"); err != nil {
			return err
		}
		if _, err := db.conn.Exec("CREATE INDEX IF NOT EXISTS idx_kv_updated ON kv(updated_at)"); err != nil {
			return err
		}
		db.logger.Info("Added updated_at column to kv table")
	}

	return nil
}

func (db *Database) prepareStatements() error {
	var err error

	db.getStmt, err = db.conn.Prepare(`SELECT value FROM kv WHERE key = ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare get statement: %w", err)
	}

	db.setStmt, err = db.conn.Prepare(`
		INSERT INTO kv (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`)
	if err != nil {
		return fmt.Errorf("failed to prepare set statement: %w", err)
	}

	db.deleteStmt, err = db.conn.Prepare(`DELETE FROM kv WHERE key = ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare delete statement: %w", err)
	}

	db.keysStmt, err = db.conn.Prepare(`SELECT key FROM kv WHERE substr(key, 1, ?) = ? ORDER BY key`)
	if err != nil {
		return fmt.Errorf("failed to prepare keys statement: %w", err)
	}

	return nil
}

// Get returns the value stored under key.
func (db *Database) Get(key string) (string, bool, error) {
	var value string
	err := db.getStmt.QueryRow(key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		db.logger.WithError(err).WithField("key", key).Error("Failed to read key")
		return "", false, err
	}
	return value, true, nil
}

// Set inserts or replaces the value stored under key.
func (db *Database) Set(key, value string) error {
	if _, err := db.setStmt.Exec(key, value); err != nil {
		db.logger.WithError(err).WithField("key", key).Error("Failed to write key")
		return err
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (db *Database) Delete(key string) error {
	_, err := db.deleteStmt.Exec(key)
	return err
}

// Keys lists the stored keys starting with prefix, in byte order.
func (db *Database) Keys(prefix string) ([]string, error) {
	rows, err := db.keysStmt.Query(len(prefix), prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// Ping verifies the database is reachable.
func (db *Database) Ping() error {
	return db.conn.Ping()
}

// Close closes the underlying database connection and prepared statements.
func (db *Database) Close() error {
	statements := []*sql.Stmt{
		db.getStmt,
		db.setStmt,
		db.deleteStmt,
		db.keysStmt,
	}

	for _, stmt := range statements {
		if stmt != nil {
			if err := stmt.Close(); err != nil {
				db.logger.WithError(err).Error("Failed to close prepared statement")
			}
		}
	}

	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}
