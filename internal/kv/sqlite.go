package kv

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// SQLiteBackend implements Backend on a single SQLite table. It is the
// primary durable store for all Daybook collections.
type SQLiteBackend struct {
	db *sql.DB

	// Prepared statements
	getStmt    *sql.Stmt
	setStmt    *sql.Stmt
	deleteStmt *sql.Stmt
	keysStmt   *sql.Stmt
}

// OpenSQLite opens (creating if necessary) the SQLite database at path,
// runs migrations, and returns a ready backend. The caller must Close it.
func OpenSQLite(path string) (*SQLiteBackend, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	runner := NewMigrationRunner(db)
	if err := runner.Run(); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	backend, err := NewSQLiteBackend(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return backend, nil
}

// NewSQLiteBackend wraps an already-opened and migrated database.
// Closing the backend closes the database.
func NewSQLiteBackend(db *sql.DB) (*SQLiteBackend, error) {
	b := &SQLiteBackend{db: db}
	if err := b.prepareStatements(); err != nil {
		return nil, fmt.Errorf("prepare statements: %w", err)
	}
	return b, nil
}

func (b *SQLiteBackend) prepareStatements() error {
	var err error

	b.getStmt, err = b.db.Prepare(`SELECT value FROM kv WHERE key = ?`)
	if err != nil {
		return err
	}

	b.setStmt, err = b.db.Prepare(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value      = excluded.value,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return err
	}

	b.deleteStmt, err = b.db.Prepare(`DELETE FROM kv WHERE key = ?`)
	if err != nil {
		return err
	}

	b.keysStmt, err = b.db.Prepare(`SELECT key FROM kv ORDER BY key`)
	if err != nil {
		return err
	}

	return nil
}

// Get implements Backend.Get.
func (b *SQLiteBackend) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := b.getStmt.QueryRowContext(ctx, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

// Set implements Backend.Set.
func (b *SQLiteBackend) Set(ctx context.Context, key, value string) error {
	_, err := b.setStmt.ExecContext(ctx, key, value, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Delete implements Backend.Delete. Deleting an absent key succeeds.
func (b *SQLiteBackend) Delete(ctx context.Context, key string) error {
	if _, err := b.deleteStmt.ExecContext(ctx, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Keys implements Backend.Keys.
func (b *SQLiteBackend) Keys(ctx context.Context) ([]string, error) {
	rows, err := b.keysStmt.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Close releases prepared statements and closes the database. A WAL
// checkpoint runs first so file-backed databases persist everything.
func (b *SQLiteBackend) Close() error {
	if b.db == nil {
		return nil
	}

	stmts := []*sql.Stmt{b.getStmt, b.setStmt, b.deleteStmt, b.keysStmt}
	for _, stmt := range stmts {
		if stmt != nil {
			stmt.Close()
		}
	}

	if _, err := b.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to checkpoint WAL: %v\n", err)
	}

	if err := b.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	b.db = nil
	return nil
}
