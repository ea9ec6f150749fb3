package storage

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	_ "modernc.org/sqlite"
)

const (
	selectValue = `SELECT value FROM kv WHERE key = ?`
	upsertValue = `INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
)

// SQLiteSlot stores documents in a single key-value table
type SQLiteSlot struct {
	db *sql.DB
}

// NewSQLiteSlot opens (creating if needed) the database at dbPath and migrates it
func NewSQLiteSlot(dbPath string) (*SQLiteSlot, error) {
	if dbPath == "" {
		return nil, errors.New("sqlite database path is required")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, errors.Wrap(err, "create db directory")
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite database")
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "ping database")
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteSlot{db: db}, nil
}

// Read returns the value stored under key
func (s *SQLiteSlot) Read(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, selectValue, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "select value")
	}
	return value, nil
}

// Write upserts the value stored under key
func (s *SQLiteSlot) Write(ctx context.Context, key string, data []byte) error {
	_, err := s.db.ExecContext(ctx, upsertValue, key, data, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return errors.Wrap(err, "upsert value")
	}
	return nil
}

// Close closes the database
func (s *SQLiteSlot) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
