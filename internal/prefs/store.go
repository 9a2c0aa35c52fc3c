// Package prefs persists small terminal preferences (theme, snake high
// score) in a local SQLite key/value table.
package prefs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"
)

// Keys used by the terminal.
const (
	KeyTheme          = "terminal-theme"
	KeySnakeHighScore = "snakeHighScore"
)

const schema = `CREATE TABLE IF NOT EXISTS prefs (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at INTEGER NOT NULL
)`

var ErrNotFound = errors.New("preference not found")

type Store struct {
	db *sql.DB
}

// Open creates (or opens) the database at path. ":memory:" gives a private
// in-memory store.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create prefs dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open prefs: %w", err)
	}
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{"PRAGMA busy_timeout=5000", schema} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("init prefs: %w", err)
		}
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns ErrNotFound for unknown keys.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM prefs WHERE key = ?", key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return v, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO prefs (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Theme returns the saved theme, or def when none is saved.
func (s *Store) Theme(ctx context.Context, def string) string {
	v, err := s.Get(ctx, KeyTheme)
	if err != nil || (v != "light" && v != "dark") {
		return def
	}
	return v
}

func (s *Store) SetTheme(ctx context.Context, theme string) error {
	return s.Set(ctx, KeyTheme, theme)
}

// HighScore parses the saved snake score; missing or garbage values read as 0.
func (s *Store) HighScore(ctx context.Context) int {
	v, err := s.Get(ctx, KeySnakeHighScore)
	if err != nil {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

// RecordScore keeps score if it beats the saved high score and reports
// whether it did.
func (s *Store) RecordScore(ctx context.Context, score int) (bool, error) {
	if score <= s.HighScore(ctx) {
		return false, nil
	}
	if err := s.Set(ctx, KeySnakeHighScore, strconv.Itoa(score)); err != nil {
		return false, err
	}
	return true, nil
}
