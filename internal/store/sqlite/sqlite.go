// Package sqlite implements the persistent series cache on a local
// SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// Store is a SQLite-backed cache. Entries older than ttl are treated
// as misses on read; they are overwritten in place on the next Set.
type Store struct {
	db  *sql.DB
	ttl time.Duration
	log *logrus.Entry
}

// New opens (or creates) the cache database at path. A zero ttl means
// entries never expire.
func New(path string, ttl time.Duration) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite: path is required")
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: create cache dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &Store{
		db:  db,
		ttl: ttl,
		log: logrus.WithField("component", "cache"),
	}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns the cached value for key. Absent, expired, or unreadable
// entries are misses; read errors are logged at debug level only.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool) {
	var (
		value     []byte
		writtenAt time.Time
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT value, written_at FROM series_cache WHERE key = ?`, key,
	).Scan(&value, &writtenAt)
	if err == sql.ErrNoRows {
		return nil, false
	}
	if err != nil {
		s.log.WithError(err).WithField("key", key).Debug("cache read failed")
		return nil, false
	}
	if s.ttl > 0 && time.Since(writtenAt) > s.ttl {
		return nil, false
	}
	return value, true
}

// Set stores value under key. Write failures are logged at debug level
// and otherwise ignored.
func (s *Store) Set(ctx context.Context, key string, value []byte) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO series_cache (key, value, written_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			written_at = excluded.written_at
	`, key, value, time.Now().UTC())
	if err != nil {
		s.log.WithError(err).WithField("key", key).Debug("cache write failed")
	}
}

func (s *Store) migrate() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS series_cache (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			written_at TIMESTAMP NOT NULL
		);`,
	}

	for _, statement := range statements {
		if _, err := s.db.Exec(statement); err != nil {
			return err
		}
	}

	return nil
}
