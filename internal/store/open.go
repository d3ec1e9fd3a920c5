package store

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

const (
	driverName  = "sqlite"
	memoryPath  = ":memory:"
	DefaultPath = "~/.local/share/albumsync/albums.db"
)

type openConfig struct {
	busyTimeout int
	synchronous string
	mkdirAll    bool
}

func defaults() openConfig {
	return openConfig{
		busyTimeout: 10_000,
		synchronous: "NORMAL",
		mkdirAll:    true,
	}
}

// Option customises Open behaviour.
type Option func(*openConfig)

// WithBusyTimeout sets PRAGMA busy_timeout in milliseconds. Default: 10000.
func WithBusyTimeout(ms int) Option { return func(c *openConfig) { c.busyTimeout = ms } }

// WithSynchronous sets PRAGMA synchronous. Default: "NORMAL".
func WithSynchronous(mode string) Option { return func(c *openConfig) { c.synchronous = mode } }

// WithoutMkdirAll stops Open from creating the parent directory.
func WithoutMkdirAll() Option { return func(c *openConfig) { c.mkdirAll = false } }

// Open opens (creating if needed) the album database at path and applies
// pending migrations.
func Open(path string, opts ...Option) (*Store, error) {
	cfg := defaults()
	for _, o := range opts {
		o(&cfg)
	}
	if path == "" {
		return nil, fmt.Errorf("store: empty database path")
	}

	var (
		db  *sql.DB
		err error
	)
	if path == memoryPath {
		db, err = openMemory(cfg)
	} else {
		db, err = openFile(path, cfg)
	}
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if err := Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return New(db), nil
}

// OpenMemory opens a migrated in-memory store for tests and registers
// t.Cleanup to close it.
func OpenMemory(t testing.TB) *Store {
	t.Helper()
	s, err := Open(memoryPath)
	if err != nil {
		t.Fatalf("store.OpenMemory: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func openFile(path string, cfg openConfig) (*sql.DB, error) {
	if cfg.mkdirAll {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("store: mkdir: %w", err)
		}
	}
	q := url.Values{}
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", cfg.busyTimeout))
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", fmt.Sprintf("synchronous(%s)", cfg.synchronous))
	dsn := fmt.Sprintf("file:%s?%s", path, q.Encode())
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	return db, nil
}

// openMemory pins the pool to one connection: every connection to
// ":memory:" is a separate database.
func openMemory(cfg openConfig) (*sql.DB, error) {
	db, err := sql.Open(driverName, memoryPath)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.busyTimeout)); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: busy_timeout: %w", err)
	}
	return db, nil
}
