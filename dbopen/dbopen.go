// Package dbopen opens SQLite databases with pragmas applied via EXEC
// (driver-agnostic).
//
// Writable databases get:
//
//	foreign_keys = ON
//	journal_mode = WAL
//	busy_timeout = 10000
//	synchronous  = NORMAL
//
// Read-only databases (WithReadOnly) are opened as immutable URIs and never
// touch the journal, so no -wal, -shm or -journal files appear next to them.
//
// Usage:
//
//	import _ "modernc.org/sqlite"
//	db, err := dbopen.Open("History.copy", dbopen.WithReadOnly(), dbopen.WithProbe())
package dbopen

import (
	"database/sql"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

const (
	driver      = "sqlite"
	busyTimeout = 10_000
)

type config struct {
	journalMode string
	readOnly    bool
	probe       bool
	schemas     []string
}

func defaults() config {
	return config{journalMode: "WAL"}
}

// Option customises Open behaviour.
type Option func(*config)

// WithJournalMode sets PRAGMA journal_mode. Default: "WAL".
// An empty mode leaves the database's own setting alone.
func WithJournalMode(mode string) Option { return func(c *config) { c.journalMode = mode } }

// WithSchema queues inline SQL to execute after pragmas are applied.
// Ignored for read-only databases.
func WithSchema(s string) Option { return func(c *config) { c.schemas = append(c.schemas, s) } }

// WithReadOnly opens path as "file:<abs>?mode=ro&immutable=1" on a single
// connection with PRAGMA query_only. The journal mode is never changed.
func WithReadOnly() Option { return func(c *config) { c.readOnly = true } }

// WithProbe reads the schema cookie after opening, so a file that is not an
// SQLite database fails in Open rather than on the first query.
func WithProbe() Option { return func(c *config) { c.probe = true } }

// Open opens an SQLite database at path.
// The caller must blank-import the driver before calling Open:
//
//	import _ "modernc.org/sqlite"
func Open(path string, opts ...Option) (*sql.DB, error) {
	cfg := defaults()
	for _, o := range opts {
		o(&cfg)
	}

	dsn := path
	if cfg.readOnly {
		var err error
		if dsn, err = readOnlyDSN(path); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("dbopen: open: %w", err)
	}
	if cfg.readOnly {
		// PRAGMAs are per connection; one connection keeps query_only in force.
		db.SetMaxOpenConns(1)
	}

	if err := applyPragmas(db, &cfg); err != nil {
		db.Close()
		return nil, err
	}

	if !cfg.readOnly {
		for _, s := range cfg.schemas {
			if _, err := db.Exec(s); err != nil {
				db.Close()
				return nil, fmt.Errorf("dbopen: exec schema: %w", err)
			}
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("dbopen: ping: %w", err)
	}

	if cfg.probe {
		var version int
		if err := db.QueryRow("PRAGMA schema_version").Scan(&version); err != nil {
			db.Close()
			return nil, fmt.Errorf("dbopen: probe %s: %w", path, err)
		}
	}

	return db, nil
}

// readOnlyDSN builds an SQLite URI filename. The path is made absolute so
// that it never lands in the URI authority, and Windows volume paths get the
// leading slash SQLite expects ("file:///C:/...").
func readOnlyDSN(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("dbopen: abs %s: %w", path, err)
	}
	p := filepath.ToSlash(abs)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p, RawQuery: "mode=ro&immutable=1"}
	return u.String(), nil
}

func applyPragmas(db *sql.DB, cfg *config) error {
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		fmt.Sprintf("PRAGMA busy_timeout = %d", busyTimeout),
	}
	if cfg.readOnly {
		pragmas = append(pragmas, "PRAGMA query_only = ON")
	} else {
		if cfg.journalMode != "" {
			pragmas = append(pragmas, fmt.Sprintf("PRAGMA journal_mode = %s", cfg.journalMode))
		}
		pragmas = append(pragmas, "PRAGMA synchronous = NORMAL")
	}

	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("dbopen: %s: %w", p, err)
		}
	}
	return nil
}
