// Package history reads recent visits from a Chromium-family History
// database while the browser keeps it locked.
//
// Extract never opens the store itself: it snapshots the file, opens the
// copy read-only, streams the visit query, and removes the copy on every
// return path. Each call is independent; nothing is cached between calls.
//
// Usage:
//
//	w, _ := history.NewWindow(time.Time{}, history.DefaultWindow)
//	err := history.Extract(path, w, func(e history.Entry) { fmt.Println(e) })
package history

import (
	"database/sql"
	"errors"
	"log/slog"

	_ "modernc.org/sqlite"

	"github.com/hazyhaar/recenthist/dbopen"
	"github.com/hazyhaar/recenthist/snapshot"
	"github.com/hazyhaar/recenthist/webkit"
)

// visitQuery joins every visit to its URL, newest first.
const visitQuery = `SELECT u.url, v.visit_time FROM urls u JOIN visits v ON u.id = v.url ORDER BY v.visit_time DESC`

type config struct {
	snapshotDir string
	logger      *slog.Logger
}

// Option configures Extract.
type Option func(*config)

// WithSnapshotDir sets where snapshots are written. Default: os.TempDir().
func WithSnapshotDir(dir string) Option { return func(c *config) { c.snapshotDir = dir } }

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option { return func(c *config) { c.logger = l } }

// Extract calls sink for every visit in storePath that falls in w, in the
// store's order (newest first). Rows with a NULL, empty or undecodable URL,
// or an unreadable visit time, are skipped.
//
// Every step is attempted once. Errors are *ExtractError.
func Extract(storePath string, w Window, sink func(Entry), opts ...Option) error {
	cfg := config{logger: slog.Default()}
	for _, o := range opts {
		o(&cfg)
	}

	snapOpts := []snapshot.Option{snapshot.WithLogger(cfg.logger)}
	if cfg.snapshotDir != "" {
		snapOpts = append(snapOpts, snapshot.WithDir(cfg.snapshotDir))
	}

	err := snapshot.With(storePath, func(path string) error {
		db, err := dbopen.Open(path, dbopen.WithReadOnly(), dbopen.WithProbe())
		if err != nil {
			return &ExtractError{Kind: OpenFailed, Path: storePath, Cause: err}
		}
		defer db.Close()

		emitted, skipped, err := scanVisits(db, w, sink)
		if err != nil {
			return &ExtractError{Kind: QueryFailed, Path: storePath, Cause: err}
		}
		if skipped > 0 {
			cfg.logger.Debug("history: rows skipped", "store", storePath, "skipped", skipped)
		}
		cfg.logger.Debug("history: extracted", "store", storePath, "entries", emitted)
		return nil
	}, snapOpts...)

	var (
		xerr *ExtractError
		serr *snapshot.Error
	)
	switch {
	case err == nil:
		return nil
	case errors.As(err, &xerr):
		return xerr
	case errors.As(err, &serr):
		return &ExtractError{Kind: SnapshotFailed, Path: storePath, Cause: err}
	default:
		// The visits were delivered; only removing the copy failed.
		cfg.logger.Warn("history: snapshot not removed", "store", storePath, "error", err)
		return nil
	}
}

// scanVisits runs the visit query and streams matching rows to sink one at a
// time. It returns how many rows were emitted and how many were unreadable.
func scanVisits(db *sql.DB, w Window, sink func(Entry)) (emitted, skipped int, err error) {
	rows, err := db.Query(visitQuery)
	if err != nil {
		return 0, 0, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			rec   record
			visit sql.NullInt64
		)
		if err := rows.Scan(&rec.url, &visit); err != nil || !visit.Valid {
			skipped++
			continue
		}
		rec.visitTime = visit.Int64

		at := webkit.Decode(rec.visitTime)
		if !w.Contains(at) {
			continue
		}
		url := DecodeText(rec.url)
		if url == "" {
			skipped++
			continue
		}
		sink(Entry{URL: url, VisitTime: at})
		emitted++
	}
	if err := rows.Err(); err != nil {
		return emitted, skipped, err
	}
	return emitted, skipped, nil
}
