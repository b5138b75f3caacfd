// Package historytest builds small Chromium-style History databases for tests.
package historytest

import (
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hazyhaar/recenthist/dbopen"
	"github.com/hazyhaar/recenthist/webkit"
)

// Schema is the subset of the Chromium History schema the extractor reads,
// with a few of the surrounding columns so fixtures look like the real thing.
const Schema = `
CREATE TABLE urls (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	url LONGVARCHAR,
	title LONGVARCHAR,
	visit_count INTEGER DEFAULT 0 NOT NULL,
	last_visit_time INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE visits (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	url INTEGER NOT NULL,
	visit_time INTEGER NOT NULL,
	from_visit INTEGER,
	transition INTEGER DEFAULT 0 NOT NULL
);
CREATE INDEX visits_time_index ON visits (visit_time);
`

// Visit is one fixture row pair. URL may be a string, a []byte (stored as a
// BLOB) or nil (stored as NULL). Raw, when non-zero, is stored instead of
// the encoding of At.
type Visit struct {
	URL any
	At  time.Time
	Raw int64
}

// At is shorthand for a visit to url at t.
func At(url string, t time.Time) Visit { return Visit{URL: url, At: t} }

// NewStore writes a History database with the given visits to dir/name and
// returns its path. Each visit gets its own urls row.
func NewStore(t testing.TB, dir, name string, visits ...Visit) string {
	t.Helper()
	path := filepath.Join(dir, name)
	db, err := dbopen.Open(path, dbopen.WithJournalMode("DELETE"), dbopen.WithSchema(Schema))
	if err != nil {
		t.Fatalf("historytest: open %s: %v", path, err)
	}
	defer db.Close()

	for _, v := range visits {
		ts := v.Raw
		if ts == 0 {
			ts = webkit.Encode(v.At)
		}
		res, err := db.Exec(`INSERT INTO urls (url, last_visit_time) VALUES (?, ?)`, v.URL, ts)
		if err != nil {
			t.Fatalf("historytest: insert url: %v", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			t.Fatal(err)
		}
		if _, err := db.Exec(`INSERT INTO visits (url, visit_time) VALUES (?, ?)`, id, ts); err != nil {
			t.Fatalf("historytest: insert visit: %v", err)
		}
	}
	if err := db.Close(); err != nil {
		t.Fatalf("historytest: close: %v", err)
	}
	return path
}
