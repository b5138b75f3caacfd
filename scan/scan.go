// Package scan runs history extraction over several independent stores and
// prints what it finds, one section per store.
//
// A store that fails is reported in its own section and does not stop the
// stores after it.
package scan

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/hazyhaar/recenthist/history"
)

// Target is one store to scan.
type Target struct {
	Name string
	Path string
}

// Result is the outcome for one Target.
type Result struct {
	Target  Target
	Entries int
	Err     error
}

// Report collects the results of a Run, in target order.
type Report struct {
	Results []Result
}

// Entries is the total number of entries printed.
func (r *Report) Entries() int {
	n := 0
	for _, res := range r.Results {
		n += res.Entries
	}
	return n
}

// Failed returns the results that ended in an error.
func (r *Report) Failed() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Err != nil {
			out = append(out, res)
		}
	}
	return out
}

// Err joins every per-store error, or returns nil.
func (r *Report) Err() error {
	var errs []error
	for _, res := range r.Failed() {
		errs = append(errs, res.Err)
	}
	return errors.Join(errs...)
}

// Scanner prints entries and diagnostics to an io.Writer.
type Scanner struct {
	out         io.Writer
	logger      *slog.Logger
	snapshotDir string
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithLogger sets the logger passed down to extraction. Default: slog.Default().
func WithLogger(l *slog.Logger) Option { return func(s *Scanner) { s.logger = l } }

// WithSnapshotDir sets where snapshots are written. Default: os.TempDir().
func WithSnapshotDir(dir string) Option { return func(s *Scanner) { s.snapshotDir = dir } }

// New creates a Scanner writing to out.
func New(out io.Writer, opts ...Option) *Scanner {
	s := &Scanner{out: out, logger: slog.Default()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Run extracts each target in turn. Output for a target is:
//
//	Checking <Name> browsing history:
//	URL: <url>, Visit Time (UTC): <time>
//	...
//	<diagnostic, if the target failed>
//
// with a blank line between targets.
func (s *Scanner) Run(targets []Target, w history.Window) *Report {
	opts := []history.Option{history.WithLogger(s.logger)}
	if s.snapshotDir != "" {
		opts = append(opts, history.WithSnapshotDir(s.snapshotDir))
	}

	report := &Report{Results: make([]Result, 0, len(targets))}
	for i, t := range targets {
		if i > 0 {
			fmt.Fprintln(s.out)
		}
		fmt.Fprintf(s.out, "Checking %s browsing history:\n", t.Name)

		res := Result{Target: t}
		res.Err = history.Extract(t.Path, w, func(e history.Entry) {
			fmt.Fprintln(s.out, e.String())
			res.Entries++
		}, opts...)
		if res.Err != nil {
			fmt.Fprintln(s.out, Diagnostic(res.Err))
			s.logger.Debug("scan: store failed", "name", t.Name, "path", t.Path,
				"kind", history.KindOf(res.Err).String(), "error", res.Err)
		}
		report.Results = append(report.Results, res)
	}
	return report
}

// Diagnostic renders an extraction error as a single line that names the
// store path and what went wrong.
func Diagnostic(err error) string {
	var ee *history.ExtractError
	if !errors.As(err, &ee) {
		return fmt.Sprintf("Failed to read history: %v", err)
	}
	switch ee.Kind {
	case history.SnapshotFailed:
		return fmt.Sprintf("Failed to copy database to temporary file: %s: %v", ee.Path, ee.Cause)
	case history.OpenFailed:
		return fmt.Sprintf("Failed to open database: %s: %v", ee.Path, ee.Cause)
	case history.QueryFailed:
		return fmt.Sprintf("Failed to prepare statement: %s: %v", ee.Path, ee.Cause)
	default:
		return fmt.Sprintf("Failed to read history: %s: %v", ee.Path, ee.Cause)
	}
}
