// Package snapshot makes private, independently openable copies of files that
// another process may be holding open and locked (a running browser's
// History database, typically).
//
// The copy is a plain read of the bytes that are on disk at copy time. It is
// not coordinated with the holder, so a copy that races a write may be
// inconsistent; callers find out when they open it.
//
// Usage:
//
//	err := snapshot.With(src, func(path string) error {
//		return query(path)
//	})
package snapshot

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

type config struct {
	dir    string
	namer  func() string
	logger *slog.Logger
}

// Option configures Take and With.
type Option func(*config)

// WithDir sets the directory snapshots are created in. Default: os.TempDir().
func WithDir(dir string) Option { return func(c *config) { c.dir = dir } }

// WithNamer overrides the snapshot file name generator.
func WithNamer(fn func() string) Option { return func(c *config) { c.namer = fn } }

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option { return func(c *config) { c.logger = l } }

// Name returns a fresh snapshot file name: "histsnap-<uuidv7>.db".
func Name() string {
	return "histsnap-" + uuid.Must(uuid.NewV7()).String() + ".db"
}

// Snapshot is a private copy of Source at Path. It owns Path until Release.
type Snapshot struct {
	Source string
	Path   string
	Size   int64

	logger   *slog.Logger
	released bool
}

// Take copies source into a newly allocated file in the snapshot directory.
//
// The destination is created with O_EXCL, so two callers (in this process or
// another) can never share one. On error nothing is left behind.
func Take(source string, opts ...Option) (*Snapshot, error) {
	cfg := config{dir: os.TempDir(), namer: Name, logger: slog.Default()}
	for _, o := range opts {
		o(&cfg)
	}

	if err := checkDir(cfg.dir); err != nil {
		return nil, &Error{Kind: NoTempDir, Source: source, Path: cfg.dir, Cause: err}
	}

	path := filepath.Join(cfg.dir, cfg.namer())
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		kind := CopyFailed
		if errors.Is(err, fs.ErrPermission) || errors.Is(err, fs.ErrNotExist) {
			kind = NoTempDir
		}
		return nil, &Error{Kind: kind, Source: source, Path: path, Cause: err}
	}

	n, err := copyInto(dst, source)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return nil, &Error{Kind: CopyFailed, Source: source, Path: path, Cause: err}
	}

	cfg.logger.Debug("snapshot taken", "source", source, "path", path, "size", humanize.Bytes(uint64(n)))
	return &Snapshot{Source: source, Path: path, Size: n, logger: cfg.logger}, nil
}

// copyInto streams source into dst and flushes it. The source is opened
// read-only and is never locked.
func copyInto(dst *os.File, source string) (int64, error) {
	src, err := os.Open(source)
	if err != nil {
		return 0, err
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return 0, err
	}
	if !info.Mode().IsRegular() {
		return 0, fmt.Errorf("%s is not a regular file", source)
	}

	n, err := io.Copy(dst, src)
	if err != nil {
		return n, err
	}
	return n, dst.Sync()
}

func checkDir(dir string) error {
	if dir == "" {
		return ErrNoDir
	}
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: %w", dir, ErrNotDir)
	}
	return nil
}

// Release removes the snapshot file. It is safe to call more than once; a
// file that is already gone is not an error.
func (s *Snapshot) Release() error {
	if s == nil || s.released {
		return nil
	}
	s.released = true
	if err := os.Remove(s.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("snapshot: release %s: %w", s.Path, err)
	}
	s.logger.Debug("snapshot released", "path", s.Path)
	return nil
}

// With takes a snapshot of source, passes its path to fn and releases it on
// every return path. A release failure is reported only if fn succeeded.
func With(source string, fn func(path string) error, opts ...Option) (err error) {
	snap, err := Take(source, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if relErr := snap.Release(); err == nil {
			err = relErr
		}
	}()
	return fn(snap.Path)
}
