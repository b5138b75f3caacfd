package snapshot

import (
	"errors"
	"fmt"
)

// Kind classifies a snapshot failure.
type Kind int

const (
	// NoTempDir means the snapshot directory is missing, not a directory,
	// or not writable.
	NoTempDir Kind = iota + 1
	// CopyFailed means the source could not be copied in full.
	CopyFailed
)

func (k Kind) String() string {
	switch k {
	case NoTempDir:
		return "no temp dir"
	case CopyFailed:
		return "copy failed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ErrNoDir is the cause of a NoTempDir error when no directory is configured.
var ErrNoDir = errors.New("snapshot: no temporary directory configured")

// ErrNotDir is the cause of a NoTempDir error when the configured path is a file.
var ErrNotDir = errors.New("snapshot: not a directory")

// Error is returned by Take when a snapshot cannot be made.
type Error struct {
	Kind   Kind
	Source string
	Path   string // snapshot directory for NoTempDir, snapshot file for CopyFailed
	Cause  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("snapshot: %s: %s -> %s: %v", e.Kind, e.Source, e.Path, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// IsKind reports whether err is a snapshot *Error of kind k.
func IsKind(err error, k Kind) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == k
}
