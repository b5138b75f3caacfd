package history

import (
	"errors"
	"fmt"
)

// Kind classifies an extraction failure.
type Kind int

const (
	// SnapshotFailed means the store could not be copied; no store was opened.
	SnapshotFailed Kind = iota + 1
	// OpenFailed means the copy could not be opened as an SQLite database.
	OpenFailed
	// QueryFailed means the visit query could not be prepared or iterated,
	// usually because the expected tables or columns are missing.
	QueryFailed
)

func (k Kind) String() string {
	switch k {
	case SnapshotFailed:
		return "snapshot failed"
	case OpenFailed:
		return "open failed"
	case QueryFailed:
		return "query failed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ExtractError is returned by Extract. Path is the store path the caller
// passed in, never the snapshot path.
type ExtractError struct {
	Kind  Kind
	Path  string
	Cause error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("history: %s: %s: %v", e.Kind, e.Path, e.Cause)
}

func (e *ExtractError) Unwrap() error { return e.Cause }

// KindOf returns the Kind of an *ExtractError in err's chain, or 0.
func KindOf(err error) Kind {
	var ee *ExtractError
	if errors.As(err, &ee) {
		return ee.Kind
	}
	return 0
}
