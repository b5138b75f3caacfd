package history

import (
	"errors"
	"time"
)

// DefaultWindow is the recency window used when none is configured.
const DefaultWindow = 10 * time.Minute

// ErrNegativeWindow is returned by NewWindow for a negative duration.
var ErrNegativeWindow = errors.New("history: window duration must not be negative")

// Window selects visits that happened at most Duration before Reference.
//
// Comparison is done at second resolution, like the stored timestamps once
// decoded. Visits later than Reference also match.
type Window struct {
	Reference time.Time
	Duration  time.Duration
}

// NewWindow returns a window ending at ref. A zero ref means time.Now().
func NewWindow(ref time.Time, d time.Duration) (Window, error) {
	if d < 0 {
		return Window{}, ErrNegativeWindow
	}
	if ref.IsZero() {
		ref = time.Now()
	}
	return Window{Reference: ref, Duration: d}, nil
}

// Contains reports whether visit falls in the window:
// Reference - visit <= Duration, both taken in whole seconds.
func (w Window) Contains(visit time.Time) bool {
	return w.Reference.Unix()-visit.Unix() <= int64(w.Duration/time.Second)
}
