// Package webkit converts Chromium history timestamps to and from time.Time.
//
// Chromium-family browsers store visit times as microseconds since
// 1601-01-01 00:00:00 UTC (the "WebKit" or Windows FILETIME epoch, at
// microsecond rather than 100ns resolution).
//
// Usage:
//
//	t := webkit.Decode(13348541340000000)
//	fmt.Println(webkit.FormatOrInvalid(t)) // 2024-01-01 00:09:00
package webkit

import (
	"fmt"
	"time"
)

// EpochOffset is the number of seconds between 1601-01-01 and 1970-01-01.
const EpochOffset int64 = 11_644_473_600

// Layout is the rendering used for visit times.
const Layout = "2006-01-02 15:04:05"

// InvalidTime is printed in place of a time that has no YYYY calendar form.
const InvalidTime = "Invalid time"

// FormatError is returned by Format when t cannot be rendered with Layout.
type FormatError struct {
	Unix int64
	Year int
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("webkit: time %d (year %d) is not a valid calendar time", e.Unix, e.Year)
}

// Decode converts an encoded visit time to UTC at second resolution.
// Sub-second microseconds are discarded (truncation toward zero).
func Decode(us int64) time.Time {
	return time.Unix(us/1_000_000-EpochOffset, 0).UTC()
}

// Encode is the inverse of Decode. It keeps microsecond precision, so
// Decode(Encode(t)) equals t truncated to the second.
func Encode(t time.Time) int64 {
	return (t.Unix()+EpochOffset)*1_000_000 + int64(t.Nanosecond()/1_000)
}

// Format renders t in UTC as "YYYY-MM-DD HH:MM:SS".
func Format(t time.Time) (string, error) {
	u := t.UTC()
	if y := u.Year(); y < 1 || y > 9999 {
		return "", &FormatError{Unix: t.Unix(), Year: y}
	}
	return u.Format(Layout), nil
}

// FormatOrInvalid is Format with InvalidTime as the fallback.
func FormatOrInvalid(t time.Time) string {
	s, err := Format(t)
	if err != nil {
		return InvalidTime
	}
	return s
}
