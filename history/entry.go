package history

import (
	"fmt"
	"time"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	"github.com/hazyhaar/recenthist/webkit"
)

// Entry is one reported visit.
type Entry struct {
	URL       string
	VisitTime time.Time
}

// String renders the entry as printed by the command line:
//
//	URL: https://example.com, Visit Time (UTC): 2024-01-01 00:09:00
func (e Entry) String() string {
	return fmt.Sprintf("URL: %s, Visit Time (UTC): %s", e.URL, webkit.FormatOrInvalid(e.VisitTime))
}

// record is one row of the visit query before filtering.
type record struct {
	url       []byte // nil when the column is NULL
	visitTime int64  // WebKit microseconds
}

// DecodeText converts a stored UTF-8 column to a string. It returns "" when
// raw is empty or is not valid UTF-8.
func DecodeText(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	s, _, err := transform.Bytes(encoding.UTF8Validator, raw)
	if err != nil {
		return ""
	}
	return string(s)
}
