package weather

import (
	"fmt"
	"strings"
	"time"
)

// isoLayouts are tried in order. Layouts without a zone yield UTC times.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp parses ISO-8601 text. A trailing "Z" is read as "+00:00"
// and text without zone information is taken to be UTC.
func ParseTimestamp(text string) (time.Time, error) {
	s := strings.TrimSpace(text)
	if strings.HasSuffix(s, "Z") {
		s = strings.TrimSuffix(s, "Z") + "+00:00"
	}
	for _, layout := range isoLayouts {
		ts, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if _, offset := ts.Zone(); offset == 0 {
			ts = ts.UTC()
		}
		return ts, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, text)
}

// resolveTimestamp is ParseTimestamp with "now" for empty text.
func resolveTimestamp(text string, now func() time.Time) (time.Time, error) {
	if strings.TrimSpace(text) == "" {
		return now().UTC(), nil
	}
	return ParseTimestamp(text)
}
