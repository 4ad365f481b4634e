// Package dateparse parses the loose date formats found in feeds and page
// metadata. Layouts are tried from strictest to loosest; formats without a
// zone are interpreted as UTC so date-only values don't shift across
// midnight.
package dateparse

import (
	"strings"
	"time"

	araddon "github.com/araddon/dateparse"
)

// Layouts without a timezone are parsed in UTC.
var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"02 Jan 2006 15:04:05",
	"2 Jan 2006 15:04:05",
	"02 Jan 2006",
	"2 Jan 2006",
	"2006-01-02",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 January 2006",
}

var zonedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"02 Jan 2006 15:04:05 -0700",
	"2 Jan 2006 15:04:05 -0700",
	"2006-01-02T15:04:05-0700",
}

// Parse parses s as a timestamp. The second return value reports success.
func Parse(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}

	// Last resort for natural-language and exotic formats.
	if t, err := araddon.ParseIn(s, time.UTC); err == nil {
		return t.UTC(), true
	}
	return time.Time{}, false
}

// ParseMilli parses s and returns epoch milliseconds, 0 when unparseable.
func ParseMilli(s string) int64 {
	t, ok := Parse(s)
	if !ok {
		return 0
	}
	return t.UnixMilli()
}
