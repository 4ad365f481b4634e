package etree

import (
	"strconv"
	"strings"
	"time"

	"github.com/readerview/readerview/dateparse"
)

// ParseDuration parses an episode length: plain seconds, HH:MM:SS,
// MM:SS, or Go-style strings like "1h30m".
func ParseDuration(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	if secs, err := strconv.ParseUint(s, 10, 32); err == nil {
		return int(secs), true
	}

	if strings.Contains(s, ":") {
		return parseColonDuration(s)
	}

	if d, err := time.ParseDuration(s); err == nil && d >= 0 {
		return int(d / time.Second), true
	}

	return 0, false
}

func parseColonDuration(s string) (int, bool) {
	parts := strings.Split(s, ":")
	switch len(parts) {
	case 2:
		mins, err1 := strconv.ParseUint(parts[0], 10, 32)
		secs, err2 := strconv.ParseUint(parts[1], 10, 32)
		if err1 != nil || err2 != nil {
			return 0, false
		}
		return int(mins*60 + secs), true
	case 3:
		hours, err1 := strconv.ParseUint(parts[0], 10, 32)
		mins, err2 := strconv.ParseUint(parts[1], 10, 32)
		secs, err3 := strconv.ParseUint(parts[2], 10, 32)
		if err1 != nil || err2 != nil || err3 != nil {
			return 0, false
		}
		return int(hours*3600 + mins*60 + secs), true
	}
	return 0, false
}

// dateMilli parses a feed timestamp into Unix milliseconds, 0 when the
// value is missing or unparseable.
func dateMilli(s string) int64 {
	if strings.TrimSpace(s) == "" {
		return 0
	}
	return dateparse.ParseMilli(s)
}
