package util

import (
	"fmt"
	"strconv"
	"time"
)

var dateLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// ParseTime tries RFC3339, RFC3339Nano, "2006-01-02 15:04:05", a bare date
// and unix seconds. Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0), true
	}
	return time.Time{}, false
}

// ParseTimeDefault parses time or returns default if empty/invalid.
func ParseTimeDefault(s string, def time.Time) time.Time {
	if t, ok := ParseTime(s); ok {
		return t
	}
	return def
}

// ParseIndex parses every label of a date index and checks that it is
// strictly increasing.
func ParseIndex(labels []string) ([]time.Time, error) {
	out := make([]time.Time, len(labels))
	for i, s := range labels {
		t, ok := ParseTime(s)
		if !ok {
			return nil, fmt.Errorf("index[%d]: cannot parse %q", i, s)
		}
		if i > 0 && !t.After(out[i-1]) {
			return nil, fmt.Errorf("index[%d]: %q is not after %q", i, s, labels[i-1])
		}
		out[i] = t
	}
	return out, nil
}
