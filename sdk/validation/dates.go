package validation

import (
	"fmt"
	"strings"
	"time"
)

// ParseDateOnly parses a calendar date in YYYY-MM-DD form. The result is
// midnight UTC; callers must not attach meaning to the time component.
func ParseDateOnly(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

// DateOnly truncates t to its calendar date in t's own location and returns
// it as midnight UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
