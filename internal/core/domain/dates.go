package domain

import (
	"errors"
	"time"
)

// DateLayout is the calendar-date format used on the wire and in streak state.
const DateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date (expected YYYY-MM-DD)")

// ParseDate parses a YYYY-MM-DD string into a UTC midnight instant.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t.UTC(), nil
}

func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
