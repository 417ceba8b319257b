package utils

import (
	"fmt"
	"strings"
	"time"
)

func ParseDate(dateStr string) (*time.Time, error) {
	var date time.Time

	if dateStr != "" {
		incomingDate, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, err
		}

		date = incomingDate
	}

	return &date, nil
}

var dayLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"02.01.2006",
}

// ParseDay parses a date value in any layout the marketplace exports use
// and truncates it to the calendar day. Returns false for empty or
// unparseable values.
func ParseDay(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dayLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// ParseTimestamp parses a combined date+time value ("2006-01-02 15:04"),
// falling back to midnight when only the date part is present.
func ParseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParsePeriod parses a reporting period in the "dd.mm.yyyy - dd.mm.yyyy"
// form used by the command surface.
func ParsePeriod(periodStr string) (start, end time.Time, err error) {
	parts := strings.Split(periodStr, "-")
	if len(parts) != 2 {
		return start, end, fmt.Errorf("invalid period %q, expected dd.mm.yyyy - dd.mm.yyyy", periodStr)
	}

	start, err = time.Parse("02.01.2006", strings.TrimSpace(parts[0]))
	if err != nil {
		return start, end, fmt.Errorf("invalid period start: %w", err)
	}

	end, err = time.Parse("02.01.2006", strings.TrimSpace(parts[1]))
	if err != nil {
		return start, end, fmt.Errorf("invalid period end: %w", err)
	}

	return start, end, nil
}
