package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// UnknownTime is the sentinel for an absent or unparseable timestamp.
// It sorts before every real date.
var UnknownTime = time.Unix(0, 0).UTC()

func IsUnknown(t time.Time) bool {
	return t.Equal(UnknownTime)
}

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDate never fails; anything it cannot read becomes UnknownTime
func ParseDate(raw string) time.Time {
	parsed, err := ParseDateStrict(raw)
	if err != nil {
		return UnknownTime
	}
	return parsed
}

// ParseDateStrict reads DD/MM/YYYY when the string contains a slash, and an
// ISO-8601-like timestamp otherwise. Timestamps without a zone are UTC.
func ParseDateStrict(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return UnknownTime, fmt.Errorf("%w: empty string", ErrMalformedDate)
	}

	if strings.Contains(raw, "/") {
		return parseDayMonthYear(raw)
	}

	for _, layout := range isoLayouts {
		parsed, err := time.Parse(layout, raw)
		if err == nil {
			return parsed, nil
		}
	}

	return UnknownTime, fmt.Errorf("%w: '%s'", ErrMalformedDate, raw)
}

func parseDayMonthYear(raw string) (time.Time, error) {
	parts := strings.Split(raw, "/")
	if len(parts) != 3 {
		return UnknownTime, fmt.Errorf("%w: expected DD/MM/YYYY, got '%s'", ErrMalformedDate, raw)
	}

	components := [3]int{}
	for i, part := range parts {
		value, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return UnknownTime, fmt.Errorf("%w: non-numeric component in '%s'", ErrMalformedDate, raw)
		}
		components[i] = value
	}
	day, month, year := components[0], components[1], components[2]

	if month < 1 || month > 12 || day < 1 || day > 31 || year < 1 {
		return UnknownTime, fmt.Errorf("%w: out of range component in '%s'", ErrMalformedDate, raw)
	}

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Day() != day {
		// time.Date normalizes e.g. 31/02 into March
		return UnknownTime, fmt.Errorf("%w: invalid day in '%s'", ErrMalformedDate, raw)
	}

	return date, nil
}
