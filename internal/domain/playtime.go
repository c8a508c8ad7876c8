package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	minutesPerHour = 60
	minutesPerDay  = 24 * minutesPerHour
)

// ParsePlaytimeDuration reads "N days, HH:MM:SS" or "HH:MM:SS" into whole minutes.
// Seconds are dropped.
func ParsePlaytimeDuration(raw string) (int, error) {
	tokens := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ':' || r == ',' || r == ' '
	})
	if len(tokens) == 0 {
		return 0, fmt.Errorf("%w: empty string", ErrMalformedDuration)
	}

	days := 0
	dayIndex := -1
	for i, token := range tokens {
		if token == "days" || token == "day" {
			dayIndex = i
			break
		}
	}
	if dayIndex != -1 {
		if dayIndex != 1 {
			return 0, fmt.Errorf("%w: misplaced day count in '%s'", ErrMalformedDuration, raw)
		}
		value, err := parseDurationComponent(tokens[0])
		if err != nil {
			return 0, fmt.Errorf("%w: '%s'", err, raw)
		}
		days = value
		tokens = tokens[2:]
	}

	if len(tokens) < 2 || len(tokens) > 3 {
		return 0, fmt.Errorf("%w: expected HH:MM:SS in '%s'", ErrMalformedDuration, raw)
	}

	hours, err := parseDurationComponent(tokens[0])
	if err != nil {
		return 0, fmt.Errorf("%w: '%s'", err, raw)
	}
	minutes, err := parseDurationComponent(tokens[1])
	if err != nil {
		return 0, fmt.Errorf("%w: '%s'", err, raw)
	}
	if len(tokens) == 3 {
		// Validate seconds even though they are not part of the result
		if _, err := parseDurationComponent(tokens[2]); err != nil {
			return 0, fmt.Errorf("%w: '%s'", err, raw)
		}
	}

	total := 0
	for _, part := range []struct{ value, scale int }{
		{value: days, scale: minutesPerDay},
		{value: hours, scale: minutesPerHour},
		{value: minutes, scale: 1},
	} {
		if part.value > (math.MaxInt-total)/part.scale {
			return 0, fmt.Errorf("%w: '%s' does not fit in a minute count", ErrMalformedDuration, raw)
		}
		total += part.value * part.scale
	}
	return total, nil
}

func parseDurationComponent(token string) (int, error) {
	value, err := strconv.Atoi(token)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("%w: invalid component '%s'", ErrMalformedDuration, token)
	}
	return value, nil
}

// ParsePlaytimeMinutes reads a whole number of minutes sent as a string
func ParsePlaytimeMinutes(raw string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value < 0 {
		return 0, fmt.Errorf("%w: '%s' is not a minute count", ErrMalformedDuration, raw)
	}
	return value, nil
}

// FormatPlaytime renders minutes as e.g. "41d 11h". Both parts are floored and
// zero parts are left out, but at least "0h" is always shown.
func FormatPlaytime(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}

	days := minutes / minutesPerDay
	hours := (minutes % minutesPerDay) / minutesPerHour

	parts := make([]string, 0, 2)
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if len(parts) == 0 {
		return "0h"
	}
	return strings.Join(parts, " ")
}
