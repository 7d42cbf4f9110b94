// Package timeutil converts between "HH:MM" clock strings and
// minutes-since-midnight. All schedule arithmetic in this service runs
// on minute offsets so that windows spanning midnight stay comparable.
package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
)

// MinutesPerDay is the number of minutes in one calendar day.
const MinutesPerDay = 24 * 60

// FormatError reports a clock-time string that does not match "HH:MM".
type FormatError struct {
	Input string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed clock time %q: expected HH:MM", e.Input)
}

var clockPattern = regexp.MustCompile(`^([01]?\d|2[0-3]):([0-5]\d)$`)

// TimeToMinutes parses an "HH:MM" string into minutes since midnight,
// in [0, 1440). A string that does not match returns a *FormatError.
func TimeToMinutes(s string) (int, error) {
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, &FormatError{Input: s}
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	return hours*60 + minutes, nil
}

// MinutesToTime formats minutes since midnight as "HH:MM". Any integer
// is accepted; values outside [0, 1440) are normalized by modulo, so
// negative offsets and day overflows wrap around the clock.
func MinutesToTime(total int) string {
	total %= MinutesPerDay
	if total < 0 {
		total += MinutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// To12Hour converts an "HH:MM" string to a 12-hour "h:mm AM|PM" label.
func To12Hour(s string) (string, error) {
	total, err := TimeToMinutes(s)
	if err != nil {
		return "", err
	}
	return Label(total), nil
}

// Label formats minutes since midnight as a 12-hour "h:mm AM|PM" label.
// The input is normalized the same way as MinutesToTime.
func Label(total int) string {
	total %= MinutesPerDay
	if total < 0 {
		total += MinutesPerDay
	}
	hours := total / 60
	minutes := total % 60
	suffix := "AM"
	if hours >= 12 {
		suffix = "PM"
	}
	h12 := hours % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", h12, minutes, suffix)
}
