// utils/validation.go
package utils

import (
	"regexp"
)

var clockTimeRegex = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// ValidateClockTime checks a daily-recurring wall clock time in HH:MM form,
// as carried on a service's orderStartTime/cutoffTime. Empty means unset and
// is valid.
func ValidateClockTime(hhmm string) bool {
	if hhmm == "" {
		return true
	}
	return clockTimeRegex.MatchString(hhmm)
}
