// utils/dates.go
package utils

import "time"

const DateLayout = "2006-01-02"

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func DaysBetween(start, end time.Time) int {
	start = BeginningOfDay(start)
	end = BeginningOfDay(end)
	return int(end.Sub(start).Hours() / 24)
}

// ParseDate parses a calendar date in YYYY-MM-DD form. Daily menus are keyed
// on this value, normalized to UTC midnight.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// AtClockTime returns the instant on date's calendar day at the given wall
// clock time ("HH:MM"). The second return is false when hhmm is unset or
// malformed.
func AtClockTime(date time.Time, hhmm string) (time.Time, bool) {
	if hhmm == "" {
		return time.Time{}, false
	}
	parsed, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, false
	}
	year, month, day := date.Date()
	return time.Date(year, month, day, parsed.Hour(), parsed.Minute(), 0, 0, date.Location()), true
}
