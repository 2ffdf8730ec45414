// Package calendar holds the pure date arithmetic used by notification
// eligibility checks, kept separate from the fan-out logic so it can be
// tested on its own.
package calendar

import "time"

// SameISOWeek reports whether a and b fall in the same ISO 8601 week.
func SameISOWeek(a, b time.Time) bool {
	ay, aw := a.ISOWeek()
	by, bw := b.ISOWeek()
	return ay == by && aw == bw
}

// StartOfISOWeek returns midnight of the Monday of t's ISO week in t's
// location.
func StartOfISOWeek(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday
	}
	day := t.AddDate(0, 0, -(weekday - 1))
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, t.Location())
}

// AddMonthsClamped adds months to t, clamping the day of month at the end
// of the target month instead of letting it roll over (Jan 31 + 1 month is
// Feb 28/29, not Mar 2/3).
func AddMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	first := time.Date(year, month, 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	shifted := first.AddDate(0, months, 0)
	last := daysIn(shifted.Year(), shifted.Month())
	if day > last {
		day = last
	}
	return time.Date(shifted.Year(), shifted.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// LocalTime returns t in the IANA timezone tz. An empty or unknown
// timezone falls back to UTC.
func LocalTime(t time.Time, tz string) time.Time {
	loc, err := time.LoadLocation(tz)
	if err != nil || tz == "" {
		loc = time.UTC
	}
	return t.In(loc)
}

// LocalHour returns the hour of t in the IANA timezone tz.
func LocalHour(t time.Time, tz string) int {
	return LocalTime(t, tz).Hour()
}
