package utils

import (
	"time"
)

// SubtractDays returns the time n days before t. A negative n moves the
// result forward instead. The input value is never modified.
func SubtractDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, -n)
}

// StartOfDay truncates t to midnight of its calendar day in loc. The
// truncation happens in local wall-clock time, not UTC, so day boundaries
// line up with what the viewer actually sees. A nil loc falls back to
// time.Local.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// DayKey formats t as its yyyy-MM-dd calendar day in loc. Two events share
// a day bucket exactly when their keys are equal.
func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format("2006-01-02")
}
