// Package dates holds calendar-day helpers. Stay dates are civil dates; every
// value is normalized to UTC midnight before it is compared or keyed.
package dates

import (
	"strings"
	"time"
)

const Layout = "2006-01-02"

const day = 24 * time.Hour

// Truncate drops the clock part of t, keeping its calendar date.
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Key renders the calendar date of t as YYYY-MM-DD.
func Key(t time.Time) string {
	return Truncate(t).Format(Layout)
}

func Parse(value string) (time.Time, error) {
	t, err := time.Parse(Layout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// DaysBetween counts calendar days from start to end. It is negative when end
// is before start.
func DaysBetween(start, end time.Time) int {
	return int(Truncate(end).Sub(Truncate(start)) / day)
}

// Range lists the nights [start, end). Empty when end <= start.
func Range(start, end time.Time) []time.Time {
	n := DaysBetween(start, end)
	if n <= 0 {
		return nil
	}
	out := make([]time.Time, 0, n)
	cursor := Truncate(start)
	for i := 0; i < n; i++ {
		out = append(out, cursor.AddDate(0, 0, i))
	}
	return out
}

// Within reports whether d falls on a night of [start, end).
func Within(d, start, end time.Time) bool {
	d = Truncate(d)
	return !d.Before(Truncate(start)) && d.Before(Truncate(end))
}
