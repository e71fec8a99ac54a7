// Package occupancy models the day-by-day guest count of a stay. A stay is
// billed per night, so the sequence covers [start, end) with the checkout day
// excluded. Edits always replace the whole sequence.
package occupancy

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/idaholion/cabinbuddy-48f92664-sub000/pkg/dates"
)

var (
	ErrInvalidDateRange  = errors.New("invalid_date_range")
	ErrInvalidGuestCount = errors.New("invalid_guest_count")
	ErrDateOutOfRange    = errors.New("occupancy_date_out_of_range")
	ErrDuplicateDate     = errors.New("duplicate_occupancy_date")
)

type Day struct {
	Date   time.Time `json:"date"`
	Guests int       `json:"guests"`
}

type dayJSON struct {
	Date   string `json:"date"`
	Guests int    `json:"guests"`
}

func (d Day) MarshalJSON() ([]byte, error) {
	return json.Marshal(dayJSON{Date: dates.Key(d.Date), Guests: d.Guests})
}

// UnmarshalJSON accepts YYYY-MM-DD or RFC 3339 dates.
func (d *Day) UnmarshalJSON(data []byte) error {
	var raw dayJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	value := strings.TrimSpace(raw.Date)
	parsed, err := dates.Parse(value)
	if err != nil {
		ts, tsErr := time.Parse(time.RFC3339, value)
		if tsErr != nil {
			return err
		}
		parsed = ts
	}
	d.Date = dates.Truncate(parsed)
	d.Guests = raw.Guests
	return nil
}

// Validate checks a replacement sequence for [start, end).
func Validate(start, end time.Time, days []Day) error {
	if dates.DaysBetween(start, end) <= 0 {
		return ErrInvalidDateRange
	}
	seen := make(map[string]struct{}, len(days))
	for _, d := range days {
		if d.Guests < 0 {
			return ErrInvalidGuestCount
		}
		if !dates.Within(d.Date, start, end) {
			return ErrDateOutOfRange
		}
		key := dates.Key(d.Date)
		if _, ok := seen[key]; ok {
			return ErrDuplicateDate
		}
		seen[key] = struct{}{}
	}
	return nil
}

// Normalize returns one entry per night of [start, end) in date order.
// Missing nights get zero guests; entries outside the range are dropped.
// Repeated dates keep the last value.
func Normalize(start, end time.Time, days []Day) []Day {
	byDate := ByDate(days)
	nights := dates.Range(start, end)
	out := make([]Day, 0, len(nights))
	for _, night := range nights {
		guests := byDate[dates.Key(night)]
		if guests < 0 {
			guests = 0
		}
		out = append(out, Day{Date: night, Guests: guests})
	}
	return out
}

// HasValidData reports whether at least one day has guests. Stays without
// valid data are never considered settled.
func HasValidData(days []Day) bool {
	for _, d := range days {
		if d.Guests > 0 {
			return true
		}
	}
	return false
}

func GuestNights(days []Day) int {
	total := 0
	for _, d := range days {
		if d.Guests > 0 {
			total += d.Guests
		}
	}
	return total
}

func MaxGuests(days []Day) int {
	max := 0
	for _, d := range days {
		if d.Guests > max {
			max = d.Guests
		}
	}
	return max
}

// ByDate indexes guests by YYYY-MM-DD. Repeated dates keep the last value.
func ByDate(days []Day) map[string]int {
	out := make(map[string]int, len(days))
	for _, d := range days {
		out[dates.Key(d.Date)] = d.Guests
	}
	return out
}

// Span returns the first night and the day after the last night of days.
func Span(days []Day) (time.Time, time.Time, bool) {
	if len(days) == 0 {
		return time.Time{}, time.Time{}, false
	}
	first := dates.Truncate(days[0].Date)
	last := first
	for _, d := range days[1:] {
		t := dates.Truncate(d.Date)
		if t.Before(first) {
			first = t
		}
		if t.After(last) {
			last = t
		}
	}
	return first, last.AddDate(0, 0, 1), true
}

// OverlapNights counts the distinct dates of days falling inside [start, end).
func OverlapNights(days []Day, start, end time.Time) int {
	seen := make(map[string]struct{}, len(days))
	for _, d := range days {
		if dates.Within(d.Date, start, end) {
			seen[dates.Key(d.Date)] = struct{}{}
		}
	}
	return len(seen)
}

