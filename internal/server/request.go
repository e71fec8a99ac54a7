package server

import (
	"time"

	"github.com/idaholion/cabinbuddy-48f92664-sub000/pkg/dates"
)

// parseDate reads a required YYYY-MM-DD field.
func parseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, newValidationError(field, "required", field+" is required")
	}
	t, err := dates.Parse(value)
	if err != nil {
		return time.Time{}, newValidationError(field, "invalid_date", field+" must be YYYY-MM-DD")
	}
	return t, nil
}

// parseOptionalDate returns the zero time for an empty value.
func parseOptionalDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return parseDate(field, value)
}
