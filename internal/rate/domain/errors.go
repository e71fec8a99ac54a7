package domain

import "errors"

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidMethod       = errors.New("invalid_rate_method")
	ErrInvalidAmount       = errors.New("invalid_amount")
	ErrInvalidTaxRate      = errors.New("invalid_tax_rate")
	ErrInvalidSeason       = errors.New("invalid_season")
	ErrInvalidDateRange    = errors.New("invalid_date_range")
	ErrNotFound            = errors.New("not_found")
)
