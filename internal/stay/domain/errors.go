package domain

import "errors"

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidID           = errors.New("invalid_id")
	ErrInvalidFamilyGroup  = errors.New("invalid_family_group")
	ErrInvalidDateRange    = errors.New("invalid_date_range")
	ErrInvalidStatus       = errors.New("invalid_status")
	ErrInvalidRateOverride = errors.New("invalid_rate_override")
	ErrNotFound            = errors.New("not_found")
)
