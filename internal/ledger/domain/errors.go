package domain

import "errors"

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidHostKey      = errors.New("invalid_host_key")
	ErrInvalidStayRef      = errors.New("invalid_stay_ref")
	ErrHostNotFound        = errors.New("host_not_found")
	ErrStayNotFound        = errors.New("stay_not_found")
)
