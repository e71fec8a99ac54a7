package domain

import "errors"

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidID           = errors.New("invalid_id")
	ErrInvalidAmount       = errors.New("invalid_amount")
	ErrInvalidTarget       = errors.New("invalid_payment_target")
	ErrInvalidRecipient    = errors.New("invalid_split_recipient")
	ErrBillingLocked       = errors.New("billing_locked")
	ErrStayNotFound        = errors.New("stay_not_found")
	ErrNotFound            = errors.New("not_found")

	ErrIdempotencyInProgress = errors.New("idempotency_key_in_progress")
)
