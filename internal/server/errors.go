package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	ledgerdomain "github.com/idaholion/cabinbuddy-48f92664-sub000/internal/ledger/domain"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/occupancy"
	paymentdomain "github.com/idaholion/cabinbuddy-48f92664-sub000/internal/payment/domain"
	ratedomain "github.com/idaholion/cabinbuddy-48f92664-sub000/internal/rate/domain"
	receiptdomain "github.com/idaholion/cabinbuddy-48f92664-sub000/internal/receipt/domain"
	staydomain "github.com/idaholion/cabinbuddy-48f92664-sub000/internal/stay/domain"
)

const (
	codeInvalidRequest = "invalid_request"
	codeNotFound       = "not_found"
	codeConflict       = "conflict"
	codeInternal       = "internal_error"
)

// APIError is rendered as {"error": {...}}.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

var ErrMissingOrganization = &APIError{
	Status:  http.StatusBadRequest,
	Code:    codeInvalidRequest,
	Message: "X-Org-ID header is required",
	Field:   "X-Org-ID",
}

func invalidRequestError() *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: codeInvalidRequest, Message: "invalid request body"}
}

func newValidationError(field, code, message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: code, Message: message, Field: field}
}

var (
	notFoundErrors = []error{
		staydomain.ErrNotFound,
		paymentdomain.ErrNotFound,
		paymentdomain.ErrStayNotFound,
		ratedomain.ErrNotFound,
		ledgerdomain.ErrHostNotFound,
		ledgerdomain.ErrStayNotFound,
	}
	conflictErrors = []error{
		paymentdomain.ErrBillingLocked,
		paymentdomain.ErrIdempotencyInProgress,
	}
	invalidErrors = []error{
		occupancy.ErrInvalidDateRange,
		occupancy.ErrInvalidGuestCount,
		occupancy.ErrDateOutOfRange,
		occupancy.ErrDuplicateDate,
		staydomain.ErrInvalidOrganization,
		staydomain.ErrInvalidID,
		staydomain.ErrInvalidFamilyGroup,
		staydomain.ErrInvalidDateRange,
		staydomain.ErrInvalidStatus,
		staydomain.ErrInvalidRateOverride,
		paymentdomain.ErrInvalidOrganization,
		paymentdomain.ErrInvalidID,
		paymentdomain.ErrInvalidAmount,
		paymentdomain.ErrInvalidTarget,
		paymentdomain.ErrInvalidRecipient,
		ratedomain.ErrInvalidOrganization,
		ratedomain.ErrInvalidMethod,
		ratedomain.ErrInvalidAmount,
		ratedomain.ErrInvalidTaxRate,
		ratedomain.ErrInvalidSeason,
		ratedomain.ErrInvalidDateRange,
		receiptdomain.ErrInvalidOrganization,
		receiptdomain.ErrInvalidFamilyGroup,
		receiptdomain.ErrInvalidAmount,
		receiptdomain.ErrInvalidDate,
		ledgerdomain.ErrInvalidOrganization,
		ledgerdomain.ErrInvalidHostKey,
		ledgerdomain.ErrInvalidStayRef,
	}
)

// AbortWithError maps domain sentinels to HTTP responses. Anything
// unrecognised is a 500 whose cause is only logged.
func AbortWithError(c *gin.Context, err error) {
	apiErr := toAPIError(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(apiErr.Status, gin.H{"error": apiErr})
}

func toAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	if matches(err, notFoundErrors) {
		return &APIError{Status: http.StatusNotFound, Code: codeNotFound, Message: err.Error()}
	}
	if matches(err, conflictErrors) {
		return &APIError{Status: http.StatusConflict, Code: codeConflict, Message: err.Error()}
	}
	if matches(err, invalidErrors) {
		return &APIError{Status: http.StatusBadRequest, Code: codeInvalidRequest, Message: err.Error()}
	}
	return &APIError{Status: http.StatusInternalServerError, Code: codeInternal, Message: "internal error"}
}

func matches(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
