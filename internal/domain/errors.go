package domain

import "errors"

var (
	// Date-range validation
	ErrInvalidRange    = errors.New("check-out must be after check-in")
	ErrTooEarlyCheckIn = errors.New("check-in must be after today")
	ErrMaxStayExceeded = errors.New("stay exceeds the maximum number of nights")

	// Pricing
	ErrRateNotFound = errors.New("no rate table for accommodation")

	// Lifecycle
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrAlreadyFinalized  = errors.New("billing record already finalized")
	ErrMissingReason     = errors.New("a cancellation reason is required")

	// Lookup
	ErrReservationNotFound   = errors.New("reservation not found")
	ErrBillingRecordNotFound = errors.New("billing record not found")
)
