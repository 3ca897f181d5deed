package models

import "errors"

var (
	// ErrNotFound is returned when a referenced user, event, booking or
	// comment does not exist.
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidQuantity is returned for a registration with quantity <= 0.
	ErrInvalidQuantity = errors.New("quantity must be positive")
	// ErrInsufficientAvailability is returned when a registration asks for
	// more tickets than remain.
	ErrInsufficientAvailability = errors.New("insufficient availability")
	// ErrBookingNotCancellable is returned when cancelling a booking that is
	// not in the Confirmed state.
	ErrBookingNotCancellable = errors.New("booking cannot be cancelled")
)
