package service

import "errors"

var (
	// ErrPermissionDenied is returned when the acting user lacks the
	// permission an operation requires.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrBookingNotPayable is returned when a payment is registered against
	// a booking that was never accepted (still pendente or cancelado).
	ErrBookingNotPayable = errors.New("booking is not payable")
)
