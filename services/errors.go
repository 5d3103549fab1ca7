package services

import "errors"

// Booking and ledger errors. Controllers map these to HTTP statuses;
// anything else coming out of a service is treated as an internal error.
var (
	ErrTripNotFound        = errors.New("trip not found")
	ErrTripCancelled       = errors.New("trip has been cancelled")
	ErrLocationNotFound    = errors.New("location not found")
	ErrRiderNotFound       = errors.New("rider not found")
	ErrReservationNotFound = errors.New("reservation not found")

	ErrDuplicateReservation = errors.New("a confirmed reservation already exists for this passenger on this trip")
	ErrCapacityExceeded     = errors.New("not enough seats available")
	ErrInsufficientCredits  = errors.New("insufficient credits")

	ErrInvalidSignature           = errors.New("payment notification signature mismatch")
	ErrInvalidMerchant            = errors.New("payment notification merchant mismatch")
	ErrPaymentTransactionNotFound = errors.New("no pending payment transaction for this reference")
	ErrPackageNotFound            = errors.New("credit package not found")
)
