package services

import "errors"

// Errors returned by the identity and booking services. Callers match them
// with errors.Is and turn them into user-facing messages.
var (
	ErrMissingFields      = errors.New("missing required fields")
	ErrInvalidMobile      = errors.New("mobile number must be exactly 10 digits")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrPasswordTooLong    = errors.New("password must be at most 72 bytes")
	ErrDuplicatePatient   = errors.New("patient already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSlotTaken          = errors.New("slot already booked")
	ErrAlreadyBooked      = errors.New("patient already has an appointment at this time")
)
