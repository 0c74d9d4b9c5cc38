package domain

import "errors"

// Sentinel errors returned by the booking core. Handlers map them onto
// HTTP status codes with errors.Is; the core never retries or logs them.
var (
	// ErrNotFound means a referenced booking, driver or customer does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidRole means an assignment target is not a driver.
	ErrInvalidRole = errors.New("user is not a driver")

	// ErrInvalidTransition means the requested lifecycle move is not allowed
	// from the booking's current status.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrDriverBusy means the driver already holds an active booking and
	// cannot be assigned another.
	ErrDriverBusy = errors.New("driver already has an active booking")

	// ErrValidation means the input could not be interpreted, e.g. an
	// unparsable status value.
	ErrValidation = errors.New("validation failed")
)
