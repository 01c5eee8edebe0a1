package domain

import "errors"

var (
	// ErrInvalidCoordinate is returned for malformed or out-of-range lat/lng input.
	ErrInvalidCoordinate = errors.New("invalid coordinate")

	// ErrStoreUnavailable wraps failures and timeouts of the course store.
	ErrStoreUnavailable = errors.New("course store unavailable")

	ErrNotFound = errors.New("not found")

	// ErrInvalidSubmission is returned when a contact or review payload fails validation.
	ErrInvalidSubmission = errors.New("invalid submission")

	// ErrProviderUnavailable is returned when an upstream weather or places call fails.
	ErrProviderUnavailable = errors.New("provider unavailable")
)
