package Models

import "errors"

// Failure kinds surfaced by the store layer. Controllers translate these
// to HTTP statuses; nothing below the controller retries.
var (
	ErrRecordNotFound   = errors.New("record not found")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrValidationFailed = errors.New("validation failed")
)
