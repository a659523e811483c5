package services

import "errors"

// Sentinel errors returned by the fulfillment service. Handlers translate
// them to HTTP status codes; anything else is a persistence failure.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)
