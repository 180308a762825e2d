package services

import "errors"

// Error kinds shared by all services. Callers classify failures with
// errors.Is; the wrapping message carries the operation context.
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("already exists")
	ErrValidation = errors.New("invalid input")
	ErrPolicy     = errors.New("operation not allowed")
)
