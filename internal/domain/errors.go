package domain

import "errors"

// Error taxonomy shared by the store, services and transport. Callers classify
// with errors.Is; every layer wraps with %w so the sentinel survives.
var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("record not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateID        = errors.New("duplicate record id")
	ErrPersistence        = errors.New("persistence failure")
)
