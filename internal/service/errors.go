package service

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the services matches one of these
// with errors.Is.
var (
	ErrValidation       = errors.New("validation failed")
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotFound         = errors.New("not found")
	ErrPersistence      = errors.New("persistence failed")
)

// Specific outcomes.
var (
	ErrUsernameTaken    = fmt.Errorf("%w: username already exists", ErrValidation)
	ErrReservedUsername = fmt.Errorf("%w: username is reserved", ErrValidation)
	ErrSelfDrop         = fmt.Errorf("%w: task cannot be moved relative to itself", ErrValidation)
	ErrDuplicateLabel   = fmt.Errorf("%w: label already present", ErrValidation)
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func persistenceError(err error) error {
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}
