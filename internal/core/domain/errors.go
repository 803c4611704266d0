package domain

import (
	"errors"
	"fmt"
)

// Authentication and authorization failures.
var (
	ErrUnauthenticated = errors.New("full authentication is required to access this resource")
	ErrBadCredentials  = errors.New("bad credentials")
	ErrUserNotFound    = errors.New("user not found")
	ErrAccountDisabled = errors.New("user is disabled")
	ErrInvalidToken    = errors.New("invalid bearer token")
	ErrAccessDenied    = errors.New("access denied")
)

// Directory failures.
var (
	ErrNotFound             = errors.New("not found")
	ErrUserExists           = errors.New("user already exists")
	ErrIncorrectOldPassword = errors.New("incorrect old password")
)

// NotFoundError reports a missing entity by id.
type NotFoundError struct {
	Entity string
	ID     any
}

func NewNotFound(entity string, id any) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Could not find %s with Id %v", e.Entity, e.ID)
}

// Is lets errors.Is(err, ErrNotFound) match any NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError carries per-field messages keyed by the wire field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}
