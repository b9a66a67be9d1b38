package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrDuplicateEmail         = errors.New("email is already registered")
	ErrRemote                 = errors.New("auth service failure")
	ErrNotAuthenticated       = errors.New("not authenticated")
	ErrForbidden              = errors.New("operation not allowed for this role")
	ErrSuperseded             = errors.New("superseded by a newer request")
	ErrIncompleteRegistration = errors.New("registration is incomplete")
)

// AuthError is returned by every session operation that fails. Kind is one of
// the Err* sentinels above, Cause keeps the underlying provider error.
type AuthError struct {
	Op    string
	Kind  error
	Cause error
}

func NewAuthError(op string, kind error, cause error) *AuthError {
	return &AuthError{Op: op, Kind: kind, Cause: cause}
}

func (e *AuthError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Kind)
}

func (e *AuthError) Is(target error) bool { return errors.Is(e.Kind, target) }
func (e *AuthError) Unwrap() error        { return e.Cause }

// ValidationError maps form field names to a human readable problem.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, problem string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: problem}}
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

func IsValidationError(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}
