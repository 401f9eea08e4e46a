// Package apperr defines the error taxonomy shared by all services. Controllers
// translate these into HTTP status codes in one place.
package apperr

import (
	"errors"
	"fmt"
)

// ValidationError marks missing or malformed input, rejected before any store
// access.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Validation(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError marks a referenced entity that does not exist.
type NotFoundError struct {
	Entity string
	ID     interface{}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found with ID %v", e.Entity, e.ID)
}

func NotFound(entity string, id interface{}) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// InvalidStateError marks an operation that is not legal in the entity's
// current state, e.g. completing an already-completed session.
type InvalidStateError struct {
	Msg string
}

func (e *InvalidStateError) Error() string { return e.Msg }

func InvalidState(format string, args ...interface{}) error {
	return &InvalidStateError{Msg: fmt.Sprintf(format, args...)}
}

// UpstreamServiceError marks a failure of an external collaborator (LLM
// provider, PDF tooling). Callers degrade rather than crash.
type UpstreamServiceError struct {
	Service string
	Err     error
}

func (e *UpstreamServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *UpstreamServiceError) Unwrap() error { return e.Err }

func Upstream(service string, err error) error {
	return &UpstreamServiceError{Service: service, Err: err}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsNotFound(err error) bool {
	var n *NotFoundError
	return errors.As(err, &n)
}

func IsInvalidState(err error) bool {
	var s *InvalidStateError
	return errors.As(err, &s)
}

func IsUpstream(err error) bool {
	var u *UpstreamServiceError
	return errors.As(err, &u)
}
