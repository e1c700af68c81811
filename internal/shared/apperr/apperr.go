// Package apperr defines the error kinds shared by the gateways, the pipeline and the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
)

// Kinds. Match with errors.Is.
var (
	ErrValidation    = errors.New("validation")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrFetch         = errors.New("fetch")
	ErrService       = errors.New("service")
	ErrNotConfigured = errors.New("not_configured")
	ErrEmptyResult   = errors.New("empty_result")
	ErrParse         = errors.New("parse")
	ErrSchema        = errors.New("schema")
	ErrPersistence   = errors.New("persistence")
	ErrNotFound      = errors.New("not_found")
)

// Error carries a kind, a user-facing message and the underlying cause.
type Error struct {
	Kind    error
	Message string
	Details any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// New builds an error of the given kind.
func New(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an error of the given kind around cause.
func Wrap(kind error, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// WithDetails attaches structured details, e.g. field validation issues.
func (e *Error) WithDetails(details any) *Error {
	e.Details = details
	return e
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var target *Error
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// Message returns the user-facing message of err, or fallback.
func Message(err error, fallback string) string {
	if e, ok := As(err); ok && e.Message != "" {
		return e.Message
	}
	return fallback
}

// KindOf returns the kind of err, or nil when err carries none.
func KindOf(err error) error {
	for _, k := range []error{
		ErrValidation, ErrUnauthorized, ErrFetch, ErrService, ErrNotConfigured,
		ErrEmptyResult, ErrParse, ErrSchema, ErrPersistence, ErrNotFound,
	} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
