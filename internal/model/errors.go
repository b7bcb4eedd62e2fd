package model

import "errors"

// Error kinds. Every error returned by the market layer either wraps one of
// these or is an internal failure.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidState    = errors.New("invalid state")
)

// Error is a classified error with a message safe to show to the caller.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// Forbidden returns an ErrForbidden error with the given message.
func Forbidden(msg string) error { return &Error{Kind: ErrForbidden, Message: msg} }

// NotFound returns an ErrNotFound error with the given message.
func NotFound(msg string) error { return &Error{Kind: ErrNotFound, Message: msg} }

// InvalidArgument returns an ErrInvalidArgument error with the given message.
func InvalidArgument(msg string) error { return &Error{Kind: ErrInvalidArgument, Message: msg} }

// InvalidState returns an ErrInvalidState error with the given message.
func InvalidState(msg string) error { return &Error{Kind: ErrInvalidState, Message: msg} }
