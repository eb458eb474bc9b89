package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSession indicates there is no active, valid session.
	ErrNoSession = errors.New("not signed in")

	// ErrNotFound indicates the store returned no row for the requested ID.
	ErrNotFound = errors.New("record not found")

	// ErrEmptyInput indicates a blank display value was submitted.
	ErrEmptyInput = errors.New("value must not be empty")

	// ErrInvalidCredentials indicates a failed sign-in.
	ErrInvalidCredentials = errors.New("invalid login credentials")

	// ErrUserExists indicates sign-up for an email that is already registered.
	ErrUserExists = errors.New("user already registered")
)

// ErrorKind classifies failures surfaced by the list editor.
type ErrorKind string

const (
	KindSession  ErrorKind = "session"
	KindFetch    ErrorKind = "fetch"
	KindMutation ErrorKind = "mutation"
)

// OpError wraps a store failure with the editor operation that triggered it.
// Error() returns the underlying message unchanged so it can be shown to the
// user verbatim.
type OpError struct {
	Kind ErrorKind
	Op   string // "load", "insert", "update", "delete"
	Err  error
}

func (e *OpError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s failed", e.Op)
	}
	return e.Err.Error()
}

func (e *OpError) Unwrap() error { return e.Err }

// FetchError wraps a failed collection load.
func FetchError(err error) error {
	return &OpError{Kind: KindFetch, Op: "load", Err: err}
}

// MutationError wraps a failed insert, update or delete.
func MutationError(op string, err error) error {
	return &OpError{Kind: KindMutation, Op: op, Err: err}
}

// KindOf reports the kind of a failure. Session errors are recognised through
// ErrNoSession anywhere in the chain.
func KindOf(err error) (ErrorKind, bool) {
	if err == nil {
		return "", false
	}
	if errors.Is(err, ErrNoSession) {
		return KindSession, true
	}
	var op *OpError
	if errors.As(err, &op) {
		return op.Kind, true
	}
	return "", false
}
