// Package exitcode maps command outcomes to process exit codes.
package exitcode

import (
	"errors"

	"github.com/alexanderramin/millennium/internal/domain"
	"github.com/alexanderramin/millennium/internal/remote"
)

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates bad arguments, blank input or a missing record.
	UserError = 1

	// AuthError indicates a missing session, bad credentials or bad config.
	AuthError = 2

	// BackendError indicates a store, network or database failure.
	BackendError = 3
)

// Error pairs an error with the exit code it should produce.
type Error struct {
	Code int
	Err  error
}

func (e *Error) Error() string { return e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// Wrap attaches code to err. A nil err stays nil.
func Wrap(code int, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Err: err}
}

// For classifies err. Explicit codes from Wrap take precedence.
func For(err error) int {
	if err == nil {
		return Success
	}
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	switch {
	case errors.Is(err, domain.ErrNoSession),
		errors.Is(err, domain.ErrInvalidCredentials):
		return AuthError
	case errors.Is(err, domain.ErrEmptyInput),
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrUserExists):
		return UserError
	case errors.Is(err, remote.ErrTimeout),
		errors.Is(err, remote.ErrUnavailable):
		return BackendError
	}
	var apiErr *remote.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Status >= 400 && apiErr.Status < 500 {
			return UserError
		}
		return BackendError
	}
	var opErr *domain.OpError
	if errors.As(err, &opErr) {
		return BackendError
	}
	return UserError
}
