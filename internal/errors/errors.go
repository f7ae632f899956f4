// Package errors provides error types and handling for list-to-sheets
// operations. It wraps underlying transport and SDK errors with the
// operation, source and object name that failed, and exposes sentinel
// errors for the failure classes callers branch on.
package errors

import (
	"errors"
	"fmt"
)

// Error represents a failed operation with context about where it failed.
// It wraps the underlying error so callers can still use errors.Is/As.
type Error struct {
	// Op is the operation that failed (e.g. "resolve", "download", "store.update")
	Op string

	// Source is the origin or destination involved (listing URL, bucket)
	Source string

	// Name is the object or file name involved (if applicable)
	Name string

	// Err is the underlying error
	Err error
}

// Error implements the error interface by providing a formatted error message.
func (e *Error) Error() string {
	switch {
	case e.Source != "" && e.Name != "":
		return fmt.Sprintf("%s %s/%s: %v", e.Op, e.Source, e.Name, e.Err)
	case e.Source != "":
		return fmt.Sprintf("%s %s: %v", e.Op, e.Source, e.Err)
	case e.Name != "":
		return fmt.Sprintf("%s %s: %v", e.Op, e.Name, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
}

// Unwrap returns the underlying error for error chaining support.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithSource adds source context to an existing error.
func (e *Error) WithSource(source string) *Error {
	e.Source = source
	return e
}

// WithName adds object name context to an existing error.
func (e *Error) WithName(name string) *Error {
	e.Name = name
	return e
}

// WithMessage wraps the underlying error with a custom message.
func (e *Error) WithMessage(message string) *Error {
	e.Err = fmt.Errorf("%s: %w", message, e.Err)
	return e
}

// New creates a new Error with the given operation and underlying error.
func New(op string, err error) *Error {
	return &Error{
		Op:  op,
		Err: err,
	}
}

// Sentinel errors for the failure classes of a run.
// These can be used with errors.Is() for error checking.
var (
	// ErrNoMatch indicates that no remote listing entry matched the
	// selection filter. There is no item to sync, so the run aborts.
	ErrNoMatch = errors.New("listing: no entry matches filter")

	// ErrNotFound indicates that no stored object with the requested
	// title exists on the remote store. This is not fatal: it selects
	// the first-upload branch of the sync engine.
	ErrNotFound = errors.New("store: object not found")

	// ErrDownloadFailed indicates that fetching the current item to the
	// staging file failed. No upload is attempted after it.
	ErrDownloadFailed = errors.New("sync: download failed")

	// ErrUploadFailed indicates that transferring the staging file to the
	// remote store failed.
	ErrUploadFailed = errors.New("sync: upload failed")

	// ErrUnauthenticated indicates that the remote store rejected our
	// credentials, or none could be acquired.
	ErrUnauthenticated = errors.New("store: unauthenticated")

	// ErrInvalidInput indicates that the provided input is invalid.
	ErrInvalidInput = errors.New("invalid input")
)

// IsNoMatch checks if an error indicates that no listing entry matched.
func IsNoMatch(err error) bool {
	return errors.Is(err, ErrNoMatch)
}

// IsNotFound checks if an error indicates that a stored object was not found.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnauthenticated checks if an error indicates a credential failure.
func IsUnauthenticated(err error) bool {
	return errors.Is(err, ErrUnauthenticated)
}

// IsTransfer checks if an error came from the download or upload step.
func IsTransfer(err error) bool {
	return errors.Is(err, ErrDownloadFailed) || errors.Is(err, ErrUploadFailed)
}
