package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks a caller-supplied parameter that cannot be used.
// It is currently defensive only: handlers clamp bad day-counts instead of
// propagating them, so nothing in the core raises it today.
var ErrInvalidInput = errors.New("invalid input")

// RemoteFetchError wraps any failure talking to the remote hosting API:
// network errors, rate limits, malformed responses. The underlying cause is
// preserved and reachable through errors.Is/As.
type RemoteFetchError struct {
	Op  string
	Err error
}

func (e *RemoteFetchError) Error() string {
	return fmt.Sprintf("remote fetch %s: %v", e.Op, e.Err)
}

func (e *RemoteFetchError) Unwrap() error {
	return e.Err
}

// NewRemoteFetchError wraps err as a remote fetch failure for the given operation.
func NewRemoteFetchError(op string, err error) *RemoteFetchError {
	return &RemoteFetchError{Op: op, Err: err}
}
