package kitz

import (
	"errors"
	"fmt"
	"time"
)

// Done is returned by Iterator.Next when there are no more values.
// It is a sentinel and is never wrapped.
var Done = errors.New("no more items in iterator") //nolint:revive,errname // mirrors the io.EOF style sentinel

var (
	// ErrInvalidConfig is returned when a window or batch configuration
	// cannot be satisfied.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrClosed is returned by Next after an iterator has been closed.
	ErrClosed = errors.New("iterator closed")
)

// IteratorError records a failure while producing values for an iterator.
// It identifies the stage that failed and the position in the source at
// which the failure happened.
//
//nolint:govet // fieldalignment: struct layout optimized for readability over memory
type IteratorError struct {
	// Err is the underlying error.
	Err error

	// Stage names the iterator that produced the error.
	Stage string

	// Offset is the source position being fetched when the error occurred.
	Offset int64

	// Timestamp records when the error occurred.
	Timestamp time.Time
}

// NewIteratorError creates an IteratorError with the current timestamp.
func NewIteratorError(err error, stage string, offset int64) *IteratorError {
	return &IteratorError{
		Err:       err,
		Stage:     stage,
		Offset:    offset,
		Timestamp: time.Now(),
	}
}

// Error implements the error interface.
func (ie *IteratorError) Error() string {
	return fmt.Sprintf("%s at offset %d: %v", ie.Stage, ie.Offset, ie.Err)
}

// Unwrap returns the underlying error, enabling errors.Is and errors.As.
func (ie *IteratorError) Unwrap() error {
	return ie.Err
}

func invalidConfig(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
