package linesort

import (
	"context"
	"errors"
	"fmt"

	"linesort/lineio"
)

// Failure classes surfaced by Sort. Match with errors.Is; every returned
// error wraps exactly one of these (cancellation errors pass through
// unwrapped).
var (
	// ErrConfig marks an invalid or incomplete configuration.
	ErrConfig = errors.New("linesort: invalid configuration")

	// ErrIO marks a failure to open, read, write or publish a file.
	ErrIO = errors.New("linesort: i/o failure")

	// ErrEncoding marks text the configured encoding cannot decode or
	// encode.
	ErrEncoding = errors.New("linesort: encoding failure")

	// ErrComparator marks a panic raised by the caller's comparator.
	ErrComparator = errors.New("linesort: comparator failure")
)

// ComparatorError reports a panic raised by the caller's comparator, with
// the original panic value preserved.
type ComparatorError struct {
	Cause any
}

func (e *ComparatorError) Error() string {
	return fmt.Sprintf("linesort: comparator panicked: %v", e.Cause)
}

func (e *ComparatorError) Is(target error) bool { return target == ErrComparator }

// classify maps an internal failure onto the package's failure classes.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrConfig),
		errors.Is(err, ErrIO),
		errors.Is(err, ErrEncoding),
		errors.Is(err, ErrComparator):
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, lineio.ErrEncoding), errors.Is(err, lineio.ErrUnknownEncoding):
		return fmt.Errorf("%w: %w", ErrEncoding, err)
	default:
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
}
