package internalerr

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidConfig       = errors.New("invalid configuration")
	ErrResourceUnavailable = errors.New("resource unavailable")
	ErrInference           = errors.New("inference failed")
	ErrPipeline            = errors.New("pipeline failure")
)

// StageError records which preprocessing stage failed.
// It matches ErrPipeline under errors.Is.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Is reports ErrPipeline as a match so callers can classify without a type switch.
func (e *StageError) Is(target error) bool {
	return target == ErrPipeline
}

// Resource wraps err as ErrResourceUnavailable for the named resource.
func Resource(name string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrResourceUnavailable, name, err)
}
