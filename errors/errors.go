// Package errors defines the structured error taxonomy used across the module.
package errors

import (
	"errors"
	"fmt"
)

// Category classifies failures so callers can route them without string matching.
type Category string

const (
	CategoryConvert     Category = "convert"     // decode/resize/encode failures
	CategoryUpload      Category = "upload"      // sink write failures
	CategoryConsistency Category = "consistency" // rotation state out of bounds
	CategoryConfig      Category = "config"      // missing/invalid credentials; never retried
	CategoryInput       Category = "input"       // bad path, empty batch input
)

// PipelineError is the structured error type used throughout the module.
type PipelineError struct {
	Category  Category
	Op        string // operation name, e.g. "webp.encode"
	Err       error
	Retryable bool
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("[%s] %s: %v", e.Category, e.Op, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }

// New creates a non-retryable PipelineError.
func New(category Category, op string, err error) *PipelineError {
	return &PipelineError{Category: category, Op: op, Err: err}
}

// Transient creates a retryable upload-category PipelineError.
func Transient(op string, err error) *PipelineError {
	return &PipelineError{Category: CategoryUpload, Op: op, Err: err, Retryable: true}
}

// Timeout creates a retryable PipelineError marking an abandoned attempt.
func Timeout(op string, err error) *PipelineError {
	return &PipelineError{
		Category:  CategoryUpload,
		Op:        op,
		Err:       fmt.Errorf("%w: %v", ErrAttemptTimeout, err),
		Retryable: true,
	}
}

// Fatal creates a non-retryable upload-category PipelineError.
func Fatal(op string, err error) *PipelineError {
	return &PipelineError{Category: CategoryUpload, Op: op, Err: err}
}

// Wrap wraps an existing error with category and operation context.
func Wrap(category Category, op string, err error) error {
	if err == nil {
		return nil
	}
	return New(category, op, err)
}

// IsRetryable reports whether err represents a failure worth another attempt.
func IsRetryable(err error) bool {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Retryable
	}
	return false
}

// IsCategory reports whether err belongs to the given category.
func IsCategory(err error, cat Category) bool {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Category == cat
	}
	return false
}

// Sentinel errors for common failure modes.
var (
	ErrUnsupportedFormat  = errors.New("unsupported image format")
	ErrCorruptInput       = errors.New("corrupt image data")
	ErrEmptyInput         = errors.New("empty input")
	ErrAttemptTimeout     = errors.New("upload attempt timed out")
	ErrMissingCredentials = errors.New("missing sink credentials")
	ErrIndexOutOfRange    = errors.New("rotation index out of range")
)
