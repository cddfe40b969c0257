package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks missing or malformed input.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is a normal outcome, not a system fault.
	ErrNotFound = errors.New("not found")

	// ErrUpstream marks a failure of the store, the identity service or the chat channel.
	ErrUpstream = errors.New("upstream failure")
)

var (
	ErrRequestNotFound = fmt.Errorf("verification request %w", ErrNotFound)
	ErrGuildNotFound   = fmt.Errorf("guild %w", ErrNotFound)
)

// ValidationError names the field that failed validation.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// UpstreamError wraps a failure of an external collaborator.
type UpstreamError struct {
	Service string
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Service, e.Err)
}

// Is lets errors.Is match both ErrUpstream and the wrapped cause.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
