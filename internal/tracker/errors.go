package tracker

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSettings is returned for settings updates that fail validation
	ErrInvalidSettings = errors.New("invalid settings")

	// ErrMoveFailed wraps failures of the cursor move primitive
	ErrMoveFailed = errors.New("move failed")

	// ErrCaptureUnavailable means every cell of a scan pass failed to capture
	ErrCaptureUnavailable = errors.New("capture unavailable")
)

// ValidationError describes one rejected settings field
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidSettings
func (e *ValidationError) Unwrap() error {
	return ErrInvalidSettings
}
