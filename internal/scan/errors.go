package scan

import (
	"errors"
	"fmt"
)

var (
	// ErrTargetRequired is returned when a target scan is started without a company
	ErrTargetRequired = errors.New("target scan requires a company id")

	// ErrSessionActive is returned when a scan is started while another is running
	ErrSessionActive = errors.New("a scan session is already active")

	// ErrInvalidRange is returned when a date range ends before it starts
	ErrInvalidRange = errors.New("date range ends before it starts")

	// ErrUnknownStatus marks a well-formed event whose status tag is not recognized
	ErrUnknownStatus = errors.New("unknown event status")
)

// DecodeError reports a marked line whose payload could not be decoded.
type DecodeError struct {
	Line string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("malformed event %q: %v", e.Line, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
