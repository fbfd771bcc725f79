package ingest

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes ingest failures.
type ErrorCode string

const (
	// ErrCodeOpenFailed indicates the input file could not be opened.
	ErrCodeOpenFailed ErrorCode = "OPEN_FAILED"

	// ErrCodeReadFailed indicates the reader returned an error mid-stream.
	ErrCodeReadFailed ErrorCode = "READ_FAILED"

	// ErrCodeCancelled indicates the context was cancelled before the input ended.
	ErrCodeCancelled ErrorCode = "CANCELLED"
)

// Error is returned by Run and RunFile.
type Error struct {
	Code    ErrorCode
	Message string
	Line    int // last line read when the failure happened, 0 if none
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Line > 0 {
		msg = fmt.Sprintf("%s (line %d)", msg, e.Line)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsInputError reports whether err is an open or read failure.
// Uses errors.As to handle wrapped errors.
func IsInputError(err error) bool {
	var ie *Error
	if errors.As(err, &ie) {
		return ie.Code == ErrCodeOpenFailed || ie.Code == ErrCodeReadFailed
	}
	return false
}

// IsCancelled reports whether err is a cancellation error.
func IsCancelled(err error) bool {
	var ie *Error
	if errors.As(err, &ie) {
		return ie.Code == ErrCodeCancelled
	}
	return false
}
