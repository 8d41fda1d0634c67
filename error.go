package docsee

import (
	"errors"
	"fmt"
)

// Application error codes.
//
// These codes classify errors for programmatic handling. Infrastructure
// errors (I/O, database) are wrapped with fmt.Errorf and surface as
// EINTERNAL to callers that only inspect codes.
const (
	ECONFLICT     = "conflict"     // duplicate bundle identifier or revision tag
	EINVALID      = "invalid"      // validation failed
	EINTERNAL     = "internal"     // internal error
	ENOTFOUND     = "not_found"    // entity does not exist
	ETIMEOUT      = "timeout"      // operation exceeded its deadline
	EPRECONDITION = "precondition" // caller contract violated upstream
)

// Error represents an application error with a machine-readable code and a
// human-readable message.
type Error struct {
	// Code is one of the application error codes above.
	Code string

	// Message is a human-readable description of the error.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("docsee error: code=%s message=%s", e.Code, e.Message)
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors return EINTERNAL. A nil error returns an empty
// string.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors return a generic message. A nil error returns an
// empty string.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// Errorf is a helper for constructing an Error with formatting.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}
