package readerview

import (
	"errors"
	"fmt"
)

// Application error codes.
//
// These map 1:1 to the error taxonomy surfaced by every public entry point;
// the CLI derives its exit codes from them.
const (
	EINVALID     = "invalid"     // missing or malformed input
	EPARSE       = "parse"       // unparseable markup or feed data
	EFETCH       = "fetch"       // collaborator-reported network/IO failure
	ETIMEOUT     = "timeout"     // deadline or page budget exceeded
	EUNSUPPORTED = "unsupported" // recognized but unhandled input shape
	EINTERNAL    = "internal"    // invariant violation
)

// Error represents an application-specific error. Application errors can be
// unwrapped by the caller to extract the machine-readable code and a
// human-readable message.
type Error struct {
	// Machine-readable error code.
	Code string

	// Human-readable message.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("readerview error: code=%s message=%s", e.Code, e.Message)
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
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
// Non-application errors always return "Internal error".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// Errorf is a helper function to return an Error with a given code and
// formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}
