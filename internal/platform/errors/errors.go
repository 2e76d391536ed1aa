// Package errors provides structured, coded error handling for the console.
package errors

// Domain is the error domain for Resohub console errors.
const Domain = "github.com/resohub/console"

// Error is the domain error type with structured metadata.
type Error struct {
	Code     Code              // Machine-readable error code
	Message  string            // Internal message (for logs/telemetry)
	Metadata map[string]string // Additional context
	Cause    error             // Wrapped underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a simple domain error with a code and message.
func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a domain error that wraps an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Message resolves the client-facing message for any error. Non-domain
// errors collapse to a generic message so internals are never leaked.
func Message(err error) string {
	if e, ok := err.(*Error); ok && e != nil {
		return e.Message
	}
	return "internal error"
}

// HTTPStatus resolves the HTTP status for any error. Non-domain errors map
// to the CodeUnknown status.
func HTTPStatus(err error) int {
	if e, ok := err.(*Error); ok && e != nil {
		return e.Code.HTTPStatus()
	}
	return CodeUnknown.HTTPStatus()
}
