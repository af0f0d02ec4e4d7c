package gateway

import (
	"errors"
)

// Kind classifies a gateway failure.
type Kind string

const (
	KindTransient Kind = "transient"
	KindTimeout   Kind = "timeout"
	KindMalformed Kind = "malformed"
	KindEmpty     Kind = "empty"
	KindQuota     Kind = "quota"
)

// Retryable reports whether a failure of this kind is worth retrying.
func (k Kind) Retryable() bool {
	return k != KindQuota
}

// Error is the typed failure returned by the gateway.
type Error struct {
	Kind    Kind   // Machine-readable failure kind
	Message string // Internal message for logs
	Cause   error  // Wrapped underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return string(e.Kind) + ": " + e.Message + ": " + e.Cause.Error()
	}
	return string(e.Kind) + ": " + e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// NewError creates a gateway error with a kind and message.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError creates a gateway error that wraps an underlying cause.
func WrapError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// KindOf extracts the failure kind of err. Errors that did not come from
// the gateway count as transient.
func KindOf(err error) Kind {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr.Kind
	}
	return KindTransient
}

// Sentinels for errors.Is comparisons by kind.
var (
	ErrTransient = NewError(KindTransient, "transient failure")
	ErrTimeout   = NewError(KindTimeout, "attempt timed out")
	ErrMalformed = NewError(KindMalformed, "malformed response")
	ErrEmpty     = NewError(KindEmpty, "empty response")
	ErrQuota     = NewError(KindQuota, "quota exhausted")
)
