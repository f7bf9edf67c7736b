package b2bi

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a failed operation.
type ErrorKind int

const (
	// KindFatal is an unexpected HTTP status; not retryable at this layer.
	KindFatal ErrorKind = iota
	// KindEncoding means the request body cannot be represented on the wire.
	KindEncoding
	// KindTransport is a connection-level failure after retries were exhausted.
	KindTransport
	// KindNotFound is a 400/404 that reports no matching item.
	KindNotFound
	// KindValidation is a 400/404 for any other reason.
	KindValidation
	// KindNormalization means a WS payload did not match any tolerated shape.
	KindNormalization
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindEncoding:
		return "encoding error"
	case KindTransport:
		return "transport error"
	case KindNotFound:
		return "not found"
	case KindValidation:
		return "validation error"
	case KindNormalization:
		return "normalization error"
	default:
		return "fatal error"
	}
}

// Kind sentinels for use with errors.Is.
var (
	ErrFatal         = &Error{Kind: KindFatal}
	ErrEncoding      = &Error{Kind: KindEncoding}
	ErrTransport     = &Error{Kind: KindTransport}
	ErrNotFound      = &Error{Kind: KindNotFound}
	ErrValidation    = &Error{Kind: KindValidation}
	ErrNormalization = &Error{Kind: KindNormalization}
)

// Static errors for err113 compliance.
var (
	ErrConfigRequired       = errors.New("config is required")
	ErrRESTEndpointRequired = errors.New("REST endpoint is required")
	ErrWSEndpointRequired   = errors.New("WS endpoint is required")
	ErrInvalidUTF8Body      = errors.New("request body is not valid UTF-8")
	ErrNoRows               = errors.New("result contains no rows")
	ErrMultipleRows         = errors.New("result contains more than one row")
	ErrUnexpectedEnvelope   = errors.New("unexpected result envelope")
	ErrMalformedJSON        = errors.New("malformed JSON payload")
	ErrUnsupportedMethod    = errors.New("unsupported HTTP method")
	ErrNilEntity            = errors.New("entity is nil")
)

// Error is the single error type surfaced by the client. It carries the
// classification, the backend-supplied code and description, and the
// original cause.
type Error struct {
	Kind        ErrorKind `json:"-"`
	HTTPStatus  int       `json:"-"`
	Code        int       `json:"errorCode"`
	Description string    `json:"errorDescription"`
	Cause       error     `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Kind.String()

	if e.HTTPStatus != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.HTTPStatus)
	}

	if e.Description != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Description)
	}

	if e.Code != 0 && e.Code != e.HTTPStatus {
		msg = fmt.Sprintf("%s (code: %d)", msg, e.Code)
	}

	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}

	return msg
}

// Unwrap returns the original cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a kind sentinel matching this error's kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.Kind == e.Kind && t.HTTPStatus == 0 && t.Code == 0 && t.Description == "" && t.Cause == nil
}

// Retryable reports whether repeating the call could change the outcome.
// Only transport failures qualify; 4xx outcomes never do.
func (e *Error) Retryable() bool {
	return e.Kind == KindTransport
}

// NewError builds an Error of the given kind.
func NewError(kind ErrorKind, status int, description string, cause error) *Error {
	return &Error{
		Kind:        kind,
		HTTPStatus:  status,
		Code:        status,
		Description: description,
		Cause:       cause,
	}
}

// EncodingError wraps a request encoding failure.
func EncodingError(cause error) *Error {
	return &Error{Kind: KindEncoding, Cause: cause}
}

// TransportError wraps a connection-level failure.
func TransportError(cause error) *Error {
	return &Error{Kind: KindTransport, Cause: cause}
}

// NormalizationError wraps a WS payload that could not be normalized.
func NormalizationError(cause error) *Error {
	return &Error{Kind: KindNormalization, Cause: cause}
}

// StatusDescription returns the canonical text for an HTTP status.
func StatusDescription(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return fmt.Sprintf("HTTP %d", status)
	}

	return text
}

func kindOf(err error) (ErrorKind, bool) {
	apiErr := &Error{}
	if errors.As(err, &apiErr) {
		return apiErr.Kind, true
	}

	return KindFatal, false
}

// IsNotFound checks if the error reports an absent item.
func IsNotFound(err error) bool {
	kind, ok := kindOf(err)

	return ok && kind == KindNotFound
}

// IsValidation checks if the error is a backend validation failure.
func IsValidation(err error) bool {
	kind, ok := kindOf(err)

	return ok && kind == KindValidation
}

// IsTransport checks if the error is a connection-level failure.
func IsTransport(err error) bool {
	kind, ok := kindOf(err)

	return ok && kind == KindTransport
}

// IsNormalization checks if the error is a WS normalization failure.
func IsNormalization(err error) bool {
	kind, ok := kindOf(err)

	return ok && kind == KindNormalization
}

// IsEncoding checks if the error is a request encoding failure.
func IsEncoding(err error) bool {
	kind, ok := kindOf(err)

	return ok && kind == KindEncoding
}

// IsFatal checks if the error is an unexpected HTTP status.
func IsFatal(err error) bool {
	kind, ok := kindOf(err)

	return ok && kind == KindFatal
}
