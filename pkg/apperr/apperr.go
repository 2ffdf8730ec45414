package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
)

// Code is a stable machine-readable error code surfaced to API callers.
type Code string

const (
	Unauthenticated    Code = "unauthenticated"
	InvalidArgument    Code = "invalid-argument"
	FailedPrecondition Code = "failed-precondition"
	ResourceExhausted  Code = "resource-exhausted"
	Unavailable        Code = "unavailable"
	PermissionDenied   Code = "permission-denied"
	NotFound           Code = "not-found"
	AlreadyExists      Code = "already-exists"
	DeadlineExceeded   Code = "deadline-exceeded"
	Internal           Code = "internal"
)

// Error carries a taxonomy code, a human-readable message and a
// serializable details payload. Raw upstream objects never cross the
// API boundary; only strings and plain maps do.
type Error struct {
	Code    Code           `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// New creates an Error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithDetails attaches a details payload and returns the same error.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// HTTPStatus maps a taxonomy code to an HTTP status for the delivery layer.
func (e *Error) HTTPStatus() int {
	switch e.Code {
	case Unauthenticated:
		return http.StatusUnauthorized
	case InvalidArgument:
		return http.StatusBadRequest
	case FailedPrecondition:
		return http.StatusPreconditionFailed
	case ResourceExhausted:
		return http.StatusTooManyRequests
	case Unavailable:
		return http.StatusServiceUnavailable
	case PermissionDenied:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case AlreadyExists:
		return http.StatusConflict
	case DeadlineExceeded:
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

// From normalizes any error into an *Error. Errors that already carry a
// taxonomy code pass through unchanged; everything else becomes Internal
// with the original message attached for diagnostics.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return &Error{Code: Internal, Message: err.Error()}
}

// StatusCoder is implemented by upstream SDK errors that expose the HTTP
// status code of the failed request.
type StatusCoder interface {
	HTTPStatusCode() int
}

// FromUpstream classifies a failed upstream AI call into the taxonomy.
// Every upstream call site routes its error through here so the mapping
// stays in one place: 429 -> ResourceExhausted, 401 -> Unauthenticated
// (server credential misconfiguration), 500/503 -> Unavailable, anything
// else -> Internal carrying the upstream message.
func FromUpstream(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}

	status := upstreamStatus(err)

	switch {
	case status == http.StatusTooManyRequests || IsRateLimited(err):
		return New(ResourceExhausted, "upstream rate limit exceeded").
			WithDetails(map[string]any{"upstream": err.Error()})
	case status == http.StatusUnauthorized:
		return New(Unauthenticated, "upstream credentials rejected").
			WithDetails(map[string]any{"upstream": err.Error()})
	case status == http.StatusInternalServerError || status == http.StatusServiceUnavailable:
		return New(Unavailable, "upstream service unavailable").
			WithDetails(map[string]any{"upstream": err.Error()})
	default:
		return New(Internal, "upstream call failed").
			WithDetails(map[string]any{"upstream": err.Error()})
	}
}

// upstreamStatus extracts the HTTP status from an upstream SDK error, or 0
// when the error carries none.
func upstreamStatus(err error) int {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	var sc StatusCoder
	if errors.As(err, &sc) {
		return sc.HTTPStatusCode()
	}
	return 0
}

// IsRateLimited reports whether err is a rate-limiting failure: either an
// HTTP 429 or an error message containing "rate limit" (case-insensitive).
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	if upstreamStatus(err) == http.StatusTooManyRequests {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "rate limit")
}
