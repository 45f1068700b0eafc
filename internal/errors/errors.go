// Package errors provides the error taxonomy for moyu. It defines the
// sentinel errors callers match with errors.Is, the typed errors that
// carry context (FetchError for the joke provider, ContentError for the
// content pack loader), and classification helpers.
//
// # Error Types
//
// Only two things can fail at runtime or startup:
//   - FetchError: the external joke provider could not be reached
//     (NetworkFailure) or answered with something unusable
//     (ResponseFailure)
//   - ContentError: a content pack file is unreadable or invalid
//
// Date math, random sampling and slot writes cannot fail once a valid
// content pack has been loaded, so they have no error types.
//
// # Usage
//
//	err := errors.NewFetchError(errors.ResponseFailure, endpoint, errors.ErrEmptyBody).
//		WithStatus(resp.StatusCode)
//
//	if errors.Is(err, errors.ErrResponseFailure) { ... }
//
//	var fetchErr *errors.FetchError
//	if errors.As(err, &fetchErr) { ... }
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that degrade output but are recovered from.
	SeverityWarning
	// SeverityError is for errors that stop an operation.
	SeverityError
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Fetch-related sentinel errors
var (
	// ErrNetworkFailure indicates the provider was unreachable or timed out.
	ErrNetworkFailure = New("network failure")
	// ErrResponseFailure indicates a non-success status or unusable body.
	ErrResponseFailure = New("response failure")
	// ErrUnexpectedStatus indicates a non-2xx HTTP status.
	ErrUnexpectedStatus = New("unexpected status")
	// ErrNotText indicates the response content type is not text.
	ErrNotText = New("response is not text")
	// ErrEmptyBody indicates the response body was empty after trimming.
	ErrEmptyBody = New("empty response body")
	// ErrBodyTooLarge indicates the response body exceeded the size cap.
	ErrBodyTooLarge = New("response body too large")
	// ErrUnknownCharset indicates the declared charset cannot be decoded.
	ErrUnknownCharset = New("unknown charset")
)

// Content-related sentinel errors
var (
	// ErrEmptyPool indicates a pool has no entries.
	ErrEmptyPool = New("pool is empty")
	// ErrPoolTooSmall indicates a pool has fewer entries than one draw takes.
	ErrPoolTooSmall = New("pool too small")
	// ErrNoTargets indicates a content pack defines no target dates.
	ErrNoTargets = New("no target dates")
	// ErrInvalidTarget indicates a target has a blank label, a duplicate
	// label or an unparseable date.
	ErrInvalidTarget = New("invalid target date")
)

// -----------------------------------------------------------------------------
// FetchError
// -----------------------------------------------------------------------------

// FailureKind classifies why a fetch failed.
type FailureKind int

const (
	// NetworkFailure covers transport errors and timeouts.
	NetworkFailure FailureKind = iota
	// ResponseFailure covers non-success statuses and unusable bodies.
	ResponseFailure
)

// String returns the string representation of the failure kind.
func (k FailureKind) String() string {
	switch k {
	case NetworkFailure:
		return "network"
	case ResponseFailure:
		return "response"
	default:
		return "unknown"
	}
}

// sentinel returns the sentinel error matching this kind.
func (k FailureKind) sentinel() error {
	if k == NetworkFailure {
		return ErrNetworkFailure
	}
	return ErrResponseFailure
}

// FetchError describes a failed request to the external text provider.
//
// Example:
//
//	err := errors.NewFetchError(errors.ResponseFailure, "https://example.test/joke", errors.ErrUnexpectedStatus).WithStatus(502)
//	fmt.Println(err) // "fetch failed [kind=response, endpoint=https://example.test/joke, status=502]: unexpected status"
type FetchError struct {
	Kind     FailureKind
	Endpoint string
	Status   int
	cause    error
}

// NewFetchError creates a new FetchError.
func NewFetchError(kind FailureKind, endpoint string, cause error) *FetchError {
	return &FetchError{
		Kind:     kind,
		Endpoint: endpoint,
		cause:    cause,
	}
}

// WithStatus records the HTTP status code of the failed response.
func (e *FetchError) WithStatus(status int) *FetchError {
	e.Status = status
	return e
}

// Error returns the formatted error message.
func (e *FetchError) Error() string {
	parts := []string{fmt.Sprintf("kind=%s", e.Kind)}
	if e.Endpoint != "" {
		parts = append(parts, fmt.Sprintf("endpoint=%s", e.Endpoint))
	}
	if e.Status != 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.Status))
	}

	prefix := fmt.Sprintf("fetch failed [%s]", strings.Join(parts, ", "))
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", prefix, e.cause)
	}
	return prefix
}

// Unwrap returns the underlying error.
func (e *FetchError) Unwrap() error {
	return e.cause
}

// Is matches the kind's sentinel, any *FetchError, or the wrapped cause.
func (e *FetchError) Is(target error) bool {
	if target == e.Kind.sentinel() {
		return true
	}
	if _, ok := target.(*FetchError); ok {
		return true
	}
	return e.cause != nil && errors.Is(e.cause, target)
}

// Severity reports fetch failures as warnings; the caller always recovers
// with a fallback text.
func (e *FetchError) Severity() Severity {
	return SeverityWarning
}

// -----------------------------------------------------------------------------
// ContentError
// -----------------------------------------------------------------------------

// ContentError describes a problem with a content pack file.
type ContentError struct {
	Path  string
	Field string
	cause error
}

// NewContentError creates a new ContentError.
func NewContentError(path, field string, cause error) *ContentError {
	return &ContentError{Path: path, Field: field, cause: cause}
}

// Error returns the formatted error message.
func (e *ContentError) Error() string {
	var parts []string
	if e.Path != "" {
		parts = append(parts, fmt.Sprintf("path=%s", e.Path))
	}
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}

	prefix := "content error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("content error [%s]", strings.Join(parts, ", "))
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", prefix, e.cause)
	}
	return prefix
}

// Unwrap returns the underlying error.
func (e *ContentError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *ContentError) Is(target error) bool {
	if _, ok := target.(*ContentError); ok {
		return true
	}
	return e.cause != nil && errors.Is(e.cause, target)
}

// Severity reports content errors as fatal for startup.
func (e *ContentError) Severity() Severity {
	return SeverityError
}

// -----------------------------------------------------------------------------
// Classification Helpers
// -----------------------------------------------------------------------------

// IsRetryable returns true for transient failures: network errors may
// succeed on a later tick, bad responses and bad content will not.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var fetchErr *FetchError
	if As(err, &fetchErr) {
		return fetchErr.Kind == NetworkFailure
	}
	return false
}

// GetSeverity returns the severity of an error.
// Unknown errors default to SeverityError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}
	var classified interface{ Severity() Severity }
	if As(err, &classified) {
		return classified.Severity()
	}
	return SeverityError
}

// KindOf returns the failure kind of a fetch error and whether err was one.
func KindOf(err error) (FailureKind, bool) {
	var fetchErr *FetchError
	if As(err, &fetchErr) {
		return fetchErr.Kind, true
	}
	return 0, false
}
