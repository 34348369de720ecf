package poller

import (
	"fmt"
)

// FetchErrorKind classifies why a fetch failed.
type FetchErrorKind string

const (
	// KindStatus means the source answered with a non-2xx status.
	KindStatus FetchErrorKind = "status"
	// KindTransport means the request could not be sent or the body could
	// not be read.
	KindTransport FetchErrorKind = "transport"
	// KindTimeout means the fetch exceeded the per-fetch timeout.
	KindTimeout FetchErrorKind = "timeout"
	// KindDecode means the body was not the expected JSON document.
	KindDecode FetchErrorKind = "decode"
)

// FetchError is returned for a failed fetch of one source.
type FetchError struct {
	Source     string
	Kind       FetchErrorKind
	StatusCode int
	Cause      error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	switch {
	case e.Kind == KindStatus:
		return fmt.Sprintf("fetch %s: unexpected status %d", e.Source, e.StatusCode)
	case e.Cause != nil:
		return fmt.Sprintf("fetch %s: %s: %v", e.Source, e.Kind, e.Cause)
	default:
		return fmt.Sprintf("fetch %s: %s", e.Source, e.Kind)
	}
}

// Unwrap returns the underlying error.
func (e *FetchError) Unwrap() error {
	return e.Cause
}

// NewFetchError creates a new fetch error.
func NewFetchError(source string, kind FetchErrorKind, cause error) *FetchError {
	return &FetchError{
		Source: source,
		Kind:   kind,
		Cause:  cause,
	}
}
