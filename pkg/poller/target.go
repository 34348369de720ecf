package poller

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	// ErrTargetMissing is returned when no target URL is configured.
	ErrTargetMissing = errors.New("target URL is not set")

	// ErrTargetScheme is returned when the target URL is not http or https.
	ErrTargetScheme = errors.New("target URL scheme must be http or https")

	// ErrTargetHost is returned when the target URL has no host.
	ErrTargetHost = errors.New("target URL has no host")
)

// Target is the base URL every source path is resolved against.
type Target struct {
	base *url.URL
}

// ParseTarget parses and checks the base URL of the polled service.
//
//	t, err := poller.ParseTarget("http://sensors.local:8080")
//	t.Resolve("/weather") // http://sensors.local:8080/weather
func ParseTarget(raw string) (*Target, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrTargetMissing
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid target URL %q: %w", raw, err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return nil, fmt.Errorf("%w: %q", ErrTargetScheme, raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrTargetHost, raw)
	}

	u.RawQuery = ""
	u.Fragment = ""
	return &Target{base: u}, nil
}

// Resolve returns the absolute URL of path below the target.
func (t *Target) Resolve(path string) string {
	return t.base.JoinPath(path).String()
}

// String returns the base URL.
func (t *Target) String() string {
	return t.base.String()
}
