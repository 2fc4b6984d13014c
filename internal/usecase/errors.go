package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrNotAllowed            = errors.New("league not allowed")
	ErrUpstream              = errors.New("upstream request failed")
	ErrRateLimited           = errors.New("upstream rate limited")
	ErrMalformedData         = errors.New("malformed upstream data")
)

// NotAllowedError is returned before any network call for leagues outside the allow-list.
type NotAllowedError struct {
	LeagueID string
}

func (e *NotAllowedError) Error() string {
	return fmt.Sprintf("league %q is not in the allow-list", e.LeagueID)
}

func (e *NotAllowedError) Unwrap() error { return ErrNotAllowed }

// UpstreamError is a non-2xx, non-429 response.
type UpstreamError struct {
	Status   int
	Endpoint string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream status=%d endpoint=%s", e.Status, e.Endpoint)
}

func (e *UpstreamError) Unwrap() error { return ErrUpstream }

// RateLimitedError is returned once backoff retries are exhausted.
type RateLimitedError struct {
	Endpoint string
	Attempts int
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("upstream rate limited endpoint=%s attempts=%d", e.Endpoint, e.Attempts)
}

func (e *RateLimitedError) Unwrap() error { return ErrRateLimited }

// MalformedDataError means the payload failed structural validation.
type MalformedDataError struct {
	Endpoint string
	Reason   string
}

func (e *MalformedDataError) Error() string {
	return fmt.Sprintf("malformed payload endpoint=%s: %s", e.Endpoint, e.Reason)
}

func (e *MalformedDataError) Unwrap() error { return ErrMalformedData }

// IsPermanent reports errors that retrying the refresh cycle cannot fix.
func IsPermanent(err error) bool {
	return errors.Is(err, ErrNotAllowed) || errors.Is(err, ErrInvalidInput)
}

// degradable errors render as an empty view rather than a failed request.
func degradable(err error) bool {
	return errors.Is(err, ErrMalformedData) || errors.Is(err, ErrRateLimited)
}
