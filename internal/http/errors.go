package http

import (
	"errors"
	"fmt"
)

// Error classes returned by the request layer. Use errors.Is to test for
// them; the typed errors below carry the details.
var (
	// ErrConfiguration reports a malformed source (bad base URL, missing
	// host). It is not recoverable and should fail the run at startup.
	ErrConfiguration = errors.New("configuration error")

	// ErrDuplicateAlias is returned by Registry.Register when the alias is
	// already taken.
	ErrDuplicateAlias = errors.New("source alias already registered")

	// ErrTransport wraps network and body read failures.
	ErrTransport = errors.New("transport error")

	// ErrRateLimited is returned once the server keeps answering 429 after
	// the retry budget is spent.
	ErrRateLimited = errors.New("rate limited")

	// ErrRemoteAPI reports a non-2xx, non-429 response.
	ErrRemoteAPI = errors.New("remote api error")

	// ErrUnexpectedResponse reports a 2xx body that could not be decoded.
	ErrUnexpectedResponse = errors.New("unexpected response")
)

// APIError is returned for non-success responses other than 429. Body holds
// the raw response text.
type APIError struct {
	Alias      string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error from %s%s (HTTP %d): %s", e.Alias, e.Path, e.StatusCode, e.Body)
}

// Is makes errors.Is(err, ErrRemoteAPI) match.
func (e *APIError) Is(target error) bool {
	return target == ErrRemoteAPI
}

// RateLimitedError is returned when every attempt of a request was rejected
// with HTTP 429.
type RateLimitedError struct {
	Alias    string
	Path     string
	Attempts int
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited by %s%s after %d attempts", e.Alias, e.Path, e.Attempts)
}

// Is makes errors.Is(err, ErrRateLimited) match.
func (e *RateLimitedError) Is(target error) bool {
	return target == ErrRateLimited
}

// UnexpectedResponseError keeps the raw body of a response that could not be
// decoded, so the payload is available for diagnostics.
type UnexpectedResponseError struct {
	Alias string
	Path  string
	Body  string
	Err   error
}

func (e *UnexpectedResponseError) Error() string {
	return fmt.Sprintf("unexpected response from %s%s: %v: %s", e.Alias, e.Path, e.Err, e.Body)
}

func (e *UnexpectedResponseError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrUnexpectedResponse) match.
func (e *UnexpectedResponseError) Is(target error) bool {
	return target == ErrUnexpectedResponse
}
