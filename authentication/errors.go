package authentication

import (
	"errors"
	"fmt"
)

// Classified causes of a failed credential refresh. Every error surfaced by
// an interceptor wraps exactly one of these, so callers can branch with
// errors.Is and errors.As while treating the whole family as an
// authentication failure on the outbound call.
var (
	// ErrInvalidConfiguration reports that the token fetch request could not
	// be built, typically because the token endpoint URL is malformed.
	ErrInvalidConfiguration = errors.New("could not build token fetch request")

	// ErrTransport reports a network-level failure reaching the token endpoint.
	ErrTransport = errors.New("request to fetch token failed")

	// ErrParseResponse reports a token endpoint response body that is not the
	// expected JSON shape.
	ErrParseResponse = errors.New("could not parse token response")

	// ErrInvalidToken reports a token that cannot be carried as an
	// Authorization header value.
	ErrInvalidToken = errors.New("token is not a valid header value")

	// ErrRefreshPanicked reports that the refresh worker panicked before
	// producing a result. The cache is left untouched when this happens.
	ErrRefreshPanicked = errors.New("token refresh worker panicked")
)

// TokenEndpointError reports a non-2xx response from the token endpoint. The
// raw body is kept for diagnostics; it comes from the server and carries no
// credential material.
type TokenEndpointError struct {
	// Code is the HTTP status code of the last response received.
	Code int
	// Body is the raw response body.
	Body string
	// Retryable marks a 5xx response whose retry budget was exhausted.
	// Non-retryable statuses surface after a single attempt.
	Retryable bool
}

func (e *TokenEndpointError) Error() string {
	if e.Retryable {
		return fmt.Sprintf("token server error while refreshing token: code %d, body: %s", e.Code, e.Body)
	}
	return fmt.Sprintf("non-retryable code %d while fetching token, body: %s", e.Code, e.Body)
}
