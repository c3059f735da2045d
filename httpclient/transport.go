package httpclient

import (
	"context"
	"fmt"
	"net/http"
)

// TokenSource provides bearer access tokens for outbound requests. Both
// authentication.ClientCredentialsInterceptor and
// authentication.BearerTokenInterceptor satisfy it.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// AuthTransport is an http.RoundTripper that adds Bearer tokens to outgoing
// HTTP requests, for talking to the authorization service's HTTP surface with
// the same credentials as the gRPC client.
//
// It wraps an existing transport (typically http.DefaultTransport) and
// injects the Authorization header before each request. Requests that already
// carry an Authorization header pass through untouched.
type AuthTransport struct {
	// Base is the underlying HTTP transport. If nil, http.DefaultTransport is used.
	Base http.RoundTripper

	// Source provides the access tokens.
	Source TokenSource
}

// RoundTrip implements the http.RoundTripper interface.
// It obtains a valid token and adds it as "Authorization: Bearer <token>" to
// a clone of the request before delegating to the base transport. The token
// fetch respects the request context's cancellation and deadline.
func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Source == nil {
		return nil, fmt.Errorf("httpclient: token source is nil")
	}

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	// Never override caller-supplied credentials.
	if req.Header.Get("Authorization") != "" {
		return base.RoundTrip(req)
	}

	token, err := t.Source.AccessToken(req.Context())
	if err != nil {
		return nil, fmt.Errorf("httpclient: failed to get token: %w", err)
	}

	// Clone the request to avoid modifying the original
	reqClone := req.Clone(req.Context())
	reqClone.Header.Set("Authorization", "Bearer "+token)

	return base.RoundTrip(reqClone)
}

// NewAuthTransport creates a new AuthTransport with the given token source.
// The base transport defaults to http.DefaultTransport if not specified.
func NewAuthTransport(source TokenSource, base http.RoundTripper) *AuthTransport {
	if base == nil {
		base = http.DefaultTransport
	}

	return &AuthTransport{
		Base:   base,
		Source: source,
	}
}
