package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/liamwh/openfga-go/authentication"
	"github.com/liamwh/openfga-go/internal/testutil"
)

func okResponse(req *http.Request) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     make(http.Header),
		Body:       io.NopCloser(strings.NewReader("{}")),
		Request:    req,
	}
}

func staticSource(t *testing.T, token string) TokenSource {
	t.Helper()

	interceptor, err := authentication.NewBearerTokenInterceptor(token)
	if err != nil {
		t.Fatalf("NewBearerTokenInterceptor failed: %v", err)
	}

	return interceptor
}

func TestAuthTransportAddsAuthorization(t *testing.T) {
	var seen *http.Request
	transport := NewAuthTransport(staticSource(t, "my-token"), testutil.RoundTripFunc(func(req *http.Request) (*http.Response, error) {
		seen = req
		return okResponse(req), nil
	}))

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, "https://openfga.example.com/stores", nil)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}

	resp, err := transport.RoundTrip(req)
	if err != nil {
		t.Fatalf("RoundTrip failed: %v", err)
	}
	resp.Body.Close()

	if got := seen.Header.Get("Authorization"); got != "Bearer my-token" {
		t.Errorf("expected Bearer my-token, got %q", got)
	}

	// The original request must stay untouched.
	if req.Header.Get("Authorization") != "" {
		t.Error("original request was mutated")
	}
}

func TestAuthTransportPreservesExistingAuthorization(t *testing.T) {
	var seen *http.Request
	transport := NewAuthTransport(staticSource(t, "my-token"), testutil.RoundTripFunc(func(req *http.Request) (*http.Response, error) {
		seen = req
		return okResponse(req), nil
	}))

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, "https://openfga.example.com/stores", nil)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer existing-token")

	resp, err := transport.RoundTrip(req)
	if err != nil {
		t.Fatalf("RoundTrip failed: %v", err)
	}
	resp.Body.Close()

	if got := seen.Header.Get("Authorization"); got != "Bearer existing-token" {
		t.Errorf("expected caller-supplied header to survive untouched, got %q", got)
	}
}

func TestAuthTransportNilSource(t *testing.T) {
	transport := &AuthTransport{}

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, "https://openfga.example.com/stores", nil)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}

	if _, err := transport.RoundTrip(req); err == nil {
		t.Error("expected error for nil token source")
	}
}

func TestAuthTransportPropagatesRefreshFailure(t *testing.T) {
	endpoint := testutil.NewTokenEndpoint(t, testutil.TokenEndpointResponse{
		Status: http.StatusUnauthorized,
		Body:   "bad credentials",
	})
	interceptor := authentication.NewClientCredentialsInterceptor(authentication.ClientCredentials{
		ClientID:      "my-client",
		ClientSecret:  "my-secret",
		TokenEndpoint: endpoint.URL(),
	}, authentication.RefreshConfiguration{})

	transport := NewAuthTransport(interceptor, testutil.RoundTripFunc(func(req *http.Request) (*http.Response, error) {
		t.Fatal("request must not reach the base transport")
		return nil, nil
	}))

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, "https://openfga.example.com/stores", nil)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}

	_, err = transport.RoundTrip(req)

	var endpointErr *authentication.TokenEndpointError
	if !errors.As(err, &endpointErr) {
		t.Errorf("expected TokenEndpointError, got %v", err)
	}
}

func TestAuthTransportWithClientCredentials(t *testing.T) {
	endpoint := testutil.NewTokenEndpoint(t, testutil.SuccessResponse("tok-http", 3600))
	interceptor := authentication.NewClientCredentialsInterceptor(authentication.ClientCredentials{
		ClientID:      "my-client",
		ClientSecret:  "my-secret",
		TokenEndpoint: endpoint.URL(),
	}, authentication.RefreshConfiguration{})

	var seen *http.Request
	transport := NewAuthTransport(interceptor, testutil.RoundTripFunc(func(req *http.Request) (*http.Response, error) {
		seen = req
		return okResponse(req), nil
	}))

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, "https://openfga.example.com/stores", nil)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}

	resp, err := transport.RoundTrip(req)
	if err != nil {
		t.Fatalf("RoundTrip failed: %v", err)
	}
	resp.Body.Close()

	if got := seen.Header.Get("Authorization"); got != "Bearer tok-http" {
		t.Errorf("expected Bearer tok-http, got %q", got)
	}
}

func TestBuilderDefaults(t *testing.T) {
	client, err := NewBuilder().Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if client.Timeout != 30*time.Second {
		t.Errorf("expected 30s default timeout, got %v", client.Timeout)
	}
}

func TestBuilderWithBearerToken(t *testing.T) {
	var seen *http.Request
	client, err := NewBuilder().
		WithBearerToken("my-token").
		WithBaseTransport(testutil.RoundTripFunc(func(req *http.Request) (*http.Response, error) {
			seen = req
			return okResponse(req), nil
		})).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	resp, err := client.Get("https://openfga.example.com/stores")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	if got := seen.Header.Get("Authorization"); got != "Bearer my-token" {
		t.Errorf("expected Bearer my-token, got %q", got)
	}
}

func TestBuilderInvalidBearerToken(t *testing.T) {
	_, err := NewBuilder().WithBearerToken("bad\ntoken").Build()
	if err == nil {
		t.Error("expected Build to fail for an invalid bearer token")
	}
}

func TestBuilderWithoutRedirects(t *testing.T) {
	client, err := NewBuilder().WithoutRedirects().Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if client.CheckRedirect == nil {
		t.Error("expected a redirect policy to be set")
	}
}

func TestNewHTTPClient(t *testing.T) {
	client := NewHTTPClient(staticSource(t, "my-token"))

	if client.Timeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %v", client.Timeout)
	}

	if _, ok := client.Transport.(*AuthTransport); !ok {
		t.Errorf("expected AuthTransport, got %T", client.Transport)
	}
}
