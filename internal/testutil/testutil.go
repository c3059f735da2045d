package testutil

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// NewLocalHTTPServer starts an HTTP server bound to IPv4 loopback only.
// The sandbox blocks IPv6 listeners, so force tcp4 to keep tests runnable.
func NewLocalHTTPServer(tb testing.TB, handler http.Handler) *httptest.Server {
	tb.Helper()

	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		tb.Fatalf("failed to create IPv4 listener: %v", err)
	}

	server := httptest.NewUnstartedServer(handler)
	server.Listener = listener
	server.Start()

	return server
}

// RoundTripFunc allows inlining http.RoundTripper implementations.
type RoundTripFunc func(*http.Request) (*http.Response, error)

// RoundTrip calls the underlying function.
func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// TokenEndpointResponse is one scripted answer of a TokenEndpoint.
type TokenEndpointResponse struct {
	Status int
	Body   string
}

// SuccessResponse builds a 200 response carrying a standard token payload.
func SuccessResponse(token string, expiresIn int64) TokenEndpointResponse {
	return TokenEndpointResponse{
		Status: http.StatusOK,
		Body:   fmt.Sprintf(`{"access_token":%q,"token_type":"Bearer","expires_in":%d}`, token, expiresIn),
	}
}

// RecordedRequest captures one request served by a TokenEndpoint.
type RecordedRequest struct {
	Time   time.Time
	Form   url.Values
	Header http.Header
}

// TokenEndpoint simulates an OAuth2 token endpoint on a local socket. It
// serves one scripted response per request, repeating the last one when the
// script runs out, and records every request so tests can assert on form
// parameters, headers, counts and timing. Safe for concurrent requests.
type TokenEndpoint struct {
	server *httptest.Server

	mu       sync.Mutex
	script   []TokenEndpointResponse
	requests []RecordedRequest
}

// NewTokenEndpoint starts a scripted token endpoint. With an empty script it
// answers every request with a default successful token response.
func NewTokenEndpoint(tb testing.TB, script ...TokenEndpointResponse) *TokenEndpoint {
	tb.Helper()

	endpoint := &TokenEndpoint{script: script}
	endpoint.server = NewLocalHTTPServer(tb, http.HandlerFunc(endpoint.handle))
	tb.Cleanup(endpoint.server.Close)

	return endpoint
}

// URL returns the endpoint's token URL.
func (e *TokenEndpoint) URL() string {
	return e.server.URL + "/oauth2/token"
}

// Close shuts the underlying server down so transport failures can be tested.
func (e *TokenEndpoint) Close() {
	e.server.Close()
}

// RequestCount returns the number of requests served so far.
func (e *TokenEndpoint) RequestCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return len(e.requests)
}

// Requests returns a copy of the recorded requests.
func (e *TokenEndpoint) Requests() []RecordedRequest {
	e.mu.Lock()
	defer e.mu.Unlock()

	requests := make([]RecordedRequest, len(e.requests))
	copy(requests, e.requests)

	return requests
}

func (e *TokenEndpoint) handle(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()

	e.mu.Lock()
	e.requests = append(e.requests, RecordedRequest{
		Time:   time.Now(),
		Form:   cloneValues(r.PostForm),
		Header: r.Header.Clone(),
	})

	response := SuccessResponse("test-token", 3600)
	if len(e.script) > 0 {
		response = e.script[0]
		if len(e.script) > 1 {
			e.script = e.script[1:]
		}
	}
	e.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(response.Status)
	_, _ = w.Write([]byte(response.Body))
}

func cloneValues(values url.Values) url.Values {
	cloned := make(url.Values, len(values))
	for key, vals := range values {
		cloned[key] = append([]string(nil), vals...)
	}

	return cloned
}

// SignedTestToken mints an RS256-signed JWT resembling a real access token,
// for tests that want realistic token material rather than an opaque string.
func SignedTestToken(tb testing.TB, subject string) string {
	tb.Helper()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		tb.Fatalf("failed to generate RSA key: %v", err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"iss": "https://idp.example.com",
		"sub": subject,
		"aud": []string{"openfga"},
		"exp": time.Now().Add(time.Hour).Unix(),
		"iat": time.Now().Add(-time.Minute).Unix(),
	})
	token.Header["kid"] = "test-key-1"

	signed, err := token.SignedString(privateKey)
	if err != nil {
		tb.Fatalf("failed to sign token: %v", err)
	}

	return signed
}

// WriteTestCACert writes a self-signed CA certificate to the provided path for TLS tests.
func WriteTestCACert(tb testing.TB, path string) {
	tb.Helper()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		tb.Fatalf("failed to generate CA key: %v", err)
	}

	template := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		Subject:               pkix.Name{CommonName: "test-ca"},
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, &privateKey.PublicKey, privateKey)
	if err != nil {
		tb.Fatalf("failed to create CA certificate: %v", err)
	}

	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	if err := os.WriteFile(path, pemBytes, 0o600); err != nil {
		tb.Fatalf("failed to write CA certificate: %v", err)
	}
}

// WriteTestCertAndKey writes a self-signed certificate and key to the provided paths.
func WriteTestCertAndKey(tb testing.TB, certPath, keyPath string) {
	tb.Helper()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		tb.Fatalf("failed to generate key: %v", err)
	}

	template := &x509.Certificate{
		SerialNumber: big.NewInt(2),
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		Subject:      pkix.Name{CommonName: "test-cert"},
		KeyUsage:     x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth, x509.ExtKeyUsageServerAuth},
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, &privateKey.PublicKey, privateKey)
	if err != nil {
		tb.Fatalf("failed to create certificate: %v", err)
	}

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	if err := os.WriteFile(certPath, certPEM, 0o600); err != nil {
		tb.Fatalf("failed to write certificate: %v", err)
	}

	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(privateKey)})
	if err := os.WriteFile(keyPath, keyPEM, 0o600); err != nil {
		tb.Fatalf("failed to write key: %v", err)
	}
}
