// Package testutil provides test helpers for openfga-go packages.
//
// It includes utilities to spin up IPv4-only local HTTP servers (avoiding
// IPv6 in sandboxes), scripted OAuth2 token endpoints that record every
// request they serve, JWT-shaped test access tokens, and self-signed
// certificates for TLS/mTLS tests.
//
// # Utilities
//
//   - NewLocalHTTPServer: start httptest server bound to 127.0.0.1
//   - TokenEndpoint, SuccessResponse: scripted token endpoints with request capture
//   - RoundTripFunc: inline http.RoundTripper implementations
//   - SignedTestToken: mint a realistic RS256 access token
//   - WriteTestCACert, WriteTestCertAndKey: certificates for TLS tests
package testutil
