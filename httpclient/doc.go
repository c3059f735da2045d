// Package httpclient offers HTTP client construction helpers that reuse the
// authentication package's tokens for the authorization service's HTTP surface.
//
// It provides a fluent Builder that can create an http.Client with automatic
// Bearer token injection, configurable TLS (custom CA, mTLS, insecure for
// tests), timeouts, base transports, and redirect handling. AuthTransport can
// wrap any RoundTripper.
//
// # Features
//
//   - Fluent builder for http.Client with optional token injection
//   - Shares one token cache with gRPC clients via WithTokenSource
//   - TLS 1.2+ by default, with custom CA/mTLS and optional InsecureSkipVerify
//   - Custom timeouts, base transport override, and redirect disabling
//   - Reusable AuthTransport for manual composition
//
// # Quick Start
//
//	client, err := httpclient.NewBuilder().
//	    WithClientCredentials(
//	        authentication.ClientCredentials{
//	            ClientID:      "my-client",
//	            ClientSecret:  "my-secret",
//	            TokenEndpoint: "https://idp.example.com/my-tenant/oauth2/token",
//	        },
//	        authentication.RefreshConfiguration{},
//	    ).
//	    WithTimeout(60 * time.Second).
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	resp, err := client.Get("https://openfga.example.com/stores")
//
// # Manual Transport Wrapping
//
//	transport := httpclient.NewAuthTransport(interceptor, nil)
//	client := &http.Client{Transport: transport}
//
// All components are safe for concurrent use if the provided token source is.
package httpclient
