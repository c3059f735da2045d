// Package authentication provides gRPC client interceptors that authenticate
// outbound calls to an OpenFGA-style authorization service.
//
// Two interceptors are available: BearerTokenInterceptor attaches a fixed
// pre-shared access token, and ClientCredentialsInterceptor performs the
// OAuth2 client-credentials grant against a token endpoint, caching the
// issued token and refreshing it transparently before it expires. Neither
// interceptor overrides an Authorization header the caller already supplied.
//
// # Features
//
//   - Client-credentials grant with automatic caching and early refresh
//   - Single-flight refresh: concurrent callers share one token fetch
//   - Fixed-interval retry of 5xx responses from the token endpoint
//   - Secrets redacted from all formatted output
//   - oauth2.TokenSource integration for http and gRPC per-RPC credentials
//   - Optional logging of refresh events (WithLogger, WithLoggingEnabled)
//
// # Quick Start
//
//	interceptor := authentication.NewClientCredentialsInterceptor(
//	    authentication.ClientCredentials{
//	        ClientID:      "my-client",
//	        ClientSecret:  "my-secret",
//	        TokenEndpoint: "https://idp.example.com/my-tenant/oauth2/token",
//	    },
//	    authentication.RefreshConfiguration{},
//	)
//
//	conn, err := grpc.NewClient(
//	    "openfga.example.com:8081",
//	    grpc.WithUnaryInterceptor(interceptor.UnaryClientInterceptor()),
//	    grpc.WithStreamInterceptor(interceptor.StreamClientInterceptor()),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Notes
//
//   - Interceptor copies share one token cache; hand the same value to any
//     number of clients.
//   - Tokens are refreshed 60 seconds before their declared expiry. A token
//     response without expires_in is assumed to expire after 3600 seconds.
//   - All interceptors are safe for concurrent use.
package authentication
