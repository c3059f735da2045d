// Package grpcclient provides a fluent builder for secure gRPC connections to
// an authorization service, with optional bearer-token or client-credentials
// authentication.
//
// It defaults to TLS 1.2+ using system roots to avoid accidental plaintext
// connections. Optional methods add the authentication interceptors, custom CA
// or mTLS credentials, and extra dial options.
//
// # Features
//
//   - Fluent builder for gRPC clients
//   - Client-credentials integration via the authentication package
//   - Static pre-shared bearer tokens via WithBearerToken
//   - Eager token fetch to fail fast on a broken token endpoint
//   - Secure-by-default TLS; optional custom CA and mTLS
//   - Additional dial options via WithDialOptions
//
// # Quick Start
//
//	conn, err := grpcclient.NewBuilder().
//	    WithAddress("openfga.example.com:8081").
//	    WithClientCredentials(
//	        authentication.ClientCredentials{
//	            ClientID:      "my-client",
//	            ClientSecret:  "my-secret",
//	            TokenEndpoint: "https://idp.example.com/my-tenant/oauth2/token",
//	        },
//	        authentication.RefreshConfiguration{},
//	    ).
//	    WithTLS("/path/to/ca.crt", "", "", "openfga.example.com").
//	    Build(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conn.Close()
//
//	client := pb.NewOpenFGAServiceClient(conn)
//
// # TLS Behavior
//
// TLS is enabled by default with system CAs and TLS 1.2 minimum. WithTLS
// allows supplying a custom root CA and optional client cert/key for mTLS;
// both cert and key must be provided together.
package grpcclient
