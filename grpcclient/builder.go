package grpcclient

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"

	"github.com/liamwh/openfga-go/authentication"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/oauth"
)

// Builder provides a fluent interface for constructing gRPC client
// connections to an authorization service, with optional bearer-token or
// client-credentials authentication and TLS/mTLS support.
type Builder struct {
	address string

	// Authentication configuration
	clientCredentials *authentication.ClientCredentials
	refreshConfig     authentication.RefreshConfiguration
	authOpts          []authentication.Option
	bearerToken       string
	bearerTokenSet    bool
	eagerTokenFetch   bool
	perRPCCredentials bool

	// TLS configuration
	tlsEnabled    bool
	tlsCAFile     string
	tlsCertFile   string
	tlsKeyFile    string
	tlsServerName string

	// Additional dial options
	dialOpts []grpc.DialOption
}

// NewBuilder creates a new gRPC client builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// WithAddress sets the server address (e.g., "openfga.example.com:8081").
func (b *Builder) WithAddress(address string) *Builder {
	b.address = address
	return b
}

// WithClientCredentials enables OAuth2 client-credentials authentication.
// Tokens are fetched from the configured endpoint, cached and refreshed
// automatically; refreshConfig controls how 5xx responses are retried.
func (b *Builder) WithClientCredentials(credentials authentication.ClientCredentials, refreshConfig authentication.RefreshConfiguration, opts ...authentication.Option) *Builder {
	b.clientCredentials = &credentials
	b.refreshConfig = refreshConfig
	b.authOpts = opts
	return b
}

// WithBearerToken enables static bearer-token authentication with a fixed
// pre-shared token. The token is validated when Build is called.
func (b *Builder) WithBearerToken(token string) *Builder {
	b.bearerToken = token
	b.bearerTokenSet = true
	return b
}

// WithEagerTokenFetch makes Build fetch the first token immediately so a
// misconfigured or unreachable token endpoint fails at build time instead of
// on the first call. Only meaningful with WithClientCredentials.
func (b *Builder) WithEagerTokenFetch() *Builder {
	b.eagerTokenFetch = true
	return b
}

// WithPerRPCTokenCredentials attaches tokens through gRPC's per-RPC
// credentials mechanism instead of client interceptors. Requires transport
// security and WithClientCredentials.
func (b *Builder) WithPerRPCTokenCredentials() *Builder {
	b.perRPCCredentials = true
	return b
}

// WithTLS enables TLS for the connection.
//
// Parameters:
//   - caFile: Path to CA certificate for server verification (required)
//   - certFile: Path to client certificate for mTLS (optional, must be paired with keyFile)
//   - keyFile: Path to client private key for mTLS (optional, must be paired with certFile)
//   - serverName: Expected server name for TLS verification (optional, overrides SNI)
func (b *Builder) WithTLS(caFile, certFile, keyFile, serverName string) *Builder {
	b.tlsEnabled = true
	b.tlsCAFile = caFile
	b.tlsCertFile = certFile
	b.tlsKeyFile = keyFile
	b.tlsServerName = serverName
	return b
}

// WithDialOptions adds custom gRPC dial options.
// These options are applied after authentication and TLS options.
func (b *Builder) WithDialOptions(opts ...grpc.DialOption) *Builder {
	b.dialOpts = append(b.dialOpts, opts...)
	return b
}

// Build constructs the gRPC client connection with the configured options.
func (b *Builder) Build(ctx context.Context) (*grpc.ClientConn, error) {
	if b.address == "" {
		return nil, errors.New("grpcclient: server address is required")
	}

	opts, err := b.buildAuthOptions(ctx)
	if err != nil {
		return nil, err
	}

	// Add TLS credentials if enabled
	if b.tlsEnabled {
		tlsConfig, err := b.buildTLSConfig()
		if err != nil {
			return nil, fmt.Errorf("grpcclient: TLS config failed: %w", err)
		}
		opts = append(opts, grpc.WithTransportCredentials(credentials.NewTLS(tlsConfig)))
	} else {
		// Default to TLS with system roots to avoid accidental plaintext connections.
		// Set MinVersion to TLS 1.2 for secure defaults.
		opts = append(opts, grpc.WithTransportCredentials(credentials.NewTLS(&tls.Config{
			MinVersion: tls.VersionTLS12,
		})))
	}

	// Add custom dial options
	opts = append(opts, b.dialOpts...)

	// Create connection
	conn, err := grpc.NewClient(b.address, opts...)
	if err != nil {
		return nil, fmt.Errorf("grpcclient: dial failed: %w", err)
	}

	return conn, nil
}

// buildAuthOptions turns the configured authentication mode into dial options.
func (b *Builder) buildAuthOptions(ctx context.Context) ([]grpc.DialOption, error) {
	if b.clientCredentials != nil && b.bearerTokenSet {
		return nil, errors.New("grpcclient: configure either client credentials or a bearer token, not both")
	}

	if b.bearerTokenSet {
		interceptor, err := authentication.NewBearerTokenInterceptor(b.bearerToken)
		if err != nil {
			return nil, fmt.Errorf("grpcclient: %w", err)
		}

		return []grpc.DialOption{
			grpc.WithUnaryInterceptor(interceptor.UnaryClientInterceptor()),
			grpc.WithStreamInterceptor(interceptor.StreamClientInterceptor()),
		}, nil
	}

	if b.clientCredentials == nil {
		if b.eagerTokenFetch || b.perRPCCredentials {
			return nil, errors.New("grpcclient: client credentials are required for the configured authentication options")
		}
		return nil, nil
	}

	if err := b.validateClientCredentials(); err != nil {
		return nil, err
	}

	var interceptor authentication.ClientCredentialsInterceptor
	if b.eagerTokenFetch {
		var err error
		interceptor, err = authentication.NewInitializedClientCredentialsInterceptor(ctx, *b.clientCredentials, b.refreshConfig, b.authOpts...)
		if err != nil {
			return nil, fmt.Errorf("grpcclient: eager token fetch failed: %w", err)
		}
	} else {
		interceptor = authentication.NewClientCredentialsInterceptor(*b.clientCredentials, b.refreshConfig, b.authOpts...)
	}

	if b.perRPCCredentials {
		return []grpc.DialOption{
			grpc.WithPerRPCCredentials(oauth.TokenSource{TokenSource: interceptor}),
		}, nil
	}

	return []grpc.DialOption{
		grpc.WithUnaryInterceptor(interceptor.UnaryClientInterceptor()),
		grpc.WithStreamInterceptor(interceptor.StreamClientInterceptor()),
	}, nil
}

// validateClientCredentials ensures the client-credentials configuration is complete.
func (b *Builder) validateClientCredentials() error {
	if b.clientCredentials.TokenEndpoint == "" {
		return errors.New("grpcclient: token endpoint is required")
	}
	if b.clientCredentials.ClientID == "" {
		return errors.New("grpcclient: client ID is required")
	}
	if b.clientCredentials.ClientSecret == "" {
		return errors.New("grpcclient: client secret is required")
	}
	return nil
}

// buildTLSConfig constructs the TLS configuration for the gRPC connection.
func (b *Builder) buildTLSConfig() (*tls.Config, error) {
	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
	}

	// Load CA certificate for server verification
	if b.tlsCAFile != "" {
		caCert, err := os.ReadFile(b.tlsCAFile)
		if err != nil {
			return nil, fmt.Errorf("read CA file: %w", err)
		}

		certPool := x509.NewCertPool()
		if !certPool.AppendCertsFromPEM(caCert) {
			return nil, errors.New("failed to parse CA certificate")
		}
		tlsConfig.RootCAs = certPool
	}

	// Load client certificate for mTLS (if both cert and key are provided)
	if b.tlsCertFile != "" && b.tlsKeyFile != "" {
		cert, err := tls.LoadX509KeyPair(b.tlsCertFile, b.tlsKeyFile)
		if err != nil {
			return nil, fmt.Errorf("load client certificate: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	} else if b.tlsCertFile != "" || b.tlsKeyFile != "" {
		return nil, errors.New("both TLS cert and key files must be provided for mTLS")
	}

	// Set server name override if provided
	if b.tlsServerName != "" {
		tlsConfig.ServerName = b.tlsServerName
	}

	return tlsConfig, nil
}
