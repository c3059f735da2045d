package authentication

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// Logger is an interface for optional logging of token refresh events.
type Logger interface {
	Printf(format string, args ...any)
}

// ClientCredentials configures authentication against an OAuth2 server using
// the client-credentials grant (RFC 6749, section 4.4). Treat the struct as
// immutable once it has been handed to an interceptor.
type ClientCredentials struct {
	// ClientID is the OAuth2 client identifier.
	ClientID string

	// ClientSecret is the OAuth2 client secret. It never appears in
	// formatted output.
	ClientSecret Redacted

	// TokenEndpoint is the URL used to perform the client-credentials grant.
	// Typically this is <issuer>/oauth2/token.
	TokenEndpoint string

	// ExtraHeaders are added to every token fetch request.
	ExtraHeaders http.Header

	// ExtraOAuthParams are merged into the grant form body. The reserved
	// parameters grant_type, client_id and client_secret cannot be shadowed.
	ExtraOAuthParams map[string]string
}

// RefreshConfiguration controls how failed token fetches are retried. The
// zero value disables retries.
type RefreshConfiguration struct {
	// MaxRetry is the number of additional attempts after the first failed
	// one. Only 5xx responses count against it.
	MaxRetry uint

	// RetryInterval is the fixed delay between attempts.
	RetryInterval time.Duration
}

// ClientCredentialsInterceptor authenticates intercepted requests with a
// bearer token obtained through the OAuth2 client-credentials grant.
//
// The token is cached and refreshed automatically 60 seconds before it
// expires; a token response without expires_in is assumed to expire after
// 3600 seconds. Requests that already carry an Authorization header pass
// through untouched.
//
// Copies of an interceptor share one token cache, so the same value can be
// handed to any number of gRPC connections and HTTP clients. Construct with
// NewClientCredentialsInterceptor or NewInitializedClientCredentialsInterceptor;
// the zero value is not usable.
type ClientCredentialsInterceptor struct {
	inner *credentialState
}

// credentialState is the shared state behind all copies of an interceptor.
// The mutex guards only the cached token; credentials, configuration and the
// HTTP client are read-only after construction.
type credentialState struct {
	credentials   ClientCredentials
	refreshConfig RefreshConfiguration
	client        *http.Client
	logger        Logger

	mu    sync.RWMutex
	state *cachedToken // nil until the first successful refresh
}

// cachedToken is the last token obtained from the endpoint. The safety
// margin is already subtracted from expiry.
type cachedToken struct {
	token  Redacted
	expiry time.Time
}

// Option is a functional option for configuring ClientCredentialsInterceptor.
type Option func(*credentialState)

// WithLogger sets a custom logger for token refresh events. If not set, no
// logging occurs.
func WithLogger(logger Logger) Option {
	return func(s *credentialState) {
		s.logger = logger
	}
}

// WithLoggingEnabled enables logging using the default Go log package.
// This is a convenience option that sets the logger to log.Default().
func WithLoggingEnabled() Option {
	return func(s *credentialState) {
		s.logger = log.Default()
	}
}

// WithHTTPClient sets the HTTP client used to reach the token endpoint.
// The client must be safe for concurrent use.
func WithHTTPClient(client *http.Client) Option {
	return func(s *credentialState) {
		s.client = client
	}
}

// NewClientCredentialsInterceptor creates an interceptor that fetches its
// first token lazily, on the first intercepted call that needs one.
func NewClientCredentialsInterceptor(credentials ClientCredentials, refreshConfig RefreshConfiguration, opts ...Option) ClientCredentialsInterceptor {
	s := &credentialState{
		credentials:   credentials,
		refreshConfig: refreshConfig,
		client:        &http.Client{},
	}

	for _, opt := range opts {
		opt(s)
	}

	return ClientCredentialsInterceptor{inner: s}
}

// NewInitializedClientCredentialsInterceptor creates an interceptor and
// fetches the first token immediately. Use it to fail fast when the token
// endpoint is unreachable or rejects the grant.
func NewInitializedClientCredentialsInterceptor(ctx context.Context, credentials ClientCredentials, refreshConfig RefreshConfiguration, opts ...Option) (ClientCredentialsInterceptor, error) {
	interceptor := NewClientCredentialsInterceptor(credentials, refreshConfig, opts...)

	if _, err := interceptor.refreshToken(ctx); err != nil {
		return ClientCredentialsInterceptor{}, fmt.Errorf("authentication: could not refresh credentials: %w", err)
	}

	return interceptor, nil
}

// AccessToken returns a token that is valid at the time of the call, fetching
// or refreshing it first if necessary. It is safe for concurrent use; callers
// racing an expired cache are serialized so only one of them performs the
// network exchange.
func (i ClientCredentialsInterceptor) AccessToken(ctx context.Context) (string, error) {
	s := i.inner

	s.mu.RLock()
	if s.state != nil && usableAt(s.state.expiry, time.Now()) {
		token := string(s.state.token)
		s.mu.RUnlock()
		return token, nil
	}
	s.mu.RUnlock()

	return i.refreshToken(ctx)
}

// refreshToken fetches a new token while holding the write lock for the whole
// exchange. Concurrent callers queue on the lock instead of racing duplicate
// fetches, and whoever waited re-checks the cache before fetching, so a burst
// of expired callers produces a single token request. On failure the cache is
// left unchanged and the next caller retries cleanly.
func (i ClientCredentialsInterceptor) refreshToken(ctx context.Context) (string, error) {
	s := i.inner

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != nil && usableAt(s.state.expiry, time.Now()) {
		return string(s.state.token), nil
	}

	response, err := runDetached(func() (*TokenResponse, error) {
		return fetchToken(ctx, s.client, s.credentials, s.refreshConfig)
	})
	if err != nil {
		return "", err
	}

	s.state = &cachedToken{
		token:  Redacted(response.AccessToken),
		expiry: computeExpiry(time.Now(), response.ExpiresIn),
	}

	if s.logger != nil {
		s.logger.Printf("authentication: obtained new access token (expires: %s)", s.state.expiry.Format(time.RFC3339))
	}

	return response.AccessToken, nil
}

// Token implements oauth2.TokenSource, so the interceptor can back
// oauth2.NewClient or gRPC's credentials/oauth per-RPC credentials.
func (i ClientCredentialsInterceptor) Token() (*oauth2.Token, error) {
	if _, err := i.AccessToken(context.Background()); err != nil {
		return nil, fmt.Errorf("authentication: could not refresh credentials: %w", err)
	}

	s := i.inner
	s.mu.RLock()
	defer s.mu.RUnlock()

	return &oauth2.Token{
		AccessToken: string(s.state.token),
		TokenType:   "Bearer",
		Expiry:      s.state.expiry,
	}, nil
}

// attach ensures the outgoing metadata carries an authorization value,
// leaving the context untouched when the caller already supplied one.
func (i ClientCredentialsInterceptor) attach(ctx context.Context) (context.Context, error) {
	if md, ok := metadata.FromOutgoingContext(ctx); ok && len(md.Get(authorizationHeader)) > 0 {
		return ctx, nil
	}

	token, err := i.AccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("authentication: could not refresh credentials: %w", err)
	}

	value, err := bearerHeaderValue(token)
	if err != nil {
		return nil, fmt.Errorf("authentication: could not refresh credentials: fetched token: %w", err)
	}

	return metadata.AppendToOutgoingContext(ctx, authorizationHeader, value), nil
}

// UnaryClientInterceptor returns a gRPC unary client interceptor that adds a
// Bearer token to the outgoing request metadata. If the token cannot be
// obtained, the RPC is aborted with the refresh error.
//
// Usage:
//
//	conn, err := grpc.NewClient(
//	    "openfga.example.com:8081",
//	    grpc.WithUnaryInterceptor(interceptor.UnaryClientInterceptor()),
//	)
func (i ClientCredentialsInterceptor) UnaryClientInterceptor() grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply any,
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		ctx, err := i.attach(ctx)
		if err != nil {
			return err
		}

		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

// StreamClientInterceptor returns a gRPC stream client interceptor that adds
// a Bearer token to the outgoing request metadata. If the token cannot be
// obtained, stream creation is aborted with the refresh error.
func (i ClientCredentialsInterceptor) StreamClientInterceptor() grpc.StreamClientInterceptor {
	return func(
		ctx context.Context,
		desc *grpc.StreamDesc,
		cc *grpc.ClientConn,
		method string,
		streamer grpc.Streamer,
		opts ...grpc.CallOption,
	) (grpc.ClientStream, error) {
		ctx, err := i.attach(ctx)
		if err != nil {
			return nil, err
		}

		return streamer(ctx, desc, cc, method, opts...)
	}
}
