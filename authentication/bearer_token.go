package authentication

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// BearerTokenInterceptor attaches a fixed access token to any request a
// client sends, using the Bearer auth-scheme. The token is typically a
// pre-shared key for the authorization service. It performs no I/O and holds
// no mutable state.
//
// Requests that already carry an Authorization header pass through untouched.
type BearerTokenInterceptor struct {
	token       Redacted
	headerValue string
}

// NewBearerTokenInterceptor validates the token once up front and returns an
// interceptor holding the ready-made header value. It fails if
// "Bearer <token>" is not a valid header value.
func NewBearerTokenInterceptor(token string) (BearerTokenInterceptor, error) {
	value, err := bearerHeaderValue(token)
	if err != nil {
		return BearerTokenInterceptor{}, fmt.Errorf("authentication: static bearer token: %w", err)
	}

	return BearerTokenInterceptor{token: Redacted(token), headerValue: value}, nil
}

// AccessToken returns the fixed token. It never fails; the signature mirrors
// ClientCredentialsInterceptor so both can back the same transports.
func (i BearerTokenInterceptor) AccessToken(_ context.Context) (string, error) {
	return string(i.token), nil
}

// String hides the token from formatted output.
func (i BearerTokenInterceptor) String() string {
	return "BearerTokenInterceptor(" + redactedPlaceholder + ")"
}

// GoString hides the token from %#v output, which bypasses Stringer and
// would otherwise print the unexported fields via reflection.
func (i BearerTokenInterceptor) GoString() string {
	return i.String()
}

// attach ensures the outgoing metadata carries an authorization value,
// leaving the context untouched when the caller already supplied one.
func (i BearerTokenInterceptor) attach(ctx context.Context) context.Context {
	if md, ok := metadata.FromOutgoingContext(ctx); ok && len(md.Get(authorizationHeader)) > 0 {
		return ctx
	}

	return metadata.AppendToOutgoingContext(ctx, authorizationHeader, i.headerValue)
}

// UnaryClientInterceptor returns a gRPC unary client interceptor that adds
// the fixed Bearer token to the outgoing request metadata.
func (i BearerTokenInterceptor) UnaryClientInterceptor() grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply any,
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		return invoker(i.attach(ctx), method, req, reply, cc, opts...)
	}
}

// StreamClientInterceptor returns a gRPC stream client interceptor that adds
// the fixed Bearer token to the outgoing request metadata.
func (i BearerTokenInterceptor) StreamClientInterceptor() grpc.StreamClientInterceptor {
	return func(
		ctx context.Context,
		desc *grpc.StreamDesc,
		cc *grpc.ClientConn,
		method string,
		streamer grpc.Streamer,
		opts ...grpc.CallOption,
	) (grpc.ClientStream, error) {
		return streamer(i.attach(ctx), desc, cc, method, opts...)
	}
}
