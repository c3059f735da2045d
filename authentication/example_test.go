package authentication_test

import (
	"fmt"
	"log"

	"github.com/liamwh/openfga-go/authentication"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Example demonstrates wiring a client-credentials interceptor into a gRPC
// client. The token is fetched on the first intercepted call and refreshed
// automatically before it expires.
func Example() {
	interceptor := authentication.NewClientCredentialsInterceptor(
		authentication.ClientCredentials{
			ClientID:      "my-client",
			ClientSecret:  "my-secret",
			TokenEndpoint: "https://idp.example.com/my-tenant/oauth2/token",
			ExtraOAuthParams: map[string]string{
				"audience": "https://openfga.example.com",
			},
		},
		authentication.RefreshConfiguration{},
	)

	conn, err := grpc.NewClient(
		"openfga.example.com:8081",
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(interceptor.UnaryClientInterceptor()),
		grpc.WithStreamInterceptor(interceptor.StreamClientInterceptor()),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	fmt.Println("client configured")
	// Output: client configured
}

// ExampleNewBearerTokenInterceptor demonstrates shared-key authentication
// with a fixed token.
func ExampleNewBearerTokenInterceptor() {
	interceptor, err := authentication.NewBearerTokenInterceptor("my-token")
	if err != nil {
		log.Fatal(err)
	}

	conn, err := grpc.NewClient(
		"openfga.example.com:8081",
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(interceptor.UnaryClientInterceptor()),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	fmt.Println("client configured")
	// Output: client configured
}
