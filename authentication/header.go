package authentication

import "fmt"

// authorizationHeader is the metadata key the interceptors read and write.
// gRPC metadata keys are lowercase on the wire.
const authorizationHeader = "authorization"

// bearerHeaderValue renders token as an Authorization header value. gRPC
// metadata values must be printable ASCII, so anything outside that range is
// rejected instead of corrupting the outbound request.
func bearerHeaderValue(token string) (string, error) {
	for i := 0; i < len(token); i++ {
		if token[i] < 0x20 || token[i] > 0x7e {
			return "", fmt.Errorf("%w: invalid byte at position %d", ErrInvalidToken, i)
		}
	}

	return "Bearer " + token, nil
}
