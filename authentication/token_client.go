package authentication

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// TokenResponse is the wire-level answer of an OAuth2 token endpoint
// (RFC 6749, section 4.4.3). Unknown fields are ignored.
type TokenResponse struct {
	AccessToken     string `json:"access_token"`
	TokenType       string `json:"token_type"`
	ExpiresIn       *int64 `json:"expires_in,omitempty"`
	IssuedTokenType string `json:"issued_token_type,omitempty"`
}

// fetchToken performs the client-credentials grant against the token
// endpoint. 5xx responses are retried after the configured interval, up to
// MaxRetry additional attempts; any other failure surfaces immediately.
func fetchToken(ctx context.Context, client *http.Client, credentials ClientCredentials, cfg RefreshConfiguration) (*TokenResponse, error) {
	form := url.Values{}
	for key, value := range credentials.ExtraOAuthParams {
		form.Set(key, value)
	}
	// Reserved parameters win over colliding extras.
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", credentials.ClientID)
	form.Set("client_secret", string(credentials.ClientSecret))
	body := form.Encode()

	for attempt := uint(0); ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, credentials.TokenEndpoint, strings.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Accept", "application/json")
		for name, values := range credentials.ExtraHeaders {
			for _, value := range values {
				req.Header.Add(name, value)
			}
		}

		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrTransport, err)
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode <= 299:
			var token TokenResponse
			err := json.NewDecoder(resp.Body).Decode(&token)
			resp.Body.Close()
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrParseResponse, err)
			}
			return &token, nil

		case resp.StatusCode >= 500 && resp.StatusCode <= 599:
			code, respBody := drainResponse(resp)
			if attempt >= cfg.MaxRetry {
				return nil, &TokenEndpointError{Code: code, Body: respBody, Retryable: true}
			}
			select {
			case <-time.After(cfg.RetryInterval):
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %w", ErrTransport, ctx.Err())
			}

		default:
			code, respBody := drainResponse(resp)
			return nil, &TokenEndpointError{Code: code, Body: respBody}
		}
	}
}

// drainResponse reads and closes the body of a failed response so the
// status and body can be reported together.
func drainResponse(resp *http.Response) (int, string) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, ""
	}

	return resp.StatusCode, string(body)
}
