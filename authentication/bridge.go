package authentication

import "fmt"

// runDetached executes fetch on a goroutine of its own and blocks until it
// hands back a result. The interceptor is called from arbitrary goroutines
// deep inside gRPC's call dispatch; confining the fetch keeps a panic in the
// refresh path from unwinding through the intercepted call and reports it as
// a regular error instead, leaving the cache untouched.
func runDetached(fetch func() (*TokenResponse, error)) (*TokenResponse, error) {
	type result struct {
		token *TokenResponse
		err   error
	}

	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("%w: %v", ErrRefreshPanicked, r)}
			}
		}()

		token, err := fetch()
		done <- result{token: token, err: err}
	}()

	r := <-done
	return r.token, r.err
}
