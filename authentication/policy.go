package authentication

import (
	"math"
	"time"
)

const (
	// defaultTokenLifetime is assumed when the token endpoint omits the
	// expires_in field.
	defaultTokenLifetime = 3600 * time.Second

	// expiryMargin is shaved off the declared lifetime so the token is
	// refreshed before it can expire while a request is in flight.
	expiryMargin = 60 * time.Second
)

// computeExpiry returns the instant until which a token issued at now may be
// attached to requests. The usable window is the server-declared lifetime
// minus the safety margin; a missing, non-positive or overflowing expires_in
// falls back to the default lifetime.
func computeExpiry(now time.Time, expiresIn *int64) time.Time {
	lifetime := defaultTokenLifetime
	if expiresIn != nil {
		if s := *expiresIn; s > 0 && s <= math.MaxInt64/int64(time.Second) {
			lifetime = time.Duration(s) * time.Second
		}
	}

	usable := lifetime - expiryMargin
	if usable < 0 {
		usable = 0
	}

	return now.Add(usable)
}

// usableAt reports whether a token with the given expiry may still be
// attached at instant now. The safety margin is already baked into the
// stored expiry, so a strict comparison is enough.
func usableAt(expiry, now time.Time) bool {
	return expiry.After(now)
}
