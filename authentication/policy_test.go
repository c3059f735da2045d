package authentication

import (
	"math"
	"testing"
	"time"
)

func int64Ptr(v int64) *int64 { return &v }

func TestComputeExpiry(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		expiresIn *int64
		want      time.Duration
	}{
		{
			name:      "declared lifetime minus margin",
			expiresIn: int64Ptr(3600),
			want:      3540 * time.Second,
		},
		{
			name:      "missing lifetime falls back to default",
			expiresIn: nil,
			want:      3540 * time.Second,
		},
		{
			name:      "zero lifetime falls back to default",
			expiresIn: int64Ptr(0),
			want:      3540 * time.Second,
		},
		{
			name:      "negative lifetime falls back to default",
			expiresIn: int64Ptr(-30),
			want:      3540 * time.Second,
		},
		{
			name:      "overflowing lifetime falls back to default",
			expiresIn: int64Ptr(math.MaxInt64),
			want:      3540 * time.Second,
		},
		{
			name:      "short lifetime keeps the margin",
			expiresIn: int64Ptr(120),
			want:      60 * time.Second,
		},
		{
			name:      "lifetime inside the margin clamps to zero",
			expiresIn: int64Ptr(30),
			want:      0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := computeExpiry(now, tt.expiresIn)
			if want := now.Add(tt.want); !got.Equal(want) {
				t.Errorf("computeExpiry = %v, want %v", got, want)
			}
		})
	}
}

func TestUsableAt(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	if usableAt(now, now) {
		t.Error("a token expiring exactly now must not be usable")
	}

	if usableAt(now.Add(-time.Nanosecond), now) {
		t.Error("an expired token must not be usable")
	}

	if !usableAt(now.Add(time.Nanosecond), now) {
		t.Error("a token expiring after now must be usable")
	}
}

func TestUsableWindowBoundaries(t *testing.T) {
	// A token fetched with expires_in 3600 is usable at fetch+3539s and
	// refreshed at fetch+3541s.
	fetched := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	expiry := computeExpiry(fetched, int64Ptr(3600))

	if !usableAt(expiry, fetched.Add(3539*time.Second)) {
		t.Error("token should still be usable one second before the margin")
	}

	if usableAt(expiry, fetched.Add(3541*time.Second)) {
		t.Error("token must be refreshed one second past the margin")
	}
}
