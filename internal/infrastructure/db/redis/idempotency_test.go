package redis

import (
	"testing"
	"time"
)

func TestIdempotencyStore_KeyIsScopedPerUser(t *testing.T) {
	s := NewIdempotencyStore(nil, 0)

	if got, want := s.key(7, "abc"), "idem:loan:7:abc"; got != want {
		t.Fatalf("key = %q, want %q", got, want)
	}
	if s.key(7, "abc") == s.key(8, "abc") {
		t.Fatalf("keys for different users must differ")
	}
	if s.ttl != 24*time.Hour {
		t.Fatalf("expected default ttl 24h, got %s", s.ttl)
	}
}
