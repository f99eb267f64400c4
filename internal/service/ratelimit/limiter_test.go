package ratelimit

import "testing"

func TestAllowConsumesBurst(t *testing.T) {
	l := New()
	for i := 0; i < 2; i++ {
		if !l.Allow("k", 2, 0) {
			t.Fatalf("token %d of the burst must be granted", i+1)
		}
	}
	if l.Allow("k", 2, 0) {
		t.Fatalf("bucket exhausted, third token must be denied")
	}
}

func TestAllowKeysAreIndependent(t *testing.T) {
	l := New()
	if !l.Allow("a", 1, 0) {
		t.Fatalf("first token for key a must be granted")
	}
	if l.Allow("a", 1, 0) {
		t.Fatalf("key a is exhausted")
	}
	if !l.Allow("b", 1, 0) {
		t.Fatalf("key b has its own bucket")
	}
}
