package util

import "testing"

func TestParseIntDefault(t *testing.T) {
	if got := ParseIntDefault("90", 365); got != 90 {
		t.Fatalf("expected 90, got %d", got)
	}
	if got := ParseIntDefault("", 365); got != 365 {
		t.Fatalf("empty input must yield the default, got %d", got)
	}
	if got := ParseIntDefault("ninety", 365); got != 365 {
		t.Fatalf("invalid input must yield the default, got %d", got)
	}
}
