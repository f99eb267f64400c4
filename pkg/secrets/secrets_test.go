package secrets

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileYieldsEmptyStore(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := s.Get("anything"); ok {
		t.Fatalf("empty store must not resolve keys")
	}
}

func TestLoadAndGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secrets.json")
	if err := os.WriteFile(path, []byte(`{"marketdata_api_key": "abc123"}`), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, ok := s.Get("marketdata_api_key")
	if !ok || v != "abc123" {
		t.Fatalf("got (%q, %v), want (abc123, true)", v, ok)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secrets.json")
	if err := os.WriteFile(path, []byte(`{"marketdata_api_key": "from-file"}`), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	t.Setenv("CONDOR_MARKETDATA_API_KEY", "from-env")

	s, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, err := s.MustGet("marketdata_api_key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "from-env" {
		t.Fatalf("environment must win, got %q", v)
	}
}

func TestMustGetMissing(t *testing.T) {
	s, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.MustGet("nope"); err == nil {
		t.Fatalf("expected error for missing secret")
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secrets.json")
	if err := os.WriteFile(path, []byte("not json"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}
