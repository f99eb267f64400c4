// Package secrets loads credentials from a JSON key-value file kept outside
// the repository, with environment variables taking precedence.
package secrets

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Store holds loaded credentials.
type Store struct {
	values map[string]string
}

// Load reads the JSON credentials file at path. A missing file yields an
// empty store, so environments provisioned purely through variables work.
func Load(path string) (*Store, error) {
	s := &Store{values: make(map[string]string)}
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read secrets file: %w", err)
	}
	if err := json.Unmarshal(data, &s.values); err != nil {
		return nil, fmt.Errorf("parse secrets file %s: %w", path, err)
	}
	return s, nil
}

// Get returns the secret under key. The environment variable CONDOR_<KEY>
// overrides the file entry.
func (s *Store) Get(key string) (string, bool) {
	if v, ok := os.LookupEnv("CONDOR_" + strings.ToUpper(key)); ok {
		return v, true
	}
	v, ok := s.values[key]
	return v, ok
}

// MustGet returns the secret under key or an error naming it.
func (s *Store) MustGet(key string) (string, error) {
	v, ok := s.Get(key)
	if !ok || v == "" {
		return "", fmt.Errorf("secret %q not found", key)
	}
	return v, nil
}
