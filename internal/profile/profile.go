// Package profile persists named interest profiles.
package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Store persists interest lists under a profile name. Load on an unknown
// profile returns an empty list, not an error.
type Store interface {
	Load(ctx context.Context, name string) ([]string, error)
	Save(ctx context.Context, name string, interests []string) error
	Close()
}

// FileStore keeps all profiles in a single JSON object file keyed by
// profile name. Missing or malformed files read as empty; writes recreate
// the file.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed store at the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load returns the lowercased interests stored under name. A missing file,
// unreadable JSON or a non-list value all yield an empty list.
func (s *FileStore) Load(_ context.Context, name string) ([]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, nil
	}

	var profiles map[string]json.RawMessage
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, nil
	}

	raw, ok := profiles[name]
	if !ok {
		return nil, nil
	}

	var interests []string
	if err := json.Unmarshal(raw, &interests); err != nil {
		return nil, nil
	}

	for i, interest := range interests {
		interests[i] = strings.ToLower(interest)
	}
	return interests, nil
}

// Save stores interests under name, preserving other profiles in the file.
func (s *FileStore) Save(_ context.Context, name string, interests []string) error {
	profiles := map[string]json.RawMessage{}
	if data, err := os.ReadFile(s.path); err == nil {
		// Tolerate a corrupt existing file by starting over.
		_ = json.Unmarshal(data, &profiles)
	}

	raw, err := json.Marshal(interests)
	if err != nil {
		return fmt.Errorf("failed to marshal interests: %w", err)
	}
	profiles[name] = raw

	out, err := json.MarshalIndent(profiles, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profiles: %w", err)
	}

	if err := os.WriteFile(s.path, out, 0644); err != nil {
		return fmt.Errorf("failed to write profile file %s: %w", s.path, err)
	}
	return nil
}

// Close is a no-op for the file store.
func (s *FileStore) Close() {}
