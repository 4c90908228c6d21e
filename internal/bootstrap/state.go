package bootstrap

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Store persists issued tokens keyed by hostname so repeated runs hand
// the same credential back instead of minting a new one. Rotation is an
// explicit operation, never a side effect of re-applying.
type Store struct {
	path   string
	tokens map[string]Token
}

type stateFile struct {
	Tokens map[string]Token `yaml:"tokens"`
}

// OpenStore loads the token state from path, starting empty when the
// file does not exist yet.
func OpenStore(path string) (*Store, error) {
	s := &Store{path: path, tokens: map[string]Token{}}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token state: %w", err)
	}

	var state stateFile
	if err := yaml.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse token state %s: %w", path, err)
	}
	if state.Tokens != nil {
		s.tokens = state.Tokens
	}
	return s, nil
}

// Ensure returns the token recorded for hostname, generating and
// persisting a fresh one only when none exists.
func (s *Store) Ensure(hostname string) (Token, error) {
	if tok, ok := s.tokens[hostname]; ok {
		return tok, nil
	}
	return s.issue(hostname)
}

// Rotate discards any recorded token for hostname and issues a new one.
func (s *Store) Rotate(hostname string) (Token, error) {
	return s.issue(hostname)
}

// Lookup returns the recorded token for hostname, if any.
func (s *Store) Lookup(hostname string) (Token, bool) {
	tok, ok := s.tokens[hostname]
	return tok, ok
}

// Forget removes the recorded token for hostname. Removing an unknown
// hostname is a no-op.
func (s *Store) Forget(hostname string) error {
	if _, ok := s.tokens[hostname]; !ok {
		return nil
	}
	delete(s.tokens, hostname)
	return s.save()
}

// Hostnames lists every hostname with a recorded token, sorted.
func (s *Store) Hostnames() []string {
	names := make([]string, 0, len(s.tokens))
	for name := range s.tokens {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Store) issue(hostname string) (Token, error) {
	tok, err := NewToken()
	if err != nil {
		return Token{}, err
	}
	s.tokens[hostname] = tok
	if err := s.save(); err != nil {
		return Token{}, err
	}
	return tok, nil
}

func (s *Store) save() error {
	data, err := yaml.Marshal(stateFile{Tokens: s.tokens})
	if err != nil {
		return fmt.Errorf("failed to marshal token state: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create state directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write token state: %w", err)
	}
	return nil
}
