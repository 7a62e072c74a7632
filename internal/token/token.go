// Package token reads the stored session token and decodes it into
// a structured user-info value.
package token

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

// ErrMalformedToken is returned when the stored token is not valid JSON
// for the requested shape. The underlying decode error stays reachable
// through errors.As.
var ErrMalformedToken = errors.New("malformed session token")

// Store gives access to the raw stored token. ok is false when no token
// is stored.
type Store interface {
	Token() (value string, ok bool, err error)
}

// GetTokenData reads the token from store and decodes it into T.
// It returns nil, nil when no token is stored.
func GetTokenData[T any](store Store) (*T, error) {
	raw, ok, err := store.Token()
	if err != nil {
		return nil, fmt.Errorf("reading session token: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var data T
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedToken, err)
	}

	return &data, nil
}

// MemoryStore keeps the token in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	value string
	set   bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Token() (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value, s.set, nil
}

// Set stores value as the current token.
func (s *MemoryStore) Set(value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = value
	s.set = true
}

// Clear removes the stored token.
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = ""
	s.set = false
}

// FileStore reads the token from a file. A missing file means no token.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Token() (string, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(data), true, nil
}

// EnvStore reads the token from an environment variable. An unset
// variable means no token.
type EnvStore struct {
	name string
}

func NewEnvStore(name string) *EnvStore {
	return &EnvStore{name: name}
}

func (s *EnvStore) Token() (string, bool, error) {
	value, ok := os.LookupEnv(s.name)
	return value, ok, nil
}
