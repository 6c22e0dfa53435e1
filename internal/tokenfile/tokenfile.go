// Package tokenfile persists the session token pair to a JSON file, the CLI
// analogue of the browser's durable storage.
package tokenfile

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	leadscout "github.com/leadscout/leadscout-go"
)

type document struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	// UserData is reserved; it is wiped together with the tokens on Clear.
	UserData json.RawMessage `json:"user_data,omitempty"`
}

// Store is a file-backed leadscout.Session. Both tokens live in one document
// written atomically (temp file + rename), so a crash can never persist one
// token without the other.
type Store struct {
	mu   sync.Mutex
	path string
}

// New binds a store to a file path.
func New(path string) *Store {
	return &Store{path: path}
}

// Default places the store under the user's config directory.
func Default() (*Store, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	return New(filepath.Join(dir, "leadscout", "tokens.json")), nil
}

// Path returns the backing file location.
func (s *Store) Path() string { return s.path }

func (s *Store) read() (document, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return document{}, false
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return document{}, false
	}
	return doc, true
}

func (s *Store) write(doc document) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".tokens-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

func (s *Store) Tokens() (leadscout.Tokens, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.read()
	if !ok || (doc.AccessToken == "" && doc.RefreshToken == "") {
		return leadscout.Tokens{}, false
	}
	return leadscout.Tokens{AccessToken: doc.AccessToken, RefreshToken: doc.RefreshToken}, true
}

func (s *Store) SetTokens(tokens leadscout.Tokens) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, _ := s.read()
	doc.AccessToken = tokens.AccessToken
	doc.RefreshToken = tokens.RefreshToken
	return s.write(doc)
}

func (s *Store) SetAccessToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, _ := s.read()
	doc.AccessToken = token
	return s.write(doc)
}

func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
