package auth

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

var ErrNoSession = errors.New("not signed in, run `leaf login` first")

// Session is the signed-in account of this replica.
type Session struct {
	UserID    string    `yaml:"user_id"`
	Token     string    `yaml:"token"`
	RemoteURL string    `yaml:"remote_url,omitempty"`
	SignedIn  time.Time `yaml:"signed_in"`
}

// Sessions persists the current Session as a YAML file.
type Sessions struct {
	path string
}

func NewSessions(path string) *Sessions {
	return &Sessions{path: path}
}

func (s *Sessions) Path() string { return s.path }

func (s *Sessions) Current() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	var sess Session
	if err := yaml.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to parse session file %s: %w", s.path, err)
	}
	if sess.UserID == "" {
		return nil, ErrNoSession
	}
	return &sess, nil
}

func (s *Sessions) Login(sess Session) error {
	if sess.UserID == "" {
		return fmt.Errorf("user id is required")
	}
	if sess.SignedIn.IsZero() {
		sess.SignedIn = time.Now()
	}
	data, err := yaml.Marshal(&sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	return os.WriteFile(s.path, data, 0600)
}

// Logout removes the session file. Logging out twice is not an error.
func (s *Sessions) Logout() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}
