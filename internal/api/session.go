package api

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Session is a persisted login: the bearer token plus the account it
// belongs to. It lives next to the config file so a login survives
// console restarts.
type Session struct {
	Token    string `yaml:"token"`
	UserID   int    `yaml:"user_id"`
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
}

// LoadSession reads a session from path. A missing file yields a nil
// session and no error.
func LoadSession(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("error reading session file: %w", err)
	}

	var s Session
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("error parsing session file: %w", err)
	}
	if s.Token == "" {
		return nil, nil
	}
	return &s, nil
}

// SaveSession writes the session to path, creating parent directories
// as needed. The file is user-readable only since it holds a token.
func SaveSession(s *Session, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// ClearSession removes the session file. Missing files are fine.
func ClearSession(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}
