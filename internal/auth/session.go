package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoSession is returned when no user is logged in.
var ErrNoSession = errors.New("not logged in")

// SaveSession records user as the active session. Every note operation
// receives the user from here explicitly rather than from process state.
func SaveSession(path, user string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(user+"\n"), 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

// CurrentUser returns the logged-in user, or ErrNoSession.
func CurrentUser(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoSession
		}
		return "", fmt.Errorf("read session file: %w", err)
	}
	user := strings.TrimSpace(string(data))
	if user == "" {
		return "", ErrNoSession
	}
	return user, nil
}

// ClearSession logs the current user out. Clearing an absent session is
// not an error.
func ClearSession(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
