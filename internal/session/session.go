// Package session handles local auth session persistence. The backend
// authenticates browsers through an access_token cookie plus a user cookie;
// marquill keeps the equivalent pair in ~/.config/marquill/session.toml and
// refuses to start the dashboard without both.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const defaultSessionPath = "~/.config/marquill/session.toml"

// ErrNotAuthenticated means no usable session exists on disk.
var ErrNotAuthenticated = errors.New("not signed in: run the connect flow and save the issued token")

// Account is one connected LinkedIn account the user can post as.
type Account struct {
	ID       string `toml:"id"`
	Provider string `toml:"provider"`
	Name     string `toml:"name"`
	Email    string `toml:"email"`
}

// Label is the account's display string for pickers.
func (a Account) Label() string {
	if a.Name != "" {
		return a.Name
	}
	if a.Email != "" {
		return a.Email
	}
	return a.ID
}

// Session is the stored auth state.
type Session struct {
	AccessToken string    `toml:"access_token"`
	UserName    string    `toml:"user_name"`
	UserEmail   string    `toml:"user_email"`
	Accounts    []Account `toml:"accounts"`
}

// PrimaryAccountID returns the first connected account's ID, empty when none.
func (s Session) PrimaryAccountID() string {
	if len(s.Accounts) == 0 {
		return ""
	}
	return s.Accounts[0].ID
}

// AccountByID finds a connected account, falling back to the first one when
// the requested ID is unknown.
func (s Session) AccountByID(id string) (Account, bool) {
	for _, a := range s.Accounts {
		if a.ID == id {
			return a, true
		}
	}
	if len(s.Accounts) > 0 {
		return s.Accounts[0], true
	}
	return Account{}, false
}

// DefaultPath returns the default session file path.
func DefaultPath() string {
	return defaultSessionPath
}

// Load reads the session file. A missing file, an unreadable file, or a file
// without an access token all report ErrNotAuthenticated; a present but
// malformed file is a hard error so a typo is not mistaken for a logout.
func Load(path string) (Session, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Session{}, err
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Session{}, ErrNotAuthenticated
		}
		return Session{}, fmt.Errorf("read session: %w", err)
	}

	var sess Session
	if err := toml.Unmarshal(data, &sess); err != nil {
		return Session{}, fmt.Errorf("parse session: %w", err)
	}

	sess.AccessToken = strings.TrimSpace(sess.AccessToken)
	if sess.AccessToken == "" {
		return Session{}, ErrNotAuthenticated
	}
	return sess, nil
}

// Save writes the session file with owner-only permissions.
func Save(path string, sess Session) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := toml.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := os.WriteFile(resolved, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultSessionPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
