package session

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_MissingFileIsNotAuthenticated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.toml")
	if _, err := Load(path); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("Load = %v, want ErrNotAuthenticated", err)
	}
}

func TestLoad_BlankTokenIsNotAuthenticated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.toml")
	if err := os.WriteFile(path, []byte("access_token = \"   \"\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("Load = %v, want ErrNotAuthenticated", err)
	}
}

func TestLoad_MalformedFileIsAHardError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.toml")
	if err := os.WriteFile(path, []byte("access_token = [broken"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil || errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("Load = %v, want a parse error distinct from ErrNotAuthenticated", err)
	}
	if !strings.Contains(err.Error(), "parse session") {
		t.Fatalf("Load error = %q, want it to mention parse session", err)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.toml")
	want := Session{
		AccessToken: "tok-123",
		UserName:    "Jess Doe",
		UserEmail:   "jess@example.com",
		Accounts: []Account{
			{ID: "acct-1", Provider: "LINKEDIN", Name: "Jess Doe"},
			{ID: "acct-2", Provider: "LINKEDIN", Email: "work@example.com"},
		},
	}
	if err := Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.AccessToken != "tok-123" || got.UserName != "Jess Doe" {
		t.Fatalf("round trip = %+v", got)
	}
	if len(got.Accounts) != 2 || got.Accounts[1].ID != "acct-2" {
		t.Fatalf("accounts = %+v", got.Accounts)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("session file mode = %o, want 600", perm)
	}
}

func TestSession_AccountHelpers(t *testing.T) {
	var empty Session
	if empty.PrimaryAccountID() != "" {
		t.Fatalf("PrimaryAccountID on empty session = %q", empty.PrimaryAccountID())
	}
	if _, ok := empty.AccountByID("x"); ok {
		t.Fatalf("AccountByID on empty session = found")
	}

	sess := Session{Accounts: []Account{{ID: "a1", Name: "First"}, {ID: "a2", Email: "two@example.com"}}}
	if sess.PrimaryAccountID() != "a1" {
		t.Fatalf("PrimaryAccountID = %q", sess.PrimaryAccountID())
	}
	if acct, ok := sess.AccountByID("a2"); !ok || acct.Label() != "two@example.com" {
		t.Fatalf("AccountByID(a2) = %+v, %v", acct, ok)
	}
	// Unknown IDs settle on the first account rather than none.
	if acct, ok := sess.AccountByID("missing"); !ok || acct.ID != "a1" {
		t.Fatalf("AccountByID(missing) = %+v, %v", acct, ok)
	}
	if (Account{ID: "only-id"}).Label() != "only-id" {
		t.Fatalf("Label fallback to ID failed")
	}
}
