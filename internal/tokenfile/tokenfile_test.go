package tokenfile

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	leadscout "github.com/leadscout/leadscout-go"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "leadscout", "tokens.json"))
}

func TestRoundTrip(t *testing.T) {
	s := testStore(t)
	if _, ok := s.Tokens(); ok {
		t.Fatal("missing file must read as no session")
	}

	want := leadscout.Tokens{AccessToken: "acc", RefreshToken: "ref"}
	if err := s.SetTokens(want); err != nil {
		t.Fatalf("SetTokens: %v", err)
	}
	got, ok := s.Tokens()
	if !ok || got != want {
		t.Fatalf("Tokens() = %+v ok=%v", got, ok)
	}

	// A second store on the same path sees the persisted pair.
	reread, ok := New(s.Path()).Tokens()
	if !ok || reread != want {
		t.Fatalf("reread = %+v ok=%v", reread, ok)
	}
}

func TestSetAccessTokenKeepsRefreshToken(t *testing.T) {
	s := testStore(t)
	if err := s.SetTokens(leadscout.Tokens{AccessToken: "old", RefreshToken: "ref"}); err != nil {
		t.Fatalf("SetTokens: %v", err)
	}
	if err := s.SetAccessToken("new"); err != nil {
		t.Fatalf("SetAccessToken: %v", err)
	}
	got, ok := s.Tokens()
	if !ok || got.AccessToken != "new" || got.RefreshToken != "ref" {
		t.Fatalf("Tokens() = %+v ok=%v", got, ok)
	}
}

func TestClearRemovesFile(t *testing.T) {
	s := testStore(t)
	if err := s.SetTokens(leadscout.Tokens{AccessToken: "acc"}); err != nil {
		t.Fatalf("SetTokens: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := os.Stat(s.Path()); !os.IsNotExist(err) {
		t.Fatalf("token file still present: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear on empty store: %v", err)
	}
	if _, ok := s.Tokens(); ok {
		t.Fatal("cleared store must read as no session")
	}
}

func TestFilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permission bits")
	}
	s := testStore(t)
	if err := s.SetTokens(leadscout.Tokens{AccessToken: "acc"}); err != nil {
		t.Fatalf("SetTokens: %v", err)
	}
	info, err := os.Stat(s.Path())
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("token file mode = %o, want 600", perm)
	}
}

func TestCorruptFileReadsAsNoSession(t *testing.T) {
	s := testStore(t)
	if err := os.MkdirAll(filepath.Dir(s.Path()), 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(s.Path(), []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, ok := s.Tokens(); ok {
		t.Fatal("corrupt file must read as no session")
	}
	// Writing over a corrupt file recovers it.
	if err := s.SetAccessToken("acc"); err != nil {
		t.Fatalf("SetAccessToken: %v", err)
	}
	got, ok := s.Tokens()
	if !ok || got.AccessToken != "acc" {
		t.Fatalf("Tokens() = %+v ok=%v", got, ok)
	}
}
