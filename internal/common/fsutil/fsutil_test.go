package fsutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}
	cases := map[string]string{
		"":           "",
		"/abs":       "/abs",
		"~":          home,
		"~/models/x": filepath.Join(home, "models/x"),
	}
	for in, want := range cases {
		got, err := ExpandHome(in)
		if err != nil || got != want {
			t.Fatalf("ExpandHome(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
}

func TestResolveDirIsAbsolute(t *testing.T) {
	got, err := ResolveDir("rel/dir")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Fatalf("expected absolute path, got %q", got)
	}
}

func TestExists(t *testing.T) {
	d := t.TempDir()
	f := filepath.Join(d, "f")
	if err := os.WriteFile(f, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !DirExists(d) || DirExists(f) || DirExists(filepath.Join(d, "nope")) {
		t.Fatalf("DirExists mismatch")
	}
	if !PathExists(f) || PathExists(filepath.Join(d, "nope")) {
		t.Fatalf("PathExists mismatch")
	}
}
