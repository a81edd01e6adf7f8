package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"chatd/pkg/types"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), nil, 0o644); err != nil {
			t.Fatalf("write %s: %v", n, err)
		}
	}
}

func TestLoadDirFiltersGGUF(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b.GGUF", "a.gguf", "not-model.txt", "model.bin")
	if err := os.Mkdir(filepath.Join(dir, "sub.gguf"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	models, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	var ids []string
	for _, m := range models {
		ids = append(ids, m.ID)
		if !filepath.IsAbs(m.Path) {
			t.Fatalf("path not absolute: %s", m.Path)
		}
	}
	if d := cmp.Diff([]string{"a.gguf", "b.GGUF"}, ids); d != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", d)
	}
}

func TestLoadDirMissing(t *testing.T) {
	if _, err := LoadDir(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatalf("expected error for missing dir")
	}
}

func TestParseName(t *testing.T) {
	cases := []struct{ name, quant, family string }{
		{"llama-3.1-8b-instruct-Q4_K_M.gguf", "Q4_K_M", "llama"},
		{"TinyLlama.q8_0.gguf", "Q8_0", "tinyllama"},
		{"phi-2-f16.gguf", "F16", "phi"},
		{"mistral.gguf", "", "mistral"},
	}
	for _, c := range cases {
		q, f := parseName(c.name)
		if q != c.quant || f != c.family {
			t.Fatalf("parseName(%q) = (%q, %q), want (%q, %q)", c.name, q, f, c.quant, c.family)
		}
	}
}

func TestBuildMergesStaticFirst(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.gguf", "static.gguf")
	static := []types.Model{{ID: "static.gguf", Path: "/elsewhere/static.gguf"}, {ID: "remote", Name: "Remote"}}
	got, err := Build(dir, static)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := []types.Model{
		{ID: "static.gguf", Name: "static.gguf", Path: "/elsewhere/static.gguf"},
		{ID: "remote", Name: "Remote"},
		{ID: "a.gguf", Name: "a.gguf", Path: filepath.Join(dir, "a.gguf"), Family: "a"},
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Fatalf("catalog mismatch (-want +got):\n%s", d)
	}
}

func TestBuildMissingDirWithStatic(t *testing.T) {
	got, err := Build(filepath.Join(t.TempDir(), "nope"), []types.Model{{ID: "x"}})
	if err != nil || len(got) != 1 {
		t.Fatalf("expected static-only catalog, got %v, %v", got, err)
	}
	if _, err := Build(filepath.Join(t.TempDir(), "nope"), nil); err == nil {
		t.Fatalf("expected error with neither dir nor static entries")
	}
}

func TestBuildRejectsBadStatic(t *testing.T) {
	if _, err := Build("", []types.Model{{ID: " "}}); err == nil {
		t.Fatalf("expected error for empty id")
	}
	if _, err := Build("", []types.Model{{ID: "a"}, {ID: "a"}}); err == nil {
		t.Fatalf("expected error for duplicate id")
	}
}
