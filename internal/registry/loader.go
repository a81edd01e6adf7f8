// Package registry builds the fixed model catalog from configured entries and
// a scan of the models directory.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"chatd/internal/common/fsutil"
	"chatd/pkg/types"
)

var quantRe = regexp.MustCompile(`(?i)^(i?q\d+(_[a-z0-9]+)*|f16|f32|bf16)$`)

// LoadDir scans a directory for *.gguf files and builds catalog entries from
// their filenames. ID and Name are the filename; Path is the absolute file path.
// Quant and Family are parsed from the name when recognizable.
func LoadDir(dir string) ([]types.Model, error) {
	abs, err := fsutil.ResolveDir(dir)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var models []types.Model
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".gguf") {
			continue
		}
		quant, family := parseName(name)
		models = append(models, types.Model{
			ID:     name,
			Name:   name,
			Path:   filepath.Join(abs, name),
			Quant:  quant,
			Family: family,
		})
	}
	sort.Slice(models, func(i, j int) bool { return models[i].ID < models[j].ID })
	return models, nil
}

// parseName extracts quantization and family from names like
// "llama-3.1-8b-instruct-Q4_K_M.gguf".
func parseName(name string) (quant, family string) {
	stem := name[:len(name)-len(filepath.Ext(name))]
	parts := strings.FieldsFunc(stem, func(r rune) bool { return r == '-' || r == '.' })
	if len(parts) == 0 {
		return "", ""
	}
	family = strings.ToLower(parts[0])
	if last := parts[len(parts)-1]; len(parts) > 1 && quantRe.MatchString(last) {
		quant = strings.ToUpper(last)
	}
	return quant, family
}

// Build returns the catalog: static entries first in their given order, then
// scanned files whose ID is not already present. A missing directory is not an
// error when static entries exist. Static entries without an ID are rejected.
func Build(dir string, static []types.Model) ([]types.Model, error) {
	seen := make(map[string]bool, len(static))
	out := make([]types.Model, 0, len(static))
	for _, m := range static {
		m.ID = strings.TrimSpace(m.ID)
		if m.ID == "" {
			return nil, fmt.Errorf("catalog entry without id")
		}
		if seen[m.ID] {
			return nil, fmt.Errorf("duplicate catalog id: %s", m.ID)
		}
		seen[m.ID] = true
		if m.Name == "" {
			m.Name = m.ID
		}
		if m.Path != "" {
			p, err := fsutil.ExpandHome(m.Path)
			if err != nil {
				return nil, err
			}
			m.Path = p
		}
		out = append(out, m)
	}
	if dir == "" {
		return out, nil
	}
	abs, err := fsutil.ResolveDir(dir)
	if err != nil {
		return nil, err
	}
	if !fsutil.DirExists(abs) && len(out) > 0 {
		return out, nil
	}
	scanned, err := LoadDir(abs)
	if err != nil {
		return nil, err
	}
	for _, m := range scanned {
		if seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		out = append(out, m)
	}
	return out, nil
}
