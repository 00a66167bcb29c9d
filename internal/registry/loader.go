package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	gguf "github.com/gpustack/gguf-parser-go"

	"modelkit/internal/common/fsutil"
	"modelkit/pkg/types"
)

// LoadDir scans a directory for *.gguf files and builds a registry from filenames.
// ID is the full filename (including extension); Path is the absolute file path.
// Header metadata is filled in when the file parses as GGUF; unreadable headers
// leave those fields empty.
func LoadDir(dir string) ([]types.Model, error) {
	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
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
		p := filepath.Join(abs, name)
		m := types.Model{ID: name, Name: strings.TrimSuffix(name, filepath.Ext(name)), Path: p}
		if fi, err := e.Info(); err == nil {
			m.SizeBytes = fi.Size()
		}
		fillMetadata(&m)
		models = append(models, m)
	}
	sort.Slice(models, func(i, j int) bool { return models[i].ID < models[j].ID })
	return models, nil
}

func fillMetadata(m *types.Model) {
	if m.SizeBytes == 0 {
		return
	}
	f, err := gguf.ParseGGUFFile(m.Path)
	if err != nil {
		return
	}
	md := f.Metadata()
	m.Family = strings.TrimSpace(md.Architecture)
	m.Quant = strings.TrimSpace(md.FileTypeDescriptor)
	if m.Quant == "" {
		m.Quant = strings.TrimPrefix(md.FileType.String(), "MOSTLY_")
	}
	m.Parameters = strings.TrimSpace(md.Parameters.String())
}

// Find returns the model with the given id.
func Find(models []types.Model, id string) (types.Model, bool) {
	for _, m := range models {
		if m.ID == id {
			return m, true
		}
	}
	return types.Model{}, false
}
