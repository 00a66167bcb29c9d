package manifest

import (
	"os"
	"path/filepath"
)

// DefaultFilename is the conventional manifest name.
const DefaultFilename = "Modelfile"

// Write renders the manifest and replaces the file at path with the result.
// Content goes to a temporary file in the same directory which is renamed
// over path once fully written, so a failed write never leaves a truncated
// manifest behind. On success the manifest is sealed.
func (m *Manifest) Write(path string) error {
	text, err := m.Render()
	if err != nil {
		return err
	}
	if err := writeAtomic(path, []byte(text)); err != nil {
		return err
	}
	m.sealed = true
	return nil
}

func writeAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return &IOError{Op: "create", Path: path, Err: err}
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()
	if _, err = f.Write(data); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err = f.Sync(); err != nil {
		return &IOError{Op: "sync", Path: path, Err: err}
	}
	if err = f.Close(); err != nil {
		return &IOError{Op: "close", Path: path, Err: err}
	}
	if err = os.Chmod(tmp, 0o644); err != nil {
		return &IOError{Op: "chmod", Path: path, Err: err}
	}
	if err = os.Rename(tmp, path); err != nil {
		return &IOError{Op: "rename", Path: path, Err: err}
	}
	return nil
}
