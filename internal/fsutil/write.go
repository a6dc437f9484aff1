package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// PendingFile is one output of WriteFilesAtomic.
type PendingFile struct {
	Path string
	Data []byte
	Perm os.FileMode
}

// WriteFilesAtomic stages every file in a temporary file next to its target
// and renames them into place only once all of them were written, so readers
// never observe a partially written file. Missing parent directories are
// created. If staging fails no target is touched.
func WriteFilesAtomic(files ...PendingFile) (err error) {
	staged := make([]string, 0, len(files))
	defer func() {
		if err != nil {
			for _, tmp := range staged {
				_ = os.Remove(tmp)
			}
		}
	}()

	for _, f := range files {
		tmp, err := stage(f)
		if err != nil {
			return err
		}
		staged = append(staged, tmp)
	}
	for i, f := range files {
		if err := os.Rename(staged[i], f.Path); err != nil {
			return fmt.Errorf("renaming into %s: %w", f.Path, err)
		}
	}
	return nil
}

func stage(f PendingFile) (name string, err error) {
	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.Path)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(f.Data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing %s: %w", tmp.Name(), err)
	}
	if err := tmp.Chmod(f.Perm); err != nil {
		tmp.Close()
		return "", fmt.Errorf("setting permissions on %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", tmp.Name(), err)
	}
	return tmp.Name(), nil
}
