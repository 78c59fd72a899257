package ioutils

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// FS is the part of a billy filesystem the helpers need. osfs.Default and
// memfs.New both satisfy it.
type FS interface {
	billy.Basic
	billy.TempFile
	billy.Dir
}

// DefaultFileMode is used when WriteFileAtomic creates a file that did not
// exist before.
const DefaultFileMode fs.FileMode = 0o644

// ReadFile reads the whole file at path from fsys.
//
// Example:
//
//	data, err := ReadFile(osfs.Default, "/etc/app/settings.json")
func ReadFile(fsys billy.Basic, path string) ([]byte, error) {
	return util.ReadFile(fsys, path)
}

// WriteFileAtomic replaces the file at path with data.
//
// The data is written to a temporary file in the same directory which is
// then renamed over path, so readers see either the old or the new content,
// never a partial write. An existing file keeps its permissions; a new file
// gets DefaultFileMode. The temporary file is removed on failure.
//
// Example:
//
//	err := WriteFileAtomic(osfs.Default, "/etc/app/settings.json", data)
func WriteFileAtomic(fsys FS, path string, data []byte) error {
	mode := DefaultFileMode
	if info, err := fsys.Stat(path); err == nil {
		mode = info.Mode().Perm()
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if err := EnsureDir(fsys, dir); err != nil {
		return err
	}

	tmp, err := fsys.TempFile(dir, "."+filepath.Base(path)+"-")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	n, err := tmp.Write(data)
	if err == nil && n < len(data) {
		err = fmt.Errorf("short write: %d of %d bytes", n, len(data))
	}
	if err != nil {
		_ = tmp.Close()
		_ = fsys.Remove(tmpName)
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = fsys.Remove(tmpName)
		return fmt.Errorf("close temp: %w", err)
	}

	if ch, ok := fsys.(billy.Chmod); ok {
		_ = ch.Chmod(tmpName, mode)
	}

	if err := fsys.Rename(tmpName, path); err != nil {
		_ = fsys.Remove(tmpName)
		return fmt.Errorf("rename temp to %s: %w", path, err)
	}
	return nil
}

// EnsureDir creates a directory and all parent directories if they don't
// exist. "" and "." are treated as existing.
func EnsureDir(fsys billy.Dir, dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	return nil
}
