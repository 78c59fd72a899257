// Package ioutils provides file system helpers on top of go-billy.
//
// All functions take an FS, the part of a billy filesystem they need, so
// that callers can run against the real disk (osfs.Default) or an in-memory
// filesystem (memfs.New) in tests.
//
// # Reading
//
//	data, err := ioutils.ReadFile(fsys, "settings.json")
//
// # Atomic writes
//
// WriteFileAtomic writes to a temporary file next to the target and renames
// it into place, keeping the target's permissions:
//
//	err := ioutils.WriteFileAtomic(fsys, "settings.json", data)
//
// # Directories
//
//	err := ioutils.EnsureDir(fsys, "/path/to/new/directory")
package ioutils
