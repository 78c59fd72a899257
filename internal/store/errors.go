package store

import (
	"errors"
	"fmt"
)

// ErrNoBlockKey is returned by Load when neither the call nor the store
// names a block. Use LoadDocument to read the whole document.
var ErrNoBlockKey = errors.New("no block key")

// ReadError reports that the settings file could not be read or is not a
// valid document. The store's in-memory state is left unchanged.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read settings %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// WriteError reports that the settings file could not be written. The
// in-memory document already holds the new block.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write settings %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
