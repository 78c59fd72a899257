package store

import (
	"fmt"

	"github.com/go-git/go-billy/v5/osfs"

	ioutils "github.com/handiism/settings-manager/internal/io"
	"github.com/handiism/settings-manager/internal/logger"
	"github.com/handiism/settings-manager/internal/model"
)

// Store gives access to one block of a JSON settings file.
//
// A Store is not safe for concurrent use. The file is opened and closed
// inside every Load and Save; nothing is held open between calls.
type Store struct {
	path     string
	blockKey string
	fs       ioutils.FS
	log      *logger.Logger

	doc   *model.Document
	block *model.Block
}

// Option configures a Store.
type Option func(*Store)

// WithFilesystem makes the store read and write through fsys instead of the
// operating system's filesystem.
func WithFilesystem(fsys ioutils.FS) Option {
	return func(s *Store) {
		s.fs = fsys
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// New creates a store for the file at path and loads it. blockKey may be
// empty, in which case only the document is loaded and every Load must name
// a block.
//
// New fails with a *ReadError when the file is missing or is not a JSON
// object, so a Store always holds a loaded document.
func New(path, blockKey string, opts ...Option) (*Store, error) {
	s := &Store{
		path:     path,
		blockKey: blockKey,
		fs:       osfs.Default,
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithComponent("store").WithFields("path", path)

	var err error
	if blockKey == "" {
		_, err = s.LoadDocument()
	} else {
		_, err = s.Load(blockKey)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the settings file path.
func (s *Store) Path() string {
	return s.path
}

// BlockKey returns the active block key, which may be empty.
func (s *Store) BlockKey() string {
	return s.blockKey
}

// Document returns the document as of the last Load, LoadDocument or Save.
func (s *Store) Document() *model.Document {
	return s.doc
}

// Block returns the last loaded block, or nil if no block has been loaded.
func (s *Store) Block() *model.Block {
	return s.block
}

// Load rereads the whole file and returns the block stored under blockKey.
//
// An empty blockKey means the active key; a non-empty one becomes the active
// key. If the document has no such block an empty one is added in memory
// only; the file is not touched until Save. The returned block is the one
// Get and GetDefault read from, so edits to it are visible there.
//
// On failure the previous state is kept.
//
// Example:
//
//	block, err := st.Load("ui")
//	opacity, ok := block.Get("display", "opacity")
func (s *Store) Load(blockKey string) (*model.Block, error) {
	if blockKey == "" {
		blockKey = s.blockKey
	}
	if blockKey == "" {
		return nil, ErrNoBlockKey
	}

	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	created := doc.EnsureBlock(blockKey)
	block, err := doc.Block(blockKey)
	if err != nil {
		return nil, &ReadError{Path: s.path, Err: err}
	}

	s.doc = doc
	s.blockKey = blockKey
	s.block = block
	s.log.Debugw("loaded block", "block", blockKey, "created", created, "sections", block.Len())
	return block, nil
}

// LoadDocument rereads the whole file and returns the document. If a block
// key is active its block is refreshed as well.
func (s *Store) LoadDocument() (*model.Document, error) {
	doc, err := s.read()
	if err != nil {
		return nil, err
	}

	var block *model.Block
	if s.blockKey != "" {
		doc.EnsureBlock(s.blockKey)
		if block, err = doc.Block(s.blockKey); err != nil {
			return nil, &ReadError{Path: s.path, Err: err}
		}
	}

	s.doc = doc
	s.block = block
	s.log.Debugw("loaded document", "blocks", doc.Len())
	return doc, nil
}

// Get returns the effective value of the parameter at path in the last
// loaded block. See model.Block.Get.
//
// Example:
//
//	v, ok := st.Get("display", "opacity") // 0.5, true
func (s *Store) Get(path ...string) (any, bool) {
	return s.block.Get(path...)
}

// GetDefault returns the stored default of the parameter at path in the last
// loaded block. See model.Block.Default.
func (s *Store) GetDefault(path ...string) (any, bool) {
	return s.block.Default(path...)
}

// Save stores block under blockKey and writes the whole document.
//
// Other blocks are written back as they were last read; the file is not
// reread first, so a concurrent writer's changes to other blocks are lost.
// The write is atomic. An empty blockKey means the active key. Saving the
// active block makes block the one Get reads from.
//
// A failed write returns a *WriteError; the in-memory document keeps the new
// block.
func (s *Store) Save(blockKey string, block *model.Block) error {
	if blockKey == "" {
		blockKey = s.blockKey
	}
	if blockKey == "" {
		return ErrNoBlockKey
	}
	if block == nil {
		block = model.NewBlock()
	}

	if err := s.doc.SetBlock(blockKey, block); err != nil {
		return fmt.Errorf("save %s: %w", blockKey, err)
	}
	if blockKey == s.blockKey {
		s.block = block
	}

	data, err := s.doc.Encode()
	if err != nil {
		return &WriteError{Path: s.path, Err: err}
	}
	if err := ioutils.WriteFileAtomic(s.fs, s.path, data); err != nil {
		s.log.WithError(err).Warnw("save failed", "block", blockKey)
		return &WriteError{Path: s.path, Err: err}
	}

	s.log.Debugw("saved block", "block", blockKey, "bytes", len(data))
	return nil
}

func (s *Store) read() (*model.Document, error) {
	data, err := ioutils.ReadFile(s.fs, s.path)
	if err != nil {
		return nil, &ReadError{Path: s.path, Err: err}
	}
	doc, err := model.ParseDocument(data)
	if err != nil {
		return nil, &ReadError{Path: s.path, Err: err}
	}
	return doc, nil
}
