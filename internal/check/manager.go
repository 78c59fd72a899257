package check

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/go-git/go-billy/v5/osfs"
	"golang.org/x/sync/errgroup"

	ioutils "github.com/handiism/settings-manager/internal/io"
	"github.com/handiism/settings-manager/internal/logger"
	"github.com/handiism/settings-manager/internal/model"
	"github.com/handiism/settings-manager/internal/store"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a check progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// BlockError locates a problem at one block of a document.
type BlockError struct {
	Block string
	Err   error
}

func (e *BlockError) Error() string {
	return fmt.Sprintf("block %q: %v", e.Block, e.Err)
}

func (e *BlockError) Unwrap() error {
	return e.Err
}

// Result is the outcome of checking one file.
type Result struct {
	Path string
	// Blocks lists the blocks that were checked, in document order.
	Blocks []string
	// Err is nil for a valid file. Otherwise it is a *store.ReadError, or
	// one or more *BlockError joined.
	Err error
}

// OK reports whether the file is valid.
func (r Result) OK() bool {
	return r.Err == nil
}

// Option configures a Manager.
type Option func(*Manager)

// WithFilesystem makes the manager read through fsys.
func WithFilesystem(fsys ioutils.FS) Option {
	return func(m *Manager) {
		m.fs = fsys
	}
}

// WithBlock restricts checking to one block key. A file without that block
// fails with model.ErrNotFound.
func WithBlock(blockKey string) Option {
	return func(m *Manager) {
		m.blockKey = blockKey
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *logger.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// Manager validates settings documents concurrently.
type Manager struct {
	concurrency int
	blockKey    string
	fs          ioutils.FS
	log         *logger.Logger

	totalFiles   int32
	checkedFiles int32

	onProgress func(ProgressEvent)
}

// NewManager creates a Manager that checks at most concurrency files at a
// time. Values below 1 mean one at a time.
func NewManager(concurrency int, onProgress func(ProgressEvent), opts ...Option) *Manager {
	if concurrency < 1 {
		concurrency = 1
	}
	m := &Manager{
		concurrency: concurrency,
		fs:          osfs.Default,
		log:         logger.Nop(),
		onProgress:  onProgress,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.WithComponent("check")
	return m
}

// Run checks every path and returns one Result per path, in the same order.
//
// Invalid files do not stop the run; the returned error is only set when ctx
// is cancelled, in which case unchecked files have no Blocks and carry the
// context error.
func (m *Manager) Run(ctx context.Context, paths []string) ([]Result, error) {
	results := make([]Result, len(paths))
	atomic.StoreInt32(&m.totalFiles, int32(len(paths)))
	atomic.StoreInt32(&m.checkedFiles, 0)

	m.progress(ProgressEvent{Message: fmt.Sprintf("Checking %d file(s), %d at a time", len(paths), m.concurrency), Level: LevelInfo})

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)

	for i, path := range paths {
		results[i].Path = path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return err
			}
			results[i] = m.checkFile(path)
			atomic.AddInt32(&m.checkedFiles, 1)
			return nil
		})
	}

	err := g.Wait()
	return results, err
}

// GetProgress returns how many files of the current run have been checked.
func (m *Manager) GetProgress() (checked, total int32) {
	return atomic.LoadInt32(&m.checkedFiles), atomic.LoadInt32(&m.totalFiles)
}

func (m *Manager) checkFile(path string) Result {
	res := Result{Path: path}
	m.progress(ProgressEvent{Message: fmt.Sprintf("Checking %s", path), Level: LevelVerbose})

	st, err := store.New(path, "", store.WithFilesystem(m.fs), store.WithLogger(m.log))
	if err != nil {
		res.Err = err
		m.progress(ProgressEvent{Message: fmt.Sprintf("%s: %v", path, err), Level: LevelError})
		return res
	}
	doc := st.Document()

	names := doc.Names()
	if m.blockKey != "" {
		names = []string{m.blockKey}
		if !doc.Has(m.blockKey) {
			m.progress(ProgressEvent{Message: fmt.Sprintf("%s: no block %q", path, m.blockKey), Level: LevelWarning})
		}
	}

	var errs []error
	for _, name := range names {
		res.Blocks = append(res.Blocks, name)
		block, err := doc.Block(name)
		if err != nil {
			errs = append(errs, &BlockError{Block: name, Err: err})
			continue
		}
		if err := model.Validate(block); err != nil {
			errs = append(errs, &BlockError{Block: name, Err: err})
		}
	}
	res.Err = errors.Join(errs...)

	if res.Err != nil {
		m.log.Debugw("invalid document", "path", path, "problems", len(errs))
		m.progress(ProgressEvent{Message: fmt.Sprintf("%s: %d invalid block(s)", path, len(errs)), Level: LevelError})
	} else {
		m.progress(ProgressEvent{Message: fmt.Sprintf("%s: ok (%d block(s))", path, len(names)), Level: LevelSuccess})
	}
	return res
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
