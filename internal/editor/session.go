package editor

import (
	"errors"
	"fmt"

	"github.com/handiism/settings-manager/internal/logger"
	"github.com/handiism/settings-manager/internal/model"
	"github.com/handiism/settings-manager/internal/store"
)

// ErrClosed is returned by every Session method after Commit or Cancel.
var ErrClosed = errors.New("editor session is closed")

// EventKind tells what happened in a session.
type EventKind int

const (
	EventChanged EventKind = iota
	EventReset
	EventApplied
	EventCommitted
	EventCancelled
)

func (k EventKind) String() string {
	switch k {
	case EventChanged:
		return "changed"
	case EventReset:
		return "reset"
	case EventApplied:
		return "applied"
	case EventCommitted:
		return "committed"
	case EventCancelled:
		return "cancelled"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event reports a change made through a Session.
type Event struct {
	Kind    EventKind
	Section string
	Name    string
	Message string
}

// Option configures a Session.
type Option func(*Session)

// WithEvents registers a callback that receives every Event.
func WithEvents(fn func(Event)) Option {
	return func(s *Session) {
		s.onEvent = fn
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *logger.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

type paramKey struct {
	section string
	name    string
}

// Session edits one block of a store.
//
// Edits are made on a private copy of the block and only reach the file on
// Apply or Commit. Sessions are not safe for concurrent use.
type Session struct {
	store    *store.Store
	blockKey string
	block    *model.Block

	touched []paramKey
	seen    map[paramKey]bool
	closed  bool

	onEvent func(Event)
	log     *logger.Logger
}

// Open loads blockKey from st and starts a session on it. An empty blockKey
// means the store's active block.
func Open(st *store.Store, blockKey string, opts ...Option) (*Session, error) {
	block, err := st.Load(blockKey)
	if err != nil {
		return nil, err
	}
	s := &Session{
		store:    st,
		blockKey: st.BlockKey(),
		block:    block.Clone(),
		seen:     make(map[paramKey]bool),
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithComponent("editor").WithFields("block", s.blockKey)
	return s, nil
}

// BlockKey returns the key of the block being edited.
func (s *Session) BlockKey() string {
	return s.blockKey
}

// Block returns the working copy, including edits not yet applied.
func (s *Session) Block() *model.Block {
	return s.block
}

// Sections returns the section names in document order. Block entries that
// are not sections are left out.
func (s *Session) Sections() []string {
	var names []string
	for _, name := range s.block.Names() {
		if _, ok := s.block.Section(name); ok {
			names = append(names, name)
		}
	}
	return names
}

// Dirty reports whether there are edits that have not been applied.
func (s *Session) Dirty() bool {
	return len(s.touched) > 0
}

// Parameter returns the working copy of a parameter. A missing section or
// parameter is reported as a *model.ParamError wrapping model.ErrNotFound.
func (s *Session) Parameter(section, name string) (*model.Parameter, error) {
	if s.closed {
		return nil, ErrClosed
	}
	p, ok := s.block.Parameter(section, name)
	if !ok {
		return nil, &model.ParamError{Section: section, Name: name, Err: model.ErrNotFound}
	}
	return p, nil
}

// SetValue stores v as the parameter's value after checking it against the
// parameter's type, range and options.
func (s *Session) SetValue(section, name string, v any) error {
	p, err := s.Parameter(section, name)
	if err != nil {
		return err
	}
	if err := p.SetValue(v); err != nil {
		return &model.ParamError{Section: section, Name: name, Err: err}
	}
	s.touch(section, name)
	s.log.Debugw("set value", "section", section, "name", name, "value", v)
	s.emit(Event{Kind: EventChanged, Section: section, Name: name, Message: fmt.Sprintf("%s/%s = %v", section, name, v)})
	return nil
}

// SetText parses text for the parameter's type and stores it. See
// model.ParseValue.
func (s *Session) SetText(section, name, text string) error {
	p, err := s.Parameter(section, name)
	if err != nil {
		return err
	}
	v, err := model.ParseValue(p.Type(), text)
	if err != nil {
		return &model.ParamError{Section: section, Name: name, Err: err}
	}
	return s.SetValue(section, name, v)
}

// SetAuto switches auto mode. It fails with model.ErrAutoUnsupported for a
// parameter that has no "auto" field.
func (s *Session) SetAuto(section, name string, enabled bool) error {
	p, err := s.Parameter(section, name)
	if err != nil {
		return err
	}
	if err := p.SetAuto(enabled); err != nil {
		return &model.ParamError{Section: section, Name: name, Err: err}
	}
	s.touch(section, name)
	s.log.Debugw("set auto", "section", section, "name", name, "auto", enabled)
	s.emit(Event{Kind: EventChanged, Section: section, Name: name, Message: fmt.Sprintf("%s/%s auto = %t", section, name, enabled)})
	return nil
}

// Reset restores parameters of a section to their defaults and switches
// auto mode off where it is supported. Without names every parameter of the
// section is reset.
func (s *Session) Reset(section string, names ...string) error {
	if s.closed {
		return ErrClosed
	}
	sec, ok := s.block.Section(section)
	if !ok {
		return &model.ParamError{Section: section, Err: model.ErrNotFound}
	}
	if len(names) == 0 {
		for _, name := range sec.Names() {
			if _, ok := sec.Parameter(name); ok {
				names = append(names, name)
			}
		}
	}

	var params []*model.Parameter
	for _, name := range names {
		p, ok := sec.Parameter(name)
		if !ok {
			return &model.ParamError{Section: section, Name: name, Err: model.ErrNotFound}
		}
		params = append(params, p)
	}
	for i, p := range params {
		p.Reset()
		s.touch(section, names[i])
		s.emit(Event{Kind: EventReset, Section: section, Name: names[i], Message: fmt.Sprintf("%s/%s reset", section, names[i])})
	}
	s.log.Debugw("reset", "section", section, "count", len(params))
	return nil
}

// ResetAll resets every parameter of every section.
func (s *Session) ResetAll() error {
	if s.closed {
		return ErrClosed
	}
	for _, section := range s.Sections() {
		if err := s.Reset(section); err != nil {
			return err
		}
	}
	return nil
}

// Collect rereads the block from the store and applies the session's edits
// on top of it.
//
// Only parameters edited in this session are written, and only if their
// section and parameter still exist in the reread block. "auto" is written
// only where the reread parameter supports it. Every written parameter is
// validated; problems are returned joined, as *model.ParamError values, and
// nothing is written.
func (s *Session) Collect() (*model.Block, error) {
	if s.closed {
		return nil, ErrClosed
	}
	fresh, err := s.store.Load(s.blockKey)
	if err != nil {
		return nil, err
	}
	fresh = fresh.Clone()

	var errs []error
	for _, key := range s.touched {
		edited, ok := s.block.Parameter(key.section, key.name)
		if !ok {
			continue
		}
		target, ok := fresh.Parameter(key.section, key.name)
		if !ok {
			s.log.Debugw("dropping edit, parameter is gone", "section", key.section, "name", key.name)
			continue
		}

		if raw, ok := edited.Field(model.FieldValue); ok {
			target.SetField(model.FieldValue, raw)
		} else {
			target.DeleteField(model.FieldValue)
		}
		if _, supported := target.Auto(); supported {
			enabled, _ := edited.Auto()
			if err := target.SetAuto(enabled); err != nil {
				errs = append(errs, &model.ParamError{Section: key.section, Name: key.name, Err: err})
			}
		}

		if err := target.Validate(); err != nil {
			errs = append(errs, &model.ParamError{Section: key.section, Name: key.name, Err: err})
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return fresh, nil
}

// Apply collects the edits and saves the block, keeping the session open.
func (s *Session) Apply() error {
	block, err := s.Collect()
	if err != nil {
		return err
	}
	if err := s.store.Save(s.blockKey, block); err != nil {
		return err
	}

	count := len(s.touched)
	s.block = block.Clone()
	s.touched = nil
	s.seen = make(map[paramKey]bool)

	s.log.Debugw("applied", "edits", count)
	s.emit(Event{Kind: EventApplied, Message: fmt.Sprintf("saved %d change(s) to %s", count, s.blockKey)})
	return nil
}

// Commit applies the edits and closes the session.
func (s *Session) Commit() error {
	if err := s.Apply(); err != nil {
		return err
	}
	s.closed = true
	s.emit(Event{Kind: EventCommitted, Message: s.blockKey})
	return nil
}

// Cancel discards unapplied edits and closes the session. Cancelling a
// closed session is a no-op.
func (s *Session) Cancel() {
	if s.closed {
		return
	}
	s.closed = true
	s.log.Debugw("cancelled", "discarded", len(s.touched))
	s.emit(Event{Kind: EventCancelled, Message: fmt.Sprintf("discarded %d change(s)", len(s.touched))})
}

func (s *Session) touch(section, name string) {
	key := paramKey{section: section, name: name}
	if s.seen[key] {
		return
	}
	s.seen[key] = true
	s.touched = append(s.touched, key)
}

func (s *Session) emit(e Event) {
	if s.onEvent != nil {
		s.onEvent(e)
	}
}
