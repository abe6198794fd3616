package history

import (
	"errors"
	"sort"
	"sync"

	"github.com/bethropolis/pagehist/internal/event"
	"github.com/bethropolis/pagehist/internal/logger"
	"github.com/bethropolis/pagehist/internal/storage"
	"github.com/bethropolis/pagehist/internal/types"
)

const (
	// DefaultMaxSnapshots bounds each page's undo stack.
	DefaultMaxSnapshots = 100

	UndoStackKey = "undoStack"
	RedoStackKey = "redoStack"
)

// ErrBindingModeConflict is returned when BindSources/BindKind and
// BindFromSlices are mixed on one engine.
var ErrBindingModeConflict = errors.New("history: sources already bound with the other binding mode")

type options struct {
	maxSnapshots int
	persister    Persister
	events       *event.Manager
}

// Option configures New.
type Option func(*options)

// WithMaxSnapshots sets the per-page undo depth. Values <= 0 use the default.
func WithMaxSnapshots(n int) Option { return func(o *options) { o.maxSnapshots = n } }

// WithPersister sets where the stacks are loaded from and saved to.
func WithPersister(p Persister) Option { return func(o *options) { o.persister = p } }

// WithStorage persists the stacks as JSON in kv.
func WithStorage(kv storage.KV) Option {
	return func(o *options) { o.persister = KVPersister{KV: kv} }
}

// WithEventManager publishes history events on m.
func WithEventManager(m *event.Manager) Option { return func(o *options) { o.events = m } }

// Engine is the page-scoped undo/redo history.
//
// Bound accessors are invoked while the engine's lock is held; they must
// not call back into the engine. Event handlers run after the lock is
// released and may query it freely.
type Engine struct {
	mu     sync.Mutex
	src    sources
	undo   *SnapshotStore
	redo   *SnapshotStore
	events *event.Manager
}

// New creates an engine and loads any persisted stacks. Without a
// persister, history lives in memory only.
func New(opts ...Option) *Engine {
	o := options{maxSnapshots: DefaultMaxSnapshots}
	for _, opt := range opts {
		opt(&o)
	}
	if o.maxSnapshots <= 0 {
		o.maxSnapshots = DefaultMaxSnapshots
	}

	e := &Engine{
		undo:   NewSnapshotStore(UndoStackKey, o.maxSnapshots, o.persister),
		redo:   NewSnapshotStore(RedoStackKey, o.maxSnapshots, o.persister),
		events: o.events,
	}
	logger.DebugTagf("history", "engine ready: max %d snapshots/page, %d undo pages loaded", o.maxSnapshots, len(e.undo.Stacks()))
	return e
}

// PushSnapshotToUndo records the current content of page as an undo step
// and discards the page's redo history. Call it before mutating the page,
// once per user gesture.
func (e *Engine) PushSnapshotToUndo(page int) {
	e.mu.Lock()
	if !e.src.bound() {
		e.mu.Unlock()
		logger.WarnTagf("history", "push on page %d ignored: %s", page, notBoundMsg)
		return
	}
	if page < 0 {
		e.mu.Unlock()
		logger.WarnTagf("history", "push ignored: negative page %d", page)
		return
	}

	e.undo.Push(page, e.capture(page))
	e.redo.Clear(page)
	e.undo.Save()
	e.redo.Save()
	data := e.changedLocked(page)
	e.mu.Unlock()

	logger.DebugTagf("history", "pushed undo for page %d (depth %d)", page, data.UndoDepth)
	e.events.Dispatch(event.TypeHistoryChanged, data)
}

// Undo restores the newest undo snapshot of page, moving the current state
// onto the redo stack. It returns false when there is nothing to undo.
func (e *Engine) Undo(page int) bool {
	return e.step(page, e.undo, e.redo, "undo")
}

// Redo re-applies the newest redo snapshot of page, moving the current
// state onto the undo stack. It returns false when there is nothing to redo.
func (e *Engine) Redo(page int) bool {
	return e.step(page, e.redo, e.undo, "redo")
}

// step pops from src, pushes the visible state onto dst and applies the
// popped snapshot. The visible state is captured before anything is
// overwritten, which makes undo and redo exact inverses.
func (e *Engine) step(page int, src, dst *SnapshotStore, name string) bool {
	e.mu.Lock()
	if src.Len(page) == 0 {
		e.mu.Unlock()
		logger.DebugTagf("history", "nothing to %s on page %d", name, page)
		return false
	}
	if !e.src.bound() {
		e.mu.Unlock()
		logger.WarnTagf("history", "%s on page %d ignored: %s", name, page, notBoundMsg)
		return false
	}

	current := e.capture(page)
	target, _ := src.Pop(page)
	dst.Push(page, current)
	e.apply(page, target)
	e.undo.Save()
	e.redo.Save()
	data := e.changedLocked(page)
	e.mu.Unlock()

	logger.DebugTagf("history", "%s on page %d: undo=%d redo=%d", name, page, data.UndoDepth, data.RedoDepth)
	e.events.Dispatch(event.TypeHistoryChanged, data)
	return true
}

// PurgeUndoRedoForRemovedPage drops the history of removed and shifts the
// history of every later page down by one, in both stacks at once. Call it
// together with the page removal itself.
func (e *Engine) PurgeUndoRedoForRemovedPage(removed int) {
	e.mu.Lock()
	e.undo.Replace(RemapStacksAfterPageRemoval(e.undo.Stacks(), removed))
	e.redo.Replace(RemapStacksAfterPageRemoval(e.redo.Stacks(), removed))
	e.undo.Save()
	e.redo.Save()
	e.mu.Unlock()

	logger.DebugTagf("history", "purged history for removed page %d", removed)
	e.events.Dispatch(event.TypeHistoryPurged, event.HistoryPurgedData{Page: removed, Removed: true})
}

// ShiftUndoRedoForInsertedPage moves the history of pages at or after
// inserted up by one, in both stacks at once.
func (e *Engine) ShiftUndoRedoForInsertedPage(inserted int) {
	e.mu.Lock()
	e.undo.Replace(RemapStacksAfterPageInsertion(e.undo.Stacks(), inserted))
	e.redo.Replace(RemapStacksAfterPageInsertion(e.redo.Stacks(), inserted))
	e.undo.Save()
	e.redo.Save()
	e.mu.Unlock()

	logger.DebugTagf("history", "shifted history for page inserted at %d", inserted)
	e.events.Dispatch(event.TypeHistoryPurged, event.HistoryPurgedData{Page: inserted})
}

// Clear drops all history for every page and reports each page that had
// any as changed.
func (e *Engine) Clear() {
	e.mu.Lock()
	pages := e.undo.Depths()
	for page := range e.redo.Depths() {
		pages[page] = 0
	}
	e.undo.Reset()
	e.redo.Reset()
	e.undo.Save()
	e.redo.Save()
	changed := make([]event.HistoryChangedData, 0, len(pages))
	for page := range pages {
		changed = append(changed, e.changedLocked(page))
	}
	e.mu.Unlock()

	sort.Slice(changed, func(i, j int) bool { return changed[i].Page < changed[j].Page })
	logger.DebugTagf("history", "cleared history of %d pages", len(changed))
	for _, data := range changed {
		e.events.Dispatch(event.TypeHistoryChanged, data)
	}
}

func (e *Engine) changedLocked(page int) event.HistoryChangedData {
	return event.HistoryChangedData{Page: page, UndoDepth: e.undo.Len(page), RedoDepth: e.redo.Len(page)}
}

// UndoStack returns a copy of the undo state for observers.
func (e *Engine) UndoStack() types.Stacks {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.undo.Copy()
}

// RedoStack returns a copy of the redo state for observers.
func (e *Engine) RedoStack() types.Stacks {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.redo.Copy()
}

// CanUndo returns true if page has an undo step.
func (e *Engine) CanUndo(page int) bool {
	return e.UndoDepth(page) > 0
}

// CanRedo returns true if page has a redo step.
func (e *Engine) CanRedo(page int) bool {
	return e.RedoDepth(page) > 0
}

// UndoDepth returns the number of undo steps stored for page.
func (e *Engine) UndoDepth(page int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.undo.Len(page)
}

// RedoDepth returns the number of redo steps stored for page.
func (e *Engine) RedoDepth(page int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.redo.Len(page)
}
