package history

import (
	"github.com/bethropolis/pagehist/internal/logger"
	"github.com/bethropolis/pagehist/internal/types"
)

// ItemGetter returns the live flat collection for one item kind.
type ItemGetter func() []types.Item

// ItemSetter replaces the live flat collection for one item kind.
type ItemSetter func(items []types.Item)

// PagesGetter returns the live page-grouped structure.
type PagesGetter func() []types.Page

// PagesUpdater replaces the page-grouped structure with update(prev).
type PagesUpdater func(update func(prev []types.Page) []types.Page)

// ItemSlice is a live flat collection the engine can read and replace.
type ItemSlice interface {
	Items() []types.Item
	SetItems(items []types.Item)
}

// PagesSlice is the live page-grouped structure.
type PagesSlice interface {
	Pages() []types.Page
	SetPages(update func(prev []types.Page) []types.Page)
}

type bindMode int

const (
	unbound bindMode = iota
	boundBySources
	boundBySlices
)

func (m bindMode) String() string {
	switch m {
	case boundBySources:
		return "BindSources"
	case boundBySlices:
		return "BindFromSlices"
	}
	return "unbound"
}

type itemSource struct {
	get ItemGetter
	set ItemSetter
}

// sources is where the engine reads and writes the editor's collections.
type sources struct {
	mode     bindMode
	items    [len(types.Kinds)]itemSource
	getPages PagesGetter
	setPages PagesUpdater
}

func (s *sources) bound() bool { return s.mode != unbound }

// claim checks that mode may bind. It does not change anything.
func (s *sources) claim(mode bindMode) error {
	if s.mode != unbound && s.mode != mode {
		logger.WarnTagf("history", "%s called but sources were bound with %s; ignoring", mode, s.mode)
		return ErrBindingModeConflict
	}
	return nil
}

// bindItems overwrites only the accessors that are non-nil.
func (s *sources) bindItems(k types.Kind, get ItemGetter, set ItemSetter) {
	if get != nil {
		s.items[k].get = get
	}
	if set != nil {
		s.items[k].set = set
	}
}

func (s *sources) bindPages(get PagesGetter, set PagesUpdater) {
	if get != nil {
		s.getPages = get
	}
	if set != nil {
		s.setPages = set
	}
}

// BindSources binds the engine with plain accessor functions. Only
// non-nil arguments replace earlier bindings, so a partial re-bind keeps
// whatever was bound before. Shapes and annotations are bound with BindKind.
func (e *Engine) BindSources(getText, getImage ItemGetter, setText, setImage ItemSetter, getPages PagesGetter, setPages PagesUpdater) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.src.claim(boundBySources); err != nil {
		return err
	}
	e.src.bindItems(types.KindText, getText, setText)
	e.src.bindItems(types.KindImage, getImage, setImage)
	e.src.bindPages(getPages, setPages)
	e.src.mode = boundBySources
	logger.DebugTagf("history", "sources bound with accessor functions")
	return nil
}

// BindKind binds the accessors for a single item kind. It belongs to the
// BindSources mode.
func (e *Engine) BindKind(kind types.Kind, get ItemGetter, set ItemSetter) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.src.claim(boundBySources); err != nil {
		return err
	}
	e.src.bindItems(kind, get, set)
	e.src.mode = boundBySources
	return nil
}

// BindFromSlices binds the engine to live collection objects. Nil
// arguments leave the corresponding binding as it was.
func (e *Engine) BindFromSlices(text, images ItemSlice, pages PagesSlice, shapes, annotations ItemSlice) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.src.claim(boundBySlices); err != nil {
		return err
	}
	for k, s := range map[types.Kind]ItemSlice{
		types.KindText:       text,
		types.KindImage:      images,
		types.KindShape:      shapes,
		types.KindAnnotation: annotations,
	} {
		if s != nil {
			e.src.bindItems(k, s.Items, s.SetItems)
		}
	}
	if pages != nil {
		e.src.bindPages(pages.Pages, pages.SetPages)
	}
	e.src.mode = boundBySlices
	logger.DebugTagf("history", "sources bound from slices")
	return nil
}

// Bound reports whether a binding call has completed.
func (e *Engine) Bound() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.src.bound()
}
