package history

import (
	"github.com/bethropolis/pagehist/internal/deepclone"
	"github.com/bethropolis/pagehist/internal/logger"
	"github.com/bethropolis/pagehist/internal/types"
)

const notBoundMsg = "not bound yet; call BindFromSlices or BindSources before using history"

// TakeCurrentPageSnapshot captures a deep copy of every bound item kind on
// page. An unbound engine returns an empty snapshot.
func (e *Engine) TakeCurrentPageSnapshot(page int) types.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.capture(page)
}

// ApplyPageSnapshot writes snap back as the content of page in both the
// flat collections and the page-grouped structure.
func (e *Engine) ApplyPageSnapshot(page int, snap types.Snapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.apply(page, snap)
}

// capture must be called with e.mu held. Kinds without a getter are left
// nil in the snapshot, meaning "not captured".
func (e *Engine) capture(page int) types.Snapshot {
	var snap types.Snapshot
	if !e.src.bound() {
		logger.WarnTagf("history", "%s", notBoundMsg)
		return snap
	}

	for _, k := range types.Kinds {
		src := e.src.items[k]
		if src.get == nil {
			continue
		}
		all := src.get()
		on, _, orphans := filterPage(all, page)
		if orphans > 0 {
			logger.WarnTagf("history", "%d %s carry no index/page/pageIndex field and are excluded from history", orphans, k)
		}
		if len(all) > 0 && len(on) == 0 {
			logger.WarnTagf("history", "no %s matched page %d; ensure items carry {index|page|pageIndex}", k, page)
		}
		snap.SetItems(k, deepclone.CloneSlice(on))
	}
	return snap
}

// apply must be called with e.mu held.
//
// For every kind present in snap (non-nil slice) with a bound setter, the
// flat collection becomes (items not on page) ++ clone(snap items) and
// pages[page] gets its own clone of the same items. Everything is
// computed before the first setter runs.
func (e *Engine) apply(page int, snap types.Snapshot) {
	if !e.src.bound() {
		logger.WarnTagf("history", "%s", notBoundMsg)
		return
	}
	if page < 0 {
		logger.WarnTagf("history", "refusing to apply snapshot to negative page %d", page)
		return
	}

	// One clone pass; the page-grouped copy is derived from it.
	flatPart := deepclone.Clone(snap)
	pagePart := deepclone.Clone(flatPart)

	type write struct {
		kind types.Kind
		set  ItemSetter
		next []types.Item
	}
	var writes []write
	var kinds []types.Kind

	for _, k := range types.Kinds {
		fresh := flatPart.Items(k)
		if fresh == nil {
			continue
		}
		src := e.src.items[k]
		if src.set == nil {
			if src.get != nil || len(fresh) > 0 {
				logger.WarnTagf("history", "no setter bound for %s; leaving them unchanged on page %d", k, page)
			}
			continue
		}
		var current []types.Item
		if src.get != nil {
			current = src.get()
		}
		_, keep, _ := filterPage(current, page)
		next := make([]types.Item, 0, len(keep)+len(fresh))
		next = append(append(next, keep...), fresh...)
		writes = append(writes, write{kind: k, set: src.set, next: next})
		kinds = append(kinds, k)
	}

	for _, w := range writes {
		w.set(w.next)
	}

	if e.src.setPages == nil || len(kinds) == 0 {
		return
	}
	e.src.setPages(func(prev []types.Page) []types.Page {
		size := len(prev)
		if page >= size {
			size = page + 1
		}
		next := make([]types.Page, size)
		copy(next, prev)
		for i := len(prev); i < page; i++ {
			fillEmpty(&next[i])
		}
		pg := next[page]
		for _, k := range kinds {
			pg.SetItems(k, pagePart.Items(k))
		}
		fillEmpty(&pg)
		next[page] = pg
		return next
	})
	logger.DebugTagf("history", "applied snapshot to page %d (%d items)", page, snap.Len())
}

func fillEmpty(pg *types.Page) {
	for _, k := range types.Kinds {
		if pg.Items(k) == nil {
			pg.SetItems(k, []types.Item{})
		}
	}
}
