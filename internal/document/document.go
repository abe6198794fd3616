// Package document holds an editor's placed items in the two shapes the
// history engine works with: one flat collection per item kind, and the
// page-grouped structure used for persistence.
//
// Document is not safe for concurrent use; it is driven from the UI loop.
package document

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/bethropolis/pagehist/internal/deepclone"
	"github.com/bethropolis/pagehist/internal/event"
	"github.com/bethropolis/pagehist/internal/history"
	"github.com/bethropolis/pagehist/internal/logger"
	"github.com/bethropolis/pagehist/internal/types"
)

var (
	ErrLastPage     = errors.New("document: cannot remove the last page")
	ErrPageRange    = errors.New("document: page out of range")
	ErrItemRange    = errors.New("document: item out of range")
	ErrNoPageRef    = errors.New("document: item has no page reference")
	ErrInconsistent = errors.New("document: flat collections and pages disagree")
)

// Collection is one flat item collection. It satisfies history.ItemSlice.
type Collection struct {
	items []types.Item
}

func (c *Collection) Items() []types.Item { return c.items }

func (c *Collection) SetItems(items []types.Item) { c.items = items }

// PageSet is the page-grouped structure. It satisfies history.PagesSlice.
type PageSet struct {
	pages []types.Page
}

func (p *PageSet) Pages() []types.Page { return p.pages }

func (p *PageSet) SetPages(update func(prev []types.Page) []types.Page) {
	p.pages = update(p.pages)
}

var (
	_ history.ItemSlice  = (*Collection)(nil)
	_ history.PagesSlice = (*PageSet)(nil)
)

// Document is the editor's item state.
type Document struct {
	Text        *Collection
	Images      *Collection
	Shapes      *Collection
	Annotations *Collection
	Pages       *PageSet

	events         *event.Manager
	onPageRemoved  []func(page int)
	onPageInserted []func(page int)
}

// New creates a document with pageCount empty pages (at least one).
func New(pageCount int, events *event.Manager) *Document {
	if pageCount < 1 {
		pageCount = 1
	}
	d := &Document{
		Text:        &Collection{items: []types.Item{}},
		Images:      &Collection{items: []types.Item{}},
		Shapes:      &Collection{items: []types.Item{}},
		Annotations: &Collection{items: []types.Item{}},
		Pages:       &PageSet{},
		events:      events,
	}
	for i := 0; i < pageCount; i++ {
		d.Pages.pages = append(d.Pages.pages, emptyPage())
	}
	return d
}

func emptyPage() types.Page {
	return types.Page{
		TextItems:   []types.Item{},
		ImageItems:  []types.Item{},
		Shapes:      []types.Item{},
		Annotations: []types.Item{},
	}
}

// BindHistory binds h to this document's collections and wires page
// removal and insertion to h's stack remapping.
func (d *Document) BindHistory(h *history.Engine) error {
	if err := h.BindFromSlices(d.Text, d.Images, d.Pages, d.Shapes, d.Annotations); err != nil {
		return err
	}
	d.OnPageRemoved(h.PurgeUndoRedoForRemovedPage)
	d.OnPageInserted(h.ShiftUndoRedoForInsertedPage)
	return nil
}

// Collection returns the flat collection for kind k.
func (d *Document) Collection(k types.Kind) *Collection {
	switch k {
	case types.KindText:
		return d.Text
	case types.KindImage:
		return d.Images
	case types.KindShape:
		return d.Shapes
	case types.KindAnnotation:
		return d.Annotations
	}
	return nil
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int { return len(d.Pages.pages) }

// OnPageRemoved registers fn to run synchronously after a page is removed.
func (d *Document) OnPageRemoved(fn func(page int)) {
	d.onPageRemoved = append(d.onPageRemoved, fn)
}

// OnPageInserted registers fn to run synchronously after a page is inserted.
func (d *Document) OnPageInserted(fn func(page int)) {
	d.onPageInserted = append(d.onPageInserted, fn)
}

func (d *Document) checkPage(page int) error {
	if page < 0 || page >= d.PageCount() {
		return fmt.Errorf("%w: %d (have %d)", ErrPageRange, page, d.PageCount())
	}
	return nil
}

// ItemsOnPage returns the items of kind k on page, in collection order.
// The returned items are live; mutate them through UpdateItem.
func (d *Document) ItemsOnPage(k types.Kind, page int) []types.Item {
	var out []types.Item
	for _, it := range d.Collection(k).items {
		if history.BelongsToPage(it, page) {
			out = append(out, it)
		}
	}
	return out
}

// CheckNewItem returns the page item would be added to, or the error
// AddItem would fail with.
func (d *Document) CheckNewItem(item types.Item) (int, error) {
	page, ok := history.PageOf(item)
	if !ok {
		return 0, ErrNoPageRef
	}
	if err := d.checkPage(page); err != nil {
		return 0, err
	}
	return page, nil
}

// CheckItem returns the error UpdateItem or RemoveItem would fail with for
// the n-th item of kind k on page, or nil.
func (d *Document) CheckItem(k types.Kind, page, n int) error {
	_, err := d.locate(k, page, n)
	return err
}

// AddItem appends item to collection k and to its page entry. It returns
// the item's position among the page's items of that kind.
func (d *Document) AddItem(k types.Kind, item types.Item) (int, error) {
	page, err := d.CheckNewItem(item)
	if err != nil {
		return 0, err
	}
	c := d.Collection(k)
	next := append(append([]types.Item(nil), c.items...), deepclone.Clone(item))
	c.SetItems(next)
	d.syncPage(k, page)
	d.changed(page)
	return len(d.ItemsOnPage(k, page)) - 1, nil
}

// UpdateItem applies fn to a copy of the n-th item of kind k on page and
// stores the result in both representations.
func (d *Document) UpdateItem(k types.Kind, page, n int, fn func(item types.Item)) error {
	idx, err := d.locate(k, page, n)
	if err != nil {
		return err
	}
	c := d.Collection(k)
	next := append([]types.Item(nil), c.items...)
	updated := deepclone.Clone(next[idx])
	fn(updated)
	next[idx] = updated
	c.SetItems(next)
	d.syncPage(k, page)
	d.changed(page)
	return nil
}

// RemoveItem deletes the n-th item of kind k on page.
func (d *Document) RemoveItem(k types.Kind, page, n int) error {
	idx, err := d.locate(k, page, n)
	if err != nil {
		return err
	}
	c := d.Collection(k)
	next := make([]types.Item, 0, len(c.items)-1)
	next = append(append(next, c.items[:idx]...), c.items[idx+1:]...)
	c.SetItems(next)
	d.syncPage(k, page)
	d.changed(page)
	return nil
}

// locate maps (page, n) to an index in collection k.
func (d *Document) locate(k types.Kind, page, n int) (int, error) {
	if err := d.checkPage(page); err != nil {
		return 0, err
	}
	seen := 0
	for i, it := range d.Collection(k).items {
		if !history.BelongsToPage(it, page) {
			continue
		}
		if seen == n {
			return i, nil
		}
		seen++
	}
	return 0, fmt.Errorf("%w: %s #%d on page %d", ErrItemRange, k, n, page)
}

// syncPage rebuilds the page entry for kind k from the flat collection.
func (d *Document) syncPage(k types.Kind, page int) {
	items := d.ItemsOnPage(k, page)
	if items == nil {
		items = []types.Item{}
	}
	mirrored := deepclone.CloneSlice(items)
	d.Pages.SetPages(func(prev []types.Page) []types.Page {
		next := append([]types.Page(nil), prev...)
		next[page].SetItems(k, mirrored)
		return next
	})
}

func (d *Document) changed(page int) {
	d.events.Dispatch(event.TypeItemsChanged, event.ItemsChangedData{Page: page})
}

// AddPage appends an empty page and returns its index.
func (d *Document) AddPage() int {
	d.Pages.SetPages(func(prev []types.Page) []types.Page {
		return append(append([]types.Page(nil), prev...), emptyPage())
	})
	page := d.PageCount() - 1
	d.events.Dispatch(event.TypePageAdded, event.PageData{Page: page, Count: d.PageCount()})
	return page
}

// InsertPage inserts an empty page at index at, shifting later pages and
// their items up by one.
func (d *Document) InsertPage(at int) error {
	if at < 0 || at > d.PageCount() {
		return fmt.Errorf("%w: insert at %d", ErrPageRange, at)
	}
	for _, k := range types.Kinds {
		c := d.Collection(k)
		c.SetItems(shiftItems(c.items, func(p int) (int, bool) {
			if p >= at {
				return p + 1, true
			}
			return p, true
		}))
	}
	d.Pages.SetPages(func(prev []types.Page) []types.Page {
		next := make([]types.Page, 0, len(prev)+1)
		next = append(next, prev[:at]...)
		next = append(next, emptyPage())
		next = append(next, prev[at:]...)
		return renumberPages(next)
	})

	for _, fn := range d.onPageInserted {
		fn(at)
	}
	d.events.Dispatch(event.TypePageAdded, event.PageData{Page: at, Count: d.PageCount()})
	return nil
}

// RemovePage deletes page at and every item on it. Items on later pages
// move down by one. The last remaining page cannot be removed.
func (d *Document) RemovePage(at int) error {
	if err := d.checkPage(at); err != nil {
		return err
	}
	if d.PageCount() <= 1 {
		return ErrLastPage
	}

	for _, k := range types.Kinds {
		c := d.Collection(k)
		c.SetItems(shiftItems(c.items, func(p int) (int, bool) {
			switch {
			case p == at:
				return 0, false
			case p > at:
				return p - 1, true
			}
			return p, true
		}))
	}
	d.Pages.SetPages(func(prev []types.Page) []types.Page {
		next := make([]types.Page, 0, len(prev)-1)
		next = append(next, prev[:at]...)
		next = append(next, prev[at+1:]...)
		return renumberPages(next)
	})

	for _, fn := range d.onPageRemoved {
		fn(at)
	}
	logger.Debugf("document: removed page %d, %d left", at, d.PageCount())
	d.events.Dispatch(event.TypePageRemoved, event.PageData{Page: at, Count: d.PageCount()})
	return nil
}

// shiftItems maps every item's page through move, dropping items for which
// move returns false. Items without a page reference are kept as they are.
func shiftItems(items []types.Item, move func(page int) (int, bool)) []types.Item {
	out := make([]types.Item, 0, len(items))
	for _, it := range items {
		p, ok := history.PageOf(it)
		if !ok {
			out = append(out, it)
			continue
		}
		np, keep := move(p)
		if !keep {
			continue
		}
		if np != p {
			it = history.SetPageRef(it, np)
		}
		out = append(out, it)
	}
	return out
}

// renumberPages points every item in the page structure at its position.
func renumberPages(pages []types.Page) []types.Page {
	for i := range pages {
		for _, k := range types.Kinds {
			items := pages[i].Items(k)
			moved := make([]types.Item, len(items))
			for j, it := range items {
				if p, ok := history.PageOf(it); ok && p == i {
					moved[j] = it
				} else {
					moved[j] = history.SetPageRef(it, i)
				}
			}
			pages[i].SetItems(k, moved)
		}
	}
	return pages
}

// Snapshot returns a deep copy of the page structure, for export.
func (d *Document) Snapshot() []types.Page {
	return deepclone.Clone(d.Pages.pages)
}

// CheckConsistency verifies that for every page and kind, the flat
// collection filtered by page equals the page entry.
func (d *Document) CheckConsistency() error {
	for p, page := range d.Pages.pages {
		for _, k := range types.Kinds {
			flat := d.ItemsOnPage(k, p)
			paged := page.Items(k)
			if len(flat) == 0 && len(paged) == 0 {
				continue
			}
			if !reflect.DeepEqual(flat, paged) {
				return fmt.Errorf("%w: page %d %s: flat=%v pages=%v", ErrInconsistent, p, k, flat, paged)
			}
		}
	}
	return nil
}
