package document

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bethropolis/pagehist/internal/deepclone"
	"github.com/bethropolis/pagehist/internal/event"
	"github.com/bethropolis/pagehist/internal/logger"
	"github.com/bethropolis/pagehist/internal/storage"
	"github.com/bethropolis/pagehist/internal/types"
)

// StorageKey is where Save keeps the page-grouped structure.
const StorageKey = "pages"

// FromPages builds a document from a page-grouped structure. The flat
// collections are rebuilt from it, and every item is pointed at the page
// that holds it.
func FromPages(pages []types.Page, events *event.Manager) *Document {
	d := New(len(pages), events)
	if len(pages) == 0 {
		return d
	}
	next := renumberPages(deepclone.Clone(pages))
	for i := range next {
		for _, k := range types.Kinds {
			items := next[i].Items(k)
			if items == nil {
				items = []types.Item{}
				next[i].SetItems(k, items)
			}
			c := d.Collection(k)
			c.items = append(c.items, deepclone.CloneSlice(items)...)
		}
	}
	d.Pages.pages = next
	return d
}

// Save writes the page-grouped structure to kv as JSON.
func (d *Document) Save(kv storage.KV) error {
	data, err := json.Marshal(d.Pages.pages)
	if err != nil {
		return fmt.Errorf("encode pages: %w", err)
	}
	return kv.Set(StorageKey, data)
}

// Load restores a document saved with Save, or returns a new document with
// pageCount pages when nothing usable is stored.
func Load(kv storage.KV, pageCount int, events *event.Manager) *Document {
	raw, err := kv.Get(StorageKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.Warnf("document: loading pages: %v", err)
		}
		return New(pageCount, events)
	}
	var pages []types.Page
	if err := json.Unmarshal(raw, &pages); err != nil || len(pages) == 0 {
		logger.Warnf("document: stored pages unusable (%v); starting with %d empty pages", err, pageCount)
		return New(pageCount, events)
	}
	d := FromPages(pages, events)
	if err := d.CheckConsistency(); err != nil {
		logger.Warnf("document: %v", err)
	}
	logger.Debugf("document: restored %d pages", d.PageCount())
	return d
}

