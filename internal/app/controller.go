package app

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/pretty"

	"github.com/bethropolis/pagehist/internal/clipboard"
	"github.com/bethropolis/pagehist/internal/document"
	"github.com/bethropolis/pagehist/internal/history"
	"github.com/bethropolis/pagehist/internal/input"
	"github.com/bethropolis/pagehist/internal/logger"
	"github.com/bethropolis/pagehist/internal/statusbar"
	"github.com/bethropolis/pagehist/internal/tui"
	"github.com/bethropolis/pagehist/internal/types"
)

const nudgeStep = 5.0

// Controller applies key actions to the document. Every mutating action
// records one undo snapshot of the active page before it changes anything.
type Controller struct {
	doc       *document.Document
	hist      *history.Engine
	clip      *clipboard.Manager
	statusBar *statusbar.StatusBar

	page     int
	lastKind types.Kind
	added    int
}

// NewController wires the demo's collaborators. hist must already be
// bound to doc.
func NewController(doc *document.Document, hist *history.Engine, clip *clipboard.Manager, sb *statusbar.StatusBar) *Controller {
	c := &Controller{doc: doc, hist: hist, clip: clip, statusBar: sb}
	c.RefreshStatus()
	return c
}

// Page returns the active page.
func (c *Controller) Page() int { return c.page }

// View collects the active page's items for drawing.
func (c *Controller) View() tui.PageView {
	v := tui.PageView{Page: c.page, PageCount: c.doc.PageCount()}
	for _, k := range types.Kinds {
		v.Items[k] = c.doc.ItemsOnPage(k, c.page)
	}
	return v
}

// RefreshStatus pushes page and history depth to the status bar.
func (c *Controller) RefreshStatus() {
	c.statusBar.SetPageInfo(c.page, c.doc.PageCount())
	c.statusBar.SetHistoryInfo(c.hist.UndoDepth(c.page), c.hist.RedoDepth(c.page))
}

// Do performs action and reports whether the app should quit.
func (c *Controller) Do(action input.Action) (quit bool) {
	logger.DebugTagf("app", "action %s on page %d", action, c.page)
	switch action {
	case input.ActionQuit:
		return true
	case input.ActionAddText:
		c.add(types.KindText)
	case input.ActionAddImage:
		c.add(types.KindImage)
	case input.ActionAddShape:
		c.add(types.KindShape)
	case input.ActionAddAnnotation:
		c.add(types.KindAnnotation)
	case input.ActionNudgeLeft:
		c.nudge(-nudgeStep)
	case input.ActionNudgeRight:
		c.nudge(nudgeStep)
	case input.ActionDeleteItem:
		c.deleteItem()
	case input.ActionPrevPage:
		c.gotoPage(c.page - 1)
	case input.ActionNextPage:
		c.gotoPage(c.page + 1)
	case input.ActionAddPage:
		c.page = c.doc.AddPage()
		c.statusBar.SetTemporaryMessage("Added page %d", c.page+1)
	case input.ActionDeletePage:
		c.deletePage()
	case input.ActionUndo:
		if !c.hist.Undo(c.page) {
			c.statusBar.SetTemporaryError("Nothing to undo on page %d", c.page+1)
		}
	case input.ActionRedo:
		if !c.hist.Redo(c.page) {
			c.statusBar.SetTemporaryError("Nothing to redo on page %d", c.page+1)
		}
	case input.ActionClearHistory:
		c.hist.Clear()
		c.statusBar.SetTemporaryMessage("History cleared on all pages")
	case input.ActionYank:
		c.yank()
	default:
		return false
	}
	c.RefreshStatus()
	return false
}

func (c *Controller) add(k types.Kind) {
	c.added++
	off := float64(c.added%10) * 20

	var item types.Item
	switch k {
	case types.KindText:
		item = document.NewTextItem(c.page, fmt.Sprintf("Text %d", c.added), 40+off, 40+off)
	case types.KindImage:
		item = document.NewImageItem(c.page, "data:image/png;base64,iVBORw0KGgo=", 60+off, 60+off, 120, 80)
	case types.KindShape:
		item = document.NewShapeItem(c.page, "rectangle", 80+off, 80+off, 100, 50)
	default:
		span := map[string]any{"xNorm": 0.1 + off/1000, "yNormTop": 0.1 + off/1000, "widthNorm": 0.3, "heightNorm": 0.02}
		item = document.NewAnnotation(c.page, document.AnnotationHighlight, []map[string]any{span})
	}

	// Only an add that will succeed records a step.
	if _, err := c.doc.CheckNewItem(item); err != nil {
		c.statusBar.SetTemporaryError("Add failed: %v", err)
		return
	}
	c.hist.PushSnapshotToUndo(c.page)
	if _, err := c.doc.AddItem(k, item); err != nil {
		c.statusBar.SetTemporaryError("Add failed: %v", err)
		return
	}
	c.lastKind = k
}

// lastItem picks the newest item of the kind last added, or of any kind.
func (c *Controller) lastItem() (types.Kind, int, bool) {
	if n := len(c.doc.ItemsOnPage(c.lastKind, c.page)); n > 0 {
		return c.lastKind, n - 1, true
	}
	for i := len(types.Kinds) - 1; i >= 0; i-- {
		k := types.Kinds[i]
		if n := len(c.doc.ItemsOnPage(k, c.page)); n > 0 {
			return k, n - 1, true
		}
	}
	return 0, 0, false
}

func (c *Controller) nudge(dx float64) {
	k, n, ok := c.lastItem()
	if !ok {
		c.statusBar.SetTemporaryError("No item on page %d", c.page+1)
		return
	}
	if err := c.doc.CheckItem(k, c.page, n); err != nil {
		c.statusBar.SetTemporaryError("Move failed: %v", err)
		return
	}
	c.hist.PushSnapshotToUndo(c.page)
	err := c.doc.UpdateItem(k, c.page, n, func(it types.Item) { shiftX(it, dx) })
	if err != nil {
		c.statusBar.SetTemporaryError("Move failed: %v", err)
	}
}

// shiftX moves a positioned item by dx, or an annotation's spans by dx
// percent of the page width.
func shiftX(it types.Item, dx float64) {
	if x, ok := number(it["x"]); ok {
		it["x"] = x + dx
		return
	}
	shift := func(span map[string]any) {
		if x, ok := number(span["xNorm"]); ok {
			span["xNorm"] = x + dx/100
		}
	}
	switch spans := it["spans"].(type) {
	case []map[string]any:
		for _, s := range spans {
			shift(s)
		}
	case []any:
		for _, s := range spans {
			if m, ok := s.(map[string]any); ok {
				shift(m)
			}
		}
	}
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

func (c *Controller) deleteItem() {
	k, n, ok := c.lastItem()
	if !ok {
		c.statusBar.SetTemporaryError("No item on page %d", c.page+1)
		return
	}
	if err := c.doc.CheckItem(k, c.page, n); err != nil {
		c.statusBar.SetTemporaryError("Delete failed: %v", err)
		return
	}
	c.hist.PushSnapshotToUndo(c.page)
	if err := c.doc.RemoveItem(k, c.page, n); err != nil {
		c.statusBar.SetTemporaryError("Delete failed: %v", err)
	}
}

func (c *Controller) gotoPage(page int) {
	if page < 0 || page >= c.doc.PageCount() {
		return
	}
	c.page = page
}

func (c *Controller) deletePage() {
	removed := c.page
	if err := c.doc.RemovePage(removed); err != nil {
		c.statusBar.SetTemporaryError("Cannot delete page: %v", err)
		return
	}
	if c.page >= c.doc.PageCount() {
		c.page = c.doc.PageCount() - 1
	}
	c.statusBar.SetTemporaryMessage("Deleted page %d", removed+1)
}

// yank copies the active page's snapshot as indented JSON.
func (c *Controller) yank() {
	snap := c.hist.TakeCurrentPageSnapshot(c.page)
	data, err := json.Marshal(snap)
	if err != nil {
		c.statusBar.SetTemporaryError("Yank failed: %v", err)
		return
	}
	data = pretty.Pretty(data)
	if err := c.clip.Yank(data); err != nil {
		c.statusBar.SetTemporaryMessage("Yanked page %d to internal register (%v)", c.page+1, err)
		return
	}
	c.statusBar.SetTemporaryMessage("Yanked page %d (%d items)", c.page+1, snap.Len())
}
