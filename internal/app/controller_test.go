package app

import (
	"encoding/json"
	"testing"

	"github.com/bethropolis/pagehist/internal/clipboard"
	"github.com/bethropolis/pagehist/internal/document"
	"github.com/bethropolis/pagehist/internal/history"
	"github.com/bethropolis/pagehist/internal/input"
	"github.com/bethropolis/pagehist/internal/statusbar"
	"github.com/bethropolis/pagehist/internal/types"
)

func newTestController(t *testing.T, pages int) (*Controller, *document.Document, *history.Engine) {
	t.Helper()
	doc := document.New(pages, nil)
	h := history.New()
	if err := doc.BindHistory(h); err != nil {
		t.Fatal(err)
	}
	c := NewController(doc, h, clipboard.NewManager(false), statusbar.New(statusbar.DefaultConfig()))
	return c, doc, h
}

func do(c *Controller, actions ...input.Action) {
	for _, a := range actions {
		c.Do(a)
	}
}

func TestControllerAddUndoRedo(t *testing.T) {
	c, doc, h := newTestController(t, 2)

	do(c, input.ActionAddText, input.ActionAddShape)
	if h.UndoDepth(0) != 2 {
		t.Fatalf("UndoDepth = %d, want 2 (one per gesture)", h.UndoDepth(0))
	}

	do(c, input.ActionUndo)
	if n := len(doc.ItemsOnPage(types.KindShape, 0)); n != 0 {
		t.Errorf("shapes after undo = %d, want 0", n)
	}
	if n := len(doc.ItemsOnPage(types.KindText, 0)); n != 1 {
		t.Errorf("texts after undo = %d, want 1", n)
	}

	do(c, input.ActionRedo)
	if n := len(doc.ItemsOnPage(types.KindShape, 0)); n != 1 {
		t.Errorf("shapes after redo = %d, want 1", n)
	}
	if err := doc.CheckConsistency(); err != nil {
		t.Error(err)
	}
}

func TestControllerNudge(t *testing.T) {
	c, doc, _ := newTestController(t, 1)
	do(c, input.ActionAddText)
	x0 := doc.ItemsOnPage(types.KindText, 0)[0]["x"].(float64)

	do(c, input.ActionNudgeRight, input.ActionNudgeRight, input.ActionNudgeLeft)
	if x := doc.ItemsOnPage(types.KindText, 0)[0]["x"].(float64); x != x0+nudgeStep {
		t.Errorf("x = %v, want %v", x, x0+nudgeStep)
	}

	do(c, input.ActionUndo, input.ActionUndo)
	if x := doc.ItemsOnPage(types.KindText, 0)[0]["x"].(float64); x != x0+nudgeStep {
		t.Errorf("x after two undos = %v, want %v", x, x0+nudgeStep)
	}
}

func TestControllerNudgeAnnotation(t *testing.T) {
	c, doc, _ := newTestController(t, 1)
	do(c, input.ActionAddAnnotation)
	before := doc.ItemsOnPage(types.KindAnnotation, 0)[0]["spans"].([]map[string]any)[0]["xNorm"].(float64)

	do(c, input.ActionNudgeRight)
	after := doc.ItemsOnPage(types.KindAnnotation, 0)[0]["spans"].([]map[string]any)[0]["xNorm"].(float64)
	if after <= before {
		t.Errorf("xNorm = %v, want > %v", after, before)
	}
}

func TestControllerPages(t *testing.T) {
	c, doc, h := newTestController(t, 2)

	do(c, input.ActionNextPage, input.ActionAddImage)
	if c.Page() != 1 || h.UndoDepth(1) != 1 {
		t.Fatalf("page %d depth %d, want page 1 depth 1", c.Page(), h.UndoDepth(1))
	}
	do(c, input.ActionNextPage)
	if c.Page() != 1 {
		t.Errorf("moved past the last page: %d", c.Page())
	}

	do(c, input.ActionPrevPage, input.ActionDeletePage)
	if doc.PageCount() != 1 || c.Page() != 0 {
		t.Fatalf("PageCount %d page %d, want 1 and 0", doc.PageCount(), c.Page())
	}
	// Page 1's history followed it to page 0.
	if h.UndoDepth(0) != 1 {
		t.Errorf("UndoDepth(0) = %d, want 1", h.UndoDepth(0))
	}
	do(c, input.ActionUndo)
	if n := len(doc.ItemsOnPage(types.KindImage, 0)); n != 0 {
		t.Errorf("images after undo = %d, want 0", n)
	}

	do(c, input.ActionDeletePage)
	if doc.PageCount() != 1 {
		t.Error("last page was deleted")
	}

	do(c, input.ActionAddPage)
	if c.Page() != 1 || doc.PageCount() != 2 {
		t.Errorf("after add page: page %d count %d", c.Page(), doc.PageCount())
	}
}

func TestControllerDeleteItem(t *testing.T) {
	c, doc, _ := newTestController(t, 1)
	do(c, input.ActionDeleteItem)

	do(c, input.ActionAddText, input.ActionAddText, input.ActionDeleteItem)
	texts := doc.ItemsOnPage(types.KindText, 0)
	if len(texts) != 1 || texts[0]["text"] != "Text 1" {
		t.Errorf("texts = %v, want [Text 1]", texts)
	}
}

func TestControllerYank(t *testing.T) {
	c, _, _ := newTestController(t, 1)
	do(c, input.ActionAddText, input.ActionYank)

	data, ok := c.clip.Paste()
	if !ok {
		t.Fatal("nothing yanked")
	}
	var snap types.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("yanked data is not a snapshot: %v\n%s", err, data)
	}
	if len(snap.TextItems) != 1 || snap.TextItems[0]["text"] != "Text 1" {
		t.Errorf("yanked text items = %v", snap.TextItems)
	}
}

func TestControllerQuit(t *testing.T) {
	c, _, _ := newTestController(t, 1)
	if !c.Do(input.ActionQuit) {
		t.Error("Do(quit) = false")
	}
	if c.Do(input.ActionUndo) {
		t.Error("Do(undo) = true")
	}
}

func TestControllerFailedAddKeepsHistory(t *testing.T) {
	c, doc, h := newTestController(t, 2)
	do(c, input.ActionNextPage, input.ActionAddText, input.ActionUndo)

	// Removing page 0 underneath the controller leaves it on a page that
	// no longer exists; its history moved to page 0.
	if err := doc.RemovePage(0); err != nil {
		t.Fatal(err)
	}
	do(c, input.ActionAddText)

	if h.UndoDepth(1) != 0 {
		t.Errorf("UndoDepth(1) = %d, want 0 after a failed add", h.UndoDepth(1))
	}
	if h.RedoDepth(0) != 1 {
		t.Errorf("RedoDepth(0) = %d, want 1", h.RedoDepth(0))
	}
	if _, style := c.statusBar.Text(); style != "StatusBarError" {
		t.Errorf("status style = %q, want StatusBarError", style)
	}
}

func TestControllerClearHistory(t *testing.T) {
	c, _, h := newTestController(t, 2)
	do(c, input.ActionAddText, input.ActionNextPage, input.ActionAddShape, input.ActionUndo)

	do(c, input.ActionClearHistory)
	for p := 0; p < 2; p++ {
		if h.CanUndo(p) || h.CanRedo(p) {
			t.Errorf("page %d still has history", p)
		}
	}
	if text, _ := c.statusBar.Text(); text != "History cleared on all pages" {
		t.Errorf("status = %q", text)
	}
}
