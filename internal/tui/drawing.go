// internal/tui/drawing.go
package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/bethropolis/pagehist/internal/theme"
	"github.com/bethropolis/pagehist/internal/types"
)

// HelpLine lists the demo's key bindings.
const HelpLine = "t/i/s/a add  h/l nudge  x delete  [/] page  n new page  D drop page  u undo  r redo  C clear history  y yank  q quit"

// PageView is what DrawPage shows: one page's items per kind.
type PageView struct {
	Page      int
	PageCount int
	Items     [len(types.Kinds)][]types.Item
}

// DrawText draws text at (x, y) clipped to maxWidth cells and returns
// the number of cells used. Width is measured per grapheme cluster.
func DrawText(s tcell.Screen, x, y, maxWidth int, text string, style tcell.Style) int {
	used := 0
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		w := gr.Width()
		if used+w > maxWidth {
			break
		}
		runes := gr.Runes()
		if len(runes) > 0 {
			s.SetContent(x+used, y, runes[0], runes[1:], style)
		}
		for cw := 1; cw < w; cw++ {
			s.SetContent(x+used+cw, y, ' ', nil, style)
		}
		used += w
	}
	return used
}

// DrawPage draws view above the status bar, one section per item kind.
func DrawPage(t *TUI, view PageView, activeTheme *theme.Theme, statusBarHeight int) {
	if activeTheme == nil {
		activeTheme = theme.GetCurrentTheme()
	}
	screen := t.GetScreen()
	width, height := t.Size()
	viewHeight := height - statusBarHeight
	if viewHeight <= 0 || width <= 0 {
		return
	}

	defaultStyle := activeTheme.GetStyle("Default")
	for y := 0; y < viewHeight; y++ {
		for x := 0; x < width; x++ {
			screen.SetContent(x, y, ' ', nil, defaultStyle)
		}
	}

	lines := pageLines(view)
	// Keep the help line visible on short screens.
	if len(lines) > viewHeight {
		lines = append(lines[:viewHeight-1], lines[len(lines)-1])
	}
	for y, l := range lines {
		DrawText(screen, l.indent, y, width-l.indent, l.text, activeTheme.GetStyle(l.style))
	}
}

type line struct {
	indent int
	text   string
	style  string
}

func pageLines(view PageView) []line {
	lines := []line{{text: fmt.Sprintf("Page %d of %d", view.Page+1, view.PageCount), style: "Header"}}
	for _, k := range types.Kinds {
		items := view.Items[k]
		lines = append(lines, line{text: fmt.Sprintf("%s (%d)", k, len(items)), style: "Section"})
		if len(items) == 0 {
			lines = append(lines, line{indent: 2, text: "none", style: "Empty"})
			continue
		}
		for n, it := range items {
			lines = append(lines, line{
				indent: 2,
				text:   fmt.Sprintf("#%d %s", n, Describe(k, it)),
				style:  "item." + kindStyle(k),
			})
		}
	}
	return append(lines, line{text: HelpLine, style: "Help"})
}

func kindStyle(k types.Kind) string {
	switch k {
	case types.KindText:
		return "text"
	case types.KindImage:
		return "image"
	case types.KindShape:
		return "shape"
	}
	return "annotation"
}

// Describe renders a one-line summary of item.
func Describe(k types.Kind, item types.Item) string {
	at := fmt.Sprintf("at (%v, %v)", item["x"], item["y"])
	switch k {
	case types.KindText:
		return fmt.Sprintf("%q %s", item["text"], at)
	case types.KindImage:
		data, _ := item["data"].(string)
		if len(data) > 24 {
			data = data[:24] + "…"
		}
		return fmt.Sprintf("%v×%v %s %s", item["width"], item["height"], at, data)
	case types.KindShape:
		return fmt.Sprintf("%v %v×%v %s", item["type"], item["width"], item["height"], at)
	}

	spans := 0
	switch s := item["spans"].(type) {
	case []map[string]any:
		spans = len(s)
	case []any:
		spans = len(s)
	}
	parts := []string{fmt.Sprint(item["type"]), fmt.Sprintf("%d span(s)", spans)}
	if c, ok := item["color"].(string); ok {
		parts = append(parts, c)
	}
	return strings.Join(parts, ", ")
}
