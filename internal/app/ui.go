package app

import (
	"github.com/bethropolis/pagehist/internal/tui"
)

// drawEditor clears the screen and redraws all components.
func (a *App) drawEditor() {
	screen := a.tuiManager.GetScreen()
	width, height := a.tuiManager.Size()

	a.tuiManager.Clear()
	tui.DrawPage(a.tuiManager, a.controller.View(), a.activeTheme, a.statusBarHeight)
	a.statusBar.Draw(screen, width, height, a.activeTheme)
	screen.HideCursor()
	a.tuiManager.Show()
}

// requestRedraw sends a redraw signal non-blockingly.
func (a *App) requestRedraw() {
	select {
	case a.redrawRequest <- struct{}{}:
	default:
	}
}
