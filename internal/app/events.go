package app

import (
	"github.com/bethropolis/pagehist/internal/event"
	"github.com/bethropolis/pagehist/internal/logger"
)

func (a *App) subscribe() {
	a.eventManager.Subscribe(event.TypeHistoryChanged, a.handleHistoryChanged)
	a.eventManager.Subscribe(event.TypeHistoryPurged, a.handleHistoryPurged)
	a.eventManager.Subscribe(event.TypePageAdded, a.handlePagesChanged)
	a.eventManager.Subscribe(event.TypePageRemoved, a.handlePagesChanged)
	a.eventManager.Subscribe(event.TypeItemsChanged, a.handleItemsChanged)
}

// handleHistoryChanged updates the undo/redo depths when they belong to
// the page on screen.
func (a *App) handleHistoryChanged(e event.Event) bool {
	data, ok := e.Data.(event.HistoryChangedData)
	if !ok {
		logger.Warnf("App: HistoryChanged event with unexpected data type: %T", e.Data)
		return false
	}
	a.markDirty()
	if data.Page == a.controller.Page() {
		a.statusBar.SetHistoryInfo(data.UndoDepth, data.RedoDepth)
	}
	a.requestRedraw()
	return false
}

func (a *App) handleHistoryPurged(e event.Event) bool {
	if data, ok := e.Data.(event.HistoryPurgedData); ok && data.Removed {
		logger.DebugTagf("app", "history for page %d discarded", data.Page)
	}
	return false
}

func (a *App) handlePagesChanged(e event.Event) bool {
	if data, ok := e.Data.(event.PageData); ok {
		a.statusBar.SetPageInfo(a.controller.Page(), data.Count)
	}
	a.markDirty()
	a.requestRedraw()
	return false
}

func (a *App) handleItemsChanged(event.Event) bool {
	a.markDirty()
	a.requestRedraw()
	return false
}
