// internal/app/app.go
package app

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/pagehist/internal/autosave"
	"github.com/bethropolis/pagehist/internal/clipboard"
	"github.com/bethropolis/pagehist/internal/config"
	"github.com/bethropolis/pagehist/internal/document"
	"github.com/bethropolis/pagehist/internal/event"
	"github.com/bethropolis/pagehist/internal/history"
	"github.com/bethropolis/pagehist/internal/input"
	"github.com/bethropolis/pagehist/internal/logger"
	"github.com/bethropolis/pagehist/internal/statusbar"
	"github.com/bethropolis/pagehist/internal/storage"
	"github.com/bethropolis/pagehist/internal/theme"
	"github.com/bethropolis/pagehist/internal/tui"
)

// App encapsulates the components and main loop of the demo editor.
type App struct {
	tuiManager      *tui.TUI
	controller      *Controller
	doc             *document.Document
	history         *history.Engine
	statusBar       *statusbar.StatusBar
	eventManager    *event.Manager
	inputProcessor  *input.InputProcessor
	activeTheme     *theme.Theme
	kv              storage.KV
	saver           *autosave.Saver // nil when autosave is off
	statusBarHeight int

	quit          chan struct{}
	redrawRequest chan struct{}
	saveRequest   chan struct{}
	tcellEvents   chan tcell.Event
}

// NewApp builds the app on the real terminal. kv holds both the history
// stacks and the document pages.
func NewApp(cfg *config.Config, kv storage.KV) (*App, error) {
	tuiManager, err := tui.New()
	if err != nil {
		return nil, fmt.Errorf("TUI initialization failed: %w", err)
	}
	return newApp(cfg, kv, tuiManager), nil
}

func newApp(cfg *config.Config, kv storage.KV, tuiManager *tui.TUI) *App {
	eventManager := event.NewManager()

	doc := document.Load(kv, cfg.Editor.Pages, eventManager)
	hist := history.New(
		history.WithMaxSnapshots(cfg.History.MaxSnapshots),
		history.WithStorage(kv),
		history.WithEventManager(eventManager),
	)
	if err := doc.BindHistory(hist); err != nil {
		// A fresh engine is always unbound.
		logger.Errorf("App: binding history: %v", err)
	}

	activeTheme := theme.GetCurrentTheme()
	if cfg.Editor.Theme != "" {
		if t, err := theme.LoadThemeFromFile(cfg.Editor.Theme); err != nil {
			logger.Warnf("App: %v; using %s", err, activeTheme.Name)
		} else {
			theme.SetCurrentTheme(t)
			activeTheme = t
		}
	}

	statusBar := statusbar.New(statusbar.DefaultConfig())
	statusBar.SetBackend(cfg.History.Storage)

	a := &App{
		tuiManager:      tuiManager,
		doc:             doc,
		history:         hist,
		statusBar:       statusBar,
		eventManager:    eventManager,
		inputProcessor:  input.NewInputProcessor(),
		activeTheme:     activeTheme,
		kv:              kv,
		statusBarHeight: cfg.Editor.StatusBarHeight,
		quit:            make(chan struct{}),
		redrawRequest:   make(chan struct{}, 1),
		saveRequest:     make(chan struct{}, 1),
		tcellEvents:     make(chan tcell.Event, 16),
	}
	if cfg.AutoSave.Enabled {
		a.saver = autosave.New(cfg.AutoSave.Duration(), a.requestSave)
	}
	a.controller = NewController(doc, hist, clipboard.NewManager(cfg.Editor.UseSystemClipboard()), statusBar)
	a.subscribe()
	return a
}

// Run starts the event pump and runs the main loop until quit. All state
// changes and drawing happen on the calling goroutine.
func (a *App) Run() error {
	defer a.tuiManager.Close()

	go a.pollEvents()
	if a.saver != nil {
		a.saver.Start()
		defer a.saver.Stop()
	}

	a.eventManager.Dispatch(event.TypeAppReady, nil)
	a.statusBar.SetTemporaryMessage("pagehist - %s", tui.HelpLine)
	a.requestRedraw()

	for {
		select {
		case <-a.quit:
			a.eventManager.Dispatch(event.TypeAppQuit, nil)
			return a.save()
		case ev := <-a.tcellEvents:
			if a.handleEvent(ev) {
				a.requestRedraw()
			}
		case <-a.redrawRequest:
			a.drawEditor()
		case <-a.saveRequest:
			if err := a.save(); err != nil {
				logger.Errorf("App: autosave: %v", err)
				a.statusBar.SetTemporaryError("Autosave failed: %v", err)
				a.requestRedraw()
			}
		}
	}
}

// pollEvents forwards terminal events to the main loop.
func (a *App) pollEvents() {
	for {
		ev := a.tuiManager.PollEvent()
		if ev == nil {
			return
		}
		select {
		case a.tcellEvents <- ev:
		case <-a.quit:
			return
		}
	}
}

// handleEvent processes one terminal event and reports whether to redraw.
func (a *App) handleEvent(ev tcell.Event) bool {
	switch e := ev.(type) {
	case *tcell.EventResize:
		a.tuiManager.GetScreen().Sync()
		return true
	case *tcell.EventKey:
		action := a.inputProcessor.ProcessEvent(e)
		if action.Action == input.ActionUnknown {
			return false
		}
		if a.controller.Do(action.Action) {
			a.requestQuit()
			return false
		}
		return true
	}
	return false
}

func (a *App) requestQuit() {
	select {
	case <-a.quit:
	default:
		close(a.quit)
	}
}

// requestSave asks the main loop to save. Safe from any goroutine.
func (a *App) requestSave() {
	select {
	case a.saveRequest <- struct{}{}:
	default:
	}
}

// markDirty records unsaved document changes for autosave.
func (a *App) markDirty() {
	if a.saver != nil {
		a.saver.MarkDirty()
	}
}

// save stores the document pages next to the history stacks.
func (a *App) save() error {
	if err := a.doc.Save(a.kv); err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	if a.saver != nil {
		a.saver.MarkSaved()
	}
	logger.Infof("App: saved %d pages", a.doc.PageCount())
	return nil
}
