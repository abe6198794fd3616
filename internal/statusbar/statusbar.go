// internal/statusbar/statusbar.go
package statusbar

import (
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/bethropolis/pagehist/internal/theme"
)

// Config defines the appearance and behavior of the status bar.
type Config struct {
	MessageTimeout time.Duration
}

// DefaultConfig provides sensible defaults.
func DefaultConfig() Config {
	return Config{MessageTimeout: 4 * time.Second}
}

// StatusBar shows the active page, its undo/redo depths and transient
// messages.
type StatusBar struct {
	config Config
	mu     sync.RWMutex

	page      int
	pageCount int
	undoDepth int
	redoDepth int
	backend   string

	tempMessage     string
	tempMessageTime time.Time
	tempIsError     bool

	now func() time.Time
}

// New creates a new StatusBar with the given configuration.
func New(config Config) *StatusBar {
	return &StatusBar{config: config, now: time.Now}
}

// SetPageInfo updates the active page (zero-based) and page count.
func (sb *StatusBar) SetPageInfo(page, count int) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.page, sb.pageCount = page, count
}

// SetHistoryInfo updates the undo/redo depths shown.
func (sb *StatusBar) SetHistoryInfo(undo, redo int) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.undoDepth, sb.redoDepth = undo, redo
}

// SetBackend names the history storage backend.
func (sb *StatusBar) SetBackend(name string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.backend = name
}

// SetTemporaryMessage displays a message for the configured duration.
func (sb *StatusBar) SetTemporaryMessage(format string, args ...interface{}) {
	sb.setMessage(false, format, args...)
}

// SetTemporaryError is SetTemporaryMessage in the error style.
func (sb *StatusBar) SetTemporaryError(format string, args ...interface{}) {
	sb.setMessage(true, format, args...)
}

func (sb *StatusBar) setMessage(isErr bool, format string, args ...interface{}) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = fmt.Sprintf(format, args...)
	sb.tempMessageTime = sb.now()
	sb.tempIsError = isErr
}

// ResetTemporaryMessage clears any temporary message being displayed
func (sb *StatusBar) ResetTemporaryMessage() {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = ""
	sb.tempMessageTime = time.Time{}
}

// Text returns the line Draw would show and the theme style name for it.
// An expired temporary message is cleared.
func (sb *StatusBar) Text() (text, style string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	active := !sb.tempMessageTime.IsZero() && sb.now().Sub(sb.tempMessageTime) <= sb.config.MessageTimeout
	if !sb.tempMessageTime.IsZero() && !active {
		sb.tempMessage = ""
		sb.tempMessageTime = time.Time{}
	}
	if active {
		if sb.tempIsError {
			return sb.tempMessage, "StatusBarError"
		}
		return sb.tempMessage, "StatusBarMessage"
	}
	return sb.defaultText(), "StatusBar"
}

// defaultText must be called with sb.mu held.
func (sb *StatusBar) defaultText() string {
	backend := sb.backend
	if backend == "" {
		backend = "memory"
	}
	return fmt.Sprintf("Page %d/%d -- undo %d  redo %d -- history: %s",
		sb.page+1, sb.pageCount, sb.undoDepth, sb.redoDepth, backend)
}

// Draw renders the status bar on the last screen line.
func (sb *StatusBar) Draw(screen tcell.Screen, width, height int, activeTheme *theme.Theme) {
	if height <= 0 || width <= 0 {
		return
	}
	if activeTheme == nil {
		activeTheme = theme.GetCurrentTheme()
	}
	y := height - 1

	text, styleName := sb.Text()
	style := activeTheme.GetStyle(styleName)

	for x := 0; x < width; x++ {
		screen.SetContent(x, y, ' ', nil, style)
	}

	gr := uniseg.NewGraphemes(text)
	currentX := 0
	for gr.Next() {
		clusterWidth := gr.Width()
		if currentX+clusterWidth > width {
			break
		}
		if runes := gr.Runes(); len(runes) > 0 {
			screen.SetContent(currentX, y, runes[0], runes[1:], style)
		}
		currentX += clusterWidth
	}
}
