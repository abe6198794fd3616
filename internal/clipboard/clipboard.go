// Package clipboard copies page snapshots out of the editor, to the system
// clipboard when one is available and to an internal register otherwise.
package clipboard

import (
	"github.com/atotto/clipboard"

	"github.com/bethropolis/pagehist/internal/logger"
)

// System is the platform clipboard.
type System interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

type atottoClipboard struct{}

func (atottoClipboard) ReadAll() (string, error)   { return clipboard.ReadAll() }
func (atottoClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

// Manager handles yank and paste.
type Manager struct {
	system   System // nil when disabled or unsupported
	register []byte
}

// NewManager creates a manager. With useSystem false, or on platforms the
// system clipboard does not support, only the internal register is used.
func NewManager(useSystem bool) *Manager {
	m := &Manager{}
	if useSystem {
		if clipboard.Unsupported {
			logger.WarnTagf("clipboard", "system clipboard unsupported; using internal register")
		} else {
			m.system = atottoClipboard{}
		}
	}
	return m
}

// NewManagerWith creates a manager backed by sys, which may be nil.
func NewManagerWith(sys System) *Manager {
	return &Manager{system: sys}
}

// UsesSystem reports whether yanks go to the system clipboard.
func (m *Manager) UsesSystem() bool { return m.system != nil }

// Yank stores data in the register and, if enabled, the system clipboard.
// A system clipboard failure is returned but the register still holds data.
func (m *Manager) Yank(data []byte) error {
	m.register = append(m.register[:0], data...)
	logger.Debugf("ClipboardManager: Yanked %d bytes", len(data))
	if m.system == nil {
		return nil
	}
	if err := m.system.WriteAll(string(data)); err != nil {
		logger.WarnTagf("clipboard", "system clipboard write failed: %v", err)
		return err
	}
	return nil
}

// Paste returns the system clipboard content, falling back to the internal
// register when the system clipboard is disabled, empty or unreadable.
// ok is false when there is nothing to paste.
func (m *Manager) Paste() (data []byte, ok bool) {
	if m.system != nil {
		text, err := m.system.ReadAll()
		if err == nil && text != "" {
			return []byte(text), true
		}
		if err != nil {
			logger.WarnTagf("clipboard", "system clipboard read failed: %v", err)
		}
	}
	if len(m.register) == 0 {
		return nil, false
	}
	return append([]byte(nil), m.register...), true
}
