// internal/event/manager.go
package event

import (
	"sync"

	"github.com/bethropolis/pagehist/internal/logger"
)

// Handler is an event subscriber. Returning true marks the event consumed
// and stops delivery to later handlers.
type Handler func(e Event) bool

// SubscriptionID identifies a handler for Unsubscribe.
type SubscriptionID uint64

type subscription struct {
	id      SubscriptionID
	handler Handler
}

// Manager handles event subscriptions and dispatching.
type Manager struct {
	mu       sync.RWMutex
	nextID   SubscriptionID
	handlers map[Type][]subscription
}

// NewManager creates a new event manager.
func NewManager() *Manager {
	return &Manager{
		handlers: make(map[Type][]subscription),
	}
}

// Subscribe adds a handler for eventType and returns its id.
func (m *Manager) Subscribe(eventType Type, handler Handler) SubscriptionID {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	m.handlers[eventType] = append(m.handlers[eventType], subscription{id: m.nextID, handler: handler})
	logger.DebugTagf("event", "handler %d subscribed to %v", m.nextID, eventType)
	return m.nextID
}

// Unsubscribe removes the handler registered under id.
func (m *Manager) Unsubscribe(id SubscriptionID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for t, subs := range m.handlers {
		for i, s := range subs {
			if s.id == id {
				m.handlers[t] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Dispatch delivers an event synchronously to the handlers of its type.
// Handlers may subscribe or unsubscribe during dispatch; the change takes
// effect from the next Dispatch.
func (m *Manager) Dispatch(eventType Type, data interface{}) {
	if m == nil {
		return
	}
	e := Event{Type: eventType, Data: data}

	m.mu.RLock()
	subs := append([]subscription(nil), m.handlers[eventType]...)
	m.mu.RUnlock()

	if len(subs) == 0 {
		return
	}
	logger.DebugTagf("event", "dispatching %v to %d handler(s)", eventType, len(subs))

	for _, s := range subs {
		if s.handler(e) {
			break
		}
	}
}
