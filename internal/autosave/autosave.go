// Package autosave periodically asks the app to persist the document while
// it has unsaved changes. The saver never touches the document itself; it
// only calls the request function, which the app turns into a save on its
// main loop.
package autosave

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/bethropolis/pagehist/internal/logger"
)

// DefaultInterval is used when no interval is configured.
const DefaultInterval = 1 * time.Minute

// Saver requests a save on every tick while changes are pending.
type Saver struct {
	interval time.Duration
	request  func()
	dirty    atomic.Bool

	mutex    sync.Mutex
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// New creates a stopped saver. request must not block.
func New(interval time.Duration, request func()) *Saver {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Saver{interval: interval, request: request}
}

// Interval returns the tick interval.
func (s *Saver) Interval() time.Duration { return s.interval }

// MarkDirty records that the document changed since the last save.
func (s *Saver) MarkDirty() { s.dirty.Store(true) }

// MarkSaved clears the pending flag.
func (s *Saver) MarkSaved() { s.dirty.Store(false) }

// Dirty reports whether changes are pending.
func (s *Saver) Dirty() bool { return s.dirty.Load() }

// Start launches the ticker goroutine. Starting twice is a no-op.
func (s *Saver) Start() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.stopChan != nil {
		return
	}
	s.stopChan = make(chan struct{})
	s.wg.Add(1)
	go s.loop(s.interval, s.stopChan)
	logger.DebugTagf("autosave", "started with interval %v", s.interval)
}

// Stop signals the goroutine and waits for it to exit.
func (s *Saver) Stop() {
	s.mutex.Lock()
	stop := s.stopChan
	s.stopChan = nil
	s.mutex.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	s.wg.Wait()
	logger.DebugTagf("autosave", "stopped")
}

func (s *Saver) loop(interval time.Duration, stop <-chan struct{}) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.tick()
		case <-stop:
			return
		}
	}
}

func (s *Saver) tick() {
	if !s.dirty.Load() {
		return
	}
	logger.DebugTagf("autosave", "changes pending, requesting save")
	s.request()
}
