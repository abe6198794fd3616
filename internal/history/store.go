package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/bethropolis/pagehist/internal/deepclone"
	"github.com/bethropolis/pagehist/internal/logger"
	"github.com/bethropolis/pagehist/internal/storage"
	"github.com/bethropolis/pagehist/internal/types"
)

// Persister loads and saves one page-partitioned stack under a key.
// Load never fails: missing or malformed data yields an empty state.
type Persister interface {
	Load(key string) types.Stacks
	Save(key string, stacks types.Stacks) error
}

// KVPersister stores stacks as JSON objects in a storage.KV.
type KVPersister struct {
	KV storage.KV
}

func (p KVPersister) Load(key string) types.Stacks {
	raw, err := p.KV.Get(key)
	if errors.Is(err, storage.ErrNotFound) {
		return types.Stacks{}
	}
	if err != nil {
		logger.WarnTagf("history", "loading %s: %v", key, err)
		return types.Stacks{}
	}
	return DecodeStacks(raw)
}

func (p KVPersister) Save(key string, stacks types.Stacks) error {
	data, err := EncodeStacks(stacks)
	if err != nil {
		return err
	}
	return p.KV.Set(key, data)
}

// PersistFuncs adapts plain load/save functions to Persister. Either may
// be nil.
type PersistFuncs struct {
	LoadFunc func(key string) types.Stacks
	SaveFunc func(key string, stacks types.Stacks) error
}

func (p PersistFuncs) Load(key string) types.Stacks {
	if p.LoadFunc == nil {
		return types.Stacks{}
	}
	if s := p.LoadFunc(key); s != nil {
		return s
	}
	return types.Stacks{}
}

func (p PersistFuncs) Save(key string, stacks types.Stacks) error {
	if p.SaveFunc == nil {
		return nil
	}
	return p.SaveFunc(key, stacks)
}

// EncodeStacks serializes stacks as {"<page>": [Snapshot, ...], ...}.
func EncodeStacks(stacks types.Stacks) ([]byte, error) {
	out := make(map[string][]types.Snapshot, len(stacks))
	for page, snaps := range stacks {
		if snaps == nil {
			snaps = []types.Snapshot{}
		}
		out[strconv.Itoa(page)] = snaps
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode stacks: %w", err)
	}
	return data, nil
}

// DecodeStacks parses the persisted form. Keys are coerced back to page
// numbers; entries with a non-numeric key or a value that is not an array
// of snapshots are dropped with a warning.
func DecodeStacks(raw []byte) types.Stacks {
	out := types.Stacks{}
	if len(raw) == 0 {
		return out
	}
	if !gjson.ValidBytes(raw) {
		logger.WarnTagf("history", "persisted history is not valid JSON; starting empty")
		return out
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		logger.WarnTagf("history", "persisted history is %s, not an object; starting empty", doc.Type)
		return out
	}

	doc.ForEach(func(key, value gjson.Result) bool {
		page, err := strconv.Atoi(key.String())
		if err != nil || page < 0 {
			logger.WarnTagf("history", "skipping history entry with key %q", key.String())
			return true
		}
		if !value.IsArray() {
			logger.WarnTagf("history", "skipping history for page %d: not an array", page)
			return true
		}
		var snaps []types.Snapshot
		if err := json.Unmarshal([]byte(value.Raw), &snaps); err != nil {
			logger.WarnTagf("history", "skipping history for page %d: %v", page, err)
			return true
		}
		out[page] = snaps
		return true
	})
	return out
}

// SnapshotStore is one page-partitioned stack (undo or redo) with a
// per-page depth bound. It is not safe for concurrent use; the Engine
// serializes access.
type SnapshotStore struct {
	key     string
	max     int
	stacks  types.Stacks
	persist Persister
}

// NewSnapshotStore loads the stack stored under key. Pages loaded deeper
// than max are trimmed from the oldest end.
func NewSnapshotStore(key string, max int, p Persister) *SnapshotStore {
	if max <= 0 {
		max = DefaultMaxSnapshots
	}
	if p == nil {
		p = PersistFuncs{}
	}
	s := &SnapshotStore{key: key, max: max, persist: p, stacks: p.Load(key)}
	for page, snaps := range s.stacks {
		s.stacks[page] = s.bound(snaps)
	}
	return s
}

func (s *SnapshotStore) bound(snaps []types.Snapshot) []types.Snapshot {
	if len(snaps) <= s.max {
		return snaps
	}
	return append([]types.Snapshot(nil), snaps[len(snaps)-s.max:]...)
}

// Len returns the depth of page's stack.
func (s *SnapshotStore) Len(page int) int {
	return len(s.stacks[page])
}

// Push appends snap to page's stack, evicting the oldest entries past max.
func (s *SnapshotStore) Push(page int, snap types.Snapshot) {
	s.stacks[page] = s.bound(append(s.stacks[page], snap))
}

// Pop removes and returns the newest snapshot of page.
func (s *SnapshotStore) Pop(page int) (types.Snapshot, bool) {
	stack := s.stacks[page]
	if len(stack) == 0 {
		return types.Snapshot{}, false
	}
	top := stack[len(stack)-1]
	stack[len(stack)-1] = types.Snapshot{}
	s.stacks[page] = stack[:len(stack)-1]
	return top, true
}

// Clear empties page's stack.
func (s *SnapshotStore) Clear(page int) {
	s.stacks[page] = []types.Snapshot{}
}

// Reset empties every page.
func (s *SnapshotStore) Reset() {
	s.stacks = types.Stacks{}
}

// Replace swaps in a whole new state, e.g. after a page remap.
func (s *SnapshotStore) Replace(stacks types.Stacks) {
	if stacks == nil {
		stacks = types.Stacks{}
	}
	s.stacks = stacks
}

// Stacks returns the live state. Callers must not modify it.
func (s *SnapshotStore) Stacks() types.Stacks {
	return s.stacks
}

// Copy returns a deep copy of the state, safe to hand to observers.
func (s *SnapshotStore) Copy() types.Stacks {
	return deepclone.Clone(s.stacks)
}

// Depths returns the stack depth of every page that has an entry.
func (s *SnapshotStore) Depths() map[int]int {
	out := make(map[int]int, len(s.stacks))
	for page, snaps := range s.stacks {
		out[page] = len(snaps)
	}
	return out
}

// Save writes the state through the persister. Failures are logged and
// swallowed: history must keep working even when storage does not.
func (s *SnapshotStore) Save() {
	if err := s.persist.Save(s.key, s.stacks); err != nil {
		logger.ErrorTagf("history", "saving %s failed: %v", s.key, err)
	}
}
