package history

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/bethropolis/pagehist/internal/storage"
	"github.com/bethropolis/pagehist/internal/types"
)

func TestDecodeStacks(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		pages map[int]int // page -> depth
	}{
		{"empty input", ``, map[int]int{}},
		{"not json", `{undo`, map[int]int{}},
		{"array", `[1,2,3]`, map[int]int{}},
		{"string", `"hello"`, map[int]int{}},
		{"valid", `{"0":[{"textItems":[{"text":"A","index":0}]}],"2":[{},{}]}`, map[int]int{0: 1, 2: 2}},
		{"bad key skipped", `{"x":[{}],"1":[{}]}`, map[int]int{1: 1}},
		{"negative key skipped", `{"-1":[{}],"1":[{}]}`, map[int]int{1: 1}},
		{"non-array value skipped", `{"0":"nope","1":[{}]}`, map[int]int{1: 1}},
		{"bad snapshot skipped", `{"0":[{"textItems":5}],"1":[]}`, map[int]int{1: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeStacks([]byte(tt.raw))
			if got == nil {
				t.Fatal("DecodeStacks() = nil, want empty state")
			}
			if len(got) != len(tt.pages) {
				t.Fatalf("DecodeStacks() pages = %v, want %v", got, tt.pages)
			}
			for page, depth := range tt.pages {
				if n := len(got[page]); n != depth {
					t.Errorf("page %d depth = %d, want %d", page, n, depth)
				}
			}
		})
	}
}

func TestEncodeDecodePreservesCapturedKinds(t *testing.T) {
	in := types.Stacks{4: {{
		TextItems:  []types.Item{{"text": "A", "index": 4}},
		ImageItems: []types.Item{},
	}}}

	raw, err := EncodeStacks(in)
	if err != nil {
		t.Fatalf("EncodeStacks() error = %v", err)
	}
	got := DecodeStacks(raw)[4][0]

	if got.ImageItems == nil {
		t.Error("empty image capture decoded as not captured")
	}
	if got.ShapeItems != nil {
		t.Error("uncaptured shapes decoded as captured")
	}
	if p, ok := PageOf(got.TextItems[0]); !ok || p != 4 {
		t.Errorf("PageOf(decoded) = %d, %v; want 4, true", p, ok)
	}
}

func TestSnapshotStoreBoundAndOrder(t *testing.T) {
	s := NewSnapshotStore("undo", 2, nil)
	for _, text := range []string{"a", "b", "c"} {
		s.Push(0, snapFor(0, text))
	}
	if s.Len(0) != 2 {
		t.Fatalf("Len = %d, want 2", s.Len(0))
	}

	for _, want := range []string{"c", "b"} {
		top, ok := s.Pop(0)
		if !ok {
			t.Fatal("Pop() ok = false")
		}
		if got := top.TextItems[0]["text"]; got != want {
			t.Errorf("Pop() text = %v, want %v", got, want)
		}
	}
	if _, ok := s.Pop(0); ok {
		t.Error("Pop() on empty stack ok = true")
	}
}

func TestSnapshotStoreTrimsLoadedState(t *testing.T) {
	kv := storage.NewMemory()
	kv.Set("undo", []byte(`{"0":[{},{},{},{},{}]}`))

	s := NewSnapshotStore("undo", 3, KVPersister{KV: kv})
	if got := s.Len(0); got != 3 {
		t.Errorf("Len after load = %d, want 3", got)
	}
}

func TestSnapshotStoreSQLitePersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	kv, err := storage.OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}

	s := NewSnapshotStore(RedoStackKey, DefaultMaxSnapshots, KVPersister{KV: kv})
	s.Push(1, snapFor(1, "saved"))
	s.Save()
	kv.Close()

	kv, err = storage.OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer kv.Close()

	got := NewSnapshotStore(RedoStackKey, DefaultMaxSnapshots, KVPersister{KV: kv})
	if got.Len(1) != 1 {
		t.Fatalf("Len(1) after reopen = %d, want 1", got.Len(1))
	}
	top, _ := got.Pop(1)
	if top.TextItems[0]["text"] != "saved" {
		t.Errorf("text = %v, want saved", top.TextItems[0]["text"])
	}
}

func TestSnapshotStoreCopyIsIndependent(t *testing.T) {
	s := NewSnapshotStore("undo", 0, nil)
	s.Push(0, snapFor(0, "a"))

	c := s.Copy()
	c[0][0].TextItems[0]["text"] = "changed"

	top, _ := s.Pop(0)
	if top.TextItems[0]["text"] != "a" {
		t.Errorf("store shares memory with Copy(): %v", top.TextItems[0]["text"])
	}
}

func TestSnapshotStoreDepths(t *testing.T) {
	s := NewSnapshotStore("undo", 0, nil)
	s.Push(0, snapFor(0, "a"))
	s.Push(0, snapFor(0, "b"))
	s.Push(3, snapFor(3, "c"))

	want := map[int]int{0: 2, 3: 1}
	if got := s.Depths(); !reflect.DeepEqual(got, want) {
		t.Errorf("Depths() = %v, want %v", got, want)
	}
}
