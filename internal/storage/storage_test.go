package storage

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
)

func openBackends(t *testing.T) map[string]KV {
	t.Helper()
	dir := t.TempDir()

	file, err := NewFile(filepath.Join(dir, "kv"))
	if err != nil {
		t.Fatalf("NewFile() error = %v", err)
	}
	db, err := OpenSQLite(filepath.Join(dir, "db", "history.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return map[string]KV{
		BackendMemory: NewMemory(),
		BackendFile:   file,
		BackendSQLite: db,
	}
}

func TestKVRoundTrip(t *testing.T) {
	for name, kv := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := kv.Get("undoStack"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Get(missing) error = %v, want ErrNotFound", err)
			}

			want := []byte(`{"0":[]}`)
			if err := kv.Set("undoStack", want); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			got, err := kv.Get("undoStack")
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if !bytes.Equal(got, want) {
				t.Errorf("Get() = %s, want %s", got, want)
			}

			if err := kv.Set("undoStack", []byte(`{}`)); err != nil {
				t.Fatalf("overwrite error = %v", err)
			}
			got, _ = kv.Get("undoStack")
			if string(got) != `{}` {
				t.Errorf("after overwrite Get() = %s, want {}", got)
			}

			if err := kv.Delete("undoStack"); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if _, err := kv.Get("undoStack"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get(after delete) error = %v, want ErrNotFound", err)
			}
			if err := kv.Delete("never-written"); err != nil {
				t.Errorf("Delete(missing) error = %v", err)
			}
		})
	}
}

func TestMemoryCopiesValues(t *testing.T) {
	m := NewMemory()
	in := []byte("abc")
	m.Set("k", in)
	in[0] = 'x'

	out, _ := m.Get("k")
	if string(out) != "abc" {
		t.Errorf("stored value changed through caller slice: %s", out)
	}
	out[1] = 'y'
	again, _ := m.Get("k")
	if string(again) != "abc" {
		t.Errorf("stored value changed through returned slice: %s", again)
	}
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "h.db")
	db, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	if err := db.Set("redoStack", []byte(`{"1":[]}`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	db.Close()

	db, err = OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer db.Close()
	got, err := db.Get("redoStack")
	if err != nil || string(got) != `{"1":[]}` {
		t.Errorf("Get() = %s, %v; want {\"1\":[]}, nil", got, err)
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		backend string
		path    string
		wantErr bool
	}{
		{"", "", false},
		{"memory", "", false},
		{"FILE", filepath.Join(dir, "files"), false},
		{"sqlite", filepath.Join(dir, "x.db"), false},
		{"file", "", true},
		{"sqlite", "", true},
		{"redis", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.backend+"|"+tt.path, func(t *testing.T) {
			kv, err := Open(tt.backend, tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open() error = %v, wantErr %v", err, tt.wantErr)
			}
			if kv != nil {
				kv.Close()
			}
		})
	}
}
