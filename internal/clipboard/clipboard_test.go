package clipboard

import (
	"errors"
	"testing"
)

type fakeSystem struct {
	text     string
	writeErr error
	readErr  error
}

func (f *fakeSystem) ReadAll() (string, error) { return f.text, f.readErr }

func (f *fakeSystem) WriteAll(text string) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.text = text
	return nil
}

func TestRegisterOnly(t *testing.T) {
	m := NewManager(false)
	if m.UsesSystem() {
		t.Fatal("UsesSystem() = true with system clipboard disabled")
	}
	if _, ok := m.Paste(); ok {
		t.Error("Paste() on empty register ok = true")
	}

	buf := []byte(`{"textItems":[]}`)
	if err := m.Yank(buf); err != nil {
		t.Fatalf("Yank() error = %v", err)
	}
	buf[0] = 'X'

	got, ok := m.Paste()
	if !ok || string(got) != `{"textItems":[]}` {
		t.Errorf("Paste() = %q, %v", got, ok)
	}
}

func TestSystemClipboard(t *testing.T) {
	tests := []struct {
		name    string
		sys     *fakeSystem
		wantErr bool
		want    string
	}{
		{"write and read", &fakeSystem{}, false, "page"},
		{"write fails", &fakeSystem{writeErr: errors.New("no display")}, true, "page"},
		{"read fails", &fakeSystem{readErr: errors.New("no display")}, false, "page"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManagerWith(tt.sys)
			err := m.Yank([]byte("page"))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Yank() error = %v, wantErr %v", err, tt.wantErr)
			}
			got, ok := m.Paste()
			if !ok || string(got) != tt.want {
				t.Errorf("Paste() = %q, %v; want %q", got, ok, tt.want)
			}
		})
	}
}

func TestPastePrefersSystem(t *testing.T) {
	sys := &fakeSystem{}
	m := NewManagerWith(sys)
	m.Yank([]byte("ours"))
	sys.text = "theirs"

	if got, _ := m.Paste(); string(got) != "theirs" {
		t.Errorf("Paste() = %q, want theirs", got)
	}
}
