package config

import (
	"flag"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFileFormats(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
	}{
		{"toml", "config.toml", `
[logger]
level = "debug"
disabled_tags = ["clone"]

[history]
max_snapshots = 20
storage = "sqlite"
storage_path = "/tmp/h.db"

[editor]
pages = 5
system_clipboard = false
`},
		{"yaml", "config.yaml", `
logger:
  level: debug
  disabled_tags: [clone]
history:
  max_snapshots: 20
  storage: sqlite
  storage_path: /tmp/h.db
editor:
  pages: 5
  system_clipboard: false
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeFile(t, tt.file, tt.body), nil)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.Logger.LogLevel != "debug" {
				t.Errorf("Logger.LogLevel = %q, want debug", cfg.Logger.LogLevel)
			}
			if !reflect.DeepEqual(cfg.Logger.DisabledTags, []string{"clone"}) {
				t.Errorf("Logger.DisabledTags = %v, want [clone]", cfg.Logger.DisabledTags)
			}
			want := HistoryConfig{MaxSnapshots: 20, Storage: "sqlite", StoragePath: "/tmp/h.db"}
			if cfg.History != want {
				t.Errorf("History = %+v, want %+v", cfg.History, want)
			}
			if cfg.Editor.Pages != 5 || cfg.Editor.UseSystemClipboard() {
				t.Errorf("Editor = pages %d clipboard %v, want 5 false", cfg.Editor.Pages, cfg.Editor.UseSystemClipboard())
			}
		})
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"), nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.History.MaxSnapshots != DefaultMaxSnapshots || cfg.History.Storage != DefaultStorage {
		t.Errorf("History = %+v, want defaults", cfg.History)
	}
	if cfg.Editor.Pages != DefaultPages || !cfg.Editor.UseSystemClipboard() {
		t.Errorf("Editor = %+v, want defaults", cfg.Editor)
	}
}

func TestLoadBadFile(t *testing.T) {
	path := writeFile(t, "config.toml", "[history\nmax_snapshots = ")
	cfg, err := Load(path, nil)
	if err == nil {
		t.Fatal("Load() error = nil, want parse error")
	}
	if cfg == nil || cfg.History.MaxSnapshots != DefaultMaxSnapshots {
		t.Errorf("Load() should still return defaults, got %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		History: HistoryConfig{MaxSnapshots: -3, Storage: "redis"},
		Editor:  EditorConfig{Pages: -1},
	}
	cfg.validate()

	if cfg.History.MaxSnapshots != DefaultMaxSnapshots {
		t.Errorf("MaxSnapshots = %d, want %d", cfg.History.MaxSnapshots, DefaultMaxSnapshots)
	}
	if cfg.History.Storage != DefaultStorage {
		t.Errorf("Storage = %q, want %q", cfg.History.Storage, DefaultStorage)
	}
	if len(cfg.invalid) != 1 {
		t.Errorf("invalid = %v, want one entry", cfg.invalid)
	}
	if cfg.Editor.Pages != DefaultPages || cfg.Logger.LogLevel != "info" {
		t.Errorf("Editor.Pages = %d, LogLevel = %q", cfg.Editor.Pages, cfg.Logger.LogLevel)
	}
}

func TestValidateFillsStoragePath(t *testing.T) {
	for _, backend := range []string{"file", "sqlite"} {
		cfg := &Config{History: HistoryConfig{Storage: backend}}
		cfg.validate()
		if cfg.History.StoragePath == "" {
			t.Errorf("%s: StoragePath not defaulted", backend)
		}
	}
}

func TestFlagOverrides(t *testing.T) {
	path := writeFile(t, "config.toml", "[history]\nmax_snapshots = 20\nstorage = \"file\"\n")

	var f Flags
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f.DefineFlags(fs)
	args := []string{"-max-snapshots", "7", "-storage", "SQLite", "-loglevel", "warn", "-log-tags", "history, storage", "-system-clipboard=false"}
	if err := fs.Parse(args); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, &f)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.History.MaxSnapshots != 7 {
		t.Errorf("MaxSnapshots = %d, want 7", cfg.History.MaxSnapshots)
	}
	if cfg.History.Storage != "sqlite" {
		t.Errorf("Storage = %q, want sqlite", cfg.History.Storage)
	}
	if cfg.Logger.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cfg.Logger.LogLevel)
	}
	if !reflect.DeepEqual(cfg.Logger.EnabledTags, []string{"history", "storage"}) {
		t.Errorf("EnabledTags = %v", cfg.Logger.EnabledTags)
	}
	if cfg.Editor.UseSystemClipboard() {
		t.Error("system clipboard still enabled")
	}
}

func TestSplitCommaList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{" a , ,b ", []string{"a", "b"}},
	}
	for _, tt := range tests {
		if got := splitCommaList(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitCommaList(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestAutoSaveSettings(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		args     []string
		enabled  bool
		interval time.Duration
	}{
		{"defaults", "", nil, false, AutoSaveInterval},
		{"from file", "[autosave]\nenabled = true\ninterval = \"30s\"\n", nil, true, 30 * time.Second},
		{"bad interval", "[autosave]\nenabled = true\ninterval = \"soon\"\n", nil, true, AutoSaveInterval},
		{"flag enables", "", []string{"-autosave", "5s"}, true, 5 * time.Second},
		{"flag disables", "[autosave]\nenabled = true\n", []string{"-autosave", "off"}, false, AutoSaveInterval},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "config.toml", tt.file)
			var f Flags
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			f.DefineFlags(fs)
			if err := fs.Parse(tt.args); err != nil {
				t.Fatal(err)
			}

			cfg, err := Load(path, &f)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.AutoSave.Enabled != tt.enabled {
				t.Errorf("Enabled = %v, want %v", cfg.AutoSave.Enabled, tt.enabled)
			}
			if cfg.AutoSave.Duration() != tt.interval {
				t.Errorf("Duration() = %v, want %v", cfg.AutoSave.Duration(), tt.interval)
			}
		})
	}
}
