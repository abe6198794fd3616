// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/bethropolis/pagehist/internal/logger"
	"github.com/bethropolis/pagehist/internal/storage"
)

// Config holds the application's combined configuration.
type Config struct {
	Logger   logger.Config  `toml:"logger" yaml:"logger"`
	History  HistoryConfig  `toml:"history" yaml:"history"`
	Editor   EditorConfig   `toml:"editor" yaml:"editor"`
	AutoSave AutoSaveConfig `toml:"autosave" yaml:"autosave"`

	// Collected before the logger exists; see ReportIssues.
	unknownKeys []string
	invalid     []string
}

// HistoryConfig controls the undo/redo engine and where its stacks live.
type HistoryConfig struct {
	MaxSnapshots int    `toml:"max_snapshots" yaml:"max_snapshots"`
	Storage      string `toml:"storage" yaml:"storage"`           // memory, file or sqlite
	StoragePath  string `toml:"storage_path" yaml:"storage_path"` // directory (file) or database (sqlite)
}

// EditorConfig holds editor-specific settings.
type EditorConfig struct {
	Pages           int    `toml:"pages" yaml:"pages"`
	SystemClipboard *bool  `toml:"system_clipboard" yaml:"system_clipboard"`
	StatusBarHeight int    `toml:"status_bar_height" yaml:"status_bar_height"`
	Theme           string `toml:"theme" yaml:"theme"` // path to a TOML theme file
}

// AutoSaveConfig controls periodic saving of the document pages.
type AutoSaveConfig struct {
	Enabled  bool   `toml:"enabled" yaml:"enabled"`
	Interval string `toml:"interval" yaml:"interval"` // time.ParseDuration format

	interval time.Duration
}

// Duration returns the validated interval.
func (a AutoSaveConfig) Duration() time.Duration { return a.interval }

// UseSystemClipboard reports the effective clipboard setting.
func (e EditorConfig) UseSystemClipboard() bool {
	if e.SystemClipboard == nil {
		return SystemClipboard
	}
	return *e.SystemClipboard
}

var (
	loadedConfig *Config
	loadOnce     sync.Once
	loadErr      error
)

// NewDefaultConfig creates a Config struct with default values.
func NewDefaultConfig() *Config {
	clip := SystemClipboard
	return &Config{
		Logger: logger.NewConfig(),
		History: HistoryConfig{
			MaxSnapshots: DefaultMaxSnapshots,
			Storage:      DefaultStorage,
		},
		Editor: EditorConfig{
			Pages:           DefaultPages,
			SystemClipboard: &clip,
			StatusBarHeight: StatusBarHeight,
		},
		AutoSave: AutoSaveConfig{
			Enabled:  AutoSaveEnabled,
			Interval: AutoSaveInterval.String(),
			interval: AutoSaveInterval,
		},
	}
}

// loadFromFile decodes filePath into a fresh Config. A missing file is
// not an error and yields an empty Config.
func loadFromFile(filePath string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(filePath)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("error reading config file '%s': %w", filePath, err)
	}

	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file '%s': %w", filePath, err)
		}
	default:
		metadata, err := toml.Decode(string(data), cfg)
		if err != nil {
			return cfg, fmt.Errorf("failed to parse config file '%s': %w", filePath, err)
		}
		if undecoded := metadata.Undecoded(); len(undecoded) > 0 {
			// Logger is not initialized yet; keep for the caller to report.
			cfg.unknownKeys = make([]string, len(undecoded))
			for i, k := range undecoded {
				cfg.unknownKeys[i] = k.String()
			}
		}
	}
	return cfg, nil
}

// merge copies every setting that is set in other onto c.
func (c *Config) merge(other *Config) {
	if other.Logger.LogLevel != "" {
		c.Logger = other.Logger
	}
	if other.History.MaxSnapshots != 0 {
		c.History.MaxSnapshots = other.History.MaxSnapshots
	}
	if other.History.Storage != "" {
		c.History.Storage = other.History.Storage
	}
	if other.History.StoragePath != "" {
		c.History.StoragePath = other.History.StoragePath
	}
	if other.Editor.Pages != 0 {
		c.Editor.Pages = other.Editor.Pages
	}
	if other.Editor.SystemClipboard != nil {
		c.Editor.SystemClipboard = other.Editor.SystemClipboard
	}
	if other.Editor.StatusBarHeight != 0 {
		c.Editor.StatusBarHeight = other.Editor.StatusBarHeight
	}
	if other.Editor.Theme != "" {
		c.Editor.Theme = other.Editor.Theme
	}
	if other.AutoSave.Enabled {
		c.AutoSave.Enabled = true
	}
	if other.AutoSave.Interval != "" {
		c.AutoSave.Interval = other.AutoSave.Interval
	}
	c.unknownKeys = append(c.unknownKeys, other.unknownKeys...)
}

// validate checks config values and resets invalid ones to defaults.
func (c *Config) validate() {
	defaults := NewDefaultConfig()

	if c.Logger.LogLevel == "" {
		c.Logger.LogLevel = defaults.Logger.LogLevel
	}

	if c.History.MaxSnapshots <= 0 {
		c.History.MaxSnapshots = defaults.History.MaxSnapshots
	}
	switch c.History.Storage {
	case storage.BackendMemory, storage.BackendFile, storage.BackendSQLite:
	default:
		c.invalid = append(c.invalid, fmt.Sprintf("history.storage %q (using %s)", c.History.Storage, defaults.History.Storage))
		c.History.Storage = defaults.History.Storage
	}
	if c.History.Storage != storage.BackendMemory && c.History.StoragePath == "" {
		c.History.StoragePath = DefaultStoragePath(c.History.Storage)
	}

	if c.Editor.Pages <= 0 {
		c.Editor.Pages = defaults.Editor.Pages
	}
	if c.Editor.SystemClipboard == nil {
		c.Editor.SystemClipboard = defaults.Editor.SystemClipboard
	}
	if c.Editor.StatusBarHeight <= 0 {
		c.Editor.StatusBarHeight = defaults.Editor.StatusBarHeight
	}

	interval, err := time.ParseDuration(c.AutoSave.Interval)
	if err != nil || interval <= 0 {
		if c.AutoSave.Interval != "" {
			c.invalid = append(c.invalid, fmt.Sprintf("autosave.interval %q (using %s)", c.AutoSave.Interval, defaults.AutoSave.Interval))
		}
		c.AutoSave.Interval = defaults.AutoSave.Interval
		interval = defaults.AutoSave.interval
	}
	c.AutoSave.interval = interval
}

// DefaultStoragePath returns where a persistent backend keeps its data
// when no path is configured.
func DefaultStoragePath(backend string) string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	base := filepath.Join(dir, AppName)
	if backend == storage.BackendSQLite {
		return filepath.Join(base, DefaultSQLiteFileName)
	}
	return filepath.Join(base, DefaultStorageDirName)
}

// Load builds a Config from defaults, the config file and flag overrides,
// in that order. An empty path means the default location under the
// user config directory.
func Load(configFilePath string, flags *Flags) (*Config, error) {
	cfg := NewDefaultConfig()

	effectivePath := configFilePath
	if effectivePath == "" {
		if configDir, err := os.UserConfigDir(); err == nil {
			effectivePath = filepath.Join(configDir, AppName, DefaultConfigFileName)
		}
	}

	var err error
	if effectivePath != "" {
		var fileCfg *Config
		fileCfg, err = loadFromFile(effectivePath)
		if err == nil {
			cfg.merge(fileCfg)
		}
	}

	if flags != nil {
		flags.ApplyOverrides(cfg)
	}

	cfg.validate()
	return cfg, err
}

// LoadConfig runs Load once and stores the result for Get. It should be
// called only once, typically from main.
func LoadConfig(configFilePath string, flags *Flags) (*Config, error) {
	loadOnce.Do(func() {
		loadedConfig, loadErr = Load(configFilePath, flags)
	})
	return loadedConfig, loadErr
}

// Get returns the loaded application configuration. Panics if LoadConfig wasn't called.
func Get() *Config {
	if loadedConfig == nil {
		panic("config.Get() called before config.LoadConfig()")
	}
	return loadedConfig
}

// ReportIssues logs the problems found while loading. Call it once the
// logger is initialized.
func (c *Config) ReportIssues() {
	if len(c.unknownKeys) > 0 {
		logger.WarnTagf("config", "unrecognized config keys: %v", c.unknownKeys)
	}
	for _, msg := range c.invalid {
		logger.WarnTagf("config", "invalid setting %s", msg)
	}
}
