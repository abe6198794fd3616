// internal/config/flags.go
package config

import (
	"flag"
	"fmt"
	"strings"

	"github.com/bethropolis/pagehist/internal/logger"
)

// Flags holds values parsed from command-line flags.
// Use pointers to distinguish between unset flags and zero-value flags.
type Flags struct {
	ConfigFilePath  *string
	Version         *bool
	LogLevel        *string
	LogFilePath     *string
	Storage         *string
	StoragePath     *string
	MaxSnapshots    *int
	Pages           *int
	SystemClipboard *bool
	Theme           *string
	AutoSave        *string
	// logger filters
	EnableTags   *string
	DisableTags  *string
	EnablePkgs   *string
	DisablePkgs  *string
	EnableFiles  *string
	DisableFiles *string
	DebugLog     *bool

	fs *flag.FlagSet
}

// DefineFlags sets up the command-line flags on fs, or on the process
// flag set when fs is nil.
func (f *Flags) DefineFlags(fs *flag.FlagSet) {
	if fs == nil {
		fs = flag.CommandLine
	}
	f.fs = fs
	f.ConfigFilePath = fs.String("config", "", fmt.Sprintf("Path to TOML or YAML configuration file (default ~/.config/%s/%s)", AppName, DefaultConfigFileName))
	f.Version = fs.Bool("version", false, "Show version information and exit")
	f.LogLevel = fs.String("loglevel", "", "Log level (debug, info, warn, error) - Overrides config file")
	f.LogFilePath = fs.String("logfile", "", "Path to write log file (use '-' for stderr) - Overrides config file")
	f.Storage = fs.String("storage", "", "History storage backend (memory, file, sqlite) - Overrides config file")
	f.StoragePath = fs.String("storage-path", "", "Directory (file) or database path (sqlite) for history - Overrides config file")
	f.MaxSnapshots = fs.Int("max-snapshots", 0, "Undo steps kept per page - Overrides config file") // 0 means unset
	f.Pages = fs.Int("pages", 0, "Number of pages in a new document - Overrides config file")
	f.SystemClipboard = fs.Bool("system-clipboard", SystemClipboard, "Use system clipboard instead of internal register")
	f.Theme = fs.String("theme", "", "Path to a TOML theme file - Overrides config file")
	f.AutoSave = fs.String("autosave", "", "Autosave interval, e.g. 30s, or 'off' - Overrides config file")
	f.EnableTags = fs.String("log-tags", "", "Comma-separated list of tags to enable - Overrides config file")
	f.DisableTags = fs.String("log-disable-tags", "", "Comma-separated list of tags to disable - Overrides config file")
	f.EnablePkgs = fs.String("log-packages", "", "Comma-separated list of packages to enable - Overrides config file")
	f.DisablePkgs = fs.String("log-disable-packages", "", "Comma-separated list of packages to disable - Overrides config file")
	f.EnableFiles = fs.String("log-files", "", "Comma-separated list of files to enable - Overrides config file")
	f.DisableFiles = fs.String("log-disable-files", "", "Comma-separated list of files to disable - Overrides config file")
	f.DebugLog = fs.Bool("debug-log", false, "Enable verbose debug logging for the logger filtering system")
}

// ParseFlags defines and parses the process flags. It returns the
// remaining non-flag arguments.
func (f *Flags) ParseFlags() []string {
	f.DefineFlags(nil)
	flag.Parse()
	return flag.Args()
}

// ApplyOverrides updates cfg with the flags that were actually set.
func (f *Flags) ApplyOverrides(cfg *Config) {
	if f.fs == nil || !f.fs.Parsed() {
		return
	}
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "loglevel":
			if *f.LogLevel != "" {
				cfg.Logger.LogLevel = *f.LogLevel
			}
		case "logfile":
			cfg.Logger.LogFilePath = *f.LogFilePath // "-" is valid
		case "storage":
			if *f.Storage != "" {
				cfg.History.Storage = strings.ToLower(*f.Storage)
			}
		case "storage-path":
			cfg.History.StoragePath = *f.StoragePath
		case "max-snapshots":
			if *f.MaxSnapshots > 0 {
				cfg.History.MaxSnapshots = *f.MaxSnapshots
			}
		case "pages":
			if *f.Pages > 0 {
				cfg.Editor.Pages = *f.Pages
			}
		case "system-clipboard":
			v := *f.SystemClipboard
			cfg.Editor.SystemClipboard = &v
		case "theme":
			cfg.Editor.Theme = *f.Theme
		case "autosave":
			if strings.EqualFold(*f.AutoSave, "off") {
				cfg.AutoSave.Enabled = false
			} else if *f.AutoSave != "" {
				cfg.AutoSave.Enabled = true
				cfg.AutoSave.Interval = *f.AutoSave
			}
		case "log-tags":
			cfg.Logger.EnabledTags = splitCommaList(*f.EnableTags)
		case "log-disable-tags":
			cfg.Logger.DisabledTags = splitCommaList(*f.DisableTags)
		case "log-packages":
			cfg.Logger.EnabledPackages = splitCommaList(*f.EnablePkgs)
		case "log-disable-packages":
			cfg.Logger.DisabledPackages = splitCommaList(*f.DisablePkgs)
		case "log-files":
			cfg.Logger.EnabledFiles = splitCommaList(*f.EnableFiles)
		case "log-disable-files":
			cfg.Logger.DisabledFiles = splitCommaList(*f.DisableFiles)
		}
	})
	if f.DebugLog != nil && *f.DebugLog {
		logger.SetDebugFilter(true)
	}
}

func splitCommaList(list string) []string {
	if list == "" {
		return nil
	}
	items := strings.Split(list, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
