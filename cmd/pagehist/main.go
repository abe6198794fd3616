// cmd/pagehist/main.go
package main

import (
	"fmt"
	"io"
	stlog "log" // Use standard log for FATAL errors before logger is ready
	"os"

	"github.com/bethropolis/pagehist/internal/app"
	"github.com/bethropolis/pagehist/internal/config"
	"github.com/bethropolis/pagehist/internal/logger"
	"github.com/bethropolis/pagehist/internal/storage"
)

func main() {
	// --- Argument & Flag Parsing ---
	flags := &config.Flags{}
	flags.ParseFlags()

	if *flags.Version {
		fmt.Printf("%s %s\n", config.AppName, config.Version)
		return
	}

	// --- Configuration ---
	cfg, err := config.LoadConfig(*flags.ConfigFilePath, flags)
	if err != nil {
		// Defaults are still usable; report once the logger is up.
		stlog.Printf("Warning: %v", err)
	}

	// --- Logger Initialization ---
	// The terminal belongs to tcell, so stderr is only used when asked for.
	var logOutput io.Writer
	logPath := cfg.Logger.LogFilePath
	if logPath == "" {
		logPath = config.DefaultLogFileName
	}
	if logPath == "-" {
		logOutput = os.Stderr
	} else {
		logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			stlog.Fatalf("Failed to open log file '%s': %v", logPath, err)
		}
		defer logFile.Close()
		logOutput = logFile
	}
	logger.InitWithConfig(cfg.Logger, logOutput)
	cfg.ReportIssues()

	logger.Infof("Starting %s %s...", config.AppName, config.Version)
	logger.Debugf("History: backend=%s path=%q max=%d", cfg.History.Storage, cfg.History.StoragePath, cfg.History.MaxSnapshots)

	// --- Storage ---
	kv, err := storage.Open(cfg.History.Storage, cfg.History.StoragePath)
	if err != nil {
		logger.Errorf("Error opening %s storage: %v", cfg.History.Storage, err)
		fmt.Fprintf(os.Stderr, "%s: %v\n", config.AppName, err)
		os.Exit(1)
	}
	defer kv.Close()

	// --- Create and Run App ---
	editor, err := app.NewApp(cfg, kv)
	if err != nil {
		logger.Errorf("Error initializing application: %v", err)
		fmt.Fprintf(os.Stderr, "%s: %v\n", config.AppName, err)
		os.Exit(1)
	}

	if err := editor.Run(); err != nil {
		logger.Errorf("Application exited with error: %v", err)
		return
	}

	logger.Infof("%s finished.", config.AppName)
}
