package config

import "time"

// Base application details
const AppName = "pagehist"
const Version = "0.1.0"
const DefaultConfigFileName = "config.toml" // Main config file
const DefaultLogFileName = "pagehist.log"
const DefaultStorageDirName = "history"
const DefaultSQLiteFileName = "history.db"

// UI Layout
const StatusBarHeight = 1

// Status Bar
const MessageTimeout = 4 * time.Second

// History
const DefaultMaxSnapshots = 100
const DefaultStorage = "memory"

// Editor
const DefaultPages = 3
const SystemClipboard = true

// Autosave
const AutoSaveEnabled = false
const AutoSaveInterval = 1 * time.Minute
