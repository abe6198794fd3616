// Package storage provides the durable key-value stores that back the
// history engine's persisted undo and redo stacks.
package storage

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("storage: key not found")

// KV is a minimal byte-oriented key-value store.
type KV interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Open creates a store for the named backend. path is a directory for the
// file backend and a database file for sqlite; it is ignored for memory.
func Open(backend, path string) (KV, error) {
	switch strings.ToLower(backend) {
	case "", BackendMemory:
		return NewMemory(), nil
	case BackendFile:
		f, err := NewFile(path)
		if err != nil {
			return nil, err
		}
		return f, nil
	case BackendSQLite:
		db, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return db, nil
	}
	return nil, fmt.Errorf("storage: unknown backend %q", backend)
}
