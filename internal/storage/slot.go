// Package storage provides durable key-value slots for the serialized
// finance document.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Read when nothing has been stored under the key
var ErrNotFound = errors.New("storage: key not found")

// Slot is a durable key-value slot holding opaque documents
type Slot interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
	Close() error
}

// Backend names accepted by Open
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Open returns the slot for the named backend. path is a directory for the
// file backend, a database file for sqlite and ignored for memory.
func Open(backend, path string) (Slot, error) {
	switch backend {
	case BackendMemory:
		return NewMemorySlot(), nil
	case BackendFile:
		return NewFileSlot(path)
	case BackendSQLite:
		return NewSQLiteSlot(path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
