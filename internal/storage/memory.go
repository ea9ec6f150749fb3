package storage

import (
	"context"
	"sync"
)

// MemorySlot keeps documents in process memory
type MemorySlot struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemorySlot creates an empty in-memory slot
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{data: make(map[string][]byte)}
}

// Read returns a copy of the stored document
func (s *MemorySlot) Read(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Write stores a copy of data under key
func (s *MemorySlot) Write(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = append([]byte(nil), data...)
	return nil
}

// Close is a no-op
func (s *MemorySlot) Close() error {
	return nil
}
