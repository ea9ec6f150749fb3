package storage

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// FileSlot stores each key as <dir>/<key>.json
type FileSlot struct {
	dir string
}

// NewFileSlot creates a file slot rooted at dir, creating it if needed
func NewFileSlot(dir string) (*FileSlot, error) {
	if dir == "" {
		return nil, errors.New("file slot directory is required")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, errors.Wrap(err, "failed to create data directory")
	}
	return &FileSlot{dir: dir}, nil
}

// Path returns the file backing key
func (s *FileSlot) Path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Read loads the document stored under key
func (s *FileSlot) Read(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to read data file")
	}
	return data, nil
}

// Write replaces the document stored under key
func (s *FileSlot) Write(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Write to file with restrictive permissions
	if err := os.WriteFile(s.Path(key), data, 0600); err != nil {
		return errors.Wrap(err, "failed to write data file")
	}
	return nil
}

// Close is a no-op
func (s *FileSlot) Close() error {
	return nil
}
