// Package seed serves the embedded first-run documents
package seed

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
)

//go:embed data/*.json
var dataFS embed.FS

// DefaultDocument is the seed finance document used on first run and reset
const DefaultDocument = "default.json"

// Loader reads seed documents from the embedded filesystem
type Loader struct {
	cache map[string][]byte
	mu    sync.RWMutex
}

// NewLoader creates a new seed loader
func NewLoader() *Loader {
	return &Loader{
		cache: make(map[string][]byte),
	}
}

// Load returns a copy of the named document
func (l *Loader) Load(name string) ([]byte, error) {
	l.mu.RLock()
	if doc, ok := l.cache[name]; ok {
		l.mu.RUnlock()
		return append([]byte(nil), doc...), nil
	}
	l.mu.RUnlock()

	content, err := dataFS.ReadFile(path.Join("data", name))
	if err != nil {
		return nil, fmt.Errorf("failed to load seed %s: %w", name, err)
	}

	l.mu.Lock()
	l.cache[name] = content
	l.mu.Unlock()

	return append([]byte(nil), content...), nil
}

// MustLoad loads a document and panics on error (for initialization)
func (l *Loader) MustLoad(name string) []byte {
	doc, err := l.Load(name)
	if err != nil {
		panic(fmt.Sprintf("failed to load required seed %s: %v", name, err))
	}
	return doc
}

// List returns the names of all embedded documents
func (l *Loader) List() ([]string, error) {
	var names []string

	err := fs.WalkDir(dataFS, "data", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".json") {
			names = append(names, strings.TrimPrefix(p, "data/"))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list seeds: %w", err)
	}

	sort.Strings(names)
	return names, nil
}

var defaultLoader = NewLoader()

// Load is a convenience function using the default loader
func Load(name string) ([]byte, error) {
	return defaultLoader.Load(name)
}

// MustLoad is a convenience function using the default loader
func MustLoad(name string) []byte {
	return defaultLoader.MustLoad(name)
}
