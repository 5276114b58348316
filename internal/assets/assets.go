// Package assets loads JSON heightfields from a set of search directories and
// caches the decoded result.
package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Faultbox/terratile/pkg/heightfield"
)

// ErrNotFound is returned when no search directory holds the requested file.
var ErrNotFound = errors.New("heightfield not found")

// Manager resolves heightfield names against its search directories.
type Manager struct {
	dirs  []string
	cache *Cache
	mu    sync.RWMutex
}

// NewManager creates a new manager with no search directories.
func NewManager() *Manager {
	return &Manager{
		cache: NewCache(),
	}
}

// AddDir adds a search directory.
// Directories are searched in reverse order (last added = highest priority).
func (m *Manager) AddDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("adding search dir %s: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("adding search dir %s: not a directory", path)
	}

	m.mu.Lock()
	m.dirs = append(m.dirs, path)
	m.mu.Unlock()

	return nil
}

// Resolve returns the file a name refers to. Absolute paths and paths that
// exist relative to the working directory are used as they are.
func (m *Manager) Resolve(name string) (string, error) {
	if filepath.IsAbs(name) {
		return name, nil
	}
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.dirs) - 1; i >= 0; i-- {
		path := filepath.Join(m.dirs[i], name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Load decodes the heightfield a name refers to. Results are cached by
// resolved path; callers must not modify the returned heightfield.
func (m *Manager) Load(name string) (*heightfield.Heightfield, error) {
	path, err := m.Resolve(name)
	if err != nil {
		return nil, err
	}

	if hf, ok := m.cache.Get(path); ok {
		return hf, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	hf, err := heightfield.DecodeJSON(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	m.cache.Set(path, hf)
	return hf, nil
}

// Close drops all search directories and cached heightfields.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.dirs = nil
	m.cache.Clear()
}

// Cache is an in-memory cache of decoded heightfields.
type Cache struct {
	data map[string]*heightfield.Heightfield
	mu   sync.RWMutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string]*heightfield.Heightfield),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) (*heightfield.Heightfield, bool) {
	// Write lock: the stats counters change on every lookup.
	c.mu.Lock()
	defer c.mu.Unlock()

	hf, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return hf, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, hf *heightfield.Heightfield) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = hf
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]*heightfield.Heightfield)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
