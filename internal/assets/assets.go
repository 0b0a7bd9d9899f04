// Package assets locates and loads model files and the textures they
// reference.
package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// ErrNotFound is returned when a file cannot be located.
var ErrNotFound = errors.New("asset not found")

// Manager loads model files and resolves texture references against a list
// of search directories.
type Manager struct {
	searchPaths []string
	cache       *Cache // nil when caching is off
	maxSize     int64  // decompressed model size limit
	log         *zap.Logger
	mu          sync.RWMutex
}

// NewManager creates a new asset manager. Texture references are looked up
// in the model's own directory first, then in searchPaths in order.
func NewManager(searchPaths []string, cache bool, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	m := &Manager{
		searchPaths: append([]string(nil), searchPaths...),
		maxSize:     DefaultMaxModelSize,
		log:         log,
	}
	if cache {
		m.cache = NewCache()
	}
	return m
}

// SetMaxModelSize sets the largest decompressed model Load accepts. Values
// <= 0 restore DefaultMaxModelSize.
func (m *Manager) SetMaxModelSize(n int64) {
	if n <= 0 {
		n = DefaultMaxModelSize
	}
	m.mu.Lock()
	m.maxSize = n
	m.mu.Unlock()
}

// AddSearchPath appends a directory to the texture search list.
func (m *Manager) AddSearchPath(dir string) {
	m.mu.Lock()
	m.searchPaths = append(m.searchPaths, dir)
	m.mu.Unlock()
}

// SearchPaths returns a copy of the texture search list.
func (m *Manager) SearchPaths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.searchPaths...)
}

// Load reads a model file, decompressing .lz4, .zst and .gz files.
func (m *Manager) Load(path string) ([]byte, error) {
	key := filepath.Clean(path)
	if m.cache != nil {
		if data, ok := m.cache.Get(key); ok {
			return data, nil
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	m.mu.RLock()
	limit := m.maxSize
	m.mu.RUnlock()
	data, err := Decompress(path, raw, limit)
	if err != nil {
		return nil, fmt.Errorf("decompressing %s: %w", path, err)
	}
	if len(data) != len(raw) {
		m.log.Debug("decompressed model",
			zap.String("path", path), zap.Int("compressed", len(raw)), zap.Int("size", len(data)))
	}

	if m.cache != nil {
		m.cache.Set(key, data)
	}
	return data, nil
}

// CacheStats returns cache hits and misses, or zeros when caching is off.
func (m *Manager) CacheStats() (hits, misses int) {
	if m.cache == nil {
		return 0, 0
	}
	return m.cache.Stats()
}

// Close drops all cached data.
func (m *Manager) Close() {
	if m.cache != nil {
		m.cache.Clear()
	}
}

// Cache is a simple in-memory cache for loaded files.
type Cache struct {
	data map[string][]byte
	mu   sync.Mutex

	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Len returns the number of cached items.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
