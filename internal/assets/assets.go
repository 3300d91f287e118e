// Package assets fetches raw resource bytes from ordered sources with caching.
package assets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/pierrec/lz4"
	"go.uber.org/zap"

	"github.com/Faultbox/webgame/internal/logger"
)

// ErrNotFound is returned when no source has the requested name.
var ErrNotFound = errors.New("asset not found")

// CompressedSuffix marks lz4-compressed payloads. A request for "a.png" is
// served from "a.png.lz4" when no source has the plain file.
const CompressedSuffix = ".lz4"

// Source provides asset bytes by slash-separated name.
// Implementations return an error wrapping ErrNotFound for missing names.
type Source interface {
	Read(ctx context.Context, name string) ([]byte, error)
}

// Manager handles asset loading from its sources.
type Manager struct {
	sources []Source
	cache   *Cache
	mu      sync.RWMutex
	log     *zap.Logger
}

// NewManager creates a new asset manager.
func NewManager() *Manager {
	return &Manager{
		cache: NewCache(),
		log:   logger.Named("assets"),
	}
}

// AddSource adds a source to the manager.
// Sources are searched in reverse order (last added = highest priority).
func (m *Manager) AddSource(s Source) {
	m.mu.Lock()
	m.sources = append(m.sources, s)
	m.mu.Unlock()
}

// Load returns the bytes for name, from cache when possible.
func (m *Manager) Load(ctx context.Context, name string) ([]byte, error) {
	if data, ok := m.cache.Get(name); ok {
		return data, nil
	}

	data, err := m.read(ctx, name)
	if errors.Is(err, ErrNotFound) {
		var packed []byte
		packed, err = m.read(ctx, name+CompressedSuffix)
		if err == nil {
			data, err = decompress(packed)
			if err != nil {
				return nil, fmt.Errorf("decompressing %s: %w", name, err)
			}
		}
	}
	if err != nil {
		return nil, err
	}

	m.cache.Set(name, data)
	return data, nil
}

func (m *Manager) read(ctx context.Context, name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.sources) - 1; i >= 0; i-- {
		data, err := m.sources[i].Read(ctx, name)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Fetch loads name on a background goroutine and posts done to d, so done
// runs on whichever goroutine polls the dispatcher.
func (m *Manager) Fetch(ctx context.Context, name string, d *Dispatcher, done func(data []byte, err error)) {
	go func() {
		data, err := m.Load(ctx, name)
		if err != nil {
			m.log.Debug("fetch failed", zap.String("name", name), zap.Error(err))
		}
		d.Post(func() { done(data, err) })
	}()
}

// Cache returns the manager's cache.
func (m *Manager) Cache() *Cache {
	return m.cache
}

// Close drops all sources and cached data.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sources = nil
	m.cache.Clear()
}

func decompress(packed []byte) ([]byte, error) {
	return io.ReadAll(lz4.NewReader(bytes.NewReader(packed)))
}

// Cache is a simple in-memory cache for loaded assets.
type Cache struct {
	data map[string][]byte
	mu   sync.RWMutex

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

// Delete removes one item.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
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
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
