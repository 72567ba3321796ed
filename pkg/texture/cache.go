package texture

import (
	"sync"
)

// Cache shares decoded images by resolved path, so materials that reference
// the same file get the same *Image and the file is decoded once. Failures
// are remembered too.
type Cache struct {
	entries map[string]cacheEntry
	mu      sync.RWMutex

	// Stats
	hits   int
	misses int
}

type cacheEntry struct {
	img *Image
	err error
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]cacheEntry),
	}
}

// Wrap returns a DecodeFunc that consults the cache before calling decode.
func (c *Cache) Wrap(decode DecodeFunc) DecodeFunc {
	return func(path string) (*Image, error) {
		if e, ok := c.get(path); ok {
			return e.img, e.err
		}
		img, err := decode(path)
		c.set(path, img, err)
		return img, err
	}
}

func (c *Cache) get(path string) (cacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[path]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return e, ok
}

func (c *Cache) set(path string, img *Image, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = cacheEntry{img: img, err: err}
}

// Len returns the number of cached paths.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
