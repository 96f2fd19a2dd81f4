package importer

import "sync"

// Cache is the per-backend wl_buffer_identity -> wrapped texture map spec
// 4.B.4 names: re-committing an already-imported buffer reuses the cached
// texture without re-import, and destroying a buffer frees both the
// backend-side image and the wrapping texture.
type Cache struct {
	mu      sync.Mutex
	backend Backend
	entries map[Identity]*Texture
}

// NewCache wraps a backend with an identity-keyed import cache.
func NewCache(backend Backend) *Cache {
	return &Cache{backend: backend, entries: make(map[Identity]*Texture)}
}

// Import returns the cached texture for req.Identity if present; otherwise
// it imports via the wrapped backend and caches the result.
func (c *Cache) Import(req Request) (*Texture, error) {
	c.mu.Lock()
	if tex, ok := c.entries[req.Identity]; ok {
		c.mu.Unlock()
		return tex, nil
	}
	c.mu.Unlock()

	tex, err := c.backend.Import(req)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[req.Identity] = tex
	c.mu.Unlock()
	return tex, nil
}

// Release frees a cached entry's backend resources and drops it from the
// cache (spec 4.B.4: "both the image and its ... resources are freed, and
// the wrapping texture is dropped").
func (c *Cache) Release(id Identity) error {
	c.mu.Lock()
	_, ok := c.entries[id]
	delete(c.entries, id)
	c.mu.Unlock()

	if !ok {
		return nil
	}
	return c.backend.Release(id)
}

// Len reports how many identities are currently cached; used by tests to
// assert release actually drops the entry.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
