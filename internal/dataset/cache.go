package dataset

import "sync"

// TextCache holds the most recently fetched dataset text. It replaces the
// original implementation's module-level response cache with an owned object
// whose only invalidation trigger is an explicit Invalidate call.
type TextCache struct {
	mu     sync.Mutex
	text   string
	loaded bool
}

// Get returns the cached text and whether anything is cached.
func (c *TextCache) Get() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text, c.loaded
}

// Put stores fetched text.
func (c *TextCache) Put(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = text
	c.loaded = true
}

// Invalidate clears the cache so the next load fetches fresh data.
func (c *TextCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = ""
	c.loaded = false
}
