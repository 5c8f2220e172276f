package ignore

import "sync"

// resultCache memoizes decisions by normalized path. Every clear bumps the
// generation; a put computed against an older generation is dropped so a
// decision made before a reload can never be cached after it.
type resultCache struct {
	mu      sync.RWMutex
	gen     uint64
	entries map[string]Result
}

func newResultCache() *resultCache {
	return &resultCache{entries: make(map[string]Result)}
}

func (c *resultCache) get(key string) (Result, uint64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.entries[key]
	return r, c.gen, ok
}

func (c *resultCache) put(key string, r Result, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	c.entries[key] = r
}

func (c *resultCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.entries = make(map[string]Result)
}

func (c *resultCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
