package registry

import (
	"sync"
	"sync/atomic"
)

// materializeCache memoizes successful materializations per component UID.
//
// sync.Map fits the access pattern here: the key space is stable (all
// components are known after manifest load) while values are written once
// and read many times, with the serve mode hitting it from concurrent
// request handlers.
type materializeCache struct {
	entries sync.Map // key: component UID, value: *Result
	hits    atomic.Uint64
	misses  atomic.Uint64
}

func newMaterializeCache() *materializeCache {
	return &materializeCache{}
}

func (c *materializeCache) get(uid string) (*Result, bool) {
	v, ok := c.entries.Load(uid)
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return v.(*Result), true
}

func (c *materializeCache) put(uid string, res *Result) {
	c.entries.Store(uid, res)
}

func (c *materializeCache) invalidate(uid string) {
	c.entries.Delete(uid)
}

func (c *materializeCache) invalidateAll() {
	c.entries.Range(func(key, _ any) bool {
		c.entries.Delete(key)
		return true
	})
}

func (c *materializeCache) stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}
