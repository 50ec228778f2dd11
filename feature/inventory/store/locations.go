package store

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// locationCache memoizes location IDs. Location rows are never deleted, so
// entries never expire. Concurrent misses for one name share a single lookup.
type locationCache struct {
	mu  sync.RWMutex
	ids map[string]uint
	sf  singleflight.Group
}

func newLocationCache() *locationCache {
	return &locationCache{ids: make(map[string]uint)}
}

func (c *locationCache) resolve(name string, load func() (uint, error)) (uint, error) {
	c.mu.RLock()
	id, ok := c.ids[name]
	c.mu.RUnlock()
	if ok {
		return id, nil
	}

	result, err, _ := c.sf.Do(name, func() (interface{}, error) {
		c.mu.RLock()
		id, ok := c.ids[name]
		c.mu.RUnlock()
		if ok {
			return id, nil
		}

		id, err := load()
		if err != nil {
			return uint(0), err
		}

		c.mu.Lock()
		c.ids[name] = id
		c.mu.Unlock()
		return id, nil
	})
	if err != nil {
		return 0, err
	}
	return result.(uint), nil
}

// forget drops every cached entry.
func (c *locationCache) forget() {
	c.mu.Lock()
	c.ids = make(map[string]uint)
	c.mu.Unlock()
}
