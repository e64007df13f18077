package params

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Konsultn-Engineering/kvconn/utils"
)

// ParseCache memoizes Parse results by URI fingerprint. Hits return an
// independent clone so that each connection owns its bag outright.
type ParseCache struct {
	cache *lru.Cache[uint64, *Parameters]
	mu    sync.RWMutex
}

func NewParseCache(size int) *ParseCache {
	cache, _ := lru.New[uint64, *Parameters](size)
	return &ParseCache{cache: cache}
}

func (c *ParseCache) Parse(uri string) (*Parameters, error) {
	key := utils.FingerprintString(uri)

	// Fast path: cached under read lock.
	c.mu.RLock()
	if p, ok := c.cache.Get(key); ok {
		c.mu.RUnlock()
		return p.Clone(), nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock.
	if p, ok := c.cache.Get(key); ok {
		return p.Clone(), nil
	}

	p, err := Parse(uri)
	if err != nil {
		return nil, err
	}

	c.cache.Add(key, p)
	return p.Clone(), nil
}

func (c *ParseCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Purge()
}
