package docsite

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/soulfiremc/docsite/content"
	"github.com/soulfiremc/docsite/logging"
)

// ErrNotFound is returned when no page is served at a route.
var ErrNotFound = errors.New("page not found")

// SiteLoader compiles a fresh content snapshot.
type SiteLoader func(ctx context.Context) (*content.Site, error)

// PageCache is an in-memory cache of the compiled site with TTL.
type PageCache struct {
	mu      sync.RWMutex
	site    *content.Site
	fetched time.Time
	stale   bool
	ttl     time.Duration
	load    SiteLoader
}

// NewPageCache creates a PageCache backed by load. A zero ttl never expires.
func NewPageCache(load SiteLoader, ttl time.Duration) *PageCache {
	return &PageCache{load: load, ttl: ttl}
}

func (c *PageCache) valid() bool {
	return c.site != nil && !c.stale && (c.ttl <= 0 || time.Since(c.fetched) < c.ttl)
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PageCache) Invalidate() {
	c.mu.Lock()
	c.stale = true
	c.mu.Unlock()
}

// Site returns the cached snapshot after ensuring it is fresh. It tries a
// read lock first and only takes the write lock if a reload is needed. A
// failed reload keeps serving the previous snapshot for another TTL.
func (c *PageCache) Site(ctx context.Context) (*content.Site, error) {
	c.mu.RLock()
	if c.valid() {
		site := c.site
		c.mu.RUnlock()
		return site, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.site, nil
	}
	site, err := c.load(ctx)
	if err != nil {
		if c.site != nil {
			log := logging.WithComponent("cache")
			log.Warn().Err(err).Msg("reload failed, serving previous content")
			c.stale = false
			c.fetched = time.Now()
			return c.site, nil
		}
		return nil, err
	}
	c.site = site
	c.stale = false
	c.fetched = time.Now()
	return site, nil
}

// Page returns the page served at route.
func (c *PageCache) Page(ctx context.Context, route string) (*content.Page, error) {
	site, err := c.Site(ctx)
	if err != nil {
		return nil, err
	}
	p, ok := site.Page(route)
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}
