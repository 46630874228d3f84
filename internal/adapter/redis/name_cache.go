package redis

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/adapter/metrics"
	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/domain"
)

const (
	memoryNameTTL   = 10 * time.Minute
	fallbackNameTTL = 5 * time.Minute
	nameKeyPrefix   = "company_name:"
)

// NameCache resolves company names through an in-memory layer, an optional
// Redis layer and finally the upstream source. Misses everywhere resolve to
// domain.FallbackCompanyName.
type NameCache struct {
	rdb      goredis.Cmdable
	source   domain.NameSource
	mem      *memoryCache
	redisTTL time.Duration
	clock    clockwork.Clock
	metrics  *metrics.CacheMetrics
	lookups  singleflight.Group
}

var _ domain.NameResolver = (*NameCache)(nil)

// NewNameCache builds the resolver. rdb and m may be nil; without rdb the
// Redis layer is skipped.
func NewNameCache(rdb goredis.Cmdable, source domain.NameSource, redisTTL time.Duration, clock clockwork.Clock, m *metrics.CacheMetrics) *NameCache {
	return &NameCache{
		rdb:      rdb,
		source:   source,
		mem:      newMemoryCache(clock),
		redisTTL: redisTTL,
		clock:    clock,
		metrics:  m,
	}
}

// StartEvictionTimer periodically drops expired in-memory entries. The
// returned function stops it.
func (c *NameCache) StartEvictionTimer(interval time.Duration) func() {
	ticker := c.clock.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.Chan():
				if evicted := c.mem.evictExpired(); evicted > 0 {
					slog.Debug("Evicted expired company names", "count", evicted, "remaining", c.mem.size())
				}
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}

func (c *NameCache) CompanyName(ctx context.Context, symbol domain.Symbol) string {
	if name, ok := c.mem.get(symbol); ok {
		c.hit("memory")
		return name
	}
	c.miss("memory")

	v, _, _ := c.lookups.Do(symbol.String(), func() (any, error) {
		if name, ok := c.getCached(ctx, symbol); ok {
			c.hit("redis")
			c.mem.set(symbol, name, memoryNameTTL)
			return name, nil
		}

		name, err := c.source.LookupName(ctx, symbol)
		if err != nil {
			if !errors.Is(err, domain.ErrUpstreamNotFound) {
				slog.WarnContext(ctx, "Company name lookup failed", "symbol", symbol.String(), "error", err)
			}
			if c.metrics != nil {
				c.metrics.Fallbacks.Inc()
			}
			name = domain.FallbackCompanyName(symbol)
			// Fallbacks expire sooner than resolved names.
			c.mem.set(symbol, name, fallbackNameTTL)
			return name, nil
		}

		c.mem.set(symbol, name, memoryNameTTL)
		c.writeCache(ctx, symbol, name)
		return name, nil
	})

	return v.(string)
}

func (c *NameCache) getCached(ctx context.Context, symbol domain.Symbol) (string, bool) {
	if c.rdb == nil {
		return "", false
	}

	name, err := c.rdb.Get(ctx, nameKey(symbol)).Result()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			slog.WarnContext(ctx, "Redis name cache GET failed", "symbol", symbol.String(), "error", err)
		}
		c.miss("redis")
		return "", false
	}
	return name, true
}

func (c *NameCache) writeCache(ctx context.Context, symbol domain.Symbol, name string) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Set(ctx, nameKey(symbol), name, c.redisTTL).Err(); err != nil {
		slog.WarnContext(ctx, "Failed to populate Redis name cache", "symbol", symbol.String(), "error", err)
	}
}

func (c *NameCache) hit(layer string) {
	if c.metrics != nil {
		c.metrics.Hits.WithLabelValues(layer).Inc()
	}
}

func (c *NameCache) miss(layer string) {
	if c.metrics != nil {
		c.metrics.Misses.WithLabelValues(layer).Inc()
	}
}

func nameKey(symbol domain.Symbol) string {
	return nameKeyPrefix + symbol.String()
}

// memoryCache is the L1 layer with per-entry expiry.
type memoryCache struct {
	mu      sync.RWMutex
	clock   clockwork.Clock
	entries map[domain.Symbol]memoryCacheEntry
}

type memoryCacheEntry struct {
	name      string
	expiresAt time.Time
}

func newMemoryCache(clock clockwork.Clock) *memoryCache {
	return &memoryCache{clock: clock, entries: make(map[domain.Symbol]memoryCacheEntry)}
}

func (c *memoryCache) get(symbol domain.Symbol) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[symbol]
	if !ok || c.clock.Now().After(entry.expiresAt) {
		return "", false
	}
	return entry.name, true
}

func (c *memoryCache) set(symbol domain.Symbol, name string, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[symbol] = memoryCacheEntry{name: name, expiresAt: c.clock.Now().Add(ttl)}
}

func (c *memoryCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *memoryCache) evictExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	evicted := 0
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
			evicted++
		}
	}
	return evicted
}
