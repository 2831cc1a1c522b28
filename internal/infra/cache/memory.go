package cache

import (
	"context"
	"sync"
	"time"

	"surveybar/internal/domain"
)

// MemoryCache реализует domain.Cache в памяти процесса.
type MemoryCache struct {
	mu        sync.Mutex
	expires   map[string]time.Time
	now       func() time.Time
	nextSweep time.Time
}

// sweepInterval задаёт, как часто из памяти удаляются истёкшие ключи.
const sweepInterval = time.Minute

var _ domain.Cache = (*MemoryCache)(nil)

// NewMemory создаёт кэш в памяти.
func NewMemory(now func() time.Time) *MemoryCache {
	if now == nil {
		now = time.Now
	}
	return &MemoryCache{expires: make(map[string]time.Time), now: now}
}

// Once выполняет функцию, если ключ не задан или истёк.
func (c *MemoryCache) Once(ctx context.Context, key string, ttl time.Duration, fn func() error) error {
	c.mu.Lock()
	now := c.now()
	c.sweep(now)
	if until, ok := c.expires[key]; ok && now.Before(until) {
		c.mu.Unlock()
		return nil
	}
	c.expires[key] = now.Add(ttl)
	c.mu.Unlock()

	if err := fn(); err != nil {
		c.mu.Lock()
		delete(c.expires, key)
		c.mu.Unlock()
		return err
	}
	return nil
}

func (c *MemoryCache) sweep(now time.Time) {
	if now.Before(c.nextSweep) {
		return
	}
	for key, until := range c.expires {
		if !now.Before(until) {
			delete(c.expires, key)
		}
	}
	c.nextSweep = now.Add(sweepInterval)
}
