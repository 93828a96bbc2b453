package token

import (
	"sync"
	"time"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// RevokedTokenCache remembers access tokens invalidated by logout until they
// would have expired anyway.
type RevokedTokenCache interface {
	Add(jti string, exp time.Time)
	IsRevoked(jti string) bool
	Cleanup() int // Removes expired entries and returns how many went
}

// InMemoryRevokedTokenCache is a simple in-memory implementation
type InMemoryRevokedTokenCache struct {
	revoked map[string]time.Time
	mu      sync.RWMutex
}

func NewInMemoryRevokedTokenCache() *InMemoryRevokedTokenCache {
	return &InMemoryRevokedTokenCache{
		revoked: make(map[string]time.Time),
	}
}

func (c *InMemoryRevokedTokenCache) Add(jti string, exp time.Time) {
	if jti == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.revoked[jti] = exp
}

func (c *InMemoryRevokedTokenCache) IsRevoked(jti string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	exp, exists := c.revoked[jti]
	return exists && NowTimeFunc().Before(exp)
}

func (c *InMemoryRevokedTokenCache) Cleanup() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := NowTimeFunc()
	removed := 0
	for jti, exp := range c.revoked {
		if !now.Before(exp) {
			delete(c.revoked, jti)
			removed++
		}
	}
	return removed
}

// PruneEvery runs cache.Cleanup every interval until stop is called. onPrune,
// if set, receives the number of entries each run removed.
func PruneEvery(cache RevokedTokenCache, interval time.Duration, onPrune func(removed int)) (stop func()) {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				removed := cache.Cleanup()
				if onPrune != nil {
					onPrune(removed)
				}
			}
		}
	}()
	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}
