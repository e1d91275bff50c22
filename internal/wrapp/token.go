package wrapp

import (
	"sync"
	"time"
)

// Default token lifetime as documented by the provider
const (
	DefaultTokenLifetime = 24 * time.Hour
	DefaultRefreshBuffer = 5 * time.Minute
)

// TokenCache holds the bearer token of one client. A token is served until
// the refresh buffer before its expiry.
type TokenCache struct {
	mu        sync.RWMutex
	token     string
	expiresAt time.Time
	buffer    time.Duration
	now       func() time.Time
}

// NewTokenCache creates an empty cache. now defaults to time.Now.
func NewTokenCache(now func() time.Time) *TokenCache {
	if now == nil {
		now = time.Now
	}
	return &TokenCache{
		buffer: DefaultRefreshBuffer,
		now:    now,
	}
}

// Get returns the cached token when it is still usable
func (c *TokenCache) Get() (token string, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.token == "" || !c.now().Before(c.expiresAt.Add(-c.buffer)) {
		return "", false
	}
	return c.token, true
}

// Set stores a token valid until expiresAt
func (c *TokenCache) Set(token string, expiresAt time.Time) {
	c.mu.Lock()
	c.token = token
	c.expiresAt = expiresAt
	c.mu.Unlock()
}

// Invalidate drops the cached token
func (c *TokenCache) Invalidate() {
	c.mu.Lock()
	c.token = ""
	c.expiresAt = time.Time{}
	c.mu.Unlock()
}

// ExpiresAt returns the expiry of the cached token, zero when empty
func (c *TokenCache) ExpiresAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.expiresAt
}

// Now returns the cache's current time
func (c *TokenCache) Now() time.Time {
	return c.now()
}
