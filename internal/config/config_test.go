package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadRateLimitConfigDefaults(t *testing.T) {
	cfg := LoadRateLimitConfig()

	assert.True(t, cfg.Enabled)
	assert.Equal(t, 60, cfg.Capacity)
	assert.Equal(t, 1, cfg.RefillTokens)
	assert.Equal(t, time.Second, cfg.RefillInterval)
	assert.Equal(t, 10*time.Minute, cfg.TTL)
	assert.Equal(t, "ip_user_route", cfg.KeyStrategy)
	assert.Equal(t, "sitzy:rl", cfg.Prefix)
}

func TestLoadRateLimitConfigOverrides(t *testing.T) {
	t.Setenv("RATE_LIMIT_BURST", "10")
	t.Setenv("RATE_LIMIT_REFILL_EVERY", "500ms")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()

	assert.Equal(t, 10, cfg.Capacity)
	assert.Equal(t, 1, cfg.RefillTokens)
	assert.Equal(t, 500*time.Millisecond, cfg.RefillInterval)
	// TTL is clamped to five refill intervals so a bucket outlives its window.
	assert.Equal(t, 2500*time.Millisecond, cfg.TTL)
}

func TestLoadCacheConfigDefaults(t *testing.T) {
	cfg := LoadCacheConfig()

	assert.True(t, cfg.Enabled)
	assert.Equal(t, map[string]bool{"GET": true}, cfg.Methods)
	assert.Equal(t, 30*time.Second, cfg.TTL)
	assert.Equal(t, "route_query", cfg.KeyStrategy)
	assert.Equal(t, "sitzy:cache", cfg.Prefix)
	assert.Equal(t, 1<<20, cfg.MaxBodyBytes)
}

func TestLoadCacheConfigOverrides(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get, head")
	t.Setenv("CACHE_TTL", "2m")
	t.Setenv("CACHE_ENABLED", "false")

	cfg := LoadCacheConfig()

	assert.False(t, cfg.Enabled)
	assert.Equal(t, map[string]bool{"GET": true, "HEAD": true}, cfg.Methods)
	assert.Equal(t, 2*time.Minute, cfg.TTL)
}
