package config

import (
	"strings"
	"time"
)

// CacheConfig drives the Redis response cache middleware.  Methods lists the
// HTTP methods whose responses are cached.  KeyStrategy picks which request
// parts form the cache key; MaxBodyBytes caps the size of a cached body.
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool
	TTL          time.Duration
	KeyStrategy  string
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads CACHE_* environment variables, with defaults sized
// for the read-heavy endpoints (dashboard, seat maps, invitation lists).
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		Methods:      parseMethods(envStr("CACHE_METHODS", "GET")),
		TTL:          envDur("CACHE_TTL", 30*time.Second),
		KeyStrategy:  envStr("CACHE_KEY_STRATEGY", "route_query"),
		Prefix:       envStr("CACHE_PREFIX", "sitzy:cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}

func parseMethods(s string) map[string]bool {
	m := map[string]bool{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(strings.ToUpper(p)); p != "" {
			m[p] = true
		}
	}
	return m
}
