package config

import (
	"strings"
	"time"
)

// CacheConfig controls the Redis response cache on the read-only catalog
// endpoints (permission keys, view routes).  Lifecycle endpoints are never
// cached.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string
	// KeyStrategy is "route" or "route_query".
	KeyStrategy string
}

func LoadCacheConfig() CacheConfig {
	cfg := CacheConfig{
		Enabled:     envBool("CACHE_ENABLED", true),
		TTL:         envDur("CACHE_TTL", 5*time.Minute),
		Prefix:      envStr("CACHE_PREFIX", "pos:cache"),
		KeyStrategy: strings.ToLower(envStr("CACHE_KEY_STRATEGY", "route_query")),
	}
	if cfg.TTL <= 0 {
		cfg.TTL = time.Minute
	}
	return cfg
}
