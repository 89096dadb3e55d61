package config

import (
	"time"
)

// CacheConfig defines settings for the public browse response cache.
// When Enabled is false or no Redis client is configured, caching is
// disabled. Only GET responses are cached; TTL defines entry lifetime
// and MaxBodyBytes caps the size of bodies worth caching.
type CacheConfig struct {
	Enabled      bool
	TTL          time.Duration
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads cache settings from the environment with
// defaults suited to the slow-changing browse catalogue.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		TTL:          envDur("CACHE_TTL", 30*time.Second),
		Prefix:       envStr("CACHE_PREFIX", "cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}
