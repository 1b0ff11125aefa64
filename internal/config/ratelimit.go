package config

import "time"

// RateLimitConfig defines the token bucket applied to the auth endpoints.
// The bucket lives in Redis so the limit holds across restarts; when Redis
// is unavailable the limiter is a no-op.
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	Prefix         string
}

// LoadRateLimitConfig reads the rate limiter settings from the environment.
// The defaults allow a short login burst, refilling one attempt per second.
func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled:        getenv("RATE_LIMIT_ENABLED", "true") == "true",
		Capacity:       integer("RATE_LIMIT_CAPACITY", "10"),
		RefillTokens:   integer("RATE_LIMIT_REFILL_TOKENS", "1"),
		RefillInterval: duration("RATE_LIMIT_REFILL_INTERVAL", "1s"),
		TTL:            duration("RATE_LIMIT_TTL", "10m"),
		Prefix:         getenv("RATE_LIMIT_PREFIX", "rl"),
	}
	if cfg.Capacity < 1 {
		cfg.Capacity = 1
	}
	if cfg.RefillTokens < 1 {
		cfg.RefillTokens = 1
	}
	if cfg.RefillInterval <= 0 {
		cfg.RefillInterval = time.Second
	}
	if minTTL := 5 * cfg.RefillInterval; cfg.TTL < minTTL {
		cfg.TTL = minTTL
	}
	return cfg
}
