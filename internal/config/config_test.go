package config

import (
	"testing"
	"time"
)

func TestLoadRateLimitConfigClampsValues(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-4")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")
	t.Setenv("RATE_LIMIT_ENABLED", "off")

	cfg := LoadRateLimitConfig()
	if cfg.Enabled {
		t.Fatal("expected limiter disabled")
	}
	if cfg.Capacity != 1 || cfg.RefillTokens != 1 {
		t.Fatalf("capacity/refill not clamped: %+v", cfg)
	}
	if cfg.TTL != 10*time.Second {
		t.Fatalf("ttl = %s, want 10s", cfg.TTL)
	}
	if cfg.KeyStrategy != "ip_employee" || cfg.Prefix != "pos:rl" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadCacheConfig(t *testing.T) {
	t.Setenv("CACHE_TTL", "-1m")
	t.Setenv("CACHE_KEY_STRATEGY", "ROUTE")

	cfg := LoadCacheConfig()
	if cfg.TTL != time.Minute {
		t.Fatalf("ttl = %s", cfg.TTL)
	}
	if cfg.KeyStrategy != "route" {
		t.Fatalf("strategy = %q", cfg.KeyStrategy)
	}
}

func TestEnvHelpersFallBackOnGarbage(t *testing.T) {
	t.Setenv("X_INT", "abc")
	t.Setenv("X_DUR", "soon")
	t.Setenv("X_BOOL", "maybe")

	if got := envInt("X_INT", 7); got != 7 {
		t.Errorf("envInt = %d", got)
	}
	if got := envDur("X_DUR", time.Minute); got != time.Minute {
		t.Errorf("envDur = %s", got)
	}
	if got := envBool("X_BOOL", true); !got {
		t.Errorf("envBool = %v", got)
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("ACCESS_TOKEN_TTL_MIN", "30")
	t.Setenv("DB_HOST", "")
	t.Setenv("RESERVATION_PROVIDER", "")
	t.Setenv("PLUGIN_WAITLIST", "true")
	t.Setenv("SESSION_TIMEOUT", "")

	cfg := Load()
	if cfg.AccessTTLMin != 30 || cfg.DBEnabled() {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if !cfg.Plugins.Waitlist || cfg.Plugins.Reservation {
		t.Fatalf("plugins = %+v", cfg.Plugins)
	}
	if cfg.SessionTimeout != 15*time.Minute || cfg.ReservationFeed != "none" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}
