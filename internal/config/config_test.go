package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "REDIS_ADDR", "AMQP_URL", "LOCK_EXPIRY", "JWT_EXPIRES_IN"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.RedisAddr != "" || cfg.AMQPURL != "" {
		t.Error("redis and amqp should be disabled by default")
	}
	if cfg.LockExpiry != 10*time.Second {
		t.Errorf("expected 10s lock expiry, got %s", cfg.LockExpiry)
	}
	if cfg.JWTExpirationDur != 24*time.Hour {
		t.Errorf("expected 24h token expiry, got %s", cfg.JWTExpirationDur)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("LOCK_EXPIRY", "3s")
	t.Setenv("SHUTDOWN_TIMEOUT", "bogus")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.IsProduction() {
		t.Error("expected production env")
	}
	if cfg.RedisAddr != "redis:6379" || cfg.RedisDB != 3 {
		t.Errorf("unexpected redis settings: %s db=%d", cfg.RedisAddr, cfg.RedisDB)
	}
	if cfg.LockExpiry != 3*time.Second {
		t.Errorf("expected 3s, got %s", cfg.LockExpiry)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("invalid duration should fall back to default, got %s", cfg.ShutdownTimeout)
	}
}
