package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.App.Addr() != "0.0.0.0:8080" {
		t.Fatalf("addr %q, want 0.0.0.0:8080", cfg.App.Addr())
	}
	if cfg.App.RequestTimeout() != 30*time.Second {
		t.Fatalf("request timeout %v, want 30s", cfg.App.RequestTimeout())
	}
	if cfg.Auth.SessionTTL() != time.Hour {
		t.Fatalf("session ttl %v, want 1h", cfg.Auth.SessionTTL())
	}
	if cfg.Redis.CacheTTL() != 5*time.Minute {
		t.Fatalf("cache ttl %v, want 5m", cfg.Redis.CacheTTL())
	}
	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		t.Fatal("admin bootstrap credentials must default non-empty")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_HOST", "127.0.0.1")
	t.Setenv("APP_PORT", "9999")
	t.Setenv("AUTH_SESSION_TTL_MINUTES", "15")
	t.Setenv("REDIS_CACHE_TTL_SECONDS", "42")
	t.Setenv("POSTGRES_RUN_MIGRATIONS", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.Addr() != "127.0.0.1:9999" {
		t.Fatalf("addr %q, want 127.0.0.1:9999", cfg.App.Addr())
	}
	if cfg.Auth.SessionTTL() != 15*time.Minute {
		t.Fatalf("session ttl %v, want 15m", cfg.Auth.SessionTTL())
	}
	if cfg.Redis.CacheTTL() != 42*time.Second {
		t.Fatalf("cache ttl %v, want 42s", cfg.Redis.CacheTTL())
	}
	if cfg.Postgres.RunMigrations {
		t.Fatal("POSTGRES_RUN_MIGRATIONS=false ignored")
	}
}

func TestLoadInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("AUTH_SESSION_TTL_MINUTES", "not-a-number")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "-5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Auth.SessionTTLMinutes != 60 {
		t.Fatalf("ttl minutes %d, want fallback 60", cfg.Auth.SessionTTLMinutes)
	}
	if cfg.App.RequestTimeout() != 0 {
		t.Fatalf("request timeout %v, want disabled for non-positive value", cfg.App.RequestTimeout())
	}
}

func TestLoadRejectsInvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "seven")
	if _, err := Load(); err == nil {
		t.Fatal("invalid REDIS_DB accepted")
	}
}
