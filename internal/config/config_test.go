package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"MONGODB_URI", "MONGO_URI", "MONGO_DB", "REDIS_URI", "POSTGRES_URI", "PORT",
		"ALLOWED_ORIGINS", "FRONTEND_URL", "FRONTEND_URL_2", "ENV", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "CACHE_TTL"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.RedisURI != "" || cfg.PostgresURI != "" {
		t.Errorf("optional stores should default to disabled, got redis=%q postgres=%q", cfg.RedisURI, cfg.PostgresURI)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "http://localhost:3000" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
	if cfg.CacheTTL != 10*time.Minute {
		t.Errorf("CacheTTL = %v", cfg.CacheTTL)
	}
	if cfg.IsProduction() {
		t.Error("default environment should not be production")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MONGODB_URI", "")
	t.Setenv("MONGO_URI", "mongodb://db:27017/x")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("ENV", " Production ")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("RATE_LIMIT_BURST", "nope")
	t.Setenv("CACHE_TTL", "90")

	cfg := Load()
	if cfg.MongoURI != "mongodb://db:27017/x" {
		t.Errorf("MongoURI = %q", cfg.MongoURI)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
	if !cfg.IsProduction() {
		t.Error("expected production")
	}
	if cfg.RateLimitRPS != 2.5 {
		t.Errorf("RateLimitRPS = %v", cfg.RateLimitRPS)
	}
	if cfg.RateLimitBurst != 20 {
		t.Errorf("RateLimitBurst = %d, want default on bad input", cfg.RateLimitBurst)
	}
	if cfg.CacheTTL != 90*time.Second {
		t.Errorf("CacheTTL = %v", cfg.CacheTTL)
	}
}
