package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "ENV", "LOG_LEVEL", "LEAD_STORE", "DATABASE_URL", "STORE_TIMEOUT",
		"RELAY_TIMEOUT", "AUTOMATION_WEBHOOK_URL", "LEAD_SOURCE", "SPREADSHEET_RELAY_URL",
		"GOOGLE_SHEETS_SPREADSHEET_ID", "CORS_ALLOWED_ORIGINS", "RATE_LIMIT_PER_MINUTE",
		"REDIS_ADDR",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.StoreTimeout != 10*time.Second || cfg.RelayTimeout != 10*time.Second {
		t.Fatalf("unexpected default timeouts: store=%s relay=%s", cfg.StoreTimeout, cfg.RelayTimeout)
	}
	if cfg.LeadSource != "green-card-landing" {
		t.Fatalf("expected default lead source, got %s", cfg.LeadSource)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("expected wildcard CORS by default, got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.RateLimitPerMinute != 0 {
		t.Fatalf("expected rate limiting disabled by default, got %d", cfg.RateLimitPerMinute)
	}
	if cfg.SpreadsheetTimezone != "America/Sao_Paulo" {
		t.Fatalf("unexpected spreadsheet timezone %s", cfg.SpreadsheetTimezone)
	}
	if got := cfg.ResolvedLeadStore(); got != LeadStoreMemory {
		t.Fatalf("expected memory store without DATABASE_URL, got %s", got)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DATABASE_URL", "postgres://user@host/db")
	t.Setenv("RELAY_TIMEOUT", "3s")
	t.Setenv("STORE_TIMEOUT", "bogus")
	t.Setenv("AUTOMATION_WEBHOOK_URL", " https://hooks.example.com/lead ")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "12")
	t.Setenv("REDIS_TLS", "true")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.Env != "production" {
		t.Fatalf("expected env override, got %s", cfg.Env)
	}
	if cfg.RelayTimeout != 3*time.Second {
		t.Fatalf("expected relay timeout override, got %s", cfg.RelayTimeout)
	}
	if cfg.StoreTimeout != 10*time.Second {
		t.Fatalf("expected invalid store timeout to fall back, got %s", cfg.StoreTimeout)
	}
	if cfg.AutomationWebhookURL != "https://hooks.example.com/lead" {
		t.Fatalf("expected trimmed webhook url, got %q", cfg.AutomationWebhookURL)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected CORS origins %v", cfg.CORSAllowedOrigins)
	}
	if cfg.RateLimitPerMinute != 12 {
		t.Fatalf("expected rate limit override, got %d", cfg.RateLimitPerMinute)
	}
	if !cfg.RedisTLS {
		t.Fatalf("expected redis tls enabled")
	}
	if got := cfg.ResolvedLeadStore(); got != LeadStorePostgres {
		t.Fatalf("expected postgres store with DATABASE_URL, got %s", got)
	}
}

func TestResolvedLeadStoreExplicit(t *testing.T) {
	cfg := &Config{LeadStore: LeadStoreDynamoDB, DatabaseURL: "postgres://x"}
	if got := cfg.ResolvedLeadStore(); got != LeadStoreDynamoDB {
		t.Fatalf("expected explicit dynamodb, got %s", got)
	}
	cfg = &Config{LeadStore: "cassandra"}
	if got := cfg.ResolvedLeadStore(); got != LeadStoreMemory {
		t.Fatalf("expected unknown store to fall back to memory, got %s", got)
	}
}
