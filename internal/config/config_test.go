package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8081" {
		t.Fatalf("expected default port 8081, got %s", cfg.Port)
	}
	if cfg.DataBackend != "memory" {
		t.Fatalf("expected default backend memory, got %s", cfg.DataBackend)
	}
	if cfg.TotalBudgetCents != 250000 {
		t.Fatalf("expected default budget 250000 cents, got %d", cfg.TotalBudgetCents)
	}
	if cfg.DigestInterval != 5*time.Minute {
		t.Fatalf("expected default digest interval 5m, got %v", cfg.DigestInterval)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("TOTAL_BUDGET", "1800.50")
	t.Setenv("DATA_BACKEND", "sqlite")
	t.Setenv("DIGEST_INTERVAL", "30s")
	t.Setenv("RATE_LIMIT_RPS", "2.5")

	cfg := Load()
	if cfg.Port != "9000" {
		t.Fatalf("expected port 9000, got %s", cfg.Port)
	}
	if cfg.TotalBudgetCents != 180050 {
		t.Fatalf("expected 180050 cents, got %d", cfg.TotalBudgetCents)
	}
	if cfg.DataBackend != "sqlite" {
		t.Fatalf("expected sqlite backend, got %s", cfg.DataBackend)
	}
	if cfg.DigestInterval != 30*time.Second {
		t.Fatalf("expected 30s interval, got %v", cfg.DigestInterval)
	}
	if cfg.RateLimitRPS != 2.5 {
		t.Fatalf("expected 2.5 rps, got %v", cfg.RateLimitRPS)
	}
}

func TestLoadBadBudgetFallsBack(t *testing.T) {
	t.Setenv("TOTAL_BUDGET", "not-a-number")
	cfg := Load()
	if cfg.TotalBudgetCents != 250000 {
		t.Fatalf("expected default budget on parse failure, got %d", cfg.TotalBudgetCents)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		wantOK bool
		substr string
	}{
		{"defaults", func(c *Config) {}, true, ""},
		{"bad port", func(c *Config) { c.Port = "http" }, false, "invalid port"},
		{"port out of range", func(c *Config) { c.Port = "70000" }, false, "invalid port"},
		{"bad backend", func(c *Config) { c.DataBackend = "postgres" }, false, "invalid data backend"},
		{"bad amqp scheme", func(c *Config) { c.AMQPURL = "http://localhost" }, false, "AMQP URL scheme"},
		{"empty queue", func(c *Config) { c.AMQPQueue = "" }, false, "queue name"},
		{"negative budget", func(c *Config) { c.TotalBudgetCents = -1 }, false, "total budget"},
		{"interval too short", func(c *Config) { c.DigestInterval = time.Millisecond }, false, "digest interval"},
		{"zero rps", func(c *Config) { c.RateLimitRPS = 0 }, false, "rate limit"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Load()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantOK && err != nil {
				t.Fatalf("expected ok, got %v", err)
			}
			if !tc.wantOK {
				if err == nil {
					t.Fatalf("expected error")
				}
				if !strings.Contains(err.Error(), tc.substr) {
					t.Fatalf("expected error to mention %q, got %v", tc.substr, err)
				}
			}
		})
	}
}
