package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("AUTH_POLICY", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBaseURL != "http://localhost/api" {
		t.Fatalf("unexpected base url %q", cfg.APIBaseURL)
	}
	if cfg.AuthPolicy != PolicyRefresh {
		t.Fatalf("unexpected policy %q", cfg.AuthPolicy)
	}
	if cfg.SessionTTL != 7*24*time.Hour {
		t.Fatalf("unexpected session ttl %v", cfg.SessionTTL)
	}
	if cfg.HTTPTimeout != 0 {
		t.Fatalf("expected transport default timeout, got %v", cfg.HTTPTimeout)
	}
}

func TestLoadEnvironmentOverride(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://desk.example/api/")
	t.Setenv("AUTH_POLICY", "SIMPLE")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBaseURL != "https://desk.example/api" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.APIBaseURL)
	}
	if cfg.AuthPolicy != PolicySimple {
		t.Fatalf("expected simple policy, got %q", cfg.AuthPolicy)
	}
	if cfg.HTTPTimeout != 3*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.HTTPTimeout)
	}
}

func TestLoadRejectsUnknownPolicy(t *testing.T) {
	t.Setenv("AUTH_POLICY", "retry-forever")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown auth policy")
	}
}

func TestNormalizeRejectsNonPositiveTTL(t *testing.T) {
	cfg := Config{
		APIBaseURL:            "http://x",
		AuthPolicy:            PolicyRefresh,
		SessionTTLSeconds:     0,
		SessionCleanupSeconds: 10,
	}
	if err := cfg.normalize(); err == nil {
		t.Fatalf("expected ttl validation error")
	}
}
