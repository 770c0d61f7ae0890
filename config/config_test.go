package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENV", "development")
	cfg := Load()

	if cfg.Database.Driver != "postgres" {
		t.Errorf("expected postgres driver, got %s", cfg.Database.Driver)
	}
	if cfg.Ledger.Currency != "INR" {
		t.Errorf("expected INR currency, got %s", cfg.Ledger.Currency)
	}
	if !cfg.Ledger.ResyncAfterWrite {
		t.Error("expected resync after write to default to true")
	}
	if !cfg.Auth.RequireEmailConfirmation {
		t.Error("expected email confirmation to be required by default")
	}
	if !cfg.RateLimit.Enabled {
		t.Error("expected rate limiting outside the test environment")
	}
	if cfg.OAuth.GoogleEnabled() {
		t.Error("expected google sign-in to be disabled without credentials")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LEDGER_RESYNC_AFTER_WRITE", "false")
	t.Setenv("LEDGER_SNAPSHOT_TTL", "90s")
	t.Setenv("LEDGER_CURRENCY", "usd")
	t.Setenv("GOOGLE_CLIENT_ID", "id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "secret")

	cfg := Load()

	if !cfg.IsTest() {
		t.Error("expected test environment")
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("expected sqlite driver, got %s", cfg.Database.Driver)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Ledger.ResyncAfterWrite {
		t.Error("expected resync after write to be disabled")
	}
	if cfg.Redis.SnapshotTTL != 90*time.Second {
		t.Errorf("expected 90s snapshot ttl, got %s", cfg.Redis.SnapshotTTL)
	}
	if cfg.Ledger.Currency != "usd" {
		t.Errorf("expected raw currency value, got %s", cfg.Ledger.Currency)
	}
	if cfg.RateLimit.Enabled {
		t.Error("expected rate limiting to default off in the test environment")
	}
	if !cfg.OAuth.GoogleEnabled() {
		t.Error("expected google sign-in to be enabled")
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-number")
	t.Setenv("JWT_EXPIRY", "soon")
	t.Setenv("EMAIL_WORKER_ENABLED", "maybe")

	cfg := Load()

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port, got %d", cfg.Server.Port)
	}
	if cfg.JWT.AccessTokenExpiry != 15*time.Minute {
		t.Errorf("expected default access expiry, got %s", cfg.JWT.AccessTokenExpiry)
	}
	if !cfg.Email.WorkerEnabled {
		t.Error("expected default worker enabled")
	}
}
