package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("GOOGLE_SHEET_TAB", "")
	t.Setenv("BITRIX_TIMEOUT", "")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.GoogleSheetTab != "Sheet1" {
		t.Fatalf("expected default sheet tab, got %s", cfg.GoogleSheetTab)
	}
	if cfg.BitrixTimeout != 12*time.Second {
		t.Fatalf("expected default bitrix timeout, got %s", cfg.BitrixTimeout)
	}
	if cfg.SheetsTimeout != 20*time.Second {
		t.Fatalf("expected default sheets timeout, got %s", cfg.SheetsTimeout)
	}
	if cfg.CORSAllowedOrigins != nil {
		t.Fatalf("expected no default CORS origins, got %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DATABASE_URL", "postgres://user@host/db")
	t.Setenv("GOOGLE_SHEET_ID", "sheet-123")
	t.Setenv("GOOGLE_SHEET_TAB", "Leads")
	t.Setenv("BITRIX_WEBHOOK_URL", "https://portal.example.com/rest/1/abc/")
	t.Setenv("BITRIX_TIMEOUT", "6s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://crescentview.ae, https://www.crescentview.ae")
	t.Setenv("LEAD_RATE_BURST", "25")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.Env != "production" {
		t.Fatalf("expected env override, got %s", cfg.Env)
	}
	if cfg.DatabaseURL != "postgres://user@host/db" {
		t.Fatalf("expected db override, got %s", cfg.DatabaseURL)
	}
	if cfg.GoogleSheetID != "sheet-123" {
		t.Fatalf("expected sheet id override, got %s", cfg.GoogleSheetID)
	}
	if cfg.GoogleSheetTab != "Leads" {
		t.Fatalf("expected sheet tab override, got %s", cfg.GoogleSheetTab)
	}
	if cfg.BitrixTimeout != 6*time.Second {
		t.Fatalf("expected bitrix timeout override, got %s", cfg.BitrixTimeout)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://www.crescentview.ae" {
		t.Fatalf("expected trimmed CORS origins, got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.LeadRateBurst != 25 {
		t.Fatalf("expected rate burst override, got %d", cfg.LeadRateBurst)
	}
}

func TestLoadBadValuesFallBack(t *testing.T) {
	t.Setenv("LEAD_RATE_LIMIT", "not-a-number")
	t.Setenv("SHEETS_TIMEOUT", "soon")
	t.Setenv("REDIS_TLS", "maybe")
	cfg := Load()
	if cfg.LeadRateLimit != 2 {
		t.Fatalf("expected default rate limit, got %f", cfg.LeadRateLimit)
	}
	if cfg.SheetsTimeout != 20*time.Second {
		t.Fatalf("expected default sheets timeout, got %s", cfg.SheetsTimeout)
	}
	if cfg.RedisTLS {
		t.Fatal("expected redis TLS disabled on parse failure")
	}
}
