package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.HTTPAddr != ":8080" {
		t.Errorf("http addr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.PricePerLead != 500 {
		t.Errorf("price per lead = %d, want 500", cfg.PricePerLead)
	}
	if cfg.JWTSecret == "" {
		t.Error("expected a default jwt secret")
	}
	if cfg.SMTP.Port != 587 {
		t.Errorf("smtp port = %d, want 587", cfg.SMTP.Port)
	}
	if cfg.SMTP.IsConfigured() {
		t.Error("smtp should be unconfigured by default")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CAPTALEADS_HTTP_ADDR", ":9090")
	t.Setenv("CAPTALEADS_PRICE_PER_LEAD", "750")
	t.Setenv("CAPTALEADS_DEV_MODE", "true")
	t.Setenv("CAPTALEADS_SMTP_HOST", "smtp.example.com")
	t.Setenv("CAPTALEADS_SMTP_FROM", "leads@example.com")

	cfg := Load()

	if cfg.HTTPAddr != ":9090" {
		t.Errorf("http addr = %q, want :9090", cfg.HTTPAddr)
	}
	if cfg.PricePerLead != 750 {
		t.Errorf("price per lead = %d, want 750", cfg.PricePerLead)
	}
	if !cfg.DevMode {
		t.Error("expected dev mode")
	}
	if !cfg.SMTP.IsConfigured() {
		t.Error("smtp should be configured")
	}
}
