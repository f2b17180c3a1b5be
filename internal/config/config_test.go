package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != "0.0.0.0:8080" {
		t.Errorf("server addr = %q", cfg.Server.Addr)
	}
	if cfg.Database.Path != "data/newsdesk.db" {
		t.Errorf("database path = %q", cfg.Database.Path)
	}
	if cfg.Gemini.Model != "gemini-2.0-flash" {
		t.Errorf("gemini model = %q", cfg.Gemini.Model)
	}
	if cfg.Auth.TokenTTLMinutes != 60 {
		t.Errorf("token ttl = %d", cfg.Auth.TokenTTLMinutes)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("NEWSDESK_SERVER_ADDR", "127.0.0.1:9090")
	t.Setenv("NEWSDESK_GEMINI_MODEL", "gemini-1.5-pro")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:9090" {
		t.Errorf("server addr = %q", cfg.Server.Addr)
	}
	if cfg.Gemini.Model != "gemini-1.5-pro" {
		t.Errorf("gemini model = %q", cfg.Gemini.Model)
	}
}
