package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.SourceURL != DefaultSourceURL {
		t.Errorf("source url: got %q", cfg.SourceURL)
	}
	if cfg.WindowSize != 12 {
		t.Errorf("window size: got %d, want 12", cfg.WindowSize)
	}
	if cfg.Refresh != 5*time.Second {
		t.Errorf("refresh: got %v, want 5s", cfg.Refresh)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("ENVIROSENSE_SOURCE_URL", "http://localhost:9000/data.json")
	t.Setenv("ENVIROSENSE_SOURCE_AUTH", "tok")
	t.Setenv("ENVIROSENSE_WINDOW", "30")
	t.Setenv("ENVIROSENSE_REFRESH_MS", "1500")
	t.Setenv("ENVIROSENSE_HTTP_BIND", ":9999")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.SourceURL != "http://localhost:9000/data.json" || cfg.SourceAuth != "tok" {
		t.Errorf("source: got %q auth %q", cfg.SourceURL, cfg.SourceAuth)
	}
	if cfg.WindowSize != 30 {
		t.Errorf("window size: got %d", cfg.WindowSize)
	}
	if cfg.Refresh != 1500*time.Millisecond {
		t.Errorf("refresh: got %v", cfg.Refresh)
	}
	if cfg.HTTPBind != ":9999" {
		t.Errorf("bind: got %q", cfg.HTTPBind)
	}
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	t.Setenv("ENVIROSENSE_WINDOW", "-3")
	if _, err := FromEnv(); err == nil {
		t.Error("expected error for negative window size")
	}
}

func TestFromEnvIgnoresUnparsableInt(t *testing.T) {
	t.Setenv("ENVIROSENSE_REFRESH_MS", "soon")
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Refresh != DefaultRefresh {
		t.Errorf("refresh: got %v, want default", cfg.Refresh)
	}
}
