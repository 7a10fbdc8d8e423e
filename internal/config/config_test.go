package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ListenAddr != ":3041" {
		t.Errorf("ListenAddr = %q, want :3041", cfg.ListenAddr)
	}
	if cfg.DatabasePath != "clockify.db" {
		t.Errorf("DatabasePath = %q, want clockify.db", cfg.DatabasePath)
	}
	if cfg.RefreshSchedule != "@every 30s" {
		t.Errorf("RefreshSchedule = %q, want @every 30s", cfg.RefreshSchedule)
	}
	if cfg.Timezone != "Local" {
		t.Errorf("Timezone = %q, want Local", cfg.Timezone)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
listen_addr: ":9090"
clockify_api_key: "key123"
workspace_id: "ws456"
timezone: "UTC"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ListenAddr != ":9090" {
		t.Errorf("ListenAddr = %q, want :9090", cfg.ListenAddr)
	}
	if cfg.ClockifyAPIKey != "key123" {
		t.Errorf("ClockifyAPIKey = %q", cfg.ClockifyAPIKey)
	}
	if cfg.WorkspaceID != "ws456" {
		t.Errorf("WorkspaceID = %q", cfg.WorkspaceID)
	}
	// Unset fields still get defaults.
	if cfg.DatabasePath != "clockify.db" {
		t.Errorf("DatabasePath = %q, want default", cfg.DatabasePath)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("listen_addr: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestGetTimezone(t *testing.T) {
	cfg := &Config{Timezone: "UTC"}
	if loc := cfg.GetTimezone(); loc != time.UTC {
		t.Errorf("GetTimezone() = %v, want UTC", loc)
	}

	cfg = &Config{Timezone: "Local"}
	if loc := cfg.GetTimezone(); loc != time.Local {
		t.Errorf("GetTimezone() = %v, want Local", loc)
	}

	// Unknown zones fall back to Local rather than failing.
	cfg = &Config{Timezone: "Not/AZone"}
	if loc := cfg.GetTimezone(); loc != time.Local {
		t.Errorf("GetTimezone() = %v, want Local fallback", loc)
	}
}
