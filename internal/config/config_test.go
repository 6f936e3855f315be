package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.toml"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.App.Name != "practicelog" {
		t.Errorf("app name = %q", cfg.App.Name)
	}
	if cfg.SQLite.Path != "data/practice.db" {
		t.Errorf("sqlite path = %q", cfg.SQLite.Path)
	}
	if cfg.Auth.Enabled || cfg.Redis.Enabled {
		t.Error("auth and redis must default to disabled")
	}
	if cfg.Analytics.TopTopics != 5 {
		t.Errorf("top topics = %d, want 5", cfg.Analytics.TopTopics)
	}
	if cfg.HTTPAddr() != "127.0.0.1:8080" {
		t.Errorf("http addr = %q", cfg.HTTPAddr())
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[app]
port = 9090

[sqlite]
path = "elsewhere/p.db"

[analytics]
top_topics = 3
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("APP_PORT", "7070") // env wins over file

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.Port != 7070 {
		t.Errorf("port = %d, want env override 7070", cfg.App.Port)
	}
	if cfg.SQLite.Path != "elsewhere/p.db" {
		t.Errorf("sqlite path = %q, want file value", cfg.SQLite.Path)
	}
	if cfg.Analytics.TopTopics != 3 {
		t.Errorf("top topics = %d, want 3", cfg.Analytics.TopTopics)
	}
}
