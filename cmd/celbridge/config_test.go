package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_Defaults(t *testing.T) {
	dir := t.TempDir()
	cwd, _ := os.Getwd()
	os.Chdir(dir)
	defer os.Chdir(cwd)

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("Missing default config must not error: %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("Expected default log level info, got %q", cfg.LogLevel)
	}
}

func TestLoadConfig_ExplicitMissing(t *testing.T) {
	if _, err := LoadConfig("/nonexistent/celbridge.toml"); err == nil {
		t.Fatal("Explicitly named missing config must error")
	}
}

func TestLoadConfig_Values(t *testing.T) {
	path := filepath.Join(t.TempDir(), "celbridge.toml")
	data := `
log_level = "debug"
scenario_dir = "/srv/scenarios"
memory_limit_pages = 256
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("Expected debug, got %q", cfg.LogLevel)
	}
	if cfg.ScenarioDir != "/srv/scenarios" {
		t.Fatalf("Unexpected scenario_dir %q", cfg.ScenarioDir)
	}
	if cfg.MemoryLimitPages != 256 {
		t.Fatalf("Unexpected memory_limit_pages %d", cfg.MemoryLimitPages)
	}
}
