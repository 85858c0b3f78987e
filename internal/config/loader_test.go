package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if len(cfg.Tools) != 4 {
		t.Errorf("got %d tools, want 4", len(cfg.Tools))
	}
	if cfg.Tool("claude-code") == nil {
		t.Error("claude-code should be configured by default")
	}
	if cfg.Scan.InitialTimeout != 3*time.Second {
		t.Errorf("got initial timeout %v, want 3s", cfg.Scan.InitialTimeout)
	}
	if !cfg.Forge.Enabled {
		t.Error("forge lookups should be enabled by default")
	}
}

func TestLoadFrom_NonExistent(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.json")
	if err != nil {
		t.Errorf("should not error on missing file: %v", err)
	}
	if cfg == nil {
		t.Error("should return default config")
	}
}

func TestLoadFrom_ValidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	content := []byte(`{
		"scan": {
			"refreshTimeout": "5s",
			"includeRemote": false
		},
		"forge": {
			"enabled": false
		}
	}`)

	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if cfg.Scan.RefreshTimeout != 5*time.Second {
		t.Errorf("got refresh timeout %v, want 5s", cfg.Scan.RefreshTimeout)
	}
	if cfg.Scan.IncludeRemote {
		t.Error("includeRemote should be disabled")
	}
	if cfg.Forge.Enabled {
		t.Error("forge should be disabled")
	}
	// Default values should still be present
	if cfg.Scan.InitialTimeout != 3*time.Second {
		t.Errorf("initial timeout default lost: %v", cfg.Scan.InitialTimeout)
	}
	if len(cfg.Tools) != 4 {
		t.Errorf("default tools lost: %d", len(cfg.Tools))
	}
}

func TestLoadFrom_ToolListReplacesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	content := []byte(`{
		"tools": [
			{"id": "claude-code", "label": "Claude", "command": "claude", "extraArgs": ["--verbose"]}
		]
	}`)

	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if len(cfg.Tools) != 1 {
		t.Fatalf("got %d tools, want 1", len(cfg.Tools))
	}
	if cfg.Tools[0].ExtraArgs[0] != "--verbose" {
		t.Errorf("extraArgs not merged: %v", cfg.Tools[0].ExtraArgs)
	}
}

func TestLoadFrom_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	if err := os.WriteFile(path, []byte(`{invalid`), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFrom(path)
	if err == nil {
		t.Error("should error on invalid JSON")
	}
}

func TestLoadFrom_DuplicateToolID(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	content := []byte(`{
		"tools": [
			{"id": "codex-cli", "label": "Codex"},
			{"id": "codex-cli", "label": "Codex again"}
		]
	}`)

	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Error("should error on duplicate tool ids")
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		input  string
		expect string
	}{
		{"~/.claude", filepath.Join(home, ".claude")},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
	}

	for _, tc := range tests {
		got := ExpandPath(tc.input)
		if got != tc.expect {
			t.Errorf("ExpandPath(%q) = %q, want %q", tc.input, got, tc.expect)
		}
	}
}
