package config

import (
	"fmt"
	"time"
)

// Config is the root configuration structure.
type Config struct {
	Tools []ToolConfig `json:"tools"`
	Scan  ScanConfig   `json:"scan"`
	Forge ForgeConfig  `json:"forge"`
	UI    UIConfig     `json:"ui"`
}

// ToolConfig defines one launchable agent and its session store override.
type ToolConfig struct {
	ID        string   `json:"id"`                  // e.g. "claude-code"
	Label     string   `json:"label"`               // e.g. "Claude Code"
	Command   string   `json:"command,omitempty"`   // executable name
	ExtraArgs []string `json:"extraArgs,omitempty"` // appended to every launch
	StoreDir  string   `json:"storeDir,omitempty"`  // session store root override (supports ~)
}

// ScanConfig bounds the git and session-store queries.
type ScanConfig struct {
	// InitialTimeout caps each git query for the first render.
	InitialTimeout time.Duration `json:"initialTimeout"`
	// RefreshTimeout caps each locator call during a quick-start refresh.
	RefreshTimeout time.Duration `json:"refreshTimeout"`
	// IncludeRemote lists remote-tracking branches in the merged view.
	IncludeRemote bool `json:"includeRemote"`
	// IncludeDivergence computes ahead/behind counts per tracked branch.
	IncludeDivergence bool `json:"includeDivergence"`
}

// ForgeConfig configures pull request state lookups.
type ForgeConfig struct {
	Enabled bool `json:"enabled"`
}

// UIConfig holds picker display settings.
type UIConfig struct {
	ShowRemoteMarker bool `json:"showRemoteMarker"`
	ShowSyncMarker   bool `json:"showSyncMarker"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Tools: []ToolConfig{
			{ID: "claude-code", Label: "Claude Code", Command: "claude"},
			{ID: "codex-cli", Label: "Codex CLI", Command: "codex"},
			{ID: "gemini-cli", Label: "Gemini CLI", Command: "gemini"},
			{ID: "opencode", Label: "OpenCode", Command: "opencode"},
		},
		Scan: ScanConfig{
			InitialTimeout:    3 * time.Second,
			RefreshTimeout:    2 * time.Second,
			IncludeRemote:     true,
			IncludeDivergence: true,
		},
		Forge: ForgeConfig{Enabled: true},
		UI: UIConfig{
			ShowRemoteMarker: true,
			ShowSyncMarker:   true,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Tools))
	for _, tool := range c.Tools {
		if tool.ID == "" {
			return fmt.Errorf("tool with empty id")
		}
		if seen[tool.ID] {
			return fmt.Errorf("duplicate tool id: %s", tool.ID)
		}
		seen[tool.ID] = true
	}
	if c.Scan.InitialTimeout <= 0 {
		return fmt.Errorf("scan.initialTimeout must be positive")
	}
	if c.Scan.RefreshTimeout <= 0 {
		return fmt.Errorf("scan.refreshTimeout must be positive")
	}
	return nil
}

// Tool returns the tool definition for an id, or nil.
func (c *Config) Tool(id string) *ToolConfig {
	for i := range c.Tools {
		if c.Tools[i].ID == id {
			return &c.Tools[i]
		}
	}
	return nil
}
