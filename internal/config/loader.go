package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	configDir  = ".config/switchyard"
	configFile = "config.json"
)

// rawConfig is the JSON-unmarshaling intermediary.
type rawConfig struct {
	Tools []rawToolConfig `json:"tools"`
	Scan  rawScanConfig   `json:"scan"`
	Forge rawForgeConfig  `json:"forge"`
	UI    rawUIConfig     `json:"ui"`
}

type rawToolConfig struct {
	ID        string   `json:"id"`
	Label     string   `json:"label"`
	Command   string   `json:"command"`
	ExtraArgs []string `json:"extraArgs"`
	StoreDir  string   `json:"storeDir"`
}

type rawScanConfig struct {
	InitialTimeout    string `json:"initialTimeout"`
	RefreshTimeout    string `json:"refreshTimeout"`
	IncludeRemote     *bool  `json:"includeRemote"`
	IncludeDivergence *bool  `json:"includeDivergence"`
}

type rawForgeConfig struct {
	Enabled *bool `json:"enabled"`
}

type rawUIConfig struct {
	ShowRemoteMarker *bool `json:"showRemoteMarker"`
	ShowSyncMarker   *bool `json:"showSyncMarker"`
}

// Load loads configuration from the default location.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads configuration from a specific path.
// If path is empty, uses ~/.config/switchyard/config.json
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, nil // Return defaults on error
		}
		path = filepath.Join(home, configDir, configFile)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	var raw rawConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	mergeConfig(cfg, &raw)

	// Expand store overrides and warn if a directory doesn't exist
	for i := range cfg.Tools {
		if cfg.Tools[i].StoreDir == "" {
			continue
		}
		cfg.Tools[i].StoreDir = ExpandPath(cfg.Tools[i].StoreDir)
		if _, err := os.Stat(cfg.Tools[i].StoreDir); os.IsNotExist(err) {
			slog.Warn("session store override not found", "tool", cfg.Tools[i].ID, "path", cfg.Tools[i].StoreDir)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// mergeConfig merges raw config values into the config.
func mergeConfig(cfg *Config, raw *rawConfig) {
	// Tools: a non-empty list replaces the defaults wholesale
	if len(raw.Tools) > 0 {
		cfg.Tools = make([]ToolConfig, len(raw.Tools))
		for i, rt := range raw.Tools {
			cfg.Tools[i] = ToolConfig{
				ID:        rt.ID,
				Label:     rt.Label,
				Command:   rt.Command,
				ExtraArgs: rt.ExtraArgs,
				StoreDir:  rt.StoreDir,
			}
		}
	}

	// Scan
	if raw.Scan.InitialTimeout != "" {
		if d, err := time.ParseDuration(raw.Scan.InitialTimeout); err == nil {
			cfg.Scan.InitialTimeout = d
		}
	}
	if raw.Scan.RefreshTimeout != "" {
		if d, err := time.ParseDuration(raw.Scan.RefreshTimeout); err == nil {
			cfg.Scan.RefreshTimeout = d
		}
	}
	if raw.Scan.IncludeRemote != nil {
		cfg.Scan.IncludeRemote = *raw.Scan.IncludeRemote
	}
	if raw.Scan.IncludeDivergence != nil {
		cfg.Scan.IncludeDivergence = *raw.Scan.IncludeDivergence
	}

	// Forge
	if raw.Forge.Enabled != nil {
		cfg.Forge.Enabled = *raw.Forge.Enabled
	}

	// UI
	if raw.UI.ShowRemoteMarker != nil {
		cfg.UI.ShowRemoteMarker = *raw.UI.ShowRemoteMarker
	}
	if raw.UI.ShowSyncMarker != nil {
		cfg.UI.ShowSyncMarker = *raw.UI.ShowSyncMarker
	}
}

// ExpandPath expands ~ to home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, configDir, configFile)
}
