package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// saveConfig is the JSON-marshaling intermediary that uses string durations.
type saveConfig struct {
	Tools []ToolConfig   `json:"tools,omitempty"`
	Scan  saveScanConfig `json:"scan"`
	Forge ForgeConfig    `json:"forge"`
	UI    UIConfig       `json:"ui"`
}

type saveScanConfig struct {
	InitialTimeout    string `json:"initialTimeout,omitempty"`
	RefreshTimeout    string `json:"refreshTimeout,omitempty"`
	IncludeRemote     *bool  `json:"includeRemote,omitempty"`
	IncludeDivergence *bool  `json:"includeDivergence,omitempty"`
}

// toSaveConfig converts Config to the JSON-serializable format.
func toSaveConfig(cfg *Config) saveConfig {
	return saveConfig{
		Tools: cfg.Tools,
		Scan: saveScanConfig{
			InitialTimeout:    cfg.Scan.InitialTimeout.String(),
			RefreshTimeout:    cfg.Scan.RefreshTimeout.String(),
			IncludeRemote:     &cfg.Scan.IncludeRemote,
			IncludeDivergence: &cfg.Scan.IncludeDivergence,
		},
		Forge: cfg.Forge,
		UI:    cfg.UI,
	}
}

// Save writes the config to ~/.config/switchyard/config.json
func Save(cfg *Config) error {
	path := ConfigPath()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	sc := toSaveConfig(cfg)
	data, err := json.MarshalIndent(sc, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
