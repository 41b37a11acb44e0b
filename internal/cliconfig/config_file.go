package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig is the TOML shape of Config.
type FileConfig struct {
	File            string  `toml:"file"`
	PollingInterval float64 `toml:"polling_interval"`
	OnMissing       string  `toml:"on_missing"`
	Watch           *bool   `toml:"watch"`
	ClearMode       string  `toml:"clear_mode"`
	LogLevel        string  `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.logtail/config.toml, or "" when the home
// directory is unknown.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".logtail", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies fc to cfg, skipping explicitly set flags.
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) {
	s := newConfigSetter(changed)

	s.setString("file", fc.File, &cfg.File)
	s.setFloat("polling-interval", fc.PollingInterval, &cfg.PollingInterval)
	s.setString("on-missing", fc.OnMissing, &cfg.OnMissing)
	s.setBool("watch", fc.Watch, &cfg.Watch)
	s.setString("clear-mode", fc.ClearMode, &cfg.ClearMode)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
