package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds display preferences stored at ~/.config/loupe/config.yaml.
// The engine never reads this file itself; it only accepts the loaded
// values at startup.
type Config struct {
	VisibleColumns []string          `yaml:"visible_columns"`
	LevelColors    map[string]string `yaml:"level_colors"`
	PageSize       int               `yaml:"page_size"`
}

// SessionTab records one open tab for restart restoration.
type SessionTab struct {
	Type  string   `yaml:"type"` // "single" or "merged"
	Files []string `yaml:"files"`
}

// Session remembers which tabs were open.
type Session struct {
	Tabs []SessionTab `yaml:"tabs"`
}

// DefaultConfig returns the built-in preferences.
func DefaultConfig() *Config {
	return &Config{
		VisibleColumns: []string{"time", "level", "message", "url"},
		LevelColors: map[string]string{
			"debug":   "#808080",
			"info":    "#0066CC",
			"warn":    "#FF8C00",
			"warning": "#FF8C00",
			"error":   "#CC0000",
			"fatal":   "#8B0000",
			"panic":   "#8B0000",
		},
		PageSize: 1000,
	}
}

// ConfigDir returns the directory holding the config and session files.
func ConfigDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "loupe")
}

func configPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

func sessionPath() string {
	return filepath.Join(ConfigDir(), "session.yaml")
}

// LoadConfig reads the preferences file, falling back to defaults when
// it is missing. Keys absent from the file keep their default values.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath())
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultConfig().PageSize
	}
	return cfg, nil
}

// Save writes the preferences to disk.
func (c *Config) Save() error {
	if err := os.MkdirAll(ConfigDir(), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(configPath(), data, 0o644)
}

// LoadSession reads the saved session; a missing file is an empty
// session, not an error.
func LoadSession() (*Session, error) {
	data, err := os.ReadFile(sessionPath())
	if os.IsNotExist(err) {
		return &Session{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	var s Session
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	return &s, nil
}

// Save writes the session to disk.
func (s *Session) Save() error {
	if err := os.MkdirAll(ConfigDir(), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return os.WriteFile(sessionPath(), data, 0o644)
}
