// Package config provides configuration loading for way-shell.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Sway          SwayConfig         `yaml:"sway"`
	Hooks         HooksConfig        `yaml:"hooks"`
	Notifications NotificationConfig `yaml:"notifications"`
	Tray          TrayConfig         `yaml:"tray"`
	Panel         PanelConfig        `yaml:"panel"`
	Menu          MenuConfig         `yaml:"menu"`
	Filters       FilterConfig       `yaml:"filters"`
	Settings      SettingsConfig     `yaml:"settings"`
	LogLevel      string             `yaml:"log_level"` // "debug", "info", "warn", "error"
}

// SwayConfig configures the compositor connection.
type SwayConfig struct {
	Socket string `yaml:"socket"` // Overrides $SWAYSOCK / $I3SOCK discovery
}

// HooksConfig configures scripts run on workspace changes.
type HooksConfig struct {
	WorkspaceNew string        `yaml:"workspace_new"`
	Timeout      time.Duration `yaml:"timeout"`
}

// NotificationConfig configures urgent-workspace notifications.
type NotificationConfig struct {
	Enabled bool          `yaml:"enabled"`
	Urgency string        `yaml:"urgency"` // "low", "normal", "critical"
	Timeout time.Duration `yaml:"timeout"`
}

// TrayConfig configures the StatusNotifierItem.
type TrayConfig struct {
	Enabled bool `yaml:"enabled"`
}

// PanelConfig configures the per-output workspace panel.
type PanelConfig struct {
	Enabled          bool     `yaml:"enabled"`
	Outputs          []string `yaml:"outputs"` // Empty means every output
	ShowEmptyOutputs bool     `yaml:"show_empty_outputs"`
	Position         string   `yaml:"position"` // "top" or "bottom"
	Theme            string   `yaml:"theme"`    // "system", "light", "dark"
}

// MenuConfig configures the dmenu-style switchers.
type MenuConfig struct {
	Program string   `yaml:"program"` // Empty means auto-detect
	Args    []string `yaml:"args"`
}

// FilterConfig configures workspace filtering.
type FilterConfig struct {
	Mode  string       `yaml:"mode"` // "or" or "and"
	Rules []FilterRule `yaml:"rules"`
}

// FilterRule defines a single filter rule.
// Use exactly one of: Contains, Exact, Prefix, Suffix, or Regex.
type FilterRule struct {
	Field           string `yaml:"field"`              // "name", "output"
	Contains        string `yaml:"contains,omitempty"` // Substring match
	Exact           string `yaml:"exact,omitempty"`    // Exact string match
	Prefix          string `yaml:"prefix,omitempty"`   // Starts with
	Suffix          string `yaml:"suffix,omitempty"`   // Ends with
	Regex           string `yaml:"regex,omitempty"`    // Regular expression
	CaseInsensitive bool   `yaml:"case_insensitive"`
	Exclude         bool   `yaml:"exclude"` // Invert the rule
}

// SettingsConfig locates the persisted settings file.
type SettingsConfig struct {
	Path string `yaml:"path"`
}

// Dir returns the way-shell configuration directory.
func Dir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get config dir: %w", err)
	}
	return filepath.Join(configDir, "way-shell"), nil
}

// Load reads configuration from the default location (~/.config/way-shell/config.yaml).
// A missing file yields the defaults.
func Load() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}

	path := filepath.Join(dir, "config.yaml")
	cfg, err := LoadFrom(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("no config file, using defaults", "path", path)
		return Default(), nil
	}
	return cfg, err
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg, _ := Parse(nil)
	return cfg
}

// LoadFrom reads configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	path = expandPath(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes configuration from YAML.
func Parse(data []byte) (*Config, error) {
	cfg := Config{
		Notifications: NotificationConfig{Enabled: true},
		Tray:          TrayConfig{Enabled: true},
		Panel:         PanelConfig{Enabled: true},
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	cfg.applyDefaults()

	cfg.Sway.Socket = expandPath(cfg.Sway.Socket)
	cfg.Hooks.WorkspaceNew = expandPath(cfg.Hooks.WorkspaceNew)
	cfg.Settings.Path = expandPath(cfg.Settings.Path)

	return &cfg, nil
}

// applyDefaults sets default values for unspecified config options.
func (c *Config) applyDefaults() {
	dir, _ := Dir()
	if c.Hooks.WorkspaceNew == "" && dir != "" {
		c.Hooks.WorkspaceNew = filepath.Join(dir, "on_workspace_new.sh")
	}
	if c.Hooks.Timeout == 0 {
		c.Hooks.Timeout = 30 * time.Second
	}
	if c.Notifications.Urgency == "" {
		c.Notifications.Urgency = "normal"
	}
	if c.Notifications.Timeout == 0 {
		c.Notifications.Timeout = 10 * time.Second
	}
	if c.Panel.Position == "" {
		c.Panel.Position = "top"
	}
	if c.Panel.Theme == "" {
		c.Panel.Theme = "system"
	}
	if c.Filters.Mode == "" {
		c.Filters.Mode = "or"
	}
	if c.Settings.Path == "" && dir != "" {
		c.Settings.Path = filepath.Join(dir, "settings.yaml")
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// SlogLevel converts LogLevel to a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// parseDuration extends time.ParseDuration with day ("d") and week ("w") units.
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	mult := time.Duration(0)
	switch {
	case strings.HasSuffix(s, "d"):
		mult = 24 * time.Hour
	case strings.HasSuffix(s, "w"):
		mult = 7 * 24 * time.Hour
	}
	if mult == 0 {
		d, err := time.ParseDuration(s)
		if err != nil {
			return 0, err
		}
		if d < 0 {
			return 0, fmt.Errorf("negative duration %q", s)
		}
		return d, nil
	}

	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative duration %q", s)
	}
	return time.Duration(n) * mult, nil
}

// UnmarshalYAML implements custom unmarshaling for the hook timeout.
func (c *HooksConfig) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		WorkspaceNew string `yaml:"workspace_new"`
		Timeout      string `yaml:"timeout"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	d, err := parseDuration(raw.Timeout)
	if err != nil {
		return fmt.Errorf("parse hooks timeout: %w", err)
	}
	c.Timeout = d
	c.WorkspaceNew = raw.WorkspaceNew
	return nil
}

// UnmarshalYAML implements custom unmarshaling for notification config.
func (c *NotificationConfig) UnmarshalYAML(node *yaml.Node) error {
	raw := struct {
		Enabled *bool  `yaml:"enabled"`
		Urgency string `yaml:"urgency"`
		Timeout string `yaml:"timeout"`
	}{}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	if raw.Enabled != nil {
		c.Enabled = *raw.Enabled
	}
	switch raw.Urgency {
	case "", "low", "normal", "critical":
		c.Urgency = raw.Urgency
	default:
		return fmt.Errorf("invalid notification urgency %q", raw.Urgency)
	}
	d, err := parseDuration(raw.Timeout)
	if err != nil {
		return fmt.Errorf("parse notification timeout: %w", err)
	}
	c.Timeout = d
	return nil
}
