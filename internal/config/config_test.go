package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Duration
		wantErr  bool
	}{
		// Days
		{"1d", 24 * time.Hour, false},
		{"14d", 14 * 24 * time.Hour, false},

		// Weeks
		{"1w", 7 * 24 * time.Hour, false},
		{"2w", 14 * 24 * time.Hour, false},

		// Standard Go durations
		{"500ms", 500 * time.Millisecond, false},
		{"5m", 5 * time.Minute, false},
		{"1h30m", time.Hour + 30*time.Minute, false},

		// Edge cases
		{"0d", 0, false},
		{"", 0, false},
		{"  30s  ", 30 * time.Second, false},

		// Errors
		{"invalid", 0, true},
		{"d", 0, true},
		{"w", 0, true},
		{"14x", 0, true},
		{"-1d", 0, true},
		{"-5s", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseDuration(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseDuration(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if got != tt.expected {
				t.Errorf("parseDuration(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")

	cfg := Default()
	assert.True(t, cfg.Tray.Enabled)
	assert.True(t, cfg.Panel.Enabled)
	assert.True(t, cfg.Notifications.Enabled)
	assert.Equal(t, "normal", cfg.Notifications.Urgency)
	assert.Equal(t, 30*time.Second, cfg.Hooks.Timeout)
	assert.Equal(t, "/cfg/way-shell/on_workspace_new.sh", cfg.Hooks.WorkspaceNew)
	assert.Equal(t, "/cfg/way-shell/settings.yaml", cfg.Settings.Path)
	assert.Equal(t, "or", cfg.Filters.Mode)
	assert.Equal(t, "top", cfg.Panel.Position)
}

func TestParse(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg, err := Parse([]byte(`
sway:
  socket: ~/sway.sock
hooks:
  workspace_new: /usr/local/bin/ws-hook
  timeout: 5s
notifications:
  enabled: false
  urgency: critical
  timeout: 1m
tray:
  enabled: false
panel:
  outputs: [DP-1]
  position: bottom
menu:
  program: fuzzel
filters:
  mode: and
  rules:
    - field: name
      prefix: "scratch"
      exclude: true
log_level: debug
`))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "sway.sock"), cfg.Sway.Socket)
	assert.Equal(t, "/usr/local/bin/ws-hook", cfg.Hooks.WorkspaceNew)
	assert.Equal(t, 5*time.Second, cfg.Hooks.Timeout)
	assert.False(t, cfg.Notifications.Enabled)
	assert.Equal(t, "critical", cfg.Notifications.Urgency)
	assert.Equal(t, time.Minute, cfg.Notifications.Timeout)
	assert.False(t, cfg.Tray.Enabled)
	assert.True(t, cfg.Panel.Enabled)
	assert.Equal(t, []string{"DP-1"}, cfg.Panel.Outputs)
	assert.Equal(t, "bottom", cfg.Panel.Position)
	assert.Equal(t, "fuzzel", cfg.Menu.Program)
	require.Len(t, cfg.Filters.Rules, 1)
	assert.True(t, cfg.Filters.Rules[0].Exclude)
	assert.Equal(t, "and", cfg.Filters.Mode)
	assert.Equal(t, "DEBUG", cfg.SlogLevel().String())
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte("notifications:\n  urgency: loud\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("hooks:\n  timeout: soon\n"))
	assert.Error(t, err)
}

func TestLoadFromMissing(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
