package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/wscc/fixture-converter/internal/types"
)

func envMap(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMainConfigMissingFile(t *testing.T) {
	cfg, err := LoadMainConfig(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, ":8080", cfg.Server.ListenAddr)
	assert.Equal(t, int64(10<<20), cfg.Server.MaxUploadBytes)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "Western Suburbs", cfg.Conversion.ClubName)
	assert.Equal(t, "Women's", cfg.Conversion.DefaultAccessGroup)
	assert.Equal(t, 200, cfg.Conversion.PreviewRows)
	assert.Equal(t, types.Settings{GameDuration: 120}, cfg.Conversion.Defaults.Settings())
}

func TestLoadMainConfigFile(t *testing.T) {
	path := writeConfig(t, `
server:
  listen_addr: "127.0.0.1:9000"
  write_timeout: 2m
log:
  level: debug
  format: json
conversion:
  club_name: Scarborough
  default_access_group: Public
  access_groups: [Public, "Women's"]
  strict: true
  defaults:
    game_duration: 240
    enable_comments: true
`)

	cfg, err := LoadMainConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.ListenAddr)
	assert.Equal(t, 2*time.Minute, cfg.Server.WriteTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "Scarborough", cfg.Conversion.ClubName)
	assert.True(t, cfg.Conversion.Strict)
	assert.Equal(t, types.Settings{GameDuration: 240, EnableComments: true}, cfg.Conversion.Defaults.Settings())
	assert.True(t, cfg.Conversion.AllowsAccessGroup("Public"))
	assert.False(t, cfg.Conversion.AllowsAccessGroup("Men's"))
}

func TestLoadMainConfigEnvOverrides(t *testing.T) {
	path := writeConfig(t, "log:\n  level: warn\n")

	cfg, err := LoadMainConfig(path, envMap(map[string]string{
		"PORT":                          "3000",
		"FIXTURES_LOG_LEVEL":            "debug",
		"FIXTURES_CLUB_NAME":            "Wests",
		"FIXTURES_DEFAULT_ACCESS_GROUP": "Juniors",
		"FIXTURES_STRICT":               "true",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.Server.ListenAddr)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "Wests", cfg.Conversion.ClubName)
	assert.Equal(t, "Juniors", cfg.Conversion.DefaultAccessGroup)
	assert.True(t, cfg.Conversion.Strict)

	t.Run("warning level alias", func(t *testing.T) {
		cfg, err := LoadMainConfig(path, envMap(map[string]string{"FIXTURES_LOG_LEVEL": "warning"}))
		require.NoError(t, err)
		assert.Equal(t, "warning", cfg.Log.Level)
	})

	t.Run("listen addr wins over port", func(t *testing.T) {
		cfg, err := LoadMainConfig(path, envMap(map[string]string{
			"PORT":                 "3000",
			"FIXTURES_LISTEN_ADDR": "localhost:4000",
		}))
		require.NoError(t, err)
		assert.Equal(t, "localhost:4000", cfg.Server.ListenAddr)
	})
}

func TestLoadMainConfigInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		env  map[string]string
	}{
		{"bad yaml", "server: [", nil},
		{"unknown level", "log:\n  level: loud\n", nil},
		{"unknown format", "log:\n  format: xml\n", nil},
		{"negative duration", "conversion:\n  defaults:\n    game_duration: -5\n", nil},
		{"default group not allowed", "conversion:\n  access_groups: [Public]\n", nil},
		{"bad strict env", "", map[string]string{"FIXTURES_STRICT": "sometimes"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadMainConfig(writeConfig(t, tt.body), envMap(tt.env))
			assert.Error(t, err)
		})
	}
}

func TestParseSettings(t *testing.T) {
	defaults := types.Settings{GameDuration: 120, TrackAttendance: true}

	tests := []struct {
		name     string
		raw      string
		expected types.Settings
		unknown  []string
	}{
		{
			name:     "blank keeps defaults",
			raw:      "",
			expected: defaults,
		},
		{
			name:     "empty object keeps defaults",
			raw:      "{}",
			expected: defaults,
		},
		{
			name:     "all keys",
			raw:      `{"gameDuration":90,"enableComments":true,"trackAttendance":false,"enableDutyRoster":true,"enableTicketing":true}`,
			expected: types.Settings{GameDuration: 90, EnableComments: true, EnableDutyRoster: true, EnableTicketing: true},
		},
		{
			name:     "duration as string",
			raw:      `{"gameDuration":"150"}`,
			expected: types.Settings{GameDuration: 150, TrackAttendance: true},
		},
		{
			name:     "whole float duration",
			raw:      `{"gameDuration":90.0}`,
			expected: types.Settings{GameDuration: 90, TrackAttendance: true},
		},
		{
			name:     "whole float duration as string",
			raw:      `{"gameDuration":"1.5e2"}`,
			expected: types.Settings{GameDuration: 150, TrackAttendance: true},
		},
		{
			name:     "zero duration uses default",
			raw:      `{"gameDuration":0}`,
			expected: defaults,
		},
		{
			name:     "unknown keys ignored",
			raw:      `{"theme":"dark","enableComments":true,"accessGroup":"x"}`,
			expected: types.Settings{GameDuration: 120, EnableComments: true, TrackAttendance: true},
			unknown:  []string{"accessGroup", "theme"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, unknown, err := ParseSettings(tt.raw, defaults)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.unknown, unknown)
		})
	}
}

func TestParseSettingsInvalid(t *testing.T) {
	for _, raw := range []string{
		`{not json`,
		`[1,2]`,
		`{"gameDuration":-30}`,
		`{"gameDuration":"long"}`,
		`{"gameDuration":90.5}`,
		`{"gameDuration":"90.5"}`,
		`{"gameDuration":"NaN"}`,
		`{"gameDuration":1e12}`,
		`{"enableComments":"yes"}`,
	} {
		t.Run(raw, func(t *testing.T) {
			_, _, err := ParseSettings(raw, types.Settings{})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidSettings))
		})
	}
}
