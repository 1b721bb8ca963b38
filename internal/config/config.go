// =============================================================================
// Fixture Converter - Configuration Module
// =============================================================================
//
// This module is responsible for loading the application configuration and
// decoding the per-request conversion settings.
//
// CONFIGURATION SOURCES (later sources win):
//   1. Built-in defaults (applyMainConfigDefaults)
//   2. Main config file (config.yaml, optional)
//   3. Environment variables (FIXTURES_*), including values from a .env file
//
// =============================================================================

package config

import (
	"os"
	"strconv"
	"time"

	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"

	"github.com/wscc/fixture-converter/internal/logging"
	"github.com/wscc/fixture-converter/internal/types"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
// This is loaded from the main config.yaml file.
type MainConfig struct {
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	Conversion ConversionConfig `yaml:"conversion"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	// ListenAddr is the address the HTTP server binds to.
	// Default: ":8080"
	ListenAddr string `yaml:"listen_addr"`

	// MaxUploadBytes caps the size of an uploaded request body.
	// Default: 10 MiB
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`

	// ReadTimeout and WriteTimeout bound a single request.
	// Default: 30s and 60s
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// ShutdownTimeout is how long in-flight requests get on shutdown.
	// Default: 10s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LogConfig holds the logging settings.
type LogConfig struct {
	// Level controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format selects the log writer.
	// Valid values: "console", "json"
	// Default: "console"
	Format string `yaml:"format"`
}

// ConversionConfig holds the conversion settings.
type ConversionConfig struct {
	// ClubName is the club whose fixtures are converted. It is matched
	// against the away team to pick the opponent.
	// Default: "Western Suburbs"
	ClubName string `yaml:"club_name"`

	// DefaultAccessGroup is used when a request does not name one.
	// Default: "Women's"
	DefaultAccessGroup string `yaml:"default_access_group"`

	// AccessGroups restricts the accepted access groups.
	// Empty accepts any value.
	AccessGroups []string `yaml:"access_groups"`

	// Strict rejects uploads with error-severity validation findings.
	// Default: false
	Strict bool `yaml:"strict"`

	// PreviewRows is how many converted rows the upload page renders.
	// Default: 200
	PreviewRows int `yaml:"preview_rows"`

	// Defaults are the settings used for keys a request leaves out.
	Defaults SettingsDefaults `yaml:"defaults"`
}

// SettingsDefaults mirrors types.Settings in YAML form.
type SettingsDefaults struct {
	GameDuration     int  `yaml:"game_duration"`
	EnableComments   bool `yaml:"enable_comments"`
	TrackAttendance  bool `yaml:"track_attendance"`
	EnableDutyRoster bool `yaml:"enable_duty_roster"`
	EnableTicketing  bool `yaml:"enable_ticketing"`
}

// Settings returns the defaults as conversion settings.
func (d SettingsDefaults) Settings() types.Settings {
	return types.Settings{
		GameDuration:     d.GameDuration,
		EnableComments:   d.EnableComments,
		TrackAttendance:  d.TrackAttendance,
		EnableDutyRoster: d.EnableDutyRoster,
		EnableTicketing:  d.EnableTicketing,
	}
}

// AllowsAccessGroup reports whether group may be used in a conversion.
func (c ConversionConfig) AllowsAccessGroup(group string) bool {
	if len(c.AccessGroups) == 0 {
		return true
	}
	for _, g := range c.AccessGroups {
		if g == group {
			return true
		}
	}
	return false
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// LoadMainConfig loads the main configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the main configuration file. A missing file is
//     not an error; the defaults are used instead.
//   - getenv: Looks up environment overrides, usually os.Getenv.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file cannot be read or parsed, or fails validation.
func LoadMainConfig(configPath string, getenv func(string) string) (*MainConfig, error) {
	var config MainConfig

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, errors.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, errors.Errorf("failed to read config file: %w", err)
	}

	if getenv != nil {
		if err := applyEnvOverrides(&config, getenv); err != nil {
			return nil, err
		}
	}

	applyMainConfigDefaults(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, errors.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns the configuration used when no file is present.
func Default() *MainConfig {
	var config MainConfig
	applyMainConfigDefaults(&config)
	return &config
}

// applyEnvOverrides copies FIXTURES_* variables over the file values.
func applyEnvOverrides(config *MainConfig, getenv func(string) string) error {
	if v := getenv("PORT"); v != "" {
		config.Server.ListenAddr = ":" + v
	}
	if v := getenv("FIXTURES_LISTEN_ADDR"); v != "" {
		config.Server.ListenAddr = v
	}
	if v := getenv("FIXTURES_LOG_LEVEL"); v != "" {
		config.Log.Level = v
	}
	if v := getenv("FIXTURES_LOG_FORMAT"); v != "" {
		config.Log.Format = v
	}
	if v := getenv("FIXTURES_CLUB_NAME"); v != "" {
		config.Conversion.ClubName = v
	}
	if v := getenv("FIXTURES_DEFAULT_ACCESS_GROUP"); v != "" {
		config.Conversion.DefaultAccessGroup = v
	}
	if v := getenv("FIXTURES_STRICT"); v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Errorf("invalid FIXTURES_STRICT %q: %w", v, err)
		}
		config.Conversion.Strict = strict
	}
	return nil
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.Server.ListenAddr == "" {
		config.Server.ListenAddr = ":8080"
	}
	if config.Server.MaxUploadBytes == 0 {
		config.Server.MaxUploadBytes = 10 << 20
	}
	if config.Server.ReadTimeout == 0 {
		config.Server.ReadTimeout = 30 * time.Second
	}
	if config.Server.WriteTimeout == 0 {
		config.Server.WriteTimeout = 60 * time.Second
	}
	if config.Server.ShutdownTimeout == 0 {
		config.Server.ShutdownTimeout = 10 * time.Second
	}
	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
	if config.Log.Format == "" {
		config.Log.Format = "console"
	}
	if config.Conversion.ClubName == "" {
		config.Conversion.ClubName = "Western Suburbs"
	}
	if config.Conversion.DefaultAccessGroup == "" {
		config.Conversion.DefaultAccessGroup = "Women's"
	}
	if config.Conversion.PreviewRows == 0 {
		config.Conversion.PreviewRows = 200
	}
	if config.Conversion.Defaults.GameDuration == 0 {
		config.Conversion.Defaults.GameDuration = types.DefaultGameDuration
	}
}

// validateMainConfig validates the main configuration.
func validateMainConfig(config *MainConfig) error {
	if _, err := logging.ParseLevel(config.Log.Level); err != nil {
		return err
	}

	switch config.Log.Format {
	case "console", "json":
	default:
		return errors.Errorf("unknown log format %q", config.Log.Format)
	}

	if config.Server.MaxUploadBytes < 0 {
		return errors.New("server.max_upload_bytes must not be negative")
	}
	if config.Conversion.PreviewRows < 0 {
		return errors.New("conversion.preview_rows must not be negative")
	}
	if config.Conversion.Defaults.GameDuration < 0 {
		return errors.New("conversion.defaults.game_duration must not be negative")
	}
	if !config.Conversion.AllowsAccessGroup(config.Conversion.DefaultAccessGroup) {
		return errors.Errorf("default access group %q is not in conversion.access_groups", config.Conversion.DefaultAccessGroup)
	}

	return nil
}
