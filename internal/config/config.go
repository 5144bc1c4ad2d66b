// Package config provides configuration management using Viper.
// It loads configuration from environment variables, .env files, and config files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/jwulff/trimbar/internal/player"
	"github.com/spf13/viper"
)

const (
	defaultConnectTimeout = 3 * time.Second
	defaultThrottle       = 8 * time.Millisecond
	defaultHandleWidth    = 1.0
	defaultFrameRate      = 60
	defaultLogLevel       = "info"
	envPrefix             = "TRIMBAR"
)

// Config holds all application configuration
type Config struct {
	Player  PlayerConfig
	Trim    TrimConfig
	UI      UIConfig
	Logging LoggingConfig
}

// PlayerConfig holds the player IPC connection settings
type PlayerConfig struct {
	Socket         string
	ConnectTimeout time.Duration
}

// TrimConfig holds the initial selection and drag tuning.
// Start and EndOffset are nil when not configured.
type TrimConfig struct {
	Start       *float64
	EndOffset   *float64
	Throttle    time.Duration
	HandleWidth float64
}

// UIConfig holds terminal UI settings
type UIConfig struct {
	FrameRate int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
	File  string
}

// FrameInterval returns the render frame period.
func (u UIConfig) FrameInterval() time.Duration {
	return time.Second / time.Duration(u.FrameRate)
}

// Load reads configuration from .env file, config files, environment variables, and defaults
func Load() (*Config, error) {
	_ = godotenv.Load() // nolint:errcheck // .env file is optional

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "trimbar"))
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	return fromViper(v)
}

// fromViper builds and validates a Config. The optional trim offsets are
// read with IsSet so that an explicit 0 differs from "not configured".
func fromViper(v *viper.Viper) (*Config, error) {
	cfg := Config{
		Player: PlayerConfig{
			Socket:         v.GetString("player.socket"),
			ConnectTimeout: v.GetDuration("player.connecttimeout"),
		},
		Trim: TrimConfig{
			Throttle:    v.GetDuration("trim.throttle"),
			HandleWidth: v.GetFloat64("trim.handlewidth"),
		},
		UI: UIConfig{
			FrameRate: v.GetInt("ui.framerate"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("logging.level"),
			File:  v.GetString("logging.file"),
		},
	}
	if v.IsSet("trim.start") {
		start := v.GetFloat64("trim.start")
		cfg.Trim.Start = &start
	}
	if v.IsSet("trim.endoffset") {
		offset := v.GetFloat64("trim.endoffset")
		cfg.Trim.EndOffset = &offset
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	v.SetDefault("player.socket", player.DefaultSocketPath())
	v.SetDefault("player.connecttimeout", defaultConnectTimeout)

	v.SetDefault("trim.throttle", defaultThrottle)
	v.SetDefault("trim.handlewidth", defaultHandleWidth)

	v.SetDefault("ui.framerate", defaultFrameRate)

	v.SetDefault("logging.level", defaultLogLevel)
	v.SetDefault("logging.file", filepath.Join(os.TempDir(), "trimbar.log"))
}

// Validate checks that configuration values are valid
func (c *Config) Validate() error {
	if c.Player.Socket == "" {
		return errors.New("player socket path is required")
	}
	if c.Player.ConnectTimeout <= 0 {
		return fmt.Errorf("invalid connect timeout: %v (must be > 0)", c.Player.ConnectTimeout)
	}

	if c.Trim.Start != nil && *c.Trim.Start < 0 {
		return fmt.Errorf("invalid trim start: %v (must be >= 0)", *c.Trim.Start)
	}
	if c.Trim.EndOffset != nil && *c.Trim.EndOffset < 0 {
		return fmt.Errorf("invalid trim end offset: %v (must be >= 0)", *c.Trim.EndOffset)
	}
	if c.Trim.Throttle <= 0 {
		return fmt.Errorf("invalid trim throttle: %v (must be > 0)", c.Trim.Throttle)
	}
	if c.Trim.HandleWidth <= 0 {
		return fmt.Errorf("invalid handle width: %v (must be > 0)", c.Trim.HandleWidth)
	}

	if c.UI.FrameRate < 1 || c.UI.FrameRate > 240 {
		return fmt.Errorf("invalid frame rate: %d (must be between 1 and 240)", c.UI.FrameRate)
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLevels, c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.Logging.Level, strings.Join(validLevels, ", "))
	}

	return nil
}
