// Package config loads countclock settings from a YAML or TOML file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/ensigniasec/countclock/internal/validate"
)

const appName = "countclock"

// ErrUnknownFormat is returned for config files that are neither YAML nor TOML.
var ErrUnknownFormat = errors.New("unknown config format")

// Format selects the decoder.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Config holds user settings.
type Config struct {
	// Duration is the countdown length a fresh timer starts from.
	Duration Duration `yaml:"duration" toml:"duration"`
	// Presets are cycled with the preset key.
	Presets []Duration `yaml:"presets" toml:"presets"`
	// FrameInterval is the delay between frame callbacks.
	FrameInterval Duration `yaml:"frame_interval" toml:"frame_interval"`
	// StorageFile holds saved targets.
	StorageFile string `yaml:"storage_file" toml:"storage_file" validate:"required"`
	// LogLevel is a logrus level name.
	LogLevel string `yaml:"log_level" toml:"log_level" validate:"oneof=panic fatal error warn warning info debug trace"`
	// Overtime keeps plain runs counting past zero.
	Overtime bool `yaml:"overtime" toml:"overtime"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Duration: Duration{5 * time.Minute},
		Presets: []Duration{
			{3 * time.Minute},
			{5 * time.Minute},
			{7 * time.Minute},
			{10 * time.Minute},
			{5 * time.Second},
			{65 * time.Second},
		},
		FrameInterval: Duration{50 * time.Millisecond},
		StorageFile:   filepath.Join(xdgConfigHome(home), appName, "storage.json"),
		LogLevel:      "info",
	}
}

// Load reads configuration from path, or from the first file found in the
// standard locations when path is empty:
//  1. $XDG_CONFIG_HOME/countclock/config.{yaml,yml,toml}
//  2. ~/.config/countclock/config.{yaml,yml,toml}
//
// If no file exists, returns DefaultConfig() with environment overrides.
func Load(path string) (*Config, error) {
	if path != "" {
		return LoadFromFile(path)
	}
	for _, p := range configSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return LoadFromFile(p)
		}
	}
	cfg := DefaultConfig()
	applyEnvOverrides(cfg)
	return cfg, cfg.Validate()
}

// LoadFromFile reads configuration from a specific file path, picking the
// decoder from the extension. A missing file yields defaults.
func LoadFromFile(path string) (*Config, error) {
	format, err := formatFor(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			applyEnvOverrides(cfg)
			return cfg, cfg.Validate()
		}
		return nil, err
	}
	defer f.Close()
	logrus.Debug("Loading config file from: ", path)
	return LoadFromReader(f, format)
}

// LoadFromReader decodes configuration in the given format over the defaults.
func LoadFromReader(r io.Reader, format Format) (*Config, error) {
	cfg := DefaultConfig()
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode yaml config: %w", err)
		}
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
			return nil, fmt.Errorf("decode toml config: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges the decoders cannot express.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %s", validate.Describe(err))
	}
	if err := validate.Var(c.Duration.WholeSeconds(), "min=1,max=86400"); err != nil {
		return fmt.Errorf("invalid config: duration %s must be between 1s and 24h", c.Duration)
	}
	if len(c.Presets) == 0 {
		return errors.New("invalid config: presets must not be empty")
	}
	for _, p := range c.Presets {
		if err := validate.Var(p.WholeSeconds(), "min=1,max=86400"); err != nil {
			return fmt.Errorf("invalid config: preset %s must be between 1s and 24h", p)
		}
	}
	if err := validate.Var(c.FrameInterval.Milliseconds(), "min=1,max=1000"); err != nil {
		return fmt.Errorf("invalid config: frame_interval %s must be between 1ms and 1s", c.FrameInterval)
	}
	return nil
}

// Level returns the configured logrus level, defaulting to info.
func (c *Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// PresetSeconds returns the presets in whole seconds.
func (c *Config) PresetSeconds() []int {
	out := make([]int, 0, len(c.Presets))
	for _, p := range c.Presets {
		out = append(out, p.WholeSeconds())
	}
	return out
}

// applyEnvOverrides checks environment variables and overrides config values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("COUNTCLOCK_STORAGE"); v != "" {
		cfg.StorageFile = v
	}
	if v := os.Getenv("COUNTCLOCK_LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
}

func formatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// configSearchPaths returns the ordered list of config file paths to try.
func configSearchPaths() []string {
	home, _ := os.UserHomeDir()
	dirs := []string{filepath.Join(xdgConfigHome(home), appName)}

	// If XDG_CONFIG_HOME was explicitly set, also try the fallback default.
	defaultDir := filepath.Join(home, ".config", appName)
	if dirs[0] != defaultDir {
		dirs = append(dirs, defaultDir)
	}

	var paths []string
	for _, d := range dirs {
		for _, name := range []string{"config.yaml", "config.yml", "config.toml"} {
			paths = append(paths, filepath.Join(d, name))
		}
	}
	return paths
}

// xdgConfigHome returns XDG_CONFIG_HOME or ~/.config as fallback.
func xdgConfigHome(home string) string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".config")
}
