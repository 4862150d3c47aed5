package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 300, cfg.Duration.WholeSeconds())
	assert.Equal(t, []int{180, 300, 420, 600, 5, 65}, cfg.PresetSeconds())
	assert.Equal(t, 50*time.Millisecond, cfg.FrameInterval.Duration)
	assert.Equal(t, logrus.InfoLevel, cfg.Level())
	assert.True(t, strings.HasSuffix(cfg.StorageFile, filepath.Join("countclock", "storage.json")))
}

func TestLoadFromReader_YAML(t *testing.T) {
	src := `
duration: 7m
presets: [1m, 2m30s]
frame_interval: 20ms
log_level: debug
overtime: true
`
	cfg, err := LoadFromReader(strings.NewReader(src), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, 420, cfg.Duration.WholeSeconds())
	assert.Equal(t, []int{60, 150}, cfg.PresetSeconds())
	assert.Equal(t, 20*time.Millisecond, cfg.FrameInterval.Duration)
	assert.Equal(t, logrus.DebugLevel, cfg.Level())
	assert.True(t, cfg.Overtime)
	// Unset keys keep their defaults.
	assert.NotEmpty(t, cfg.StorageFile)
}

func TestLoadFromReader_TOML(t *testing.T) {
	src := `
duration = "90s"
presets = ["10s"]
storage_file = "/tmp/cc.json"
`
	cfg, err := LoadFromReader(strings.NewReader(src), FormatTOML)
	require.NoError(t, err)
	assert.Equal(t, 90, cfg.Duration.WholeSeconds())
	assert.Equal(t, []int{10}, cfg.PresetSeconds())
	assert.Equal(t, "/tmp/cc.json", cfg.StorageFile)
}

func TestLoadFromReader_EmptyYAMLIsDefaults(t *testing.T) {
	cfg, err := LoadFromReader(strings.NewReader(""), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().PresetSeconds(), cfg.PresetSeconds())
}

func TestLoadFromReader_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		format Format
	}{
		{"bad duration", "duration: soon", FormatYAML},
		{"negative duration", "duration: -5m", FormatYAML},
		{"zero duration", "duration: 0s", FormatYAML},
		{"empty presets", "presets: []", FormatYAML},
		{"frame interval too slow", `frame_interval = "2s"`, FormatTOML},
		{"unknown log level", `log_level = "loud"`, FormatTOML},
		{"broken toml", `duration = `, FormatTOML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromReader(strings.NewReader(tt.src), tt.format)
			require.Error(t, err)
		})
	}

	_, err := LoadFromReader(strings.NewReader(""), Format("ini"))
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()

	// Missing files fall back to defaults.
	cfg, err := LoadFromFile(filepath.Join(dir, "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 300, cfg.Duration.WholeSeconds())

	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`duration = "3m"`), 0o600))
	cfg, err = LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 180, cfg.Duration.WholeSeconds())

	_, err = LoadFromFile(filepath.Join(dir, "config.json"))
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestLoad_SearchesXDGConfigHome(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	require.NoError(t, os.MkdirAll(filepath.Join(xdg, "countclock"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(xdg, "countclock", "config.yml"), []byte("duration: 10m\n"), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 600, cfg.Duration.WholeSeconds())
	assert.Equal(t, filepath.Join(xdg, "countclock", "storage.json"), cfg.StorageFile)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("COUNTCLOCK_STORAGE", "/tmp/elsewhere.json")
	t.Setenv("COUNTCLOCK_LOG_LEVEL", "WARN")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/elsewhere.json", cfg.StorageFile)
	assert.Equal(t, logrus.WarnLevel, cfg.Level())
}
