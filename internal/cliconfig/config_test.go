package cliconfig

import (
	"os"
	"path/filepath"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/technobaboo/libmonado-go/internal/logutil"
)

func write(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := write(t, `
library = "/opt/monado/lib/libmonado.so"
output = "yaml"
log_level = "warn"
debug = true

[serve]
addr = ":9000"

[watch]
interval = "250ms"
`)
	cfg, err := Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, "/opt/monado/lib/libmonado.so", cfg.Library)
	assert.Equal(t, "yaml", cfg.Output)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, ":9000", cfg.Serve.Addr)
	assert.Equal(t, 250*time.Millisecond, cfg.Watch.Interval.Duration)
}

// TestLoadDefaults verifies omitted keys keep their defaults.
func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(write(t, `output = "json"`), true)
	require.NoError(t, err)
	assert.Equal(t, DefaultAddr, cfg.Serve.Addr)
	assert.Equal(t, DefaultInterval, cfg.Watch.Interval.Duration)
	assert.Empty(t, cfg.Library)
}

func TestLoadMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "none.toml")

	cfg, err := Load(missing, false)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Load(missing, true)
	assert.Error(t, err)
}

func TestLoadInvalid(t *testing.T) {
	for name, body := range map[string]string{
		"syntax":   `output = `,
		"output":   `output = "xml"`,
		"unknown":  `colour = "red"`,
		"interval": "[watch]\ninterval = \"-1s\"",
		"addr":     "[serve]\naddr = \"\"",
		"level":    `log_level = "loud"`,
	} {
		_, err := Load(write(t, body), true)
		assert.Error(t, err, name)
	}
}

func TestDefaultPath(t *testing.T) {
	assert.Equal(t, filepath.Join("monadoctl", "config.toml"), filepath.Join(filepath.Base(filepath.Dir(DefaultPath())), filepath.Base(DefaultPath())))
}

func TestLevel(t *testing.T) {
	cfg := Default()
	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)

	cfg.Debug = true
	level, err = cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	// Debug never hides trace output.
	cfg.LogLevel = "trace"
	level, err = cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, logutil.LevelTrace, level)

	cfg.LogLevel = "nope"
	_, err = cfg.Level()
	assert.Error(t, err)
}
