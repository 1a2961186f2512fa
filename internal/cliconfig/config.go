// Package cliconfig loads the monadoctl configuration file.
package cliconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"

	"github.com/technobaboo/libmonado-go/internal/logutil"
)

// Defaults used when neither the file nor a flag sets a value.
const (
	DefaultOutput   = "table"
	DefaultLogLevel = "info"
	DefaultAddr     = "127.0.0.1:9812"
	DefaultInterval = time.Second
)

// Duration is a time.Duration written as "500ms" or "2s" in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	if v <= 0 {
		return fmt.Errorf("duration must be positive, got %s", v)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config is the contents of config.toml.
type Config struct {
	Library  string `toml:"library"`
	Output   string `toml:"output"`
	LogLevel string `toml:"log_level"`
	Debug    bool   `toml:"debug"`

	Serve struct {
		Addr string `toml:"addr"`
	} `toml:"serve"`

	Watch struct {
		Interval Duration `toml:"interval"`
	} `toml:"watch"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{Output: DefaultOutput, LogLevel: DefaultLogLevel}
	cfg.Serve.Addr = DefaultAddr
	cfg.Watch.Interval = Duration{DefaultInterval}
	return cfg
}

// DefaultPath is $XDG_CONFIG_HOME/monadoctl/config.toml.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "monadoctl", "config.toml")
}

// Load reads path over the defaults. A missing file is only an error when
// required is set.
func Load(path string, required bool) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that the decoder cannot.
func (c *Config) Validate() error {
	switch c.Output {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("output must be table, json or yaml, got %q", c.Output)
	}
	if _, err := logutil.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Serve.Addr == "" {
		return errors.New("serve.addr must not be empty")
	}
	return nil
}

// Level is the configured log level. Debug raises it to at least
// slog.LevelDebug.
func (c *Config) Level() (slog.Level, error) {
	level, err := logutil.ParseLevel(c.LogLevel)
	if err != nil {
		return 0, err
	}
	if c.Debug && level > slog.LevelDebug {
		level = slog.LevelDebug
	}
	return level, nil
}
