package libmonado

import (
	"log/slog"
	"os"

	"github.com/technobaboo/libmonado-go/internal/ffi"
)

// Config holds the settings used to locate and load libmonado.
type Config struct {
	logger      *slog.Logger
	lookupEnv   func(string) (string, bool)
	configDirs  []string
	findLibrary func(string) (string, bool)
	load        func(string) (ffi.API, error)
}

// Option is a functional option for Create and AutoConnect.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() *Config {
	return &Config{
		logger:      slog.Default(),
		lookupEnv:   os.LookupEnv,
		findLibrary: ffi.FindSystemLibrary,
		load:        ffi.Load,
	}
}

func newConfig(opts []Option) *Config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithLogger sets the logger used for discovery and native call failures.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithEnv replaces the environment lookup used for LIBMONADO_PATH and
// XR_RUNTIME_JSON. Default is os.LookupEnv.
func WithEnv(lookup func(string) (string, bool)) Option {
	return func(c *Config) {
		if lookup != nil {
			c.lookupEnv = lookup
		}
	}
}

// WithConfigDirs replaces the XDG config directories searched for
// openxr/1/active_runtime.json, most preferred first.
// Default is XDG_CONFIG_HOME followed by XDG_CONFIG_DIRS. Calling it with
// no directories disables the search.
func WithConfigDirs(dirs ...string) Option {
	return func(c *Config) {
		c.configDirs = append([]string{}, dirs...)
	}
}

// WithLibraryFinder replaces the lookup of bare library names through the
// system search path.
func WithLibraryFinder(find func(name string) (string, bool)) Option {
	return func(c *Config) {
		if find != nil {
			c.findLibrary = find
		}
	}
}

// WithLoader replaces the dynamic loader. The function type refers to an
// internal package, so only code inside this module can supply one; it
// exists for tests.
func WithLoader(load func(path string) (ffi.API, error)) Option {
	return func(c *Config) {
		if load != nil {
			c.load = load
		}
	}
}
