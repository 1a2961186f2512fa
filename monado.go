package libmonado

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/technobaboo/libmonado-go/internal/ffi"
)

// Monado is a connection to a running Monado instance through a loaded
// libmonado. It is safe for concurrent use: native calls are serialized.
type Monado struct {
	mu      sync.Mutex
	api     ffi.API
	root    ffi.Root
	version Version
	path    string
	log     *slog.Logger
}

// Create loads the libmonado shared library at path and connects to the
// runtime.
//
// Load failures are reported as ErrorConnectingFailed and incompatible
// library versions as ErrorInvalidVersion; both match with errors.Is.
func Create(path string, opts ...Option) (*Monado, error) {
	cfg := newConfig(opts)
	log := cfg.logger.With("library", path)

	api, err := cfg.load(path)
	if err != nil {
		log.Debug("failed to load libmonado", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrorConnectingFailed, err)
	}

	major, minor, patch := api.APIGetVersion()
	version := Version{Major: major, Minor: minor, Patch: patch}
	if !version.Compatible() {
		api.Close()
		return nil, fmt.Errorf("%w: library reports %s, need ^%s", ErrorInvalidVersion, version, MinAPIVersion)
	}

	root, code := api.RootCreate()
	if err := check("mnd_root_create", code); err != nil {
		api.Close()
		return nil, err
	}

	log.Debug("connected to monado", "api_version", version.String())
	return &Monado{
		api:     api,
		root:    root,
		version: version,
		path:    path,
		log:     log,
	}, nil
}

// Close destroys the root and unloads the library. It is safe to call more
// than once.
func (m *Monado) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.api == nil {
		return nil
	}
	m.api.RootDestroy(&m.root)
	err := m.api.Close()
	m.api = nil
	return err
}

// Path returns the library path this connection was loaded from.
func (m *Monado) Path() string {
	return m.path
}

// APIVersion returns the API version reported by the loaded library.
func (m *Monado) APIVersion() Version {
	return m.version
}

// call runs fn with the native API under the lock and converts its result
// code. op names the entry point for error messages. Handles built without
// a Monado report ErrClosed.
func (m *Monado) call(op string, fn func(api ffi.API, root ffi.Root) int32) error {
	return m.callOptional(op, func(api ffi.API, root ffi.Root) (int32, error) {
		return fn(api, root), nil
	})
}

// callOptional is call for entry points that may be missing from the
// library. A non-nil error from fn is returned as is.
func (m *Monado) callOptional(op string, fn func(api ffi.API, root ffi.Root) (int32, error)) error {
	if m == nil {
		return ErrClosed
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.api == nil {
		return ErrClosed
	}
	code, err := fn(m.api, m.root)
	if err != nil {
		m.log.Debug("libmonado entry point unavailable", "op", op, "error", err)
		return err
	}
	if err := check(op, code); err != nil {
		m.log.Debug("libmonado call failed", "op", op, "result", ResultOf(err).String())
		return err
	}
	return nil
}

// RecenterLocalSpaces recenters the local and local-floor spaces on the
// current head pose.
func (m *Monado) RecenterLocalSpaces() error {
	return m.call("mnd_root_recenter_local_spaces", func(api ffi.API, root ffi.Root) int32 {
		return api.RootRecenterLocalSpaces(root)
	})
}

// SetChromaKeyParams sets the passthrough chroma key colour (RGB in 0..1),
// match threshold and edge smoothing. It returns ErrUnsupported when the
// loaded library has no chroma key entry point.
func (m *Monado) SetChromaKeyParams(color RGB, threshold, smoothing float32) error {
	return m.callOptional("mnd_root_set_chroma_key_params", func(api ffi.API, root ffi.Root) (int32, error) {
		return api.RootSetChromaKeyParams(root, color.R, color.G, color.B, threshold, smoothing)
	})
}

// RGB is a linear colour with components in 0..1.
type RGB struct {
	R float32 `json:"r"`
	G float32 `json:"g"`
	B float32 `json:"b"`
}
