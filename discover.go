package libmonado

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/technobaboo/libmonado-go/internal/logutil"
)

const (
	// EnvLibmonadoPath names an explicit libmonado to load.
	EnvLibmonadoPath = "LIBMONADO_PATH"
	// EnvRuntimeJSON overrides the active OpenXR runtime manifest.
	EnvRuntimeJSON = "XR_RUNTIME_JSON"

	activeRuntimeFile = "openxr/1/active_runtime.json"
)

// RuntimeManifest is the subset of an OpenXR runtime manifest that matters
// for finding libmonado.
type RuntimeManifest struct {
	Runtime struct {
		LibraryPath   string `json:"library_path"`
		LibmonadoPath string `json:"MND_libmonado_path,omitempty"`
	} `json:"runtime"`
}

// ParseRuntimeManifest decodes a manifest. The runtime.library_path key is
// required; MND_libmonado_path is optional.
func ParseRuntimeManifest(data []byte) (*RuntimeManifest, error) {
	var raw struct {
		Runtime *struct {
			LibraryPath   *string `json:"library_path"`
			LibmonadoPath *string `json:"MND_libmonado_path"`
		} `json:"runtime"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw.Runtime == nil {
		return nil, errors.New("missing runtime object")
	}
	if raw.Runtime.LibraryPath == nil {
		return nil, errors.New("missing runtime.library_path")
	}

	m := &RuntimeManifest{}
	m.Runtime.LibraryPath = *raw.Runtime.LibraryPath
	if raw.Runtime.LibmonadoPath != nil {
		m.Runtime.LibmonadoPath = *raw.Runtime.LibmonadoPath
	}
	return m, nil
}

// RuntimeCandidates returns the manifest paths AutoConnect tries, most
// preferred first: XR_RUNTIME_JSON, then the XDG config home, then each XDG
// config dir.
func RuntimeCandidates(opts ...Option) []string {
	return newConfig(opts).runtimeCandidates()
}

func (c *Config) runtimeCandidates() []string {
	var out []string
	if p, ok := c.lookupEnv(EnvRuntimeJSON); ok && p != "" {
		out = append(out, p)
	}
	dirs := c.configDirs
	if dirs == nil {
		dirs = append([]string{xdg.ConfigHome}, xdg.ConfigDirs...)
	}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		out = append(out, filepath.Join(dir, filepath.FromSlash(activeRuntimeFile)))
	}
	return out
}

// FindActiveRuntime returns the first candidate manifest that can be read
// and parsed, together with its path. Unreadable or malformed candidates are
// skipped.
func FindActiveRuntime(opts ...Option) (*RuntimeManifest, string, error) {
	return newConfig(opts).findActiveRuntime()
}

func (c *Config) findActiveRuntime() (*RuntimeManifest, string, error) {
	for _, path := range c.runtimeCandidates() {
		data, err := os.ReadFile(path)
		if err != nil {
			logutil.Trace(c.logger, "skipping runtime manifest", "path", path, "error", err)
			continue
		}
		m, err := ParseRuntimeManifest(data)
		if err != nil {
			c.logger.Debug("skipping malformed runtime manifest", "path", path, "error", err)
			continue
		}
		return m, path, nil
	}
	return nil, "", ErrNoActiveRuntime
}

// ResolveLibraryPath resolves the libmonado path named in a manifest.
// Paths are relative to the directory of the manifest after following
// symlinks. A bare file name is first looked up through the system library
// search path with find, which may be nil.
func ResolveLibraryPath(lib, manifestPath string, find func(string) (string, bool)) (string, error) {
	resolved, err := filepath.EvalSymlinks(manifestPath)
	if err != nil {
		return "", fmt.Errorf("libmonado: failed to canonicalize runtime json path: %w", err)
	}
	resolved, err = filepath.Abs(resolved)
	if err != nil {
		return "", fmt.Errorf("libmonado: failed to canonicalize runtime json path: %w", err)
	}

	joined := lib
	if !filepath.IsAbs(lib) {
		joined = filepath.Join(filepath.Dir(resolved), lib)
	}

	if strings.ContainsRune(lib, filepath.Separator) {
		return joined, nil
	}
	if find != nil {
		if p, ok := find(lib); ok {
			return p, nil
		}
	}
	return joined, nil
}

// Source says which discovery step found the library.
type Source string

const (
	SourceEnv      Source = "env"
	SourceManifest Source = "manifest"
)

// Location is the outcome of library discovery.
type Location struct {
	Path     string `json:"path" yaml:"path"`
	Source   Source `json:"source" yaml:"source"`
	Manifest string `json:"manifest,omitempty" yaml:"manifest,omitempty"`
}

// LocateLibrary runs the same discovery as AutoConnect without loading
// anything.
func LocateLibrary(opts ...Option) (Location, error) {
	return newConfig(opts).locate()
}

func (c *Config) locate() (Location, error) {
	if p, ok := c.lookupEnv(EnvLibmonadoPath); ok {
		info, err := os.Stat(p)
		if err != nil || !info.Mode().IsRegular() {
			return Location{}, fmt.Errorf("%w: %q", ErrLibmonadoPathInvalid, p)
		}
		c.logger.Debug("using libmonado from environment", "path", p)
		return Location{Path: p, Source: SourceEnv}, nil
	}

	m, manifest, err := c.findActiveRuntime()
	if err != nil {
		return Location{}, err
	}
	if m.Runtime.LibmonadoPath == "" {
		return Location{}, fmt.Errorf("%w: %s", ErrNoLibmonadoPath, manifest)
	}

	path, err := ResolveLibraryPath(m.Runtime.LibmonadoPath, manifest, c.findLibrary)
	if err != nil {
		return Location{}, err
	}
	c.logger.Debug("using libmonado from active runtime", "path", path, "manifest", manifest)
	return Location{Path: path, Source: SourceManifest, Manifest: manifest}, nil
}

// AutoConnect finds libmonado the way OpenXR clients find the active
// runtime and connects to it.
//
// LIBMONADO_PATH wins when set and must name a regular file. Otherwise the
// first readable manifest among RuntimeCandidates must carry a
// MND_libmonado_path entry.
func AutoConnect(opts ...Option) (*Monado, error) {
	loc, err := newConfig(opts).locate()
	if err != nil {
		return nil, err
	}
	return Create(loc.Path, opts...)
}
