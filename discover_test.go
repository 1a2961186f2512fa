package libmonado

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/technobaboo/libmonado-go/internal/ffitest"
)

func env(vars map[string]string) Option {
	return WithEnv(func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	})
}

func noFinder(string) (string, bool) { return "", false }

// writeManifest writes an active_runtime.json under dir/openxr/1 and
// returns its path.
func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "openxr", "1", "active_runtime.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// realDir resolves symlinks in a temp dir so expectations match
// canonicalized paths.
func realDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	return dir
}

const monadoManifest = `{
	"file_format_version": "1.0.0",
	"runtime": {
		"name": "Monado",
		"library_path": "../../../lib/libopenxr_monado.so",
		"MND_libmonado_path": "../../../lib/libmonado.so"
	}
}`

func TestParseRuntimeManifest(t *testing.T) {
	m, err := ParseRuntimeManifest([]byte(monadoManifest))
	require.NoError(t, err)
	assert.Equal(t, "../../../lib/libopenxr_monado.so", m.Runtime.LibraryPath)
	assert.Equal(t, "../../../lib/libmonado.so", m.Runtime.LibmonadoPath)

	m, err = ParseRuntimeManifest([]byte(`{"runtime":{"library_path":"libopenxr_other.so"}}`))
	require.NoError(t, err)
	assert.Empty(t, m.Runtime.LibmonadoPath)

	for _, bad := range []string{`{}`, `{"runtime":{}}`, `not json`, `{"runtime":{"MND_libmonado_path":"x"}}`} {
		_, err := ParseRuntimeManifest([]byte(bad))
		assert.Error(t, err, bad)
	}
}

// TestRuntimeCandidatesOrder verifies XR_RUNTIME_JSON comes first, then the
// config dirs in the order given.
func TestRuntimeCandidatesOrder(t *testing.T) {
	got := RuntimeCandidates(
		env(map[string]string{EnvRuntimeJSON: "/run/override.json"}),
		WithConfigDirs("/home/u/.config", "", "/etc/xdg"),
	)
	assert.Equal(t, []string{
		"/run/override.json",
		filepath.Join("/home/u/.config", "openxr", "1", "active_runtime.json"),
		filepath.Join("/etc/xdg", "openxr", "1", "active_runtime.json"),
	}, got)
}

// TestLocateFromEnv verifies LIBMONADO_PATH wins over any manifest.
func TestLocateFromEnv(t *testing.T) {
	dir := realDir(t)
	lib := filepath.Join(dir, "libmonado.so")
	require.NoError(t, os.WriteFile(lib, nil, 0o644))
	writeManifest(t, dir, monadoManifest)

	loc, err := LocateLibrary(env(map[string]string{EnvLibmonadoPath: lib}), WithConfigDirs(dir))
	require.NoError(t, err)
	assert.Equal(t, Location{Path: lib, Source: SourceEnv}, loc)
}

// TestLocateFromEnvInvalid verifies a bad LIBMONADO_PATH fails without
// falling back to the manifest.
func TestLocateFromEnvInvalid(t *testing.T) {
	dir := realDir(t)
	writeManifest(t, dir, monadoManifest)

	for _, p := range []string{dir, filepath.Join(dir, "missing.so"), ""} {
		_, err := LocateLibrary(env(map[string]string{EnvLibmonadoPath: p}), WithConfigDirs(dir))
		assert.ErrorIs(t, err, ErrLibmonadoPathInvalid, p)
	}
}

func TestLocateRelativeToManifest(t *testing.T) {
	dir := realDir(t)
	manifest := writeManifest(t, dir, monadoManifest)

	loc, err := LocateLibrary(env(nil), WithConfigDirs(dir), WithLibraryFinder(noFinder))
	require.NoError(t, err)
	assert.Equal(t, SourceManifest, loc.Source)
	assert.Equal(t, manifest, loc.Manifest)
	assert.Equal(t, filepath.Join(filepath.Dir(dir), "lib", "libmonado.so"), loc.Path)
}

// TestLocateSkipsMalformed verifies unreadable and malformed candidates
// are skipped in favour of later ones.
func TestLocateSkipsMalformed(t *testing.T) {
	home, sys := realDir(t), realDir(t)
	writeManifest(t, home, `{"runtime": `)
	writeManifest(t, sys, `{"runtime":{"library_path":"x.so","MND_libmonado_path":"/usr/lib/libmonado.so"}}`)

	loc, err := LocateLibrary(
		env(map[string]string{EnvRuntimeJSON: filepath.Join(home, "nope.json")}),
		WithConfigDirs(home, sys),
	)
	require.NoError(t, err)
	assert.Equal(t, "/usr/lib/libmonado.so", loc.Path)
	assert.Equal(t, filepath.Join(sys, "openxr", "1", "active_runtime.json"), loc.Manifest)
}

// TestLocateFirstParsedWins verifies a parsed manifest without a libmonado
// path stops the search.
func TestLocateFirstParsedWins(t *testing.T) {
	home, sys := realDir(t), realDir(t)
	writeManifest(t, home, `{"runtime":{"library_path":"libopenxr_other.so"}}`)
	writeManifest(t, sys, monadoManifest)

	_, err := LocateLibrary(env(nil), WithConfigDirs(home, sys))
	assert.ErrorIs(t, err, ErrNoLibmonadoPath)
}

func TestLocateNoRuntime(t *testing.T) {
	_, err := LocateLibrary(env(nil), WithConfigDirs(realDir(t)))
	assert.ErrorIs(t, err, ErrNoActiveRuntime)
}

func TestLocateOverrideManifest(t *testing.T) {
	dir := realDir(t)
	override := filepath.Join(dir, "custom.json")
	require.NoError(t, os.WriteFile(override, []byte(`{"runtime":{"library_path":"a.so","MND_libmonado_path":"build/libmonado.so"}}`), 0o644))

	loc, err := LocateLibrary(env(map[string]string{EnvRuntimeJSON: override}), WithConfigDirs())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "build", "libmonado.so"), loc.Path)
}

// TestResolveLibraryPathSymlink verifies relative paths follow the real
// manifest, not the link.
func TestResolveLibraryPathSymlink(t *testing.T) {
	install, config := realDir(t), realDir(t)
	target := filepath.Join(install, "share", "openxr", "1", "openxr_monado.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(target), 0o755))
	require.NoError(t, os.WriteFile(target, []byte(monadoManifest), 0o644))
	link := filepath.Join(config, "active_runtime.json")
	require.NoError(t, os.Symlink(target, link))

	got, err := ResolveLibraryPath("../../../lib/libmonado.so", link, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(install, "lib", "libmonado.so"), got)
}

// TestResolveLibraryPathBareName verifies bare names try the system search
// path before the manifest directory.
func TestResolveLibraryPathBareName(t *testing.T) {
	dir := realDir(t)
	manifest := writeManifest(t, dir, monadoManifest)

	found := func(name string) (string, bool) {
		assert.Equal(t, "libmonado.so.0", name)
		return "/usr/lib64/libmonado.so.0", true
	}
	got, err := ResolveLibraryPath("libmonado.so.0", manifest, found)
	require.NoError(t, err)
	assert.Equal(t, "/usr/lib64/libmonado.so.0", got)

	got, err = ResolveLibraryPath("libmonado.so.0", manifest, noFinder)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(manifest), "libmonado.so.0"), got)

	got, err = ResolveLibraryPath("/opt/monado/libmonado.so", manifest, found)
	require.NoError(t, err)
	assert.Equal(t, "/opt/monado/libmonado.so", got)

	_, err = ResolveLibraryPath("libmonado.so", filepath.Join(dir, "missing.json"), nil)
	assert.Error(t, err)
}

// TestAutoConnect verifies discovery feeds the resolved path to the
// loader.
func TestAutoConnect(t *testing.T) {
	dir := realDir(t)
	writeManifest(t, dir, monadoManifest)
	f := ffitest.Populated()
	var paths []string

	m, err := AutoConnect(env(nil), WithConfigDirs(dir), WithLibraryFinder(noFinder), WithLoader(f.Loader(&paths)))
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, []string{filepath.Join(filepath.Dir(dir), "lib", "libmonado.so")}, paths)
	assert.Equal(t, 1, f.Created)
}

func TestAutoConnectNoRuntime(t *testing.T) {
	f := ffitest.New()
	_, err := AutoConnect(env(nil), WithConfigDirs(realDir(t)), WithLoader(f.Loader(nil)))
	assert.ErrorIs(t, err, ErrNoActiveRuntime)
	assert.Zero(t, f.Calls["mnd_api_get_version"])
}
