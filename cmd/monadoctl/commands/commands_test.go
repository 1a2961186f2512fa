package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	libmonado "github.com/technobaboo/libmonado-go"
	"github.com/technobaboo/libmonado-go/internal/ffitest"
)

type harness struct {
	fake   *ffitest.Fake
	dir    string
	config string
	env    map[string]string
	loaded []string
}

// newHarness writes a config naming a library, so commands connect to the
// fake without discovery.
func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{fake: ffitest.Populated(), dir: t.TempDir(), env: map[string]string{}}
	h.writeConfig(t, "library = \"/opt/monado/lib/libmonado.so\"\n")
	return h
}

func (h *harness) writeConfig(t *testing.T, body string) {
	t.Helper()
	h.config = filepath.Join(h.dir, "config.toml")
	require.NoError(t, os.WriteFile(h.config, []byte(body), 0o644))
}

func (h *harness) runContext(ctx context.Context, args ...string) (string, string, error) {
	cmd := NewRootCmd(
		libmonado.WithLoader(h.fake.Loader(&h.loaded)),
		libmonado.WithEnv(func(k string) (string, bool) {
			v, ok := h.env[k]
			return v, ok
		}),
		libmonado.WithConfigDirs(h.dir),
		libmonado.WithLibraryFinder(func(string) (string, bool) { return "", false }),
	)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", h.config}, args...))
	err := cmd.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

func (h *harness) run(args ...string) (string, error) {
	out, _, err := h.runContext(context.Background(), args...)
	return out, err
}

func TestInfoTable(t *testing.T) {
	h := newHarness(t)
	out, err := h.run("info")
	require.NoError(t, err)

	for _, want := range []string{
		"/opt/monado/lib/libmonado.so",
		"1.3.0",
		"hello_xr",
		"overlay",
		"Valve Index",
		"LHR-0002",
		"75%",
		"0.50",
		"head",
		"lighthouse",
	} {
		assert.Contains(t, out, want)
	}
	assert.Equal(t, []string{"/opt/monado/lib/libmonado.so"}, h.loaded)
	assert.True(t, h.fake.Closed)
}

func TestInfoJSON(t *testing.T) {
	h := newHarness(t)
	out, err := h.run("info", "-o", "json")
	require.NoError(t, err)

	var s struct {
		APIVersion string           `json:"api_version"`
		Clients    []map[string]any `json:"clients"`
		Devices    []map[string]any `json:"devices"`
		Roles      []map[string]any `json:"roles"`
		Origins    []map[string]any `json:"origins"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, "1.3.0", s.APIVersion)
	assert.Len(t, s.Clients, 2)
	assert.Len(t, s.Devices, 2)
	assert.Len(t, s.Roles, 2)
	assert.Len(t, s.Origins, 1)
}

func TestInfoYAML(t *testing.T) {
	h := newHarness(t)
	out, err := h.run("info", "--output", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "api_version: 1.3.0")
	assert.Contains(t, out, "name: hello_xr")
}

func TestOutputFromConfig(t *testing.T) {
	h := newHarness(t)
	h.writeConfig(t, "library = \"libmonado.so\"\noutput = \"json\"\n")

	out, err := h.run("clients")
	require.NoError(t, err)
	var clients []libmonado.ClientInfo
	require.NoError(t, json.Unmarshal([]byte(out), &clients))
	require.Len(t, clients, 2)
	assert.Equal(t, "hello_xr", clients[0].Name)
	assert.True(t, clients[1].State.Has(libmonado.ClientSessionOverlay))

	// An explicit flag wins over the file.
	out, err = h.run("clients", "-o", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
}

func TestInvalidSettings(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("clients", "-o", "xml")
	assert.Error(t, err)

	h.config = filepath.Join(h.dir, "missing.toml")
	_, err = h.run("clients")
	assert.Error(t, err)
}

func TestConnectFailure(t *testing.T) {
	h := newHarness(t)
	h.fake.Major = 2
	_, err := h.run("clients")
	assert.ErrorIs(t, err, libmonado.ErrorInvalidVersion)
}

func TestClientActions(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("client", "primary", "9")
	require.NoError(t, err)
	assert.Zero(t, h.fake.Clients[0].State&1)
	assert.NotZero(t, h.fake.Clients[1].State&1)

	_, err = h.run("client", "focus", "9")
	require.NoError(t, err)
	assert.NotZero(t, h.fake.Clients[1].State&8)

	_, err = h.run("client", "io", "7", "off")
	require.NoError(t, err)
	assert.Zero(t, h.fake.Clients[0].State&32)

	// Already off, so nothing is toggled.
	_, err = h.run("client", "io", "7", "off")
	require.NoError(t, err)
	assert.Equal(t, 1, h.fake.Calls["mnd_root_toggle_client_io_active"])

	_, err = h.run("client", "io", "7", "maybe")
	assert.Error(t, err)
	_, err = h.run("client", "primary", "x")
	assert.Error(t, err)
	_, err = h.run("client", "primary", "42")
	assert.ErrorIs(t, err, libmonado.ErrorInvalidValue)
}

func TestDevices(t *testing.T) {
	h := newHarness(t)
	out, err := h.run("devices")
	require.NoError(t, err)
	assert.Contains(t, out, "Index Controller (Left)")
	assert.Contains(t, out, "LHR-0001")
	assert.Contains(t, out, "75%")
}

func TestDeviceBrightness(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("device", "brightness", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "Valve Index: 0.50")

	_, err = h.run("device", "brightness", "0", "0.8")
	require.NoError(t, err)
	assert.InDelta(t, 0.8, *h.fake.Devices[0].Brightness, 1e-6)

	out, err = h.run("device", "brightness", "0", "0.1", "--relative", "-o", "json")
	require.NoError(t, err)
	var got struct {
		Brightness float32 `json:"brightness"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.InDelta(t, 0.9, got.Brightness, 1e-6)

	_, err = h.run("device", "brightness", "1", "0.5")
	assert.ErrorIs(t, err, libmonado.ErrorOperationFailed)
	_, err = h.run("device", "brightness", "0", "bright")
	assert.Error(t, err)
}

func TestRole(t *testing.T) {
	h := newHarness(t)
	out, err := h.run("role", "left", "-o", "json")
	require.NoError(t, err)
	var info libmonado.DeviceInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, uint32(1), info.Index)
	assert.Equal(t, "LHR-0002", info.Serial)

	_, err = h.run("role", "right")
	assert.ErrorIs(t, err, libmonado.ErrorInvalidValue)
	_, err = h.run("role", "elbow")
	assert.Error(t, err)
}

func TestOrigins(t *testing.T) {
	h := newHarness(t)
	out, err := h.run("origins")
	require.NoError(t, err)
	assert.Contains(t, out, "lighthouse")
	assert.Contains(t, out, "0.000, 0.000, 0.000, 1.000")
}

func TestOriginOffset(t *testing.T) {
	h := newHarness(t)
	out, err := h.run("origin", "offset", "0", "--position", "1,2,3", "-o", "json")
	require.NoError(t, err)

	var pose libmonado.Pose
	require.NoError(t, json.Unmarshal([]byte(out), &pose))
	assert.Equal(t, float32(2), pose.Position[1])

	got := h.fake.Origins[0].Offset
	assert.Equal(t, float32(1), got.Position.X)
	assert.Equal(t, float32(3), got.Position.Z)
	assert.Equal(t, float32(1), got.Orientation.W)
}

func TestSpace(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("space", "stage", "--orientation", "0,2,0,0")
	require.NoError(t, err)
	got := h.fake.Spaces[int32(libmonado.ReferenceSpaceStage)]
	assert.InDelta(t, 1, got.Orientation.Y, 1e-6)
	assert.InDelta(t, 0, got.Orientation.W, 1e-6)

	out, err := h.run("space", "local-floor")
	require.NoError(t, err)
	assert.Contains(t, out, "ORIENTATION")

	_, err = h.run("space", "stage", "--position", "1,2")
	assert.Error(t, err)
	_, err = h.run("space", "stage", "--orientation", "0,0,0,0")
	assert.Error(t, err)
	_, err = h.run("space", "ceiling")
	assert.Error(t, err)
}

func TestRecenter(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("recenter")
	require.NoError(t, err)
	assert.Equal(t, 1, h.fake.Recentered)
}

func TestChromaKey(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("chroma-key", "#00ff00", "0.5", "0.1")
	require.NoError(t, err)
	require.NotNil(t, h.fake.ChromaKey)
	assert.Equal(t, ffitest.ChromaKey{R: 0, G: 1, B: 0, Threshold: 0.5, Smoothing: 0.1}, *h.fake.ChromaKey)

	_, err = h.run("chroma-key", "0,0,2", "0.5", "0.1")
	assert.Error(t, err)

	h.fake.NoChromaKey = true
	_, err = h.run("chroma-key", "0,0,1", "0.5", "0.1")
	assert.ErrorIs(t, err, libmonado.ErrUnsupported)
}

func TestLocate(t *testing.T) {
	h := newHarness(t)
	out, err := h.run("locate")
	require.NoError(t, err)
	assert.Contains(t, out, "flag")

	h.writeConfig(t, "")
	lib := filepath.Join(h.dir, "libmonado.so")
	require.NoError(t, os.WriteFile(lib, nil, 0o644))
	h.env[libmonado.EnvLibmonadoPath] = lib

	out, err = h.run("locate", "-o", "json")
	require.NoError(t, err)
	var loc libmonado.Location
	require.NoError(t, json.Unmarshal([]byte(out), &loc))
	assert.Equal(t, libmonado.Location{Path: lib, Source: libmonado.SourceEnv}, loc)
	assert.Empty(t, h.loaded)

	delete(h.env, libmonado.EnvLibmonadoPath)
	_, err = h.run("locate")
	assert.ErrorIs(t, err, libmonado.ErrNoActiveRuntime)
}

func TestVersion(t *testing.T) {
	h := newHarness(t)
	out, err := h.run("version")
	require.NoError(t, err)
	assert.Contains(t, out, "monadoctl")
	assert.Contains(t, out, "libmonado API 1.3.0")

	// Without a reachable runtime only the client version is printed.
	h.fake.Major = 0
	out, err = h.run("version")
	require.NoError(t, err)
	assert.NotContains(t, out, "libmonado API")
}

func TestWatch(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	out, _, err := h.runContext(ctx, "watch", "--interval", "20ms")
	require.NoError(t, err)
	assert.Contains(t, out, "client-connected 7 \"hello_xr\"")
	assert.Contains(t, out, "device-added 1 \"Index Controller (Left)\"")
}

func TestWatchDiscovered(t *testing.T) {
	h := newHarness(t)
	h.writeConfig(t, "[watch]\ninterval = \"20ms\"\n")
	lib := filepath.Join(h.dir, "libmonado.so")
	require.NoError(t, os.WriteFile(lib, nil, 0o644))
	h.env[libmonado.EnvLibmonadoPath] = lib

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	out, _, err := h.runContext(ctx, "watch", "-o", "json")
	require.NoError(t, err)
	dec := json.NewDecoder(bytes.NewBufferString(out))
	var first struct {
		Kind string `json:"kind"`
	}
	require.NoError(t, dec.Decode(&first))
	assert.Equal(t, "client-connected", first.Kind)
}

func TestServe(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	_, _, err := h.runContext(ctx, "serve", "--addr", "127.0.0.1:0")
	require.NoError(t, err)
	assert.True(t, h.fake.Closed)
}

func TestLogLevel(t *testing.T) {
	h := newHarness(t)
	h.writeConfig(t, "")

	_, stderr, err := h.runContext(context.Background(), "locate", "--log-level", "trace")
	assert.ErrorIs(t, err, libmonado.ErrNoActiveRuntime)
	assert.Contains(t, stderr, "level=TRACE")
	assert.Contains(t, stderr, "skipping runtime manifest")

	_, stderr, err = h.runContext(context.Background(), "locate")
	assert.ErrorIs(t, err, libmonado.ErrNoActiveRuntime)
	assert.NotContains(t, stderr, "skipping runtime manifest")

	h.writeConfig(t, "log_level = \"trace\"\n")
	_, stderr, _ = h.runContext(context.Background(), "locate")
	assert.Contains(t, stderr, "skipping runtime manifest")

	_, _, err = h.runContext(context.Background(), "locate", "--log-level", "loud")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, libmonado.ErrNoActiveRuntime)
}
