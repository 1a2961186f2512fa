package exporter

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	libmonado "github.com/technobaboo/libmonado-go"
)

func fixture() *libmonado.Snapshot {
	brightness := float32(0.75)
	return &libmonado.Snapshot{
		APIVersion: libmonado.Version{Major: 1, Minor: 3, Patch: 0},
		Clients: []libmonado.ClientInfo{
			{ID: 7, Name: "hello_xr", State: libmonado.ClientPrimaryApp | libmonado.ClientSessionFocused},
			{ID: 8, Error: "libmonado: mnd_root_get_client_name: ErrorOperationFailed"},
		},
		Devices: []libmonado.DeviceInfo{
			{Index: 0, Name: "Valve Index", Serial: "LHR-0001", Brightness: &brightness},
			{Index: 1, Name: "Controller", Serial: "LHR-0002", Battery: &libmonado.BatteryStatus{Present: true, Charging: true, Charge: 0.5}},
		},
	}
}

// TestCollect verifies the exported values for a populated runtime.
func TestCollect(t *testing.T) {
	e := New(func() (*libmonado.Snapshot, error) { return fixture(), nil }, nil)

	expected := `
# HELP monado_clients Number of connected OpenXR clients
# TYPE monado_clients gauge
monado_clients 2
# HELP monado_devices Number of devices known to the runtime
# TYPE monado_devices gauge
monado_devices 2
# HELP monado_device_battery_charge Device battery charge from 0 to 1
# TYPE monado_device_battery_charge gauge
monado_device_battery_charge{device="Controller",index="1",serial="LHR-0002"} 0.5
# HELP monado_device_battery_charging 1 when the device battery is charging
# TYPE monado_device_battery_charging gauge
monado_device_battery_charging{device="Controller",index="1",serial="LHR-0002"} 1
# HELP monado_device_brightness Device display brightness
# TYPE monado_device_brightness gauge
monado_device_brightness{device="Valve Index",index="0",serial="LHR-0001"} 0.75
# HELP monado_api_info libmonado API version, always 1
# TYPE monado_api_info gauge
monado_api_info{version="1.3.0"} 1
# HELP monado_scrape_errors_total Total number of scrapes that failed to read the runtime
# TYPE monado_scrape_errors_total counter
monado_scrape_errors_total 0
`
	err := testutil.GatherAndCompare(e.Registry(), strings.NewReader(expected),
		"monado_clients", "monado_devices", "monado_device_battery_charge",
		"monado_device_battery_charging", "monado_device_brightness",
		"monado_api_info", "monado_scrape_errors_total")
	require.NoError(t, err)

	// One series per flag for the readable client only.
	n, err := testutil.GatherAndCount(e.Registry(), "monado_client_state")
	require.NoError(t, err)
	assert.Equal(t, len(libmonado.AllClientStates()), n)
}

// TestCollectFailure verifies a failing source only bumps the error
// counter.
func TestCollectFailure(t *testing.T) {
	e := New(func() (*libmonado.Snapshot, error) { return nil, errors.New("gone") }, nil)

	n, err := testutil.GatherAndCount(e.Registry())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, float64(1), testutil.ToFloat64(e.scrapeErrors))

	_, err = testutil.GatherAndCount(e.Registry())
	require.NoError(t, err)
	assert.Equal(t, float64(2), testutil.ToFloat64(e.scrapeErrors))
}

func TestHandler(t *testing.T) {
	e := New(func() (*libmonado.Snapshot, error) { return fixture(), nil }, nil)
	e.RecordHTTPRequest("GET", "/api/v1/clients", 200, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	e.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `monado_client_state{client="hello_xr",flag="PrimaryApp",id="7"} 1`)
	assert.Contains(t, string(body), `monado_client_state{client="hello_xr",flag="IOActive",id="7"} 0`)
	assert.Contains(t, string(body), `monado_http_requests_total{method="GET",route="/api/v1/clients",status_code="200"} 1`)
}
