// Package ffitest provides an in-memory libmonado for tests.
package ffitest

import (
	"sync"

	"github.com/technobaboo/libmonado-go/internal/ffi"
)

// Client is a fake connected application.
type Client struct {
	ID    uint32
	Name  string
	State uint32
}

// Device is a fake tracked device.
type Device struct {
	NameID     uint32
	Name       string
	Serial     string
	Bools      map[int32]bool
	I32s       map[int32]int32
	U32s       map[int32]uint32
	Floats     map[int32]float32
	Battery    *Battery
	Brightness *float32
}

// Battery is a fake battery reading.
type Battery struct {
	Present  bool
	Charging bool
	Charge   float32
}

// Origin is a fake tracking origin.
type Origin struct {
	Name   string
	Offset ffi.Pose
}

// ChromaKey records the last chroma key parameters set.
type ChromaKey struct {
	R, G, B, Threshold, Smoothing float32
}

// Fake implements ffi.API over plain Go state. Field access from tests must
// hold Mu if the fake is shared with running goroutines.
type Fake struct {
	Mu sync.Mutex

	Major, Minor, Patch uint32

	Clients []Client
	Devices []Device
	Roles   map[string]int32
	Origins []Origin
	Spaces  map[int32]ffi.Pose

	// Errors forces an error code for a named operation, e.g.
	// "mnd_root_get_client_name".
	Errors map[string]int32

	// NoChromaKey simulates a library without the optional entry point.
	NoChromaKey bool
	ChromaKey   *ChromaKey

	Recentered    int
	Created       int
	Destroyed     int
	Closed        bool
	ClientUpdates int

	// Calls counts every entry point invocation by name.
	Calls map[string]int
}

var _ ffi.API = (*Fake)(nil)

// New returns a fake reporting API version 1.3.0 with no clients or devices.
func New() *Fake {
	return &Fake{
		Major:  1,
		Minor:  3,
		Patch:  0,
		Roles:  map[string]int32{},
		Spaces: map[int32]ffi.Pose{},
		Errors: map[string]int32{},
		Calls:  map[string]int{},
	}
}

// Loader returns a loader function that hands out f for any path and
// records the path.
func (f *Fake) Loader(paths *[]string) func(string) (ffi.API, error) {
	return func(path string) (ffi.API, error) {
		if paths != nil {
			*paths = append(*paths, path)
		}
		return f, nil
	}
}

func (f *Fake) enter(op string) int32 {
	f.Mu.Lock()
	if f.Calls == nil {
		f.Calls = map[string]int{}
	}
	f.Calls[op]++
	return f.Errors[op]
}

func (f *Fake) Close() error {
	f.enter("close")
	defer f.Mu.Unlock()
	f.Closed = true
	return nil
}

func (f *Fake) APIGetVersion() (uint32, uint32, uint32) {
	f.enter("mnd_api_get_version")
	defer f.Mu.Unlock()
	return f.Major, f.Minor, f.Patch
}

func (f *Fake) RootCreate() (ffi.Root, int32) {
	code := f.enter("mnd_root_create")
	defer f.Mu.Unlock()
	if code != ffi.Success {
		return ffi.Root{}, code
	}
	f.Created++
	return ffi.Root{}, ffi.Success
}

func (f *Fake) RootDestroy(root *ffi.Root) {
	f.enter("mnd_root_destroy")
	defer f.Mu.Unlock()
	f.Destroyed++
}

func (f *Fake) RootUpdateClientList(ffi.Root) int32 {
	code := f.enter("mnd_root_update_client_list")
	defer f.Mu.Unlock()
	if code == ffi.Success {
		f.ClientUpdates++
	}
	return code
}

func (f *Fake) RootGetNumberClients(ffi.Root) (uint32, int32) {
	code := f.enter("mnd_root_get_number_clients")
	defer f.Mu.Unlock()
	return uint32(len(f.Clients)), code
}

func (f *Fake) RootGetClientIDAtIndex(_ ffi.Root, index uint32) (uint32, int32) {
	code := f.enter("mnd_root_get_client_id_at_index")
	defer f.Mu.Unlock()
	if code != ffi.Success {
		return 0, code
	}
	if int(index) >= len(f.Clients) {
		return 0, ffi.ErrorInvalidValue
	}
	return f.Clients[index].ID, ffi.Success
}

func (f *Fake) client(id uint32) *Client {
	for i := range f.Clients {
		if f.Clients[i].ID == id {
			return &f.Clients[i]
		}
	}
	return nil
}

func (f *Fake) RootGetClientName(_ ffi.Root, clientID uint32) (string, int32) {
	code := f.enter("mnd_root_get_client_name")
	defer f.Mu.Unlock()
	if code != ffi.Success {
		return "", code
	}
	c := f.client(clientID)
	if c == nil {
		return "", ffi.ErrorInvalidValue
	}
	return c.Name, ffi.Success
}

func (f *Fake) RootGetClientState(_ ffi.Root, clientID uint32) (uint32, int32) {
	code := f.enter("mnd_root_get_client_state")
	defer f.Mu.Unlock()
	if code != ffi.Success {
		return 0, code
	}
	c := f.client(clientID)
	if c == nil {
		return 0, ffi.ErrorInvalidValue
	}
	return c.State, ffi.Success
}

// Client state bits used by the fake's mutators.
const (
	statePrimary  = 1
	stateFocused  = 8
	stateIOActive = 32
)

func (f *Fake) RootSetClientPrimary(_ ffi.Root, clientID uint32) int32 {
	code := f.enter("mnd_root_set_client_primary")
	defer f.Mu.Unlock()
	if code != ffi.Success {
		return code
	}
	if f.client(clientID) == nil {
		return ffi.ErrorInvalidValue
	}
	for i := range f.Clients {
		f.Clients[i].State &^= statePrimary
		if f.Clients[i].ID == clientID {
			f.Clients[i].State |= statePrimary
		}
	}
	return ffi.Success
}

func (f *Fake) RootSetClientFocused(_ ffi.Root, clientID uint32) int32 {
	code := f.enter("mnd_root_set_client_focused")
	defer f.Mu.Unlock()
	if code != ffi.Success {
		return code
	}
	if f.client(clientID) == nil {
		return ffi.ErrorInvalidValue
	}
	for i := range f.Clients {
		f.Clients[i].State &^= stateFocused
		if f.Clients[i].ID == clientID {
			f.Clients[i].State |= stateFocused
		}
	}
	return ffi.Success
}

func (f *Fake) RootToggleClientIOActive(_ ffi.Root, clientID uint32) int32 {
	code := f.enter("mnd_root_toggle_client_io_active")
	defer f.Mu.Unlock()
	if code != ffi.Success {
		return code
	}
	c := f.client(clientID)
	if c == nil {
		return ffi.ErrorInvalidValue
	}
	c.State ^= stateIOActive
	return ffi.Success
}

func (f *Fake) RootGetDeviceCount(ffi.Root) (uint32, int32) {
	code := f.enter("mnd_root_get_device_count")
	defer f.Mu.Unlock()
	return uint32(len(f.Devices)), code
}

func (f *Fake) device(index uint32) *Device {
	if int(index) >= len(f.Devices) {
		return nil
	}
	return &f.Devices[index]
}

func (f *Fake) RootGetDeviceInfo(_ ffi.Root, index uint32) (uint32, string, int32) {
	code := f.enter("mnd_root_get_device_info")
	defer f.Mu.Unlock()
	if code != ffi.Success {
		return 0, "", code
	}
	d := f.device(index)
	if d == nil {
		return 0, "", ffi.ErrorInvalidValue
	}
	return d.NameID, d.Name, ffi.Success
}

func (f *Fake) RootGetDeviceFromRole(_ ffi.Root, role string) (int32, int32) {
	code := f.enter("mnd_root_get_device_from_role")
	defer f.Mu.Unlock()
	if code != ffi.Success {
		return -1, code
	}
	index, ok := f.Roles[role]
	if !ok {
		return -1, ffi.Success
	}
	return index, ffi.Success
}

func (f *Fake) RootGetDeviceInfoBool(_ ffi.Root, index uint32, property int32) (bool, int32) {
	code := f.enter("mnd_root_get_device_info_bool")
	defer f.Mu.Unlock()
	if code != ffi.Success {
		return false, code
	}
	d := f.device(index)
	if d == nil {
		return false, ffi.ErrorInvalidValue
	}
	v, ok := d.Bools[property]
	if !ok {
		return false, ffi.ErrorInvalidProperty
	}
	return v, ffi.Success
}

func (f *Fake) RootGetDeviceInfoI32(_ ffi.Root, index uint32, property int32) (int32, int32) {
	code := f.enter("mnd_root_get_device_info_i32")
	defer f.Mu.Unlock()
	if code != ffi.Success {
		return 0, code
	}
	d := f.device(index)
	if d == nil {
		return 0, ffi.ErrorInvalidValue
	}
	v, ok := d.I32s[property]
	if !ok {
		return 0, ffi.ErrorInvalidProperty
	}
	return v, ffi.Success
}

func (f *Fake) RootGetDeviceInfoU32(_ ffi.Root, index uint32, property int32) (uint32, int32) {
	code := f.enter("mnd_root_get_device_info_u32")
	defer f.Mu.Unlock()
	if code != ffi.Success {
		return 0, code
	}
	d := f.device(index)
	if d == nil {
		return 0, ffi.ErrorInvalidValue
	}
	v, ok := d.U32s[property]
	if !ok {
		return 0, ffi.ErrorInvalidProperty
	}
	return v, ffi.Success
}

func (f *Fake) RootGetDeviceInfoFloat(_ ffi.Root, index uint32, property int32) (float32, int32) {
	code := f.enter("mnd_root_get_device_info_float")
	defer f.Mu.Unlock()
	if code != ffi.Success {
		return 0, code
	}
	d := f.device(index)
	if d == nil {
		return 0, ffi.ErrorInvalidValue
	}
	v, ok := d.Floats[property]
	if !ok {
		return 0, ffi.ErrorInvalidProperty
	}
	return v, ffi.Success
}

// Property values the fake answers string queries for.
const (
	propertyName   = 1
	propertySerial = 2
)

func (f *Fake) RootGetDeviceInfoString(_ ffi.Root, index uint32, property int32) (string, int32) {
	code := f.enter("mnd_root_get_device_info_string")
	defer f.Mu.Unlock()
	if code != ffi.Success {
		return "", code
	}
	d := f.device(index)
	if d == nil {
		return "", ffi.ErrorInvalidValue
	}
	switch property {
	case propertyName:
		return d.Name, ffi.Success
	case propertySerial:
		if d.Serial == "" {
			return "", ffi.ErrorOperationFailed
		}
		return d.Serial, ffi.Success
	default:
		return "", ffi.ErrorInvalidProperty
	}
}

func (f *Fake) RootGetDeviceBatteryStatus(_ ffi.Root, index uint32) (bool, bool, float32, int32) {
	code := f.enter("mnd_root_get_device_battery_status")
	defer f.Mu.Unlock()
	if code != ffi.Success {
		return false, false, 0, code
	}
	d := f.device(index)
	if d == nil {
		return false, false, 0, ffi.ErrorInvalidValue
	}
	if d.Battery == nil {
		return false, false, 0, ffi.Success
	}
	return d.Battery.Present, d.Battery.Charging, d.Battery.Charge, ffi.Success
}

func (f *Fake) RootGetDeviceBrightness(_ ffi.Root, index uint32) (float32, int32) {
	code := f.enter("mnd_root_get_device_brightness")
	defer f.Mu.Unlock()
	if code != ffi.Success {
		return 0, code
	}
	d := f.device(index)
	if d == nil {
		return 0, ffi.ErrorInvalidValue
	}
	if d.Brightness == nil {
		return 0, ffi.ErrorOperationFailed
	}
	return *d.Brightness, ffi.Success
}

func (f *Fake) RootSetDeviceBrightness(_ ffi.Root, index uint32, brightness float32, relative bool) int32 {
	code := f.enter("mnd_root_set_device_brightness")
	defer f.Mu.Unlock()
	if code != ffi.Success {
		return code
	}
	d := f.device(index)
	if d == nil {
		return ffi.ErrorInvalidValue
	}
	if d.Brightness == nil {
		return ffi.ErrorOperationFailed
	}
	v := brightness
	if relative {
		v += *d.Brightness
	}
	d.Brightness = &v
	return ffi.Success
}

func (f *Fake) RootRecenterLocalSpaces(ffi.Root) int32 {
	code := f.enter("mnd_root_recenter_local_spaces")
	defer f.Mu.Unlock()
	if code == ffi.Success {
		f.Recentered++
	}
	return code
}

func (f *Fake) RootGetTrackingOriginCount(ffi.Root) (uint32, int32) {
	code := f.enter("mnd_root_get_tracking_origin_count")
	defer f.Mu.Unlock()
	return uint32(len(f.Origins)), code
}

func (f *Fake) RootGetTrackingOriginName(_ ffi.Root, originID uint32) (string, int32) {
	code := f.enter("mnd_root_get_tracking_origin_name")
	defer f.Mu.Unlock()
	if code != ffi.Success {
		return "", code
	}
	if int(originID) >= len(f.Origins) {
		return "", ffi.ErrorInvalidValue
	}
	return f.Origins[originID].Name, ffi.Success
}

func (f *Fake) RootGetTrackingOriginOffset(_ ffi.Root, originID uint32) (ffi.Pose, int32) {
	code := f.enter("mnd_root_get_tracking_origin_offset")
	defer f.Mu.Unlock()
	if code != ffi.Success {
		return ffi.Pose{}, code
	}
	if int(originID) >= len(f.Origins) {
		return ffi.Pose{}, ffi.ErrorInvalidValue
	}
	return f.Origins[originID].Offset, ffi.Success
}

func (f *Fake) RootSetTrackingOriginOffset(_ ffi.Root, originID uint32, pose ffi.Pose) int32 {
	code := f.enter("mnd_root_set_tracking_origin_offset")
	defer f.Mu.Unlock()
	if code != ffi.Success {
		return code
	}
	if int(originID) >= len(f.Origins) {
		return ffi.ErrorInvalidValue
	}
	f.Origins[originID].Offset = pose
	return ffi.Success
}

func (f *Fake) RootGetReferenceSpaceOffset(_ ffi.Root, spaceType int32) (ffi.Pose, int32) {
	code := f.enter("mnd_root_get_reference_space_offset")
	defer f.Mu.Unlock()
	if code != ffi.Success {
		return ffi.Pose{}, code
	}
	pose, ok := f.Spaces[spaceType]
	if !ok {
		return ffi.Pose{}, ffi.ErrorInvalidValue
	}
	return pose, ffi.Success
}

func (f *Fake) RootSetReferenceSpaceOffset(_ ffi.Root, spaceType int32, pose ffi.Pose) int32 {
	code := f.enter("mnd_root_set_reference_space_offset")
	defer f.Mu.Unlock()
	if code != ffi.Success {
		return code
	}
	if _, ok := f.Spaces[spaceType]; !ok {
		return ffi.ErrorInvalidValue
	}
	f.Spaces[spaceType] = pose
	return ffi.Success
}

func (f *Fake) RootSetChromaKeyParams(_ ffi.Root, r, g, b, threshold, smoothing float32) (int32, error) {
	code := f.enter("mnd_root_set_chroma_key_params")
	defer f.Mu.Unlock()
	if f.NoChromaKey {
		return ffi.ErrorOperationFailed, ffi.ErrSymbolMissing
	}
	if code != ffi.Success {
		return code, nil
	}
	f.ChromaKey = &ChromaKey{R: r, G: g, B: b, Threshold: threshold, Smoothing: smoothing}
	return ffi.Success, nil
}

// Identity is the identity pose.
var Identity = ffi.Pose{Orientation: ffi.Quaternion{W: 1}}

// Populated returns a fake with two clients, two devices, a head role,
// one tracking origin and all reference spaces set to identity.
func Populated() *Fake {
	f := New()
	brightness := float32(0.5)
	f.Clients = []Client{
		{ID: 7, Name: "hello_xr", State: 1 | 2 | 4 | 8 | 32},
		{ID: 9, Name: "overlay", State: 2 | 16},
	}
	f.Devices = []Device{
		{
			NameID:     1,
			Name:       "Valve Index",
			Serial:     "LHR-0001",
			Brightness: &brightness,
			Floats:     map[int32]float32{3: 90},
		},
		{
			NameID:  4,
			Name:    "Index Controller (Left)",
			Serial:  "LHR-0002",
			Battery: &Battery{Present: true, Charging: false, Charge: 0.75},
			Bools:   map[int32]bool{3: true},
			I32s:    map[int32]int32{3: -4},
			U32s:    map[int32]uint32{3: 12},
		},
	}
	f.Roles = map[string]int32{"head": 0, "left": 1}
	f.Origins = []Origin{{Name: "lighthouse", Offset: Identity}}
	for i := int32(0); i <= 4; i++ {
		f.Spaces[i] = Identity
	}
	return f
}
