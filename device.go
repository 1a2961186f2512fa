package libmonado

import (
	"strings"
	"unicode/utf8"

	"github.com/technobaboo/libmonado-go/internal/ffi"
)

// Device is a device known to the runtime, addressed by its index.
type Device struct {
	Index  uint32 `json:"index" yaml:"index"`
	NameID uint32 `json:"name_id" yaml:"name_id"`
	Name   string `json:"name" yaml:"name"`

	m *Monado
}

// BatteryStatus is a device battery reading.
type BatteryStatus struct {
	Present  bool    `json:"present" yaml:"present"`
	Charging bool    `json:"charging" yaml:"charging"`
	Charge   float32 `json:"charge" yaml:"charge"`
}

// lossy replaces invalid UTF-8 with U+FFFD. Only device info strings are
// read this way; names must be valid.
func lossy(s string) string {
	return strings.ToValidUTF8(s, "\uFFFD")
}

// Devices returns every device the runtime knows about, in index order.
func (m *Monado) Devices() ([]Device, error) {
	var count uint32
	if err := m.call("mnd_root_get_device_count", func(api ffi.API, root ffi.Root) int32 {
		var code int32
		count, code = api.RootGetDeviceCount(root)
		return code
	}); err != nil {
		return nil, err
	}

	devices := make([]Device, 0, count)
	for i := uint32(0); i < count; i++ {
		d, err := m.Device(i)
		if err != nil {
			return nil, err
		}
		devices = append(devices, d)
	}
	return devices, nil
}

// Device reads the name of the device at index. A name that is not valid
// UTF-8 fails with ErrInvalidUTF8.
func (m *Monado) Device(index uint32) (Device, error) {
	d := Device{Index: index, m: m}
	err := m.call("mnd_root_get_device_info", func(api ffi.API, root ffi.Root) int32 {
		var code int32
		d.NameID, d.Name, code = api.RootGetDeviceInfo(root, index)
		return code
	})
	if err != nil {
		return Device{}, err
	}
	if !utf8.ValidString(d.Name) {
		return Device{}, ErrInvalidUTF8
	}
	return d, nil
}

// DeviceIndexFromRole returns the index of the device assigned to role.
// It fails with ErrorInvalidValue when no device holds the role.
func (m *Monado) DeviceIndexFromRole(role DeviceRole) (uint32, error) {
	var index int32
	err := m.call("mnd_root_get_device_from_role", func(api ffi.API, root ffi.Root) int32 {
		var code int32
		index, code = api.RootGetDeviceFromRole(root, role.String())
		return code
	})
	if err != nil {
		return 0, err
	}
	if index < 0 {
		return 0, &callError{op: "mnd_root_get_device_from_role " + role.String(), result: ErrorInvalidValue}
	}
	return uint32(index), nil
}

// DeviceFromRole returns the device assigned to role.
func (m *Monado) DeviceFromRole(role DeviceRole) (Device, error) {
	index, err := m.DeviceIndexFromRole(role)
	if err != nil {
		return Device{}, err
	}
	return m.Device(index)
}

// Serial returns the device serial number.
func (d Device) Serial() (string, error) {
	return d.InfoString(PropertySerialString)
}

// InfoBool reads a boolean property.
func (d Device) InfoBool(p Property) (bool, error) {
	var v bool
	err := d.m.call("mnd_root_get_device_info_bool", func(api ffi.API, root ffi.Root) int32 {
		var code int32
		v, code = api.RootGetDeviceInfoBool(root, d.Index, int32(p))
		return code
	})
	return v, err
}

// InfoI32 reads a signed integer property.
func (d Device) InfoI32(p Property) (int32, error) {
	var v int32
	err := d.m.call("mnd_root_get_device_info_i32", func(api ffi.API, root ffi.Root) int32 {
		var code int32
		v, code = api.RootGetDeviceInfoI32(root, d.Index, int32(p))
		return code
	})
	return v, err
}

// InfoU32 reads an unsigned integer property.
func (d Device) InfoU32(p Property) (uint32, error) {
	var v uint32
	err := d.m.call("mnd_root_get_device_info_u32", func(api ffi.API, root ffi.Root) int32 {
		var code int32
		v, code = api.RootGetDeviceInfoU32(root, d.Index, int32(p))
		return code
	})
	return v, err
}

// InfoFloat reads a floating point property.
func (d Device) InfoFloat(p Property) (float32, error) {
	var v float32
	err := d.m.call("mnd_root_get_device_info_float", func(api ffi.API, root ffi.Root) int32 {
		var code int32
		v, code = api.RootGetDeviceInfoFloat(root, d.Index, int32(p))
		return code
	})
	return v, err
}

// InfoString reads a string property. Invalid UTF-8 is replaced rather than
// rejected.
func (d Device) InfoString(p Property) (string, error) {
	var v string
	err := d.m.call("mnd_root_get_device_info_string", func(api ffi.API, root ffi.Root) int32 {
		var code int32
		v, code = api.RootGetDeviceInfoString(root, d.Index, int32(p))
		return code
	})
	if err != nil {
		return "", err
	}
	return lossy(v), nil
}

// BatteryStatus reads the device battery.
func (d Device) BatteryStatus() (BatteryStatus, error) {
	var b BatteryStatus
	err := d.m.call("mnd_root_get_device_battery_status", func(api ffi.API, root ffi.Root) int32 {
		var code int32
		b.Present, b.Charging, b.Charge, code = api.RootGetDeviceBatteryStatus(root, d.Index)
		return code
	})
	return b, err
}

// Brightness returns the display brightness, usually in 0..1.
func (d Device) Brightness() (float32, error) {
	var v float32
	err := d.m.call("mnd_root_get_device_brightness", func(api ffi.API, root ffi.Root) int32 {
		var code int32
		v, code = api.RootGetDeviceBrightness(root, d.Index)
		return code
	})
	return v, err
}

// SetBrightness sets the display brightness. With relative set, value is
// added to the current brightness.
func (d Device) SetBrightness(value float32, relative bool) error {
	return d.m.call("mnd_root_set_device_brightness", func(api ffi.API, root ffi.Root) int32 {
		return api.RootSetDeviceBrightness(root, d.Index, value, relative)
	})
}
