package libmonado

import "errors"

// Snapshot is a point-in-time view of the runtime: everything dump_info
// style tools print, in one serializable value.
type Snapshot struct {
	Library    string       `json:"library,omitempty" yaml:"library,omitempty"`
	APIVersion Version      `json:"api_version" yaml:"api_version"`
	Clients    []ClientInfo `json:"clients" yaml:"clients"`
	Devices    []DeviceInfo `json:"devices" yaml:"devices"`
	Roles      []RoleInfo   `json:"roles" yaml:"roles"`
	Origins    []OriginInfo `json:"origins" yaml:"origins"`
}

// ClientInfo describes one client. Error holds the first per-client
// failure, if any.
type ClientInfo struct {
	ID    uint32      `json:"id" yaml:"id"`
	Name  string      `json:"name" yaml:"name"`
	State ClientState `json:"state" yaml:"state"`
	Error string      `json:"error,omitempty" yaml:"error,omitempty"`
}

// DeviceInfo describes one device. Battery and Brightness are nil when the
// device does not report them.
type DeviceInfo struct {
	Index      uint32         `json:"index" yaml:"index"`
	NameID     uint32         `json:"name_id" yaml:"name_id"`
	Name       string         `json:"name" yaml:"name"`
	Serial     string         `json:"serial,omitempty" yaml:"serial,omitempty"`
	Battery    *BatteryStatus `json:"battery,omitempty" yaml:"battery,omitempty"`
	Brightness *float32       `json:"brightness,omitempty" yaml:"brightness,omitempty"`
	Error      string         `json:"error,omitempty" yaml:"error,omitempty"`
}

// RoleInfo maps an assigned role to a device index.
type RoleInfo struct {
	Role  DeviceRole `json:"role" yaml:"role"`
	Index uint32     `json:"index" yaml:"index"`
}

// OriginInfo describes one tracking origin.
type OriginInfo struct {
	ID     uint32 `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Offset *Pose  `json:"offset,omitempty" yaml:"offset,omitempty"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Snapshot gathers clients, devices, role assignments and tracking origins.
// Listing failures are returned; failures for a single item are recorded in
// that item's Error field instead. Roles no device holds are left out.
func (m *Monado) Snapshot() (*Snapshot, error) {
	s := &Snapshot{
		Library:    m.path,
		APIVersion: m.version,
		Clients:    []ClientInfo{},
		Devices:    []DeviceInfo{},
		Roles:      []RoleInfo{},
		Origins:    []OriginInfo{},
	}

	clients, err := m.Clients()
	if err != nil {
		return nil, err
	}
	for _, c := range clients {
		s.Clients = append(s.Clients, c.Info())
	}

	devices, err := m.Devices()
	if err != nil {
		return nil, err
	}
	for _, d := range devices {
		s.Devices = append(s.Devices, d.Info())
	}

	for _, role := range AllDeviceRoles() {
		index, err := m.DeviceIndexFromRole(role)
		if errors.Is(err, ErrorInvalidValue) {
			continue
		}
		if err != nil {
			return nil, err
		}
		s.Roles = append(s.Roles, RoleInfo{Role: role, Index: index})
	}

	origins, err := m.TrackingOrigins()
	if err != nil {
		return nil, err
	}
	for _, o := range origins {
		s.Origins = append(s.Origins, o.Info())
	}
	return s, nil
}

// Info reads the client's name and state. Failures are recorded in the
// Error field.
func (c Client) Info() ClientInfo {
	info := ClientInfo{ID: c.ID}
	name, err := c.Name()
	if err != nil {
		info.Error = err.Error()
		return info
	}
	info.Name = name
	if info.State, err = c.State(); err != nil {
		info.Error = err.Error()
	}
	return info
}

// Info reads the device's serial, battery and brightness. A serial failure
// is recorded in the Error field; missing battery or brightness support
// leaves those fields nil.
func (d Device) Info() DeviceInfo {
	info := DeviceInfo{Index: d.Index, NameID: d.NameID, Name: d.Name}
	if serial, err := d.Serial(); err != nil {
		info.Error = err.Error()
	} else {
		info.Serial = serial
	}
	if b, err := d.BatteryStatus(); err == nil && b.Present {
		info.Battery = &b
	}
	if v, err := d.Brightness(); err == nil {
		info.Brightness = &v
	}
	return info
}

// Info reads the origin's offset. A failure is recorded in the Error field.
func (o TrackingOrigin) Info() OriginInfo {
	info := OriginInfo{ID: o.ID, Name: o.Name}
	if pose, err := o.Offset(); err != nil {
		info.Error = err.Error()
	} else {
		info.Offset = &pose
	}
	return info
}
