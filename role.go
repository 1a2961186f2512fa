package libmonado

import (
	"fmt"
	"strings"
)

// DeviceRole names a slot the runtime assigns a device to.
type DeviceRole int

const (
	// Head: the head-mounted display.
	Head DeviceRole = iota
	// Eyes: the eye tracker.
	Eyes
	// Left: the left hand controller.
	Left
	// Right: the right hand controller.
	Right
	// Gamepad: a gamepad.
	Gamepad
	// HandTrackingLeft: the left optical hand tracker.
	HandTrackingLeft
	// HandTrackingRight: the right optical hand tracker.
	HandTrackingRight
)

// AllDeviceRoles lists every role in declaration order.
func AllDeviceRoles() []DeviceRole {
	return []DeviceRole{Head, Eyes, Left, Right, Gamepad, HandTrackingLeft, HandTrackingRight}
}

// String returns the role name libmonado expects, e.g. "hand-tracking-left".
func (r DeviceRole) String() string {
	switch r {
	case Head:
		return "head"
	case Eyes:
		return "eyes"
	case Left:
		return "left"
	case Right:
		return "right"
	case Gamepad:
		return "gamepad"
	case HandTrackingLeft:
		return "hand-tracking-left"
	case HandTrackingRight:
		return "hand-tracking-right"
	default:
		return fmt.Sprintf("DeviceRole(%d)", int(r))
	}
}

// ParseDeviceRole maps a role name back to its DeviceRole.
func ParseDeviceRole(name string) (DeviceRole, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, r := range AllDeviceRoles() {
		if r.String() == name {
			return r, nil
		}
	}
	return 0, fmt.Errorf("libmonado: unknown device role %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (r DeviceRole) MarshalText() ([]byte, error) {
	if r < Head || r > HandTrackingRight {
		return nil, fmt.Errorf("libmonado: invalid device role %d", int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *DeviceRole) UnmarshalText(text []byte) error {
	v, err := ParseDeviceRole(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}
