package libmonado

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/technobaboo/libmonado-go/internal/ffi"
)

// ReferenceSpaceType selects one of the OpenXR reference spaces.
type ReferenceSpaceType int32

const (
	ReferenceSpaceView       ReferenceSpaceType = 0
	ReferenceSpaceLocal      ReferenceSpaceType = 1
	ReferenceSpaceLocalFloor ReferenceSpaceType = 2
	ReferenceSpaceStage      ReferenceSpaceType = 3
	ReferenceSpaceUnbounded  ReferenceSpaceType = 4
)

// AllReferenceSpaceTypes lists every reference space in value order.
func AllReferenceSpaceTypes() []ReferenceSpaceType {
	return []ReferenceSpaceType{
		ReferenceSpaceView,
		ReferenceSpaceLocal,
		ReferenceSpaceLocalFloor,
		ReferenceSpaceStage,
		ReferenceSpaceUnbounded,
	}
}

func (t ReferenceSpaceType) String() string {
	switch t {
	case ReferenceSpaceView:
		return "view"
	case ReferenceSpaceLocal:
		return "local"
	case ReferenceSpaceLocalFloor:
		return "local-floor"
	case ReferenceSpaceStage:
		return "stage"
	case ReferenceSpaceUnbounded:
		return "unbounded"
	default:
		return fmt.Sprintf("ReferenceSpaceType(%d)", int32(t))
	}
}

// ParseReferenceSpaceType maps a space name such as "local-floor" back to
// its type.
func ParseReferenceSpaceType(name string) (ReferenceSpaceType, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, t := range AllReferenceSpaceTypes() {
		if t.String() == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("libmonado: unknown reference space %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (t ReferenceSpaceType) MarshalText() ([]byte, error) {
	if t < ReferenceSpaceView || t > ReferenceSpaceUnbounded {
		return nil, fmt.Errorf("libmonado: invalid reference space %d", int32(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *ReferenceSpaceType) UnmarshalText(text []byte) error {
	v, err := ParseReferenceSpaceType(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Pose is a rigid transform: a rotation followed by a translation, in
// meters.
type Pose struct {
	Position    mgl32.Vec3
	Orientation mgl32.Quat
}

// IdentityPose returns the pose that does not move anything.
func IdentityPose() Pose {
	return Pose{Orientation: mgl32.QuatIdent()}
}

func poseFromFFI(p ffi.Pose) Pose {
	return Pose{
		Position: mgl32.Vec3{p.Position.X, p.Position.Y, p.Position.Z},
		Orientation: mgl32.Quat{
			W: p.Orientation.W,
			V: mgl32.Vec3{p.Orientation.X, p.Orientation.Y, p.Orientation.Z},
		},
	}
}

func (p Pose) toFFI() ffi.Pose {
	return ffi.Pose{
		Orientation: ffi.Quaternion{
			X: p.Orientation.V[0],
			Y: p.Orientation.V[1],
			Z: p.Orientation.V[2],
			W: p.Orientation.W,
		},
		Position: ffi.Vector3{X: p.Position[0], Y: p.Position[1], Z: p.Position[2]},
	}
}

// Mat4 returns the pose as a homogeneous transform matrix.
func (p Pose) Mat4() mgl32.Mat4 {
	return mgl32.Translate3D(p.Position[0], p.Position[1], p.Position[2]).Mul4(p.Orientation.Normalize().Mat4())
}

// poseJSON is the wire form: position as [x,y,z], orientation as [x,y,z,w].
type poseJSON struct {
	Position    [3]float32 `json:"position" yaml:"position,flow"`
	Orientation [4]float32 `json:"orientation" yaml:"orientation,flow"`
}

func (p Pose) wire() poseJSON {
	q := p.Orientation
	return poseJSON{
		Position:    [3]float32(p.Position),
		Orientation: [4]float32{q.V[0], q.V[1], q.V[2], q.W},
	}
}

func (w poseJSON) pose() Pose {
	o := w.Orientation
	return Pose{
		Position:    mgl32.Vec3(w.Position),
		Orientation: mgl32.Quat{W: o[3], V: mgl32.Vec3{o[0], o[1], o[2]}},
	}
}

// MarshalJSON implements json.Marshaler.
func (p Pose) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.wire())
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Pose) UnmarshalJSON(data []byte) error {
	var w poseJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*p = w.pose()
	return nil
}

// MarshalYAML uses the same layout as the JSON form.
func (p Pose) MarshalYAML() (interface{}, error) {
	return p.wire(), nil
}

// ReferenceSpaceOffset returns the offset of a reference space from the
// tracking origin.
func (m *Monado) ReferenceSpaceOffset(t ReferenceSpaceType) (Pose, error) {
	var pose ffi.Pose
	err := m.call("mnd_root_get_reference_space_offset", func(api ffi.API, root ffi.Root) int32 {
		var code int32
		pose, code = api.RootGetReferenceSpaceOffset(root, int32(t))
		return code
	})
	if err != nil {
		return Pose{}, err
	}
	return poseFromFFI(pose), nil
}

// SetReferenceSpaceOffset moves a reference space.
func (m *Monado) SetReferenceSpaceOffset(t ReferenceSpaceType, pose Pose) error {
	return m.call("mnd_root_set_reference_space_offset", func(api ffi.API, root ffi.Root) int32 {
		return api.RootSetReferenceSpaceOffset(root, int32(t), pose.toFFI())
	})
}

// TrackingOrigin is a tracking system's coordinate origin, e.g. a
// lighthouse universe.
type TrackingOrigin struct {
	ID   uint32 `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`

	m *Monado
}

// TrackingOrigins returns every tracking origin with its name. Origin ids
// are their indices.
func (m *Monado) TrackingOrigins() ([]TrackingOrigin, error) {
	var count uint32
	if err := m.call("mnd_root_get_tracking_origin_count", func(api ffi.API, root ffi.Root) int32 {
		var code int32
		count, code = api.RootGetTrackingOriginCount(root)
		return code
	}); err != nil {
		return nil, err
	}

	origins := make([]TrackingOrigin, 0, count)
	for id := uint32(0); id < count; id++ {
		var name string
		if err := m.call("mnd_root_get_tracking_origin_name", func(api ffi.API, root ffi.Root) int32 {
			var code int32
			name, code = api.RootGetTrackingOriginName(root, id)
			return code
		}); err != nil {
			return nil, err
		}
		if !utf8.ValidString(name) {
			return nil, ErrInvalidUTF8
		}
		origins = append(origins, TrackingOrigin{ID: id, Name: name, m: m})
	}
	return origins, nil
}

// TrackingOrigin returns a handle for id without reading its name.
func (m *Monado) TrackingOrigin(id uint32) TrackingOrigin {
	return TrackingOrigin{ID: id, m: m}
}

// Offset returns the origin's offset.
func (o TrackingOrigin) Offset() (Pose, error) {
	var pose ffi.Pose
	err := o.m.call("mnd_root_get_tracking_origin_offset", func(api ffi.API, root ffi.Root) int32 {
		var code int32
		pose, code = api.RootGetTrackingOriginOffset(root, o.ID)
		return code
	})
	if err != nil {
		return Pose{}, err
	}
	return poseFromFFI(pose), nil
}

// SetOffset moves the origin.
func (o TrackingOrigin) SetOffset(pose Pose) error {
	return o.m.call("mnd_root_set_tracking_origin_offset", func(api ffi.API, root ffi.Root) int32 {
		return api.RootSetTrackingOriginOffset(root, o.ID, pose.toFFI())
	})
}
