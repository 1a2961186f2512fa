package ffi

import (
	"errors"
	"unsafe"
)

// Errors from the loader
var (
	ErrUnavailable   = errors.New("ffi: dynamic loading not available in this build")
	ErrLoad          = errors.New("ffi: failed to load library")
	ErrSymbolMissing = errors.New("ffi: symbol not exported by library")
)

// Result codes returned by every mnd_root_* call. Negative values are
// errors, zero or positive values are success.
const (
	Success                      int32 = 0
	ErrorInvalidVersion          int32 = -1
	ErrorInvalidValue            int32 = -2
	ErrorConnectingFailed        int32 = -3
	ErrorOperationFailed         int32 = -4
	ErrorRecenteringNotSupported int32 = -5
	ErrorInvalidProperty         int32 = -6
)

// Root is the opaque mnd_root_t handle. The zero value is a null root.
type Root struct {
	ptr unsafe.Pointer
}

// IsNull reports whether the handle points nowhere.
func (r Root) IsNull() bool {
	return r.ptr == nil
}

// Vector3 mirrors struct mnd_vector3.
type Vector3 struct {
	X float32
	Y float32
	Z float32
}

// Quaternion mirrors struct mnd_quaternion.
type Quaternion struct {
	X float32
	Y float32
	Z float32
	W float32
}

// Pose mirrors struct mnd_pose. Field order matters: it is passed to C by
// pointer.
type Pose struct {
	Orientation Quaternion
	Position    Vector3
}

// PoseSize is the size in bytes of struct mnd_pose.
const PoseSize = 7 * 4
