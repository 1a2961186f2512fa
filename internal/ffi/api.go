package ffi

// API is the libmonado entry point table. Every method maps to exactly one
// exported C function and returns its raw result code; out-parameters come
// back as extra return values. Strings are copied out of library memory
// before returning.
//
// *Library implements API. Tests substitute an in-memory implementation.
type API interface {
	// Close unloads the library. No method may be called afterwards.
	Close() error

	APIGetVersion() (major, minor, patch uint32)

	RootCreate() (Root, int32)
	RootDestroy(root *Root)

	RootUpdateClientList(root Root) int32
	RootGetNumberClients(root Root) (uint32, int32)
	RootGetClientIDAtIndex(root Root, index uint32) (uint32, int32)
	RootGetClientName(root Root, clientID uint32) (string, int32)
	RootGetClientState(root Root, clientID uint32) (uint32, int32)
	RootSetClientPrimary(root Root, clientID uint32) int32
	RootSetClientFocused(root Root, clientID uint32) int32
	RootToggleClientIOActive(root Root, clientID uint32) int32

	RootGetDeviceCount(root Root) (uint32, int32)
	RootGetDeviceInfo(root Root, index uint32) (nameID uint32, name string, code int32)
	RootGetDeviceFromRole(root Root, role string) (int32, int32)
	RootGetDeviceInfoBool(root Root, index uint32, property int32) (bool, int32)
	RootGetDeviceInfoI32(root Root, index uint32, property int32) (int32, int32)
	RootGetDeviceInfoU32(root Root, index uint32, property int32) (uint32, int32)
	RootGetDeviceInfoFloat(root Root, index uint32, property int32) (float32, int32)
	RootGetDeviceInfoString(root Root, index uint32, property int32) (string, int32)
	RootGetDeviceBatteryStatus(root Root, index uint32) (present, charging bool, charge float32, code int32)
	RootGetDeviceBrightness(root Root, index uint32) (float32, int32)
	RootSetDeviceBrightness(root Root, index uint32, brightness float32, relative bool) int32

	RootRecenterLocalSpaces(root Root) int32

	RootGetTrackingOriginCount(root Root) (uint32, int32)
	RootGetTrackingOriginName(root Root, originID uint32) (string, int32)
	RootGetTrackingOriginOffset(root Root, originID uint32) (Pose, int32)
	RootSetTrackingOriginOffset(root Root, originID uint32, pose Pose) int32

	RootGetReferenceSpaceOffset(root Root, spaceType int32) (Pose, int32)
	RootSetReferenceSpaceOffset(root Root, spaceType int32, pose Pose) int32

	// RootSetChromaKeyParams is optional. It returns ErrSymbolMissing when
	// the loaded library does not export it.
	RootSetChromaKeyParams(root Root, r, g, b, threshold, smoothing float32) (int32, error)
}
