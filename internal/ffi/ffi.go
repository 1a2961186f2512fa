//go:build cgo && !noffi && unix

package ffi

/*
#cgo linux LDFLAGS: -ldl

#include <dlfcn.h>
#include <stdbool.h>
#include <stdint.h>
#include <stdlib.h>
#include <string.h>

typedef int32_t mnd_result_t;

static void *mnd_dlopen(const char *path, char **err) {
	void *h = dlopen(path, RTLD_LAZY | RTLD_LOCAL);
	if (h == NULL) {
		const char *e = dlerror();
		*err = e != NULL ? strdup(e) : NULL;
	}
	return h;
}

static void mnd_call_api_get_version(void *fn, uint32_t *major, uint32_t *minor, uint32_t *patch) {
	((void (*)(uint32_t *, uint32_t *, uint32_t *))fn)(major, minor, patch);
}

static mnd_result_t mnd_call_root_create(void *fn, void **out_root) {
	return ((mnd_result_t (*)(void **))fn)(out_root);
}

static void mnd_call_root_destroy(void *fn, void **root) {
	((void (*)(void **))fn)(root);
}

static mnd_result_t mnd_call_root(void *fn, void *root) {
	return ((mnd_result_t (*)(void *))fn)(root);
}

static mnd_result_t mnd_call_root_out_u32(void *fn, void *root, uint32_t *out) {
	return ((mnd_result_t (*)(void *, uint32_t *))fn)(root, out);
}

static mnd_result_t mnd_call_root_u32(void *fn, void *root, uint32_t id) {
	return ((mnd_result_t (*)(void *, uint32_t))fn)(root, id);
}

static mnd_result_t mnd_call_root_u32_out_u32(void *fn, void *root, uint32_t id, uint32_t *out) {
	return ((mnd_result_t (*)(void *, uint32_t, uint32_t *))fn)(root, id, out);
}

static mnd_result_t mnd_call_root_u32_out_str(void *fn, void *root, uint32_t id, const char **out) {
	return ((mnd_result_t (*)(void *, uint32_t, const char **))fn)(root, id, out);
}

static mnd_result_t mnd_call_root_get_device_info(void *fn, void *root, uint32_t index, uint32_t *out_name_id, const char **out_name) {
	return ((mnd_result_t (*)(void *, uint32_t, uint32_t *, const char **))fn)(root, index, out_name_id, out_name);
}

static mnd_result_t mnd_call_root_get_device_from_role(void *fn, void *root, const char *role, int32_t *out_index) {
	return ((mnd_result_t (*)(void *, const char *, int32_t *))fn)(root, role, out_index);
}

static mnd_result_t mnd_call_root_prop_bool(void *fn, void *root, uint32_t index, int prop, bool *out) {
	return ((mnd_result_t (*)(void *, uint32_t, int, bool *))fn)(root, index, prop, out);
}

static mnd_result_t mnd_call_root_prop_i32(void *fn, void *root, uint32_t index, int prop, int32_t *out) {
	return ((mnd_result_t (*)(void *, uint32_t, int, int32_t *))fn)(root, index, prop, out);
}

static mnd_result_t mnd_call_root_prop_u32(void *fn, void *root, uint32_t index, int prop, uint32_t *out) {
	return ((mnd_result_t (*)(void *, uint32_t, int, uint32_t *))fn)(root, index, prop, out);
}

static mnd_result_t mnd_call_root_prop_float(void *fn, void *root, uint32_t index, int prop, float *out) {
	return ((mnd_result_t (*)(void *, uint32_t, int, float *))fn)(root, index, prop, out);
}

static mnd_result_t mnd_call_root_prop_string(void *fn, void *root, uint32_t index, int prop, const char **out) {
	return ((mnd_result_t (*)(void *, uint32_t, int, const char **))fn)(root, index, prop, out);
}

static mnd_result_t mnd_call_root_battery(void *fn, void *root, uint32_t index, bool *present, bool *charging, float *charge) {
	return ((mnd_result_t (*)(void *, uint32_t, bool *, bool *, float *))fn)(root, index, present, charging, charge);
}

static mnd_result_t mnd_call_root_u32_out_float(void *fn, void *root, uint32_t index, float *out) {
	return ((mnd_result_t (*)(void *, uint32_t, float *))fn)(root, index, out);
}

static mnd_result_t mnd_call_root_set_brightness(void *fn, void *root, uint32_t index, float value, bool relative) {
	return ((mnd_result_t (*)(void *, uint32_t, float, bool))fn)(root, index, value, relative);
}

static mnd_result_t mnd_call_root_u32_pose(void *fn, void *root, uint32_t id, void *pose) {
	return ((mnd_result_t (*)(void *, uint32_t, void *))fn)(root, id, pose);
}

static mnd_result_t mnd_call_root_space_pose(void *fn, void *root, int type, void *pose) {
	return ((mnd_result_t (*)(void *, int, void *))fn)(root, type, pose);
}

static mnd_result_t mnd_call_root_chroma_key(void *fn, void *root, float r, float g, float b, float threshold, float smoothing) {
	return ((mnd_result_t (*)(void *, float, float, float, float, float))fn)(root, r, g, b, threshold, smoothing);
}
*/
import "C"

import (
	"fmt"
	"sync"
	"unsafe"
)

// symbols holds the resolved entry points of one loaded library.
type symbols struct {
	apiGetVersion           unsafe.Pointer
	rootCreate              unsafe.Pointer
	rootDestroy             unsafe.Pointer
	updateClientList        unsafe.Pointer
	getNumberClients        unsafe.Pointer
	getClientIDAtIndex      unsafe.Pointer
	getClientName           unsafe.Pointer
	getClientState          unsafe.Pointer
	setClientPrimary        unsafe.Pointer
	setClientFocused        unsafe.Pointer
	toggleClientIOActive    unsafe.Pointer
	getDeviceCount          unsafe.Pointer
	getDeviceInfo           unsafe.Pointer
	getDeviceFromRole       unsafe.Pointer
	recenterLocalSpaces     unsafe.Pointer
	getDeviceInfoBool       unsafe.Pointer
	getDeviceInfoI32        unsafe.Pointer
	getDeviceInfoU32        unsafe.Pointer
	getDeviceInfoFloat      unsafe.Pointer
	getDeviceInfoString     unsafe.Pointer
	getDeviceBatteryStatus  unsafe.Pointer
	getDeviceBrightness     unsafe.Pointer
	setDeviceBrightness     unsafe.Pointer
	getTrackingOriginCount  unsafe.Pointer
	getTrackingOriginName   unsafe.Pointer
	getTrackingOriginOffset unsafe.Pointer
	setTrackingOriginOffset unsafe.Pointer
	getReferenceSpaceOffset unsafe.Pointer
	setReferenceSpaceOffset unsafe.Pointer
}

func (s *symbols) table() []struct {
	name string
	dst  *unsafe.Pointer
} {
	return []struct {
		name string
		dst  *unsafe.Pointer
	}{
		{"mnd_api_get_version", &s.apiGetVersion},
		{"mnd_root_create", &s.rootCreate},
		{"mnd_root_destroy", &s.rootDestroy},
		{"mnd_root_update_client_list", &s.updateClientList},
		{"mnd_root_get_number_clients", &s.getNumberClients},
		{"mnd_root_get_client_id_at_index", &s.getClientIDAtIndex},
		{"mnd_root_get_client_name", &s.getClientName},
		{"mnd_root_get_client_state", &s.getClientState},
		{"mnd_root_set_client_primary", &s.setClientPrimary},
		{"mnd_root_set_client_focused", &s.setClientFocused},
		{"mnd_root_toggle_client_io_active", &s.toggleClientIOActive},
		{"mnd_root_get_device_count", &s.getDeviceCount},
		{"mnd_root_get_device_info", &s.getDeviceInfo},
		{"mnd_root_get_device_from_role", &s.getDeviceFromRole},
		{"mnd_root_recenter_local_spaces", &s.recenterLocalSpaces},
		{"mnd_root_get_device_info_bool", &s.getDeviceInfoBool},
		{"mnd_root_get_device_info_i32", &s.getDeviceInfoI32},
		{"mnd_root_get_device_info_u32", &s.getDeviceInfoU32},
		{"mnd_root_get_device_info_float", &s.getDeviceInfoFloat},
		{"mnd_root_get_device_info_string", &s.getDeviceInfoString},
		{"mnd_root_get_device_battery_status", &s.getDeviceBatteryStatus},
		{"mnd_root_get_device_brightness", &s.getDeviceBrightness},
		{"mnd_root_set_device_brightness", &s.setDeviceBrightness},
		{"mnd_root_get_tracking_origin_count", &s.getTrackingOriginCount},
		{"mnd_root_get_tracking_origin_name", &s.getTrackingOriginName},
		{"mnd_root_get_tracking_origin_offset", &s.getTrackingOriginOffset},
		{"mnd_root_set_tracking_origin_offset", &s.setTrackingOriginOffset},
		{"mnd_root_get_reference_space_offset", &s.getReferenceSpaceOffset},
		{"mnd_root_set_reference_space_offset", &s.setReferenceSpaceOffset},
	}
}

const chromaKeySymbol = "mnd_root_set_chroma_key_params"

// Library is a dlopen'ed libmonado.
type Library struct {
	path   string
	handle unsafe.Pointer
	fns    symbols

	chromaOnce sync.Once
	chromaKey  unsafe.Pointer
}

// Load opens path and returns it as an API.
func Load(path string) (API, error) {
	lib, err := Open(path)
	if err != nil {
		return nil, err
	}
	return lib, nil
}

// Open loads the shared library at path and resolves every required entry
// point. On any failure the library is unloaded again.
func Open(path string) (*Library, error) {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	var cerr *C.char
	h := C.mnd_dlopen(cpath, &cerr)
	if h == nil {
		msg := "unknown error"
		if cerr != nil {
			msg = C.GoString(cerr)
			C.free(unsafe.Pointer(cerr))
		}
		return nil, fmt.Errorf("%w %s: %s", ErrLoad, path, msg)
	}

	lib := &Library{path: path, handle: h}
	for _, sym := range lib.fns.table() {
		p := lib.lookup(sym.name)
		if p == nil {
			C.dlclose(h)
			return nil, fmt.Errorf("%w: %s in %s", ErrSymbolMissing, sym.name, path)
		}
		*sym.dst = p
	}
	return lib, nil
}

func (l *Library) lookup(name string) unsafe.Pointer {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	return C.dlsym(l.handle, cname)
}

// Path returns the path the library was opened from.
func (l *Library) Path() string {
	return l.path
}

// Close unloads the library. Calling it twice is a no-op.
func (l *Library) Close() error {
	if l == nil || l.handle == nil {
		return nil
	}
	if C.dlclose(l.handle) != 0 {
		return fmt.Errorf("ffi: dlclose %s failed", l.path)
	}
	l.handle = nil
	l.fns = symbols{}
	l.chromaKey = nil
	return nil
}

func (l *Library) APIGetVersion() (major, minor, patch uint32) {
	var cMajor, cMinor, cPatch C.uint32_t
	C.mnd_call_api_get_version(l.fns.apiGetVersion, &cMajor, &cMinor, &cPatch)
	return uint32(cMajor), uint32(cMinor), uint32(cPatch)
}

func (l *Library) RootCreate() (Root, int32) {
	var p unsafe.Pointer
	code := C.mnd_call_root_create(l.fns.rootCreate, &p)
	return Root{ptr: p}, int32(code)
}

func (l *Library) RootDestroy(root *Root) {
	if root == nil || root.ptr == nil {
		return
	}
	p := root.ptr
	C.mnd_call_root_destroy(l.fns.rootDestroy, &p)
	root.ptr = nil
}

func (l *Library) RootUpdateClientList(root Root) int32 {
	return int32(C.mnd_call_root(l.fns.updateClientList, root.ptr))
}

func (l *Library) RootGetNumberClients(root Root) (uint32, int32) {
	return l.outU32(l.fns.getNumberClients, root)
}

func (l *Library) RootGetClientIDAtIndex(root Root, index uint32) (uint32, int32) {
	var out C.uint32_t
	code := C.mnd_call_root_u32_out_u32(l.fns.getClientIDAtIndex, root.ptr, C.uint32_t(index), &out)
	return uint32(out), int32(code)
}

func (l *Library) RootGetClientName(root Root, clientID uint32) (string, int32) {
	return l.outString(l.fns.getClientName, root, clientID)
}

func (l *Library) RootGetClientState(root Root, clientID uint32) (uint32, int32) {
	var out C.uint32_t
	code := C.mnd_call_root_u32_out_u32(l.fns.getClientState, root.ptr, C.uint32_t(clientID), &out)
	return uint32(out), int32(code)
}

func (l *Library) RootSetClientPrimary(root Root, clientID uint32) int32 {
	return int32(C.mnd_call_root_u32(l.fns.setClientPrimary, root.ptr, C.uint32_t(clientID)))
}

func (l *Library) RootSetClientFocused(root Root, clientID uint32) int32 {
	return int32(C.mnd_call_root_u32(l.fns.setClientFocused, root.ptr, C.uint32_t(clientID)))
}

func (l *Library) RootToggleClientIOActive(root Root, clientID uint32) int32 {
	return int32(C.mnd_call_root_u32(l.fns.toggleClientIOActive, root.ptr, C.uint32_t(clientID)))
}

func (l *Library) RootGetDeviceCount(root Root) (uint32, int32) {
	return l.outU32(l.fns.getDeviceCount, root)
}

func (l *Library) RootGetDeviceInfo(root Root, index uint32) (uint32, string, int32) {
	var nameID C.uint32_t
	var name *C.char
	code := C.mnd_call_root_get_device_info(l.fns.getDeviceInfo, root.ptr, C.uint32_t(index), &nameID, &name)
	return uint32(nameID), goString(name), int32(code)
}

func (l *Library) RootGetDeviceFromRole(root Root, role string) (int32, int32) {
	crole := C.CString(role)
	defer C.free(unsafe.Pointer(crole))

	out := C.int32_t(-1)
	code := C.mnd_call_root_get_device_from_role(l.fns.getDeviceFromRole, root.ptr, crole, &out)
	return int32(out), int32(code)
}

func (l *Library) RootGetDeviceInfoBool(root Root, index uint32, property int32) (bool, int32) {
	var out C.bool
	code := C.mnd_call_root_prop_bool(l.fns.getDeviceInfoBool, root.ptr, C.uint32_t(index), C.int(property), &out)
	return bool(out), int32(code)
}

func (l *Library) RootGetDeviceInfoI32(root Root, index uint32, property int32) (int32, int32) {
	var out C.int32_t
	code := C.mnd_call_root_prop_i32(l.fns.getDeviceInfoI32, root.ptr, C.uint32_t(index), C.int(property), &out)
	return int32(out), int32(code)
}

func (l *Library) RootGetDeviceInfoU32(root Root, index uint32, property int32) (uint32, int32) {
	var out C.uint32_t
	code := C.mnd_call_root_prop_u32(l.fns.getDeviceInfoU32, root.ptr, C.uint32_t(index), C.int(property), &out)
	return uint32(out), int32(code)
}

func (l *Library) RootGetDeviceInfoFloat(root Root, index uint32, property int32) (float32, int32) {
	var out C.float
	code := C.mnd_call_root_prop_float(l.fns.getDeviceInfoFloat, root.ptr, C.uint32_t(index), C.int(property), &out)
	return float32(out), int32(code)
}

func (l *Library) RootGetDeviceInfoString(root Root, index uint32, property int32) (string, int32) {
	var out *C.char
	code := C.mnd_call_root_prop_string(l.fns.getDeviceInfoString, root.ptr, C.uint32_t(index), C.int(property), &out)
	return goString(out), int32(code)
}

func (l *Library) RootGetDeviceBatteryStatus(root Root, index uint32) (bool, bool, float32, int32) {
	var present, charging C.bool
	var charge C.float
	code := C.mnd_call_root_battery(l.fns.getDeviceBatteryStatus, root.ptr, C.uint32_t(index), &present, &charging, &charge)
	return bool(present), bool(charging), float32(charge), int32(code)
}

func (l *Library) RootGetDeviceBrightness(root Root, index uint32) (float32, int32) {
	var out C.float
	code := C.mnd_call_root_u32_out_float(l.fns.getDeviceBrightness, root.ptr, C.uint32_t(index), &out)
	return float32(out), int32(code)
}

func (l *Library) RootSetDeviceBrightness(root Root, index uint32, brightness float32, relative bool) int32 {
	return int32(C.mnd_call_root_set_brightness(l.fns.setDeviceBrightness, root.ptr, C.uint32_t(index), C.float(brightness), C.bool(relative)))
}

func (l *Library) RootRecenterLocalSpaces(root Root) int32 {
	return int32(C.mnd_call_root(l.fns.recenterLocalSpaces, root.ptr))
}

func (l *Library) RootGetTrackingOriginCount(root Root) (uint32, int32) {
	return l.outU32(l.fns.getTrackingOriginCount, root)
}

func (l *Library) RootGetTrackingOriginName(root Root, originID uint32) (string, int32) {
	return l.outString(l.fns.getTrackingOriginName, root, originID)
}

func (l *Library) RootGetTrackingOriginOffset(root Root, originID uint32) (Pose, int32) {
	var pose Pose
	code := C.mnd_call_root_u32_pose(l.fns.getTrackingOriginOffset, root.ptr, C.uint32_t(originID), unsafe.Pointer(&pose))
	return pose, int32(code)
}

func (l *Library) RootSetTrackingOriginOffset(root Root, originID uint32, pose Pose) int32 {
	return int32(C.mnd_call_root_u32_pose(l.fns.setTrackingOriginOffset, root.ptr, C.uint32_t(originID), unsafe.Pointer(&pose)))
}

func (l *Library) RootGetReferenceSpaceOffset(root Root, spaceType int32) (Pose, int32) {
	var pose Pose
	code := C.mnd_call_root_space_pose(l.fns.getReferenceSpaceOffset, root.ptr, C.int(spaceType), unsafe.Pointer(&pose))
	return pose, int32(code)
}

func (l *Library) RootSetReferenceSpaceOffset(root Root, spaceType int32, pose Pose) int32 {
	return int32(C.mnd_call_root_space_pose(l.fns.setReferenceSpaceOffset, root.ptr, C.int(spaceType), unsafe.Pointer(&pose)))
}

func (l *Library) RootSetChromaKeyParams(root Root, r, g, b, threshold, smoothing float32) (int32, error) {
	l.chromaOnce.Do(func() {
		l.chromaKey = l.lookup(chromaKeySymbol)
	})
	if l.chromaKey == nil {
		return ErrorOperationFailed, fmt.Errorf("%w: %s in %s", ErrSymbolMissing, chromaKeySymbol, l.path)
	}
	code := C.mnd_call_root_chroma_key(l.chromaKey, root.ptr, C.float(r), C.float(g), C.float(b), C.float(threshold), C.float(smoothing))
	return int32(code), nil
}

func (l *Library) outU32(fn unsafe.Pointer, root Root) (uint32, int32) {
	var out C.uint32_t
	code := C.mnd_call_root_out_u32(fn, root.ptr, &out)
	return uint32(out), int32(code)
}

func (l *Library) outString(fn unsafe.Pointer, root Root, id uint32) (string, int32) {
	var out *C.char
	code := C.mnd_call_root_u32_out_str(fn, root.ptr, C.uint32_t(id), &out)
	return goString(out), int32(code)
}

// goString copies a library-owned C string. The library keeps ownership.
func goString(s *C.char) string {
	if s == nil {
		return ""
	}
	return C.GoString(s)
}
