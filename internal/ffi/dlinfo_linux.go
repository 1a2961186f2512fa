//go:build cgo && !noffi && linux

package ffi

/*
#define _GNU_SOURCE
#include <dlfcn.h>
#include <link.h>
#include <stdlib.h>
#include <string.h>

static char *mnd_find_system_library(const char *name) {
	void *h = dlopen(name, RTLD_LAZY | RTLD_LOCAL);
	if (h == NULL) {
		return NULL;
	}
	struct link_map *map = NULL;
	char *out = NULL;
	if (dlinfo(h, RTLD_DI_LINKMAP, &map) == 0 && map != NULL && map->l_name != NULL) {
		out = strdup(map->l_name);
	}
	dlclose(h);
	return out;
}
*/
import "C"

import "unsafe"

// FindSystemLibrary opens name through the dynamic linker search path and
// reports the file it resolved to. The probe handle is closed again.
func FindSystemLibrary(name string) (string, bool) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	out := C.mnd_find_system_library(cname)
	if out == nil {
		return "", false
	}
	defer C.free(unsafe.Pointer(out))

	path := C.GoString(out)
	if path == "" {
		return "", false
	}
	return path, true
}
