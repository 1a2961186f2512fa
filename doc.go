// Package libmonado controls a running Monado OpenXR runtime through its
// libmonado shared library.
//
// The library is loaded at run time with dlopen, so programs built with this
// package start on machines without Monado and fail only when they try to
// connect. The loaded library must report API version 1.3.0 or a later 1.x.
//
// # Usage
//
//	m, err := libmonado.AutoConnect()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer m.Close()
//
//	clients, err := m.Clients()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, c := range clients {
//	    name, _ := c.Name()
//	    state, _ := c.State()
//	    fmt.Println(c.ID, name, state)
//	}
//
// # Finding libmonado
//
// AutoConnect looks in this order:
//   - LIBMONADO_PATH, which must name a regular file
//   - XR_RUNTIME_JSON, then openxr/1/active_runtime.json in the XDG config
//     directories; the first manifest that parses is used and must have a
//     runtime.MND_libmonado_path entry
//
// Relative library paths are resolved against the directory of the real
// manifest file. Bare file names go through the system library search path
// first. Use Create to load a library by path instead.
//
// # Errors
//
// Native failures are returned as Result values, possibly wrapped with the
// name of the failing entry point, so they can be matched with errors.Is:
//
//	if errors.Is(err, libmonado.ErrorRecenteringNotSupported) {
//	    ...
//	}
//
// Builds without cgo compile, but Create always fails with
// ErrorConnectingFailed.
package libmonado
