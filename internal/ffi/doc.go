// Package ffi loads the libmonado shared library at run time and calls into
// it through cgo.
//
// Nothing is linked at build time: the library is opened with dlopen and
// each entry point is resolved with dlsym, so a binary built against this
// package runs (and reports a clean error) on machines without Monado.
// All import "C" lives in this package and no C type leaks out of it.
//
// # Build Errors
//
// Only libc's dlfcn.h is needed at build time. Build with CGO_ENABLED=0 or
// -tags noffi to get a stub whose Load always fails with ErrUnavailable.
package ffi
