//go:build !cgo || noffi || !linux

package ffi

// FindSystemLibrary needs dlinfo, which only glibc-style Linux provides
// here. Elsewhere the lookup always misses.
func FindSystemLibrary(name string) (string, bool) {
	return "", false
}
