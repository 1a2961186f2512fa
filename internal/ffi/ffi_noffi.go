//go:build !cgo || noffi || !unix

package ffi

// Load always fails: this build has no dynamic loader.
func Load(path string) (API, error) {
	return nil, ErrUnavailable
}
