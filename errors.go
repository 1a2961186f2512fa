package libmonado

import (
	"errors"

	"github.com/technobaboo/libmonado-go/internal/ffi"
)

// Errors returned by the wrapper itself, as opposed to native result codes.
var (
	// ErrClosed is returned by every call made after Monado.Close.
	ErrClosed = errors.New("libmonado: connection closed")

	// ErrLibmonadoPathInvalid is returned when LIBMONADO_PATH is set but does
	// not name a regular file.
	ErrLibmonadoPathInvalid = errors.New("libmonado: LIBMONADO_PATH does not point to a valid file")

	// ErrNoActiveRuntime is returned when no readable active runtime manifest
	// was found.
	ErrNoActiveRuntime = errors.New("libmonado: couldn't find the active runtime json")

	// ErrNoLibmonadoPath is returned when the active runtime manifest has no
	// MND_libmonado_path entry, i.e. the active runtime is not Monado.
	ErrNoLibmonadoPath = errors.New("libmonado: couldn't find libmonado path in active runtime json")

	// ErrUnsupported is returned when the loaded library lacks an optional
	// entry point.
	ErrUnsupported = ffi.ErrSymbolMissing

	// ErrInvalidUTF8 is returned when the runtime hands back a string that is
	// not valid UTF-8. It also matches ErrorInvalidValue.
	ErrInvalidUTF8 = &callError{op: "decode string", result: ErrorInvalidValue}
)
