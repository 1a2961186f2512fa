//go:build cgo && !noffi && linux

package ffi

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFindSystemLibrary verifies bare names resolve through the linker path.
func TestFindSystemLibrary(t *testing.T) {
	path, ok := FindSystemLibrary("libc.so.6")
	if !ok {
		t.Skip("libc.so.6 not resolvable on this system")
	}
	assert.True(t, filepath.IsAbs(path), "expected absolute path, got %q", path)

	_, ok = FindSystemLibrary("libdefinitely-not-installed-monado.so")
	assert.False(t, ok)
}

// TestOpenWrongLibrary verifies a library without the entry points is rejected.
func TestOpenWrongLibrary(t *testing.T) {
	if _, ok := FindSystemLibrary("libc.so.6"); !ok {
		t.Skip("libc.so.6 not resolvable on this system")
	}
	_, err := Open("libc.so.6")
	require.ErrorIs(t, err, ErrSymbolMissing)
	require.Contains(t, err.Error(), "mnd_api_get_version")
}
