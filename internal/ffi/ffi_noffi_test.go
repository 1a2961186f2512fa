//go:build !cgo || noffi || !unix

package ffi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestLoadUnavailable verifies the stub build reports ErrUnavailable.
func TestLoadUnavailable(t *testing.T) {
	api, err := Load("/usr/lib/libmonado.so")
	require.ErrorIs(t, err, ErrUnavailable)
	require.Nil(t, api)
}
