package libmonado

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRealRuntime talks to the library named by LIBMONADO_PATH. It is
// skipped when the variable is unset or no Monado service is running.
func TestRealRuntime(t *testing.T) {
	path := os.Getenv(EnvLibmonadoPath)
	if path == "" {
		t.Skip(EnvLibmonadoPath + " not set")
	}

	m, err := Create(path)
	if errors.Is(err, ErrorConnectingFailed) {
		t.Skipf("monado not reachable: %v", err)
	}
	require.NoError(t, err)
	defer m.Close()

	assert.True(t, m.APIVersion().Compatible())

	s, err := m.Snapshot()
	require.NoError(t, err)
	for _, d := range s.Devices {
		assert.Less(t, d.Index, uint32(len(s.Devices)))
	}
}
