package commands

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	libmonado "github.com/technobaboo/libmonado-go"
)

func TestParseFloats(t *testing.T) {
	v, err := parseFloats(" 1, -2.5,3 ", 3)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, -2.5, 3}, v)

	for _, bad := range []string{"", "1,2", "1,2,3,4", "1,a,3"} {
		_, err := parseFloats(bad, 3)
		assert.Error(t, err, bad)
	}
}

func TestApplyPose(t *testing.T) {
	start := libmonado.Pose{Position: mgl32.Vec3{1, 1, 1}, Orientation: mgl32.QuatIdent()}

	p, err := applyPose(start, "", "")
	require.NoError(t, err)
	assert.Equal(t, start, p)

	p, err = applyPose(start, "0,2,0", "")
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec3{0, 2, 0}, p.Position)
	assert.Equal(t, start.Orientation, p.Orientation)

	p, err = applyPose(start, "", "0,0,0,4")
	require.NoError(t, err)
	assert.Equal(t, start.Position, p.Position)
	assert.InDelta(t, 1, p.Orientation.W, 1e-6)
}

func TestFormatPose(t *testing.T) {
	p := libmonado.Pose{Position: mgl32.Vec3{1, -0.5, 0}, Orientation: mgl32.QuatIdent()}
	assert.Equal(t, "1.000, -0.500, 0.000", formatPosition(p))
	assert.Equal(t, "0.000, 0.000, 0.000, 1.000", formatOrientation(p))
}
