package scene

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/grasp/hand"
	"github.com/oomph-ac/grasp/omath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rangeScene = `
grabbables:
  - name: revolver
    grabDistance: 0.5
    flyTime: 250ms
    position: [0.3, 1, 0.4]
    bindings:
      trigger: trigger
      openBarrel: dpad_left
      closeBarrel: dpad_right
    kick:
      timeScaled: true
  - name: crate
    shouldFly: false
    position: [-0.5, 0, 0.6]
    rotation: [0, 90, 0]
    bindings:
      gripAutoHolds: true
      releaseGrip: a
`

func TestParse(t *testing.T) {
	s, err := Parse([]byte(rangeScene))
	require.NoError(t, err)
	require.Len(t, s.Grabbables, 2)

	revolver := s.Grabbables[0]
	assert.Equal(t, "revolver", revolver.Name)
	assert.Equal(t, 0.5, revolver.GrabDistance)
	assert.True(t, revolver.ShouldFly, "defaults are kept")
	assert.Equal(t, 250*time.Millisecond, revolver.FlyTime)
	assert.Equal(t, mgl64.Vec3{0.3, 1, 0.4}, revolver.Position)
	assert.Equal(t, hand.ButtonGrip, revolver.Bindings.Grip)
	assert.Equal(t, hand.ButtonDPadLeft, revolver.Bindings.OpenBarrel)
	assert.Equal(t, hand.ButtonDPadRight, revolver.Bindings.CloseBarrel)
	assert.True(t, revolver.Kick.TimeScaled)
	assert.Equal(t, 0.05, revolver.Kick.Decay)
	assert.Equal(t, time.Second, revolver.Kick.MaxDuration)

	crate := s.Grabbables[1]
	assert.False(t, crate.ShouldFly)
	assert.Equal(t, 1.0, crate.GrabDistance)
	assert.True(t, crate.Bindings.GripAutoHolds)
	assert.Equal(t, hand.ButtonA, crate.Bindings.ReleaseGrip)
	assert.InDelta(t, 90, omath.QuatAngle(crate.Orientation(), mgl64.QuatIdent()), 1e-6)
}

func TestParseRejectsInvalidScenes(t *testing.T) {
	for name, doc := range map[string]string{
		"duplicate name": "grabbables:\n  - name: a\n  - name: a\n",
		"missing name":   "grabbables:\n  - grabDistance: 1\n",
		"bad distance":   "grabbables:\n  - name: a\n    grabDistance: -1\n",
		"unknown field":  "grabbables:\n  - name: a\n    colour: red\n",
		"bad button":     "grabbables:\n  - name: a\n    bindings:\n      grip: thumb\n",
		"bad position":   "grabbables:\n  - name: a\n    position: [1, 2]\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestParseEmpty(t *testing.T) {
	s, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, s.Grabbables)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "range.yaml")
	require.NoError(t, os.WriteFile(path, []byte(rangeScene), 0644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, s.Grabbables, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}
