package simulation

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/grasp/omath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func step(b *Body, n int, dt time.Duration) {
	for range n {
		b.Step(dt)
	}
}

func TestDroppedBodyLandsOnFloor(t *testing.T) {
	b := NewBody(mgl64.Vec3{0, 1, 0}, mgl64.QuatIdent(), DefaultArea())

	b.Step(10 * time.Millisecond)
	assert.Less(t, b.Velocity().Y(), 0.0)
	assert.False(t, b.OnGround())

	step(b, 300, 10*time.Millisecond)
	pos, _ := b.Pose()
	assert.Equal(t, 0.0, pos.Y())
	assert.True(t, b.OnGround())
	assert.InDelta(t, 0, b.Velocity().Y(), RestSpeed+Gravity*0.01)
}

func TestKinematicBodyDoesNotMove(t *testing.T) {
	b := NewBody(mgl64.Vec3{0, 1, 0}, mgl64.QuatIdent(), DefaultArea())
	b.SetKinematic(true)
	b.SetVelocity(mgl64.Vec3{1, 0, 0})

	step(b, 10, 10*time.Millisecond)
	pos, _ := b.Pose()
	assert.Equal(t, mgl64.Vec3{0, 1, 0}, pos)
	assert.True(t, b.Kinematic())

	b.SetKinematic(false)
	b.Step(10 * time.Millisecond)
	pos, _ = b.Pose()
	assert.Greater(t, pos.X(), 0.0)
}

func TestBodyBouncesOffWalls(t *testing.T) {
	b := NewBody(mgl64.Vec3{4.9, 2, 0}, mgl64.QuatIdent(), DefaultArea())
	b.SetVelocity(mgl64.Vec3{5, 0, 0})

	b.Step(100 * time.Millisecond)
	pos, _ := b.Pose()
	assert.Equal(t, 5.0, pos.X())
	assert.Less(t, b.Velocity().X(), 0.0)
	assert.Greater(t, b.Velocity().X(), -5.0*Restitution-1e-9)
}

func TestAngularVelocityRotatesBody(t *testing.T) {
	b := NewBody(mgl64.Vec3{0, 2, 0}, mgl64.QuatIdent(), DefaultArea())
	b.SetAngularVelocity(mgl64.Vec3{0, 1, 0})

	b.Step(10 * time.Millisecond)
	_, rot := b.Pose()
	assert.InDelta(t, mgl64.RadToDeg(0.01), omath.QuatAngle(rot, mgl64.QuatIdent()), 0.01)
	assert.InDelta(t, 1, rot.Len(), 1e-9)
}

func TestBodyKeepsOutline(t *testing.T) {
	b := NewBody(mgl64.Vec3{}, mgl64.QuatIdent(), DefaultArea())
	b.SetOutline(0.4)
	assert.Equal(t, 0.4, b.Outline())
}

func TestWorld(t *testing.T) {
	w := NewWorld(DefaultArea())
	a := w.NewBody(mgl64.Vec3{0, 2, 0}, mgl64.QuatIdent())
	b := w.NewBody(mgl64.Vec3{1, 2, 0}, mgl64.QuatIdent())
	require.Len(t, w.Bodies(), 2)

	w.Step(50 * time.Millisecond)
	posA, _ := a.Pose()
	assert.Less(t, posA.Y(), 2.0)

	assert.True(t, w.Remove(b))
	assert.False(t, w.Remove(b))
	assert.Equal(t, []*Body{a}, w.Bodies())

	w.Step(50 * time.Millisecond)
	posB, _ := b.Pose()
	assert.Greater(t, posB.Y(), posA.Y(), "removed bodies are no longer stepped")
}
