// Package simulation is a minimal rigid body simulation used in place of a physics engine. Bodies fall under
// gravity and bounce off the walls of an axis-aligned play area, which is enough to throw and drop
// grabbables in the demo and in tests.
package simulation

import (
	"math"
	"time"

	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// Body is a rigid body inside a play area. It implements the transform, body and outline collaborators of
// a grabbable.
type Body struct {
	pos    mgl64.Vec3
	rot    mgl64.Quat
	vel    mgl64.Vec3
	angVel mgl64.Vec3

	kinematic bool
	onGround  bool
	outline   float64

	area cube.BBox
}

// NewBody returns a resting body at the pose passed, confined to area.
func NewBody(pos mgl64.Vec3, rot mgl64.Quat, area cube.BBox) *Body {
	return &Body{pos: pos, rot: rot, area: area}
}

// Pose ...
func (b *Body) Pose() (mgl64.Vec3, mgl64.Quat) {
	return b.pos, b.rot
}

// SetPose teleports the body.
func (b *Body) SetPose(pos mgl64.Vec3, rot mgl64.Quat) {
	b.pos, b.rot = pos, rot
}

// SetKinematic suspends or resumes simulation of the body.
func (b *Body) SetKinematic(kinematic bool) {
	b.kinematic = kinematic
	if kinematic {
		b.onGround = false
	}
}

// Kinematic ...
func (b *Body) Kinematic() bool {
	return b.kinematic
}

// SetVelocity ...
func (b *Body) SetVelocity(v mgl64.Vec3) {
	b.vel = v
}

// Velocity ...
func (b *Body) Velocity() mgl64.Vec3 {
	return b.vel
}

// SetAngularVelocity sets the angular velocity of the body in radians per second.
func (b *Body) SetAngularVelocity(w mgl64.Vec3) {
	b.angVel = w
}

// AngularVelocity ...
func (b *Body) AngularVelocity() mgl64.Vec3 {
	return b.angVel
}

// SetOutline ...
func (b *Body) SetOutline(intensity float64) {
	b.outline = intensity
}

// Outline returns the highlight intensity last set on the body.
func (b *Body) Outline() float64 {
	return b.outline
}

// OnGround returns true if the body rested on the floor of the play area after the last step.
func (b *Body) OnGround() bool {
	return b.onGround
}

// Step advances the body by dt. Kinematic bodies do not move.
func (b *Body) Step(dt time.Duration) {
	if b.kinematic || dt <= 0 {
		return
	}
	secs := dt.Seconds()

	b.vel[1] -= Gravity * secs
	b.vel = b.vel.Mul(math.Pow(AirDrag, secs))
	b.angVel = b.angVel.Mul(math.Pow(AngularDrag, secs))
	if b.onGround {
		friction := math.Pow(FloorFriction, secs)
		b.vel[0] *= friction
		b.vel[2] *= friction
	}

	b.pos = b.pos.Add(b.vel.Mul(secs))
	if w := b.angVel.Len(); w > 0 {
		b.rot = mgl64.QuatRotate(w*secs, b.angVel.Mul(1/w)).Mul(b.rot).Normalize()
	}
	b.collide()
}

// collide pushes the body back into the play area, reflecting the velocity of every axis it left the area
// through.
func (b *Body) collide() {
	b.onGround = false
	p := mgl32.Vec3{float32(b.pos[0]), float32(b.pos[1]), float32(b.pos[2])}
	if b.area.Vec3Within(p) {
		return
	}
	lo, hi := b.area.Min(), b.area.Max()
	for i := range 3 {
		clamped := math32.Max(lo[i], math32.Min(p[i], hi[i]))
		if clamped == p[i] {
			continue
		}
		b.pos[i] = float64(clamped)
		if (clamped == lo[i] && b.vel[i] < 0) || (clamped == hi[i] && b.vel[i] > 0) {
			b.vel[i] = -b.vel[i] * Restitution
		}
		if i == 1 && clamped == lo[i] {
			b.onGround = true
			if math.Abs(b.vel[i]) < RestSpeed {
				b.vel[i] = 0
			}
		}
	}
}
