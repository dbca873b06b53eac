package input

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/grasp/assert"
	"github.com/oomph-ac/grasp/device"
	"github.com/oomph-ac/grasp/hand"
	"github.com/oomph-ac/grasp/omath"
)

// State is the per-hand view of the controllers for the current tick. It guards every query against
// disconnected controllers so callers never see stale device data.
type State struct {
	backend device.Backend
}

// NewState returns a State reading from the backend passed. A nil backend panics.
func NewState(backend device.Backend) *State {
	assert.IsTrue(backend != nil, "input state needs a device backend")
	return &State{backend: backend}
}

// Backend returns the device backend the state reads from.
func (s *State) Backend() device.Backend {
	return s.backend
}

// Connected returns true if the controller of h is present and active.
func (s *State) Connected(h hand.Hand) bool {
	return h.Valid() && s.backend.Connected(h)
}

// Position returns the world position of the controller of h, or omath.NegativeInfinity if it is not
// connected.
func (s *State) Position(h hand.Hand) mgl64.Vec3 {
	if !s.Connected(h) {
		return omath.NegativeInfinity
	}
	return s.backend.Position(h)
}

// Rotation returns the world rotation of the controller of h, or the identity rotation if it is not
// connected.
func (s *State) Rotation(h hand.Hand) mgl64.Quat {
	if !s.Connected(h) {
		return mgl64.QuatIdent()
	}
	return s.backend.Rotation(h)
}

// Velocity returns the linear velocity of the controller of h, or zero if it is not connected.
func (s *State) Velocity(h hand.Hand) mgl64.Vec3 {
	if !s.Connected(h) {
		return mgl64.Vec3{}
	}
	return s.backend.Velocity(h)
}

// AngularVelocity returns the angular velocity of the controller of h, or zero if it is not connected.
func (s *State) AngularVelocity(h hand.Hand) mgl64.Vec3 {
	if !s.Connected(h) {
		return mgl64.Vec3{}
	}
	return s.backend.AngularVelocity(h)
}

// ButtonDown returns true while btn is held on the controller of h.
func (s *State) ButtonDown(h hand.Hand, btn hand.Button) bool {
	if btn == hand.ButtonNone || !s.Connected(h) {
		return false
	}
	return s.backend.Down(h, btn)
}

// ButtonPressed returns true on the tick btn was pressed on the controller of h.
func (s *State) ButtonPressed(h hand.Hand, btn hand.Button) bool {
	if btn == hand.ButtonNone || !s.Connected(h) {
		return false
	}
	return s.backend.PressedThisTick(h, btn)
}

// Distance returns the distance from the controller of h to pos. A disconnected controller is infinitely
// far away.
func (s *State) Distance(h hand.Hand, pos mgl64.Vec3) float64 {
	if !s.Connected(h) {
		return math.Inf(1)
	}
	return omath.Distance(s.backend.Position(h), pos)
}

// Nearest returns the connected hand closest to pos and its distance. hand.None and +Inf are returned if
// neither controller is connected. Ties go to the right hand.
func (s *State) Nearest(pos mgl64.Vec3) (hand.Hand, float64) {
	left, right := s.Distance(hand.Left, pos), s.Distance(hand.Right, pos)
	switch {
	case math.IsInf(left, 1) && math.IsInf(right, 1):
		return hand.None, math.Inf(1)
	case left < right:
		return hand.Left, left
	default:
		return hand.Right, right
	}
}
