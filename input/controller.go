package input

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/oomph-ac/grasp/arbiter"
	"github.com/oomph-ac/grasp/assert"
	"github.com/oomph-ac/grasp/hand"
	"github.com/oomph-ac/grasp/haptic"
	"github.com/oomph-ac/grasp/oerror"
)

// Controller is the input binding of a single holder. It reads the shared State through the holder's button
// bindings and tracks which hand, if any, the holder is bound to. The binding itself lives in the arbiter,
// so a Controller never owns a hand the arbiter does not know about.
type Controller struct {
	state    *State
	haptics  *haptic.Scheduler
	bindings Bindings

	// RumbleStrength is the strength used by Rumble and RumblePattern.
	RumbleStrength float64

	holder arbiter.Candidate
	active hand.Hand
}

// NewController returns a Controller reading from state. haptics may be nil, in which case rumble requests
// are dropped.
func NewController(state *State, haptics *haptic.Scheduler, bindings Bindings) *Controller {
	assert.IsTrue(state != nil, "controller needs an input state")
	return &Controller{
		state:          state,
		haptics:        haptics,
		bindings:       bindings,
		RumbleStrength: haptic.DefaultStrength,
	}
}

// State returns the input state the controller reads from.
func (c *Controller) State() *State {
	return c.state
}

// Bindings returns the button bindings of the controller.
func (c *Controller) Bindings() Bindings {
	return c.bindings
}

// GripAutoHolds ...
func (c *Controller) GripAutoHolds() bool {
	return c.bindings.GripAutoHolds
}

// GripDown returns true while the grip button is held on h.
func (c *Controller) GripDown(h hand.Hand) bool {
	return c.state.ButtonDown(h, c.bindings.Grip)
}

// GripPressed returns true on the tick the grip button was pressed on h.
func (c *Controller) GripPressed(h hand.Hand) bool {
	return c.state.ButtonPressed(h, c.bindings.Grip)
}

// ReleaseGripPressed returns true on the tick the release grip button was pressed on h.
func (c *Controller) ReleaseGripPressed(h hand.Hand) bool {
	return c.state.ButtonPressed(h, c.bindings.ReleaseGrip)
}

// TriggerPressed returns true on the tick the trigger was pressed on h.
func (c *Controller) TriggerPressed(h hand.Hand) bool {
	return c.state.ButtonPressed(h, c.bindings.Trigger)
}

// OpenBarrelPressed ...
func (c *Controller) OpenBarrelPressed(h hand.Hand) bool {
	return c.state.ButtonPressed(h, c.bindings.OpenBarrel)
}

// CloseBarrelPressed ...
func (c *Controller) CloseBarrelPressed(h hand.Hand) bool {
	return c.state.ButtonPressed(h, c.bindings.CloseBarrel)
}

// GripEngaged returns true if the grip policy allows h to pick something up this tick: a press edge when
// grip auto holds, otherwise the grip being held.
func (c *Controller) GripEngaged(h hand.Hand) bool {
	if c.bindings.GripAutoHolds {
		return c.GripPressed(h)
	}
	return c.GripDown(h)
}

// ShouldRelease returns true if the active hand asked to let go this tick: a release button press when grip
// auto holds, otherwise the grip no longer being held. It is false without an active hand.
func (c *Controller) ShouldRelease() bool {
	if !c.active.Valid() {
		return false
	}
	if c.bindings.GripAutoHolds {
		return c.ReleaseGripPressed(c.active)
	}
	return !c.GripDown(c.active)
}

// Bind makes holder the only candidate that may claim hands through the controller. A controller serves a
// single holder for its whole lifetime, so binding a second one fails.
func (c *Controller) Bind(holder arbiter.Candidate) error {
	if holder == nil {
		return oerror.New("controller: cannot bind a nil holder")
	}
	if c.holder != nil && c.holder.ID() != holder.ID() {
		return oerror.New("controller: already bound to %q, cannot bind %q", c.holder.Name(), holder.Name())
	}
	c.holder = holder
	return nil
}

// Holder returns the candidate bound to the controller, if any.
func (c *Controller) Holder() (arbiter.Candidate, bool) {
	return c.holder, c.holder != nil
}

// Claim binds h to holder in the arbiter and makes it the active hand of the controller. It returns false
// if the hand is taken by another holder, the controller is already bound to the other hand, or holder is
// not the candidate the controller was bound to.
func (c *Controller) Claim(arb *arbiter.Arbiter, holder arbiter.Candidate, h hand.Hand) bool {
	if holder == nil || (c.holder != nil && c.holder.ID() != holder.ID()) {
		return false
	}
	if c.active.Valid() && c.active != h {
		return false
	}
	if !arb.Claim(h, holder) {
		return false
	}
	c.active = h
	return true
}

// Release frees the active hand in the arbiter. Calling it without an active hand does nothing.
func (c *Controller) Release(arb *arbiter.Arbiter) {
	if !c.active.Valid() {
		return
	}
	arb.Release(c.active)
	c.active = hand.None
}

// ActiveController returns the hand the controller is bound to.
func (c *Controller) ActiveController() (hand.Hand, bool) {
	return c.active, c.active.Valid()
}

// HasActiveController ...
func (c *Controller) HasActiveController() bool {
	return c.active.Valid()
}

// ActivePosition returns the position of the active hand, or omath.NegativeInfinity without one.
func (c *Controller) ActivePosition() mgl64.Vec3 {
	return c.state.Position(c.active)
}

// ActiveRotation returns the rotation of the active hand, or the identity rotation without one.
func (c *Controller) ActiveRotation() mgl64.Quat {
	return c.state.Rotation(c.active)
}

// ActiveVelocity returns the linear velocity of the active hand, or zero without one.
func (c *Controller) ActiveVelocity() mgl64.Vec3 {
	return c.state.Velocity(c.active)
}

// ActiveAngularVelocity returns the angular velocity of the active hand, or zero without one.
func (c *Controller) ActiveAngularVelocity() mgl64.Vec3 {
	return c.state.AngularVelocity(c.active)
}

// HideActiveModel hides the render model of the active hand.
func (c *Controller) HideActiveModel() {
	if c.active.Valid() {
		c.state.Backend().SetVisible(c.active, false)
	}
}

// ShowActiveModel shows the render model of the active hand.
func (c *Controller) ShowActiveModel() {
	if c.active.Valid() {
		c.state.Backend().SetVisible(c.active, true)
	}
}

// Rumble vibrates the active hand for d. It returns false if there is no active hand to rumble.
func (c *Controller) Rumble(d time.Duration) (uuid.UUID, bool) {
	return c.RumblePattern(1, d, 0)
}

// RumblePattern vibrates the active hand count times for length each, with gap in between.
func (c *Controller) RumblePattern(count int, length, gap time.Duration) (uuid.UUID, bool) {
	if c.haptics == nil || !c.active.Valid() {
		return uuid.Nil, false
	}
	id := c.haptics.RumblePattern(c.active, count, length, gap, c.RumbleStrength)
	return id, id != uuid.Nil
}
