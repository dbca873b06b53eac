// Package null implements an in-memory device backend. It is driven by code rather than hardware and is
// used by tests and the demo binary to script hand movement and button presses.
package null

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/grasp/device"
	"github.com/oomph-ac/grasp/hand"
	"github.com/oomph-ac/grasp/omath"
	"github.com/oomph-ac/grasp/utils"
)

// DefaultHistorySize is the number of pose samples used to estimate controller velocity.
const DefaultHistorySize = 4

var _ device.Backend = (*Backend)(nil)

// Pulse is a haptic pulse recorded by the backend.
type Pulse struct {
	Hand      hand.Hand
	Intensity float64
}

type sample struct {
	pos mgl64.Vec3
	rot mgl64.Quat
	dt  float64
}

type controller struct {
	connected bool
	pos       mgl64.Vec3
	rot       mgl64.Quat

	// pending is the button mask set by the script, latched into down on Update.
	pending  uint64
	down     uint64
	prevDown uint64

	history *utils.Ring[sample]

	velocity, angularVelocity mgl64.Vec3
	overridden                bool
}

// Backend is a scripted device backend. Both controllers start disconnected.
type Backend struct {
	hands   [2]*controller
	visible [2]bool
	pulses  []Pulse
}

// New returns a Backend with both controllers disconnected and visible.
func New() *Backend {
	return NewWithHistory(DefaultHistorySize)
}

// NewWithHistory returns a Backend that estimates velocity from the last size pose samples.
func NewWithHistory(size int) *Backend {
	b := &Backend{visible: [2]bool{true, true}}
	for i := range b.hands {
		b.hands[i] = &controller{rot: mgl64.QuatIdent(), history: utils.NewRing[sample](max(size, 2))}
	}
	return b
}

func (b *Backend) get(h hand.Hand) *controller {
	if !h.Valid() {
		return nil
	}
	return b.hands[h.Index()]
}

// Name ...
func (b *Backend) Name() string {
	return "null"
}

// Connect marks the controller of h as connected at the pose passed.
func (b *Backend) Connect(h hand.Hand, pos mgl64.Vec3, rot mgl64.Quat) {
	if c := b.get(h); c != nil {
		c.connected = true
		c.pos, c.rot = pos, rot
		c.history.Clear()
	}
}

// Disconnect marks the controller of h as disconnected and drops any held buttons.
func (b *Backend) Disconnect(h hand.Hand) {
	if c := b.get(h); c != nil {
		c.connected = false
		c.pending, c.down, c.prevDown = 0, 0, 0
		c.history.Clear()
	}
}

// SetPose moves the controller of h. The change is visible immediately; velocity estimation picks it up on
// the next Update.
func (b *Backend) SetPose(h hand.Hand, pos mgl64.Vec3, rot mgl64.Quat) {
	if c := b.get(h); c != nil {
		c.pos, c.rot = pos, rot
	}
}

// SetPosition moves the controller of h without rotating it.
func (b *Backend) SetPosition(h hand.Hand, pos mgl64.Vec3) {
	if c := b.get(h); c != nil {
		c.pos = pos
	}
}

// SetVelocity overrides the estimated velocities of the controller of h until ClearVelocity is called.
func (b *Backend) SetVelocity(h hand.Hand, v, w mgl64.Vec3) {
	if c := b.get(h); c != nil {
		c.velocity, c.angularVelocity, c.overridden = v, w, true
	}
}

// ClearVelocity returns the controller of h to estimated velocities.
func (b *Backend) ClearVelocity(h hand.Hand) {
	if c := b.get(h); c != nil {
		c.overridden = false
	}
}

// Press holds down a button from the next Update onwards.
func (b *Backend) Press(h hand.Hand, btn hand.Button) {
	if c := b.get(h); c != nil {
		c.pending |= btn.Mask()
	}
}

// Release lets go of a button from the next Update onwards.
func (b *Backend) Release(h hand.Hand, btn hand.Button) {
	if c := b.get(h); c != nil {
		c.pending &^= btn.Mask()
	}
}

// Update latches the scripted button state and records a pose sample.
func (b *Backend) Update(dt time.Duration) {
	for _, c := range b.hands {
		c.prevDown = c.down
		if !c.connected {
			c.down = 0
			continue
		}
		c.down = c.pending
		_ = c.history.Push(sample{pos: c.pos, rot: c.rot, dt: dt.Seconds()})
		if !c.overridden {
			c.velocity, c.angularVelocity = estimate(c.history)
		}
	}
}

// estimate averages the per-sample velocities held in the history.
func estimate(history *utils.Ring[sample]) (v, w mgl64.Vec3) {
	if history.Len() < 2 {
		return mgl64.Vec3{}, mgl64.Vec3{}
	}
	var (
		linear  = make([]mgl64.Vec3, 0, history.Len()-1)
		angular = make([]mgl64.Vec3, 0, history.Len()-1)
		prev    sample
		first   = true
	)
	for s := range history.All() {
		if !first && s.dt > 0 {
			linear = append(linear, s.pos.Sub(prev.pos).Mul(1/s.dt))
			angular = append(angular, omath.AngularVelocity(prev.rot, s.rot, s.dt))
		}
		prev, first = s, false
	}
	return omath.MeanVec(linear), omath.MeanVec(angular)
}

// Connected ...
func (b *Backend) Connected(h hand.Hand) bool {
	c := b.get(h)
	return c != nil && c.connected
}

// Position ...
func (b *Backend) Position(h hand.Hand) mgl64.Vec3 {
	if c := b.get(h); c != nil {
		return c.pos
	}
	return omath.NegativeInfinity
}

// Rotation ...
func (b *Backend) Rotation(h hand.Hand) mgl64.Quat {
	if c := b.get(h); c != nil {
		return c.rot
	}
	return mgl64.QuatIdent()
}

// Velocity ...
func (b *Backend) Velocity(h hand.Hand) mgl64.Vec3 {
	if c := b.get(h); c != nil {
		return c.velocity
	}
	return mgl64.Vec3{}
}

// AngularVelocity ...
func (b *Backend) AngularVelocity(h hand.Hand) mgl64.Vec3 {
	if c := b.get(h); c != nil {
		return c.angularVelocity
	}
	return mgl64.Vec3{}
}

// Down ...
func (b *Backend) Down(h hand.Hand, btn hand.Button) bool {
	c := b.get(h)
	return c != nil && c.down&btn.Mask() != 0
}

// PressedThisTick ...
func (b *Backend) PressedThisTick(h hand.Hand, btn hand.Button) bool {
	c := b.get(h)
	return c != nil && (c.down&^c.prevDown)&btn.Mask() != 0
}

// Pulse records a haptic pulse.
func (b *Backend) Pulse(h hand.Hand, intensity float64) {
	b.pulses = append(b.pulses, Pulse{Hand: h, Intensity: intensity})
}

// Pulses returns the pulses recorded since the last call to DrainPulses.
func (b *Backend) Pulses() []Pulse {
	return b.pulses
}

// DrainPulses returns and clears the recorded pulses.
func (b *Backend) DrainPulses() []Pulse {
	p := b.pulses
	b.pulses = nil
	return p
}

// SetVisible ...
func (b *Backend) SetVisible(h hand.Hand, visible bool) {
	if h.Valid() {
		b.visible[h.Index()] = visible
	}
}

// Visible returns whether the render model of h is currently shown.
func (b *Backend) Visible(h hand.Hand) bool {
	return h.Valid() && b.visible[h.Index()]
}
