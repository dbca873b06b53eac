// Package steamvr adapts a SteamVR scene (a controller manager with two tracked objects) and the OpenVR
// system interface to a device.Backend. The host supplies both through the interfaces below.
package steamvr

import (
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/grasp/assert"
	"github.com/oomph-ac/grasp/device"
	"github.com/oomph-ac/grasp/hand"
	"github.com/sirupsen/logrus"
)

// MaxPulseMicros is the longest haptic pulse OpenVR accepts, in microseconds.
const MaxPulseMicros = 3999

// TrackedObject is a tracked controller object in the scene.
type TrackedObject interface {
	// ActiveInHierarchy returns true if the object and all of its parents are active.
	ActiveInHierarchy() bool
	// Index returns the OpenVR device index of the tracked controller.
	Index() uint32
	// Pose returns the world pose of the object.
	Pose() (mgl64.Vec3, mgl64.Quat)
	// RenderModel returns the render model attached to the object, or nil.
	RenderModel() RenderModel
}

// RenderModel is the rendered controller model of a tracked object.
type RenderModel interface {
	SetActive(active bool)
}

// ControllerManager holds the left and right tracked objects. Either may be nil.
type ControllerManager interface {
	Left() TrackedObject
	Right() TrackedObject
}

// System is the subset of the OpenVR system interface used for controller state.
type System interface {
	// ControllerState returns the pressed button mask of a device.
	ControllerState(index uint32) (pressed uint64, ok bool)
	// DeviceVelocity returns the linear and angular velocity of a device.
	DeviceVelocity(index uint32) (v, w mgl64.Vec3)
	// TriggerHapticPulse fires a pulse of the given length on an axis of a device.
	TriggerHapticPulse(index uint32, axis uint32, micros uint16)
}

var _ device.Backend = (*Backend)(nil)

// deviceState is the button state sampled for the tracked object of a hand.
type deviceState struct {
	index     uint32
	prev, cur uint64
}

// Backend is a device.Backend on top of SteamVR.
type Backend struct {
	log     *logrus.Logger
	manager ControllerManager
	system  System

	states [2]deviceState
}

// New returns a SteamVR backend. The rig cannot function without a controller manager, so a nil manager
// or system panics.
func New(log *logrus.Logger, manager ControllerManager, system System) *Backend {
	assert.IsTrue(manager != nil, "steamvr backend needs a controller manager in the scene to function correctly")
	assert.IsTrue(system != nil, "steamvr backend needs an OpenVR system")
	return &Backend{
		log:     log,
		manager: manager,
		system:  system,
	}
}

// Name ...
func (b *Backend) Name() string {
	return "steamvr"
}

func (b *Backend) object(h hand.Hand) TrackedObject {
	switch h {
	case hand.Left:
		return b.manager.Left()
	case hand.Right:
		return b.manager.Right()
	}
	return nil
}

// active returns the tracked object of h if it is connected.
func (b *Backend) active(h hand.Hand) (TrackedObject, bool) {
	obj := b.object(h)
	if obj == nil || !obj.ActiveInHierarchy() {
		return nil, false
	}
	return obj, true
}

// Update samples the button state of both controllers. Edges are computed against the previous sample. A
// disconnected controller, or one that now tracks another device, starts over with no buttons held.
func (b *Backend) Update(time.Duration) {
	for _, h := range hand.All {
		st := &b.states[h.Index()]
		obj, ok := b.active(h)
		if !ok {
			*st = deviceState{}
			continue
		}
		idx := obj.Index()
		if st.index != idx {
			*st = deviceState{index: idx}
		}
		st.prev = st.cur
		pressed, valid := b.system.ControllerState(idx)
		if !valid {
			b.log.Debugf("steamvr: no controller state for device %d (%v hand)", idx, h)
			pressed = 0
		}
		st.cur = pressed
	}
}

// Connected ...
func (b *Backend) Connected(h hand.Hand) bool {
	_, ok := b.active(h)
	return ok
}

// Position ...
func (b *Backend) Position(h hand.Hand) mgl64.Vec3 {
	if obj, ok := b.active(h); ok {
		pos, _ := obj.Pose()
		return pos
	}
	return mgl64.Vec3{}
}

// Rotation ...
func (b *Backend) Rotation(h hand.Hand) mgl64.Quat {
	if obj, ok := b.active(h); ok {
		_, rot := obj.Pose()
		return rot
	}
	return mgl64.QuatIdent()
}

// Velocity ...
func (b *Backend) Velocity(h hand.Hand) mgl64.Vec3 {
	if obj, ok := b.active(h); ok {
		v, _ := b.system.DeviceVelocity(obj.Index())
		return v
	}
	return mgl64.Vec3{}
}

// AngularVelocity ...
func (b *Backend) AngularVelocity(h hand.Hand) mgl64.Vec3 {
	if obj, ok := b.active(h); ok {
		_, w := b.system.DeviceVelocity(obj.Index())
		return w
	}
	return mgl64.Vec3{}
}

func (b *Backend) state(h hand.Hand) *deviceState {
	obj, ok := b.active(h)
	if !ok {
		return nil
	}
	st := &b.states[h.Index()]
	if st.index != obj.Index() {
		return nil
	}
	return st
}

// Down ...
func (b *Backend) Down(h hand.Hand, btn hand.Button) bool {
	st := b.state(h)
	return st != nil && st.cur&btn.Mask() != 0
}

// PressedThisTick ...
func (b *Backend) PressedThisTick(h hand.Hand, btn hand.Button) bool {
	st := b.state(h)
	return st != nil && (st.cur&^st.prev)&btn.Mask() != 0
}

// Pulse fires a haptic pulse whose length scales with intensity.
func (b *Backend) Pulse(h hand.Hand, intensity float64) {
	obj, ok := b.active(h)
	if !ok {
		return
	}
	b.system.TriggerHapticPulse(obj.Index(), 0, PulseMicros(intensity))
}

// PulseMicros converts an intensity in [0, 1] to a pulse length in microseconds.
func PulseMicros(intensity float64) uint16 {
	strength := math32.Max(0, math32.Min(1, float32(intensity)))
	return uint16(strength * MaxPulseMicros)
}

// SetVisible shows or hides the render model of the tracked object of h.
func (b *Backend) SetVisible(h hand.Hand, visible bool) {
	obj := b.object(h)
	if obj == nil {
		return
	}
	if model := obj.RenderModel(); model != nil {
		model.SetActive(visible)
	}
}
