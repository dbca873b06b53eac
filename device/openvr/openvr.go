// Package openvr adapts an OVR-style input runtime (Oculus Touch controllers reported through a
// connected-controller mask and raw button bits) to a device.Backend.
package openvr

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/grasp/assert"
	"github.com/oomph-ac/grasp/device"
	"github.com/oomph-ac/grasp/hand"
	"github.com/sirupsen/logrus"
)

// Controller is a bit mask of controllers.
type Controller uint32

const (
	LTouch Controller = 0x01
	RTouch Controller = 0x02
)

// RawButton is a bit mask of physical controller buttons.
type RawButton uint32

const (
	RawNone          RawButton = 0
	RawA             RawButton = 0x00000001
	RawB             RawButton = 0x00000002
	RawRThumbstick   RawButton = 0x00000004
	RawX             RawButton = 0x00000100
	RawY             RawButton = 0x00000200
	RawLThumbstick   RawButton = 0x00000400
	RawDpadUp        RawButton = 0x00010000
	RawDpadDown      RawButton = 0x00020000
	RawDpadLeft      RawButton = 0x00040000
	RawDpadRight     RawButton = 0x00080000
	RawStart         RawButton = 0x00100000
	RawRIndexTrigger RawButton = 0x04000000
	RawRHandTrigger  RawButton = 0x08000000
	RawLIndexTrigger RawButton = 0x10000000
	RawLHandTrigger  RawButton = 0x20000000
)

// Runtime is the subset of the OVR input API used by the backend. Positions and rotations are in tracking
// space.
type Runtime interface {
	ConnectedControllers() Controller
	LocalControllerPosition(c Controller) mgl64.Vec3
	LocalControllerRotation(c Controller) mgl64.Quat
	LocalControllerVelocity(c Controller) mgl64.Vec3
	LocalControllerAngularVelocity(c Controller) mgl64.Vec3
	// Get returns true while the button is held.
	Get(b RawButton) bool
	// GetDown returns true on the frame the button was pressed.
	GetDown(b RawButton) bool
	SetControllerVibration(frequency, amplitude float32, c Controller)
}

var _ device.Backend = (*Backend)(nil)

// Backend is a device.Backend on top of an OVR runtime.
type Backend struct {
	log     *logrus.Logger
	runtime Runtime

	originPos mgl64.Vec3
	originRot mgl64.Quat

	// visibility is called to show or hide controller models. It may be nil if the host renders no models.
	visibility func(h hand.Hand, visible bool)

	vibrating [2]bool
	pulsed    [2]bool
}

// New returns an OVR backend with the tracking origin at the world origin.
func New(log *logrus.Logger, runtime Runtime, visibility func(h hand.Hand, visible bool)) *Backend {
	assert.IsTrue(runtime != nil, "openvr backend needs an input runtime")
	return &Backend{
		log:        log,
		runtime:    runtime,
		originRot:  mgl64.QuatIdent(),
		visibility: visibility,
	}
}

// SetTrackingOrigin sets the world pose of the tracking space.
func (b *Backend) SetTrackingOrigin(pos mgl64.Vec3, rot mgl64.Quat) {
	b.originPos, b.originRot = pos, rot
}

// Name ...
func (b *Backend) Name() string {
	return "openvr"
}

func controller(h hand.Hand) Controller {
	switch h {
	case hand.Left:
		return LTouch
	case hand.Right:
		return RTouch
	}
	return 0
}

// raw maps an abstract button on a hand to the matching physical button of a Touch controller.
func raw(h hand.Hand, btn hand.Button) RawButton {
	left := h == hand.Left
	pick := func(l, r RawButton) RawButton {
		if left {
			return l
		}
		return r
	}
	switch btn {
	case hand.ButtonGrip:
		return pick(RawLHandTrigger, RawRHandTrigger)
	case hand.ButtonTrigger:
		return pick(RawLIndexTrigger, RawRIndexTrigger)
	case hand.ButtonA:
		return pick(RawX, RawA)
	case hand.ButtonMenu:
		return pick(RawY, RawB)
	case hand.ButtonTouchpad:
		return pick(RawLThumbstick, RawRThumbstick)
	case hand.ButtonSystem:
		return RawStart
	case hand.ButtonDPadUp:
		return RawDpadUp
	case hand.ButtonDPadDown:
		return RawDpadDown
	case hand.ButtonDPadLeft:
		return RawDpadLeft
	case hand.ButtonDPadRight:
		return RawDpadRight
	}
	return RawNone
}

// Update stops vibration on controllers that were not pulsed since the previous update. OVR keeps a
// controller vibrating until told otherwise, while pulses are meant to last a single tick.
func (b *Backend) Update(time.Duration) {
	for _, h := range hand.All {
		i := h.Index()
		if b.vibrating[i] && !b.pulsed[i] {
			b.runtime.SetControllerVibration(0, 0, controller(h))
			b.vibrating[i] = false
		}
		b.pulsed[i] = false
	}
}

// Connected ...
func (b *Backend) Connected(h hand.Hand) bool {
	c := controller(h)
	return c != 0 && b.runtime.ConnectedControllers()&c != 0
}

// Position ...
func (b *Backend) Position(h hand.Hand) mgl64.Vec3 {
	local := b.runtime.LocalControllerPosition(controller(h))
	return b.originPos.Add(b.originRot.Rotate(local))
}

// Rotation ...
func (b *Backend) Rotation(h hand.Hand) mgl64.Quat {
	return b.originRot.Mul(b.runtime.LocalControllerRotation(controller(h)))
}

// Velocity ...
func (b *Backend) Velocity(h hand.Hand) mgl64.Vec3 {
	return b.originRot.Rotate(b.runtime.LocalControllerVelocity(controller(h)))
}

// AngularVelocity ...
func (b *Backend) AngularVelocity(h hand.Hand) mgl64.Vec3 {
	return b.originRot.Rotate(b.runtime.LocalControllerAngularVelocity(controller(h)))
}

// Down ...
func (b *Backend) Down(h hand.Hand, btn hand.Button) bool {
	r := raw(h, btn)
	return r != RawNone && b.runtime.Get(r)
}

// PressedThisTick ...
func (b *Backend) PressedThisTick(h hand.Hand, btn hand.Button) bool {
	r := raw(h, btn)
	return r != RawNone && b.runtime.GetDown(r)
}

// Pulse vibrates the controller of h at the given amplitude until the next update.
func (b *Backend) Pulse(h hand.Hand, intensity float64) {
	c := controller(h)
	if c == 0 {
		return
	}
	amplitude := float32(mgl64.Clamp(intensity, 0, 1))
	b.runtime.SetControllerVibration(1, amplitude, c)
	b.vibrating[h.Index()] = amplitude > 0
	b.pulsed[h.Index()] = true
}

// SetVisible ...
func (b *Backend) SetVisible(h hand.Hand, visible bool) {
	if b.visibility == nil {
		b.log.Debugf("openvr: no model visibility handler, ignoring %v hand visible=%v", h, visible)
		return
	}
	b.visibility(h, visible)
}
