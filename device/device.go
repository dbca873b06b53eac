// Package device defines the capabilities the grab core needs from a VR runtime. Backends for specific
// runtimes live in sub-packages and are selected when the rig is composed.
package device

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/grasp/hand"
)

// DeviceQuery reports the tracking state of the hand controllers.
type DeviceQuery interface {
	// Connected returns true if the controller for the hand is present and active.
	Connected(h hand.Hand) bool
	// Position returns the world position of the controller. The result is undefined for a
	// disconnected controller; callers go through input.State, which substitutes a sentinel.
	Position(h hand.Hand) mgl64.Vec3
	// Rotation returns the world rotation of the controller.
	Rotation(h hand.Hand) mgl64.Quat
	// Velocity returns the linear velocity of the controller in units per second.
	Velocity(h hand.Hand) mgl64.Vec3
	// AngularVelocity returns the angular velocity of the controller in radians per second.
	AngularVelocity(h hand.Hand) mgl64.Vec3
}

// ButtonQuery reports button state for the current tick.
type ButtonQuery interface {
	// Down returns true while the button is held.
	Down(h hand.Hand, b hand.Button) bool
	// PressedThisTick returns true only on the tick the button went from released to held.
	PressedThisTick(h hand.Hand, b hand.Button) bool
}

// HapticOutput fires haptic pulses on a controller.
type HapticOutput interface {
	// Pulse fires a single pulse. intensity is in the range [0, 1].
	Pulse(h hand.Hand, intensity float64)
}

// RenderModelVisibility shows and hides the rendered controller model of a hand.
type RenderModelVisibility interface {
	SetVisible(h hand.Hand, visible bool)
}

// Backend is a complete VR runtime binding.
type Backend interface {
	DeviceQuery
	ButtonQuery
	HapticOutput
	RenderModelVisibility

	// Name returns a short name of the runtime, such as "steamvr".
	Name() string
	// Update samples the runtime once at the start of a tick. Edge state reported by
	// PressedThisTick is relative to the previous call.
	Update(dt time.Duration)
}
