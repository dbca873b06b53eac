package grab

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/grasp/hand"
)

// Transform reads and writes the world pose of a grabbable.
type Transform interface {
	Pose() (mgl64.Vec3, mgl64.Quat)
	SetPose(pos mgl64.Vec3, rot mgl64.Quat)
}

// Body is the physics body of a grabbable. A kinematic body is moved only through its Transform.
type Body interface {
	SetKinematic(kinematic bool)
	SetVelocity(v mgl64.Vec3)
	SetAngularVelocity(w mgl64.Vec3)
}

// Outline renders the proximity highlight of a grabbable. intensity is in [0, 1].
type Outline interface {
	SetOutline(intensity float64)
}

// Handler is notified of the state changes of a grabbable. Methods are called from within Update.
type Handler interface {
	// HandleGrab is called after a hand picked the grabbable up.
	HandleGrab(g *Grabbable, h hand.Hand)
	// HandleRelease is called after the grabbable was let go, with the velocities it was thrown with.
	HandleRelease(g *Grabbable, h hand.Hand, v, w mgl64.Vec3)
	// HandleKick is called when a kick is applied.
	HandleKick(g *Grabbable, force float64)
}

// NopHandler ...
type NopHandler struct{}

// Compile time check to make sure NopHandler implements Handler.
var _ Handler = NopHandler{}

func (NopHandler) HandleGrab(*Grabbable, hand.Hand)                            {}
func (NopHandler) HandleRelease(*Grabbable, hand.Hand, mgl64.Vec3, mgl64.Vec3) {}
func (NopHandler) HandleKick(*Grabbable, float64)                              {}
