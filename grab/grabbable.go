// Package grab implements objects that can be picked up by a hand. Each tick a free grabbable competes with
// every other grabbable for the nearest hand through the shared arbiter, and a held grabbable follows its
// hand: it flies in from where it was picked up, then locks onto the hand, optionally perturbed by a kick.
package grab

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/grasp/arbiter"
	"github.com/oomph-ac/grasp/assert"
	"github.com/oomph-ac/grasp/hand"
	"github.com/oomph-ac/grasp/input"
	"github.com/oomph-ac/grasp/omath"
	"github.com/sirupsen/logrus"
	"github.com/zeebo/xxh3"
)

// Frame is passed to every grabbable on each tick.
type Frame struct {
	// Now is the time elapsed since the rig started.
	Now time.Duration
	// Delta is the length of the tick.
	Delta time.Duration
	// Arbiter is the hand arbiter shared by all grabbables of the rig.
	Arbiter *arbiter.Arbiter
}

// Grabbable is an object that can be held by a single hand at a time.
type Grabbable struct {
	log  *logrus.Logger
	conf Config
	id   uint64

	ctrl      *input.Controller
	transform Transform
	body      Body
	outline   Outline
	handler   Handler

	now       time.Duration
	inHand    bool
	highlight float64

	grabStart    time.Duration
	grabStartPos mgl64.Vec3
	grabStartRot mgl64.Quat

	kicking    bool
	kickStart  time.Duration
	kickOffset mgl64.Quat
}

// Compile time check to make sure Grabbable implements arbiter.Candidate.
var _ arbiter.Candidate = (*Grabbable)(nil)

// ID returns the identifier of a grabbable named name.
func ID(name string) uint64 {
	return xxh3.HashString(name)
}

// New returns a free grabbable. The controller, transform and body are required. outline may be nil if the
// grabbable has no highlight. The controller is bound to the grabbable and cannot serve another one.
func New(log *logrus.Logger, conf Config, ctrl *input.Controller, transform Transform, body Body, outline Outline) (*Grabbable, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	assert.IsTrue(ctrl != nil, "grabbable %q needs an input controller", conf.Name)
	assert.IsTrue(transform != nil, "grabbable %q needs a transform", conf.Name)
	assert.IsTrue(body != nil, "grabbable %q needs a physics body", conf.Name)

	g := &Grabbable{
		log:        log,
		conf:       conf,
		id:         ID(conf.Name),
		ctrl:       ctrl,
		transform:  transform,
		body:       body,
		outline:    outline,
		handler:    NopHandler{},
		kickOffset: mgl64.QuatIdent(),
	}
	if err := ctrl.Bind(g); err != nil {
		return nil, err
	}
	return g, nil
}

// SetHandler sets the handler notified of grabs, releases and kicks. A nil handler resets it.
func (g *Grabbable) SetHandler(h Handler) {
	if h == nil {
		h = NopHandler{}
	}
	g.handler = h
}

// ID ...
func (g *Grabbable) ID() uint64 {
	return g.id
}

// Name ...
func (g *Grabbable) Name() string {
	return g.conf.Name
}

// Config returns the configuration of the grabbable.
func (g *Grabbable) Config() Config {
	return g.conf
}

// Position returns the current world position of the grabbable.
func (g *Grabbable) Position() mgl64.Vec3 {
	pos, _ := g.transform.Pose()
	return pos
}

// GrabDistance ...
func (g *Grabbable) GrabDistance() float64 {
	return g.conf.GrabDistance
}

// Controller returns the input controller of the grabbable.
func (g *Grabbable) Controller() *input.Controller {
	return g.ctrl
}

// Held returns true while a hand holds the grabbable, including while it flies in.
func (g *Grabbable) Held() bool {
	return g.ctrl.HasActiveController()
}

// InHand returns true once the grabbable is locked onto its hand: it is held, done flying and not kicking.
func (g *Grabbable) InHand() bool {
	return g.inHand
}

// Kicking returns true while a kick offset is being applied.
func (g *Grabbable) Kicking() bool {
	return g.kicking
}

// Highlight returns the current highlight intensity in [0, 1].
func (g *Grabbable) Highlight() float64 {
	return g.highlight
}

// Update runs a single tick of the grabbable.
func (g *Grabbable) Update(f Frame) {
	g.now = f.Now
	if !g.ctrl.HasActiveController() {
		g.updateFree(f)
		return
	}
	g.updateHeld(f)
}

// updateFree looks for a hand to be picked up by. The nearest table is updated for both hands before any
// claim is attempted, and the nearer hand is tried first.
func (g *Grabbable) updateFree(f Frame) {
	g.inHand = false

	state := g.ctrl.State()
	pos := g.Position()
	left, right := state.Distance(hand.Left, pos), state.Distance(hand.Right, pos)
	nearest := min(left, right)
	if nearest > g.conf.GrabDistance {
		g.setHighlight(0)
		return
	}
	g.setHighlight((g.conf.GrabDistance - nearest) / (g.conf.GrabDistance / 4))

	distances := [2]float64{left, right}
	for _, h := range hand.All {
		if d := distances[h.Index()]; d <= g.conf.GrabDistance {
			f.Arbiter.Offer(h, g, d)
		}
	}

	order := [2]hand.Hand{hand.Right, hand.Left}
	if left < right {
		order = [2]hand.Hand{hand.Left, hand.Right}
	}
	for _, h := range order {
		if g.tryClaim(f, h) {
			return
		}
	}
}

// tryClaim attempts to bind h to the grabbable. It only does so if the grabbable is the nearest free
// grabbable to h and the grip policy of h is satisfied.
func (g *Grabbable) tryClaim(f Frame, h hand.Hand) bool {
	if g.ctrl.HasActiveController() || !f.Arbiter.IsNearest(h, g) || !g.ctrl.GripEngaged(h) {
		return false
	}
	if !g.ctrl.Claim(f.Arbiter, g, h) {
		return false
	}
	g.grabStart = f.Now
	g.grabStartPos, g.grabStartRot = g.transform.Pose()
	g.kicking, g.kickOffset = false, mgl64.QuatIdent()
	g.setHighlight(0)
	g.body.SetKinematic(true)
	g.ctrl.HideActiveModel()

	g.log.WithFields(logrus.Fields{"grabbable": g.conf.Name, "hand": h}).Debug("grabbed")
	g.handler.HandleGrab(g, h)
	return true
}

// updateHeld moves the grabbable with its hand, or lets go of it if the hand asked for it.
func (g *Grabbable) updateHeld(f Frame) {
	h, _ := g.ctrl.ActiveController()
	if !g.ctrl.State().Connected(h) || g.ctrl.ShouldRelease() {
		g.release(f.Arbiter)
		return
	}
	handPos, handRot := g.ctrl.ActivePosition(), g.ctrl.ActiveRotation()

	if g.conf.ShouldFly {
		if t := float64(f.Now-g.grabStart) / float64(g.conf.FlyTime); t < 1 {
			g.inHand = false
			g.transform.SetPose(omath.Lerp(g.grabStartPos, handPos, t), omath.QuatLerp(g.grabStartRot, handRot, t))
			return
		}
	}
	if g.kicking {
		g.kickOffset = g.conf.Kick.decay(g.kickOffset, f.Delta)
		if !g.conf.Kick.settled(g.kickOffset, f.Now-g.kickStart) {
			g.inHand = false
			g.transform.SetPose(handPos, handRot.Mul(g.kickOffset))
			return
		}
		g.kicking, g.kickOffset = false, mgl64.QuatIdent()
	}
	g.inHand = true
	g.transform.SetPose(handPos, handRot)
}

// Drop lets go of the grabbable if it is held, as if its hand had released it.
func (g *Grabbable) Drop(arb *arbiter.Arbiter) {
	if g.Held() {
		g.release(arb)
	}
}

// release hands the grabbable back to physics, keeping the momentum of the hand that let go.
func (g *Grabbable) release(arb *arbiter.Arbiter) {
	h, _ := g.ctrl.ActiveController()
	v, w := g.ctrl.ActiveVelocity(), g.ctrl.ActiveAngularVelocity()

	g.body.SetKinematic(false)
	g.body.SetVelocity(v)
	g.body.SetAngularVelocity(w)
	g.ctrl.ShowActiveModel()
	g.ctrl.Release(arb)
	g.inHand, g.kicking, g.kickOffset = false, false, mgl64.QuatIdent()

	g.log.WithFields(logrus.Fields{"grabbable": g.conf.Name, "hand": h}).Debug("released")
	g.handler.HandleRelease(g, h, v, w)
}

func (g *Grabbable) setHighlight(v float64) {
	g.highlight = omath.Clamp01(v)
	if g.outline != nil {
		g.outline.SetOutline(g.highlight)
	}
}
