package main

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/grasp/device/null"
	"github.com/oomph-ac/grasp/hand"
	"github.com/oomph-ac/grasp/omath"
)

// scriptLength is the length of a single loop of the hand script.
const scriptLength = 12 * time.Second

var (
	rest     = mgl64.Vec3{0, 1.2, 0}
	revolver = mgl64.Vec3{0.3, 1, 0.4}
	crate    = mgl64.Vec3{-0.5, 0.1, 0.6}
)

// script moves the hands of a null backend along a fixed timeline.
type script struct {
	backend *null.Backend
	started bool
}

// step applies the script for the rig time passed.
func (s *script) step(now time.Duration) {
	b := s.backend
	if !s.started {
		b.Connect(hand.Left, rest.Add(mgl64.Vec3{-0.3, 0, 0}), mgl64.QuatIdent())
		b.Connect(hand.Right, rest.Add(mgl64.Vec3{0.3, 0, 0}), mgl64.QuatIdent())
		s.started = true
	}
	t := now % scriptLength

	switch {
	case t < time.Second:
		b.SetPosition(hand.Right, omath.Lerp(rest.Add(mgl64.Vec3{0.3, 0, 0}), revolver, t.Seconds()))
	case t < 1500*time.Millisecond:
		b.Press(hand.Right, hand.ButtonGrip)
	case t < 4*time.Second:
		// Pull the trigger twice a second.
		if t%(500*time.Millisecond) < 100*time.Millisecond {
			b.Press(hand.Right, hand.ButtonTrigger)
		} else {
			b.Release(hand.Right, hand.ButtonTrigger)
		}
	case t < 5*time.Second:
		b.Release(hand.Right, hand.ButtonTrigger)
		b.SetPosition(hand.Right, omath.Lerp(revolver, rest.Add(mgl64.Vec3{0.6, 0.4, 0}), (t - 4*time.Second).Seconds()))
	case t < 5100*time.Millisecond:
		// Throw the revolver up and to the right with a spin.
		b.SetVelocity(hand.Right, mgl64.Vec3{1.5, 2, 0}, mgl64.Vec3{0, 0, 4})
		b.Release(hand.Right, hand.ButtonGrip)
	case t < 6*time.Second:
		b.ClearVelocity(hand.Right)
		b.SetPosition(hand.Left, omath.Lerp(rest.Add(mgl64.Vec3{-0.3, 0, 0}), crate, (t - 5100*time.Millisecond).Seconds()/0.9))
	case t < 6200*time.Millisecond:
		b.Press(hand.Left, hand.ButtonGrip)
	case t < 8*time.Second:
		b.Release(hand.Left, hand.ButtonGrip)
		b.SetPosition(hand.Left, omath.Lerp(crate, rest, (t - 6200*time.Millisecond).Seconds()/1.8))
	case t < 8200*time.Millisecond:
		b.Press(hand.Left, hand.ButtonA)
	case t < 9*time.Second:
		b.Release(hand.Left, hand.ButtonA)
	default:
		b.SetPosition(hand.Left, rest.Add(mgl64.Vec3{-0.3, 0, 0}))
		b.SetPosition(hand.Right, rest.Add(mgl64.Vec3{0.3, 0, 0}))
	}
}
