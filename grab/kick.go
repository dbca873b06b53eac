package grab

import "github.com/sirupsen/logrus"

// Kick applies a recoil to the grabbable: its rotation is tilted up by force degrees, at most 90, and
// settles back into the hand over the following ticks. A kick requested while flying in is applied once
// the grabbable reaches the hand, unless it has timed out by then. Kicks on a free grabbable are ignored.
func (g *Grabbable) Kick(force float64) {
	if !g.Held() {
		return
	}
	g.kicking = true
	g.kickStart = g.now
	g.kickOffset = g.conf.Kick.offset(force)

	g.log.WithFields(logrus.Fields{"grabbable": g.conf.Name, "force": force}).Debug("kicked")
	g.handler.HandleKick(g, force)
}

// KickAngle returns the angle in degrees between the grabbable and its hand caused by the current kick.
func (g *Grabbable) KickAngle() float64 {
	if !g.kicking {
		return 0
	}
	return angleFromIdentity(g.kickOffset)
}
