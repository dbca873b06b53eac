package simulation

import (
	"slices"
	"time"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl64"
)

// DefaultArea returns a 10x3x10 metre play area with its floor at y=0.
func DefaultArea() cube.BBox {
	return cube.Box(-5, 0, -5, 5, 3, 5)
}

// World steps a set of bodies sharing a play area.
type World struct {
	area   cube.BBox
	bodies []*Body
}

// NewWorld returns an empty world confined to area.
func NewWorld(area cube.BBox) *World {
	return &World{area: area}
}

// Area ...
func (w *World) Area() cube.BBox {
	return w.area
}

// NewBody adds a resting body to the world.
func (w *World) NewBody(pos mgl64.Vec3, rot mgl64.Quat) *Body {
	b := NewBody(pos, rot, w.area)
	w.bodies = append(w.bodies, b)
	return b
}

// Remove removes b from the world. It returns false if b was not part of it.
func (w *World) Remove(b *Body) bool {
	i := slices.Index(w.bodies, b)
	if i < 0 {
		return false
	}
	w.bodies = slices.Delete(w.bodies, i, i+1)
	return true
}

// Bodies returns the bodies of the world in the order they were added.
func (w *World) Bodies() []*Body {
	return w.bodies
}

// Step advances every body by dt.
func (w *World) Step(dt time.Duration) {
	for _, b := range w.bodies {
		b.Step(dt)
	}
}
