package omath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// MeanVec returns the component-wise mean of the vectors passed. A zero vector is returned for no input.
func MeanVec(vecs []mgl64.Vec3) mgl64.Vec3 {
	if len(vecs) == 0 {
		return mgl64.Vec3{}
	}
	var sum mgl64.Vec3
	for _, v := range vecs {
		sum = sum.Add(v)
	}
	return sum.Mul(1 / float64(len(vecs)))
}

// AngularVelocity returns the angular velocity in radians per second that rotates prev into cur over
// dt seconds.
func AngularVelocity(prev, cur mgl64.Quat, dt float64) mgl64.Vec3 {
	if dt <= 0 {
		return mgl64.Vec3{}
	}
	delta := cur.Mul(prev.Inverse()).Normalize()
	if delta.W < 0 {
		delta = delta.Scale(-1)
	}
	sinHalf := delta.V.Len()
	if sinHalf < 1e-12 {
		return mgl64.Vec3{}
	}
	angle := 2 * math.Atan2(sinHalf, delta.W)
	return delta.V.Mul(1 / sinHalf).Mul(angle / dt)
}
