package omath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// angleEpsilon is the dot product tolerance under which two rotations are treated as identical.
const angleEpsilon = 1e-6

// NegativeInfinity is the position reported for a hand that is not connected. It must never be used
// as a real coordinate.
var NegativeInfinity = mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}

// Right is the lateral axis used for kick offsets.
var Right = mgl64.Vec3{1, 0, 0}

// IsNegativeInfinity returns true if any component of v is negative infinity.
func IsNegativeInfinity(v mgl64.Vec3) bool {
	return math.IsInf(v[0], -1) || math.IsInf(v[1], -1) || math.IsInf(v[2], -1)
}

// Clamp01 clamps v to the range [0, 1].
func Clamp01(v float64) float64 {
	return mgl64.Clamp(v, 0, 1)
}

// Distance returns the euclidean distance between a and b.
func Distance(a, b mgl64.Vec3) float64 {
	return a.Sub(b).Len()
}

// Lerp linearly interpolates between a and b. t is clamped to [0, 1].
func Lerp(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	t = Clamp01(t)
	return a.Add(b.Sub(a).Mul(t))
}

// QuatLerp interpolates between a and b along the shortest path and normalises the result. t is
// clamped to [0, 1].
func QuatLerp(a, b mgl64.Quat, t float64) mgl64.Quat {
	t = Clamp01(t)
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return mgl64.QuatNlerp(a, b, t)
}

// QuatAngle returns the angle in degrees between two rotations.
func QuatAngle(a, b mgl64.Quat) float64 {
	dot := math.Min(math.Abs(a.Normalize().Dot(b.Normalize())), 1)
	if dot > 1-angleEpsilon {
		return 0
	}
	return mgl64.RadToDeg(math.Acos(dot) * 2)
}

// AngleAxis returns a rotation of deg degrees around axis.
func AngleAxis(deg float64, axis mgl64.Vec3) mgl64.Quat {
	return mgl64.QuatRotate(mgl64.DegToRad(deg), axis.Normalize())
}

// RotateTowards rotates from towards to by at most maxDegrees degrees. to is returned once the
// remaining angle is covered.
func RotateTowards(from, to mgl64.Quat, maxDegrees float64) mgl64.Quat {
	angle := QuatAngle(from, to)
	if angle == 0 {
		return to
	}
	t := math.Min(1, maxDegrees/angle)
	if t == 1 {
		return to
	}
	return mgl64.QuatSlerp(from, to, t)
}

// PoseEqual returns true if the two poses are equal within a small threshold. Rotations are compared by
// orientation so q and -q are treated as equal.
func PoseEqual(posA mgl64.Vec3, rotA mgl64.Quat, posB mgl64.Vec3, rotB mgl64.Quat) bool {
	return posA.ApproxEqualThreshold(posB, 1e-9) && rotA.OrientationEqualThreshold(rotB, 1e-9)
}
