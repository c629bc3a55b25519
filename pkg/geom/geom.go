// Package geom provides the small set of spatial value types the positional
// spawn path needs: 3D vectors, unit quaternions, and the transform pairing
// them. It is not a general math library.
package geom

import "math"

// Vec3 is a 3D position or direction.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v scaled by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// LengthSq returns the squared magnitude of v.
func (v Vec3) LengthSq() float64 {
	return v.Dot(v)
}

// Length returns the magnitude of v.
func (v Vec3) Length() float64 {
	return math.Sqrt(v.LengthSq())
}

// Normalize returns v scaled to unit length. The zero vector normalizes to
// itself.
func (v Vec3) Normalize() Vec3 {
	mag := v.Length()
	if mag == 0 {
		return Vec3{}
	}
	return v.Scale(1 / mag)
}

// Quat is a rotation quaternion.
type Quat struct {
	X, Y, Z, W float64
}

// IdentityQuat returns the no-rotation quaternion.
func IdentityQuat() Quat {
	return Quat{W: 1}
}

// AxisAngle builds a quaternion rotating angle radians around axis.
// The axis is normalized internally.
func AxisAngle(axis Vec3, angle float64) Quat {
	axis = axis.Normalize()
	half := angle / 2
	s := math.Sin(half)
	return Quat{
		X: axis.X * s,
		Y: axis.Y * s,
		Z: axis.Z * s,
		W: math.Cos(half),
	}
}

// Mul composes two rotations; the receiver is applied after o.
func (q Quat) Mul(o Quat) Quat {
	return Quat{
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		Z: q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
	}
}

// Transform is a placement: where an instance goes and which way it faces.
type Transform struct {
	Position Vec3
	Rotation Quat
}

// At returns a transform at pos with no rotation.
func At(pos Vec3) Transform {
	return Transform{Position: pos, Rotation: IdentityQuat()}
}
