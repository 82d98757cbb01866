package geometry

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
)

// Rotation3D is an orientation in 3D space, stored as a unit quaternion.
// The Euler accessors use the intrinsic Z-Y-X (yaw, pitch, roll) convention,
// matching the field coordinate frame used by the dashboard and replay tools.
type Rotation3D struct {
	q quat.Number
}

// NewZeroRotation returns the identity rotation.
func NewZeroRotation() Rotation3D {
	return Rotation3D{q: quat.Number{Real: 1}}
}

// NewRotation3DFromQuaternion builds a rotation from the given quaternion,
// normalizing it. A zero quaternion yields the identity rotation.
func NewRotation3DFromQuaternion(q quat.Number) Rotation3D {
	n := quat.Abs(q)
	if n == 0 {
		return NewZeroRotation()
	}
	return Rotation3D{q: quat.Scale(1/n, q)}
}

// NewRotation3DFromEuler builds a rotation from roll, pitch and yaw in radians.
func NewRotation3DFromEuler(roll, pitch, yaw float64) Rotation3D {
	cr, sr := math.Cos(roll/2), math.Sin(roll/2)
	cp, sp := math.Cos(pitch/2), math.Sin(pitch/2)
	cy, sy := math.Cos(yaw/2), math.Sin(yaw/2)

	return Rotation3D{q: quat.Number{
		Real: cr*cp*cy + sr*sp*sy,
		Imag: sr*cp*cy - cr*sp*sy,
		Jmag: cr*sp*cy + sr*cp*sy,
		Kmag: cr*cp*sy - sr*sp*cy,
	}}
}

// NewRotation3DFromYaw builds a rotation about the vertical axis only.
func NewRotation3DFromYaw(yaw float64) Rotation3D {
	return NewRotation3DFromEuler(0, 0, yaw)
}

// Quaternion returns the underlying unit quaternion.
func (r Rotation3D) Quaternion() quat.Number {
	return r.q
}

// Roll returns the rotation about the X axis in radians.
func (r Rotation3D) Roll() float64 {
	q := r.q
	return math.Atan2(2*(q.Real*q.Imag+q.Jmag*q.Kmag), 1-2*(q.Imag*q.Imag+q.Jmag*q.Jmag))
}

// Pitch returns the rotation about the Y axis in radians.
func (r Rotation3D) Pitch() float64 {
	q := r.q
	s := 2 * (q.Real*q.Jmag - q.Kmag*q.Imag)
	// Clamp to handle numerical drift at the gimbal singularity.
	if s > 1 {
		s = 1
	} else if s < -1 {
		s = -1
	}
	return math.Asin(s)
}

// Yaw returns the rotation about the Z axis in radians.
func (r Rotation3D) Yaw() float64 {
	q := r.q
	return math.Atan2(2*(q.Real*q.Kmag+q.Imag*q.Jmag), 1-2*(q.Jmag*q.Jmag+q.Kmag*q.Kmag))
}

// Mul composes two rotations: the result applies o first, then r.
func (r Rotation3D) Mul(o Rotation3D) Rotation3D {
	return Rotation3D{q: quat.Mul(r.q, o.q)}
}

// ApproxEqual reports whether two rotations are the same orientation within
// tolerance. q and -q represent the same rotation and compare equal.
func (r Rotation3D) ApproxEqual(o Rotation3D) bool {
	return quatAlmostEqual(r.q, o.q, defaultEpsilon) ||
		quatAlmostEqual(r.q, quat.Scale(-1, o.q), defaultEpsilon)
}

func quatAlmostEqual(a, b quat.Number, tol float64) bool {
	return math.Abs(a.Real-b.Real) < tol &&
		math.Abs(a.Imag-b.Imag) < tol &&
		math.Abs(a.Jmag-b.Jmag) < tol &&
		math.Abs(a.Kmag-b.Kmag) < tol
}
