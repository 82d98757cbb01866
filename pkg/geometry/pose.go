package geometry

import "math"

// defaultEpsilon is the tolerance used by the ApproxEqual helpers.
const defaultEpsilon = 1e-9

// Translation3D is a displacement in field coordinates, in meters.
type Translation3D struct {
	X float64
	Y float64
	Z float64
}

// Pose2D is a planar pose: position on the field plane plus heading.
// Theta is in radians, counter-clockwise positive.
type Pose2D struct {
	X     float64
	Y     float64
	Theta float64
}

// ApproxEqual reports whether two planar poses are equal within tolerance.
// Headings are compared as angles, so -π and π are the same heading.
func (p Pose2D) ApproxEqual(o Pose2D) bool {
	return math.Abs(p.X-o.X) < defaultEpsilon &&
		math.Abs(p.Y-o.Y) < defaultEpsilon &&
		math.Abs(NormalizeAngle(p.Theta-o.Theta)) < defaultEpsilon
}

// Pose3D is a full spatial pose: translation plus 3D orientation.
type Pose3D struct {
	Translation Translation3D
	Rotation    Rotation3D
}

// NewPose3DFromPose2D embeds a planar pose in 3D space: zero elevation,
// yaw-only rotation. This is the inverse of ToPose2D for planar objects.
func NewPose3DFromPose2D(p Pose2D) Pose3D {
	return Pose3D{
		Translation: Translation3D{X: p.X, Y: p.Y},
		Rotation:    NewRotation3DFromYaw(p.Theta),
	}
}

// ToPose2D projects the pose onto the field plane, dropping elevation and
// out-of-plane rotation.
func (p Pose3D) ToPose2D() Pose2D {
	return Pose2D{
		X:     p.Translation.X,
		Y:     p.Translation.Y,
		Theta: p.Rotation.Yaw(),
	}
}

// ApproxEqual reports whether two spatial poses are equal within tolerance.
func (p Pose3D) ApproxEqual(o Pose3D) bool {
	return math.Abs(p.Translation.X-o.Translation.X) < defaultEpsilon &&
		math.Abs(p.Translation.Y-o.Translation.Y) < defaultEpsilon &&
		math.Abs(p.Translation.Z-o.Translation.Z) < defaultEpsilon &&
		p.Rotation.ApproxEqual(o.Rotation)
}

// NormalizeAngle wraps an angle in radians to (-π, π].
func NormalizeAngle(theta float64) float64 {
	theta = math.Mod(theta, 2*math.Pi)
	if theta > math.Pi {
		theta -= 2 * math.Pi
	} else if theta <= -math.Pi {
		theta += 2 * math.Pi
	}
	return theta
}
