package field

import "github.com/open-fieldtrack/controller/pkg/geometry"

// ObjectOnField is the capability interface implemented by everything the
// registry tracks: the robot, opponent robots and game pieces. The registry
// never owns these objects; producers (odometry, simulation, vision) create
// and destroy them and register/unregister them as they enter and leave play.
type ObjectOnField interface {
	// TypeName is the stable classification key used for grouping.
	// Objects with equal type names share one dashboard layer and one
	// record channel. Must be non-empty.
	TypeName() string
	// Pose3D returns the object's full spatial pose, queried at publish
	// time rather than cached.
	Pose3D() geometry.Pose3D
	// On2DField reports whether the object lies on (or is conceptually
	// flattened to) the field plane, making a planar projection meaningful.
	On2DField() bool
}

// ObjectOn2DField is the planar refinement of ObjectOnField. Objects that
// natively report a 2D pose derive their 3D pose by embedding it at zero
// elevation, computed on read so the two can never drift apart.
type ObjectOn2DField interface {
	ObjectOnField
	Pose2D() geometry.Pose2D
}

// object is a func-backed general 3D field object.
type object struct {
	typeName string
	poseFn   func() geometry.Pose3D
}

// NewObject returns a general 3D field object whose pose is supplied by
// poseFn, e.g. a game piece in flight. It is excluded from the 2D overlay.
func NewObject(typeName string, poseFn func() geometry.Pose3D) ObjectOnField {
	return &object{typeName: typeName, poseFn: poseFn}
}

func (o *object) TypeName() string         { return o.typeName }
func (o *object) Pose3D() geometry.Pose3D  { return o.poseFn() }
func (o *object) On2DField() bool          { return false }

// planarObject is a func-backed planar field object.
type planarObject struct {
	typeName string
	poseFn   func() geometry.Pose2D
}

// NewPlanarObject returns a planar field object whose pose is supplied by
// poseFn. Its 3D pose is the planar embedding of the 2D pose.
func NewPlanarObject(typeName string, poseFn func() geometry.Pose2D) ObjectOn2DField {
	return &planarObject{typeName: typeName, poseFn: poseFn}
}

func (o *planarObject) TypeName() string        { return o.typeName }
func (o *planarObject) Pose2D() geometry.Pose2D { return o.poseFn() }
func (o *planarObject) On2DField() bool         { return true }

func (o *planarObject) Pose3D() geometry.Pose3D {
	return geometry.NewPose3DFromPose2D(o.poseFn())
}
