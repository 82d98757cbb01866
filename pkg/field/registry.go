package field

import (
	"sort"
	"sync"

	"github.com/open-fieldtrack/controller/pkg/geometry"
	customlog "github.com/open-fieldtrack/controller/pkg/log"
)

// Record channel naming. Downstream replay tooling depends on these paths,
// so they are fixed here rather than configurable.
const (
	// RecordPathPrefix prefixes every per-type pose record channel.
	RecordPathPrefix = "/Field/"
	// RobotChannel is the reserved dashboard channel for the primary robot.
	// It is never a valid object type name inside the registry.
	RobotChannel = "Robot"
	// RobotRecordPath is the reserved record channel for the primary robot.
	RobotRecordPath = RecordPathPrefix + RobotChannel
)

// Dashboard is the overlay sink the registry projects planar poses into.
// Re-setting a channel replaces its previous contents; an empty pose list
// clears the channel's layer.
type Dashboard interface {
	SetPoses(channel string, poses []geometry.Pose2D)
	SetRobotPose(pose geometry.Pose2D)
}

// Recorder is the structured pose-record sink. Per-type channels carry the
// full 3D poses of every member; the robot channel carries a planar pose.
type Recorder interface {
	RecordPoses(path string, poses []geometry.Pose3D)
	RecordPose2D(path string, pose geometry.Pose2D)
}

// Registry is the authoritative in-process record of what is on the field
// right now. It stores objects grouped by type name, holds a distinguished
// primary robot, and projects everything to the dashboard and recorder once
// per control cycle via Publish.
//
// The registry tracks objects by identity: two distinct objects with equal
// poses are distinct entries, and re-adding the same object is a no-op.
// Producers must register pointer values.
//
// All methods are safe for concurrent use; this program mutates the registry
// from simulation services and the ZMQ vision listener while the control
// loop publishes.
type Registry struct {
	logger    customlog.Logger
	dashboard Dashboard
	recorder  Recorder

	mu            sync.RWMutex
	objectsByType map[string]map[ObjectOnField]struct{}
	robot         ObjectOnField
}

// NewRegistry creates a registry around the given primary robot and sinks.
// The robot is fixed for the life of the registry and always rendered under
// the reserved robot channel.
func NewRegistry(robot ObjectOnField, dashboard Dashboard, recorder Recorder, logger customlog.Logger) *Registry {
	if robot == nil {
		panic("field: robot cannot be nil in NewRegistry")
	}
	if dashboard == nil || recorder == nil {
		panic("field: dashboard and recorder sinks cannot be nil in NewRegistry")
	}
	if logger == nil {
		logger = customlog.NewNopLogger()
	}
	return &Registry{
		logger:        logger,
		dashboard:     dashboard,
		recorder:      recorder,
		objectsByType: make(map[string]map[ObjectOnField]struct{}),
		robot:         robot,
	}
}

// AddObject registers an object under its current type name, creating the
// type's set if needed. Re-adding the same object is a no-op. The object is
// returned for chaining.
//
// An empty type name is a producer defect: the object is not registered and
// the defect is logged. The primary robot is likewise refused; it already has
// its own reserved channel.
func (r *Registry) AddObject(object ObjectOnField) ObjectOnField {
	typeName := object.TypeName()
	if typeName == "" {
		r.logger.Errorf("Refusing to register field object with empty type name (%T)", object)
		return object
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if object == r.robot {
		r.logger.Warnf("Refusing to register the primary robot as a %q object; it has a reserved channel", typeName)
		return object
	}

	set, ok := r.objectsByType[typeName]
	if !ok {
		set = make(map[ObjectOnField]struct{})
		r.objectsByType[typeName] = set
	}
	set[object] = struct{}{}
	return object
}

// RemoveObject unregisters an object, looking it up under its currently
// reported type name. The second return value is false when the object was
// not registered there; that is a normal outcome, not an error.
//
// An object whose TypeName has drifted since registration stays filed under
// its original key and is therefore not found here. That matches the original
// behavior; re-keying on every cycle would silently change removal semantics.
func (r *Registry) RemoveObject(object ObjectOnField) (ObjectOnField, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.objectsByType[object.TypeName()]
	if !ok {
		return nil, false
	}
	if _, ok := set[object]; !ok {
		return nil, false
	}
	delete(set, object)
	return object, true
}

// ClearType atomically replaces the set for typeName with a fresh empty one
// and returns a snapshot of the previous members, in unspecified order. The
// snapshot is stable: later registry mutation does not affect it. Clearing a
// type that was never populated returns an empty snapshot and establishes an
// empty entry for the type.
//
// This is the drain-and-repopulate primitive used to reset game pieces
// between autonomous attempts.
func (r *Registry) ClearType(typeName string) []ObjectOnField {
	r.mu.Lock()
	defer r.mu.Unlock()

	previous := r.objectsByType[typeName]
	r.objectsByType[typeName] = make(map[ObjectOnField]struct{})

	drained := make([]ObjectOnField, 0, len(previous))
	for object := range previous {
		drained = append(drained, object)
	}
	return drained
}

// TypeNames returns the sorted type names currently known to the registry,
// including types that are presently empty.
func (r *Registry) TypeNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.objectsByType))
	for name := range r.objectsByType {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of objects registered under typeName.
func (r *Registry) Count(typeName string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.objectsByType[typeName])
}

// Publish projects the current field state to the dashboard and recorder.
// Called once per control cycle.
//
// For every type the dashboard channel receives the planar poses of the
// 2D-capable members only (objects without a meaningful planar pose would
// render at a misleading ground position), while the record channel receives
// the full 3D poses of every member for offline replay. Both are pushed even
// when empty so stale layers are cleared. The robot is always pushed last on
// its reserved channels, regardless of how many types exist.
func (r *Registry) Publish() {
	// Snapshot membership so pose queries and sink pushes run without
	// holding the registry lock.
	r.mu.RLock()
	snapshot := make(map[string][]ObjectOnField, len(r.objectsByType))
	for typeName, set := range r.objectsByType {
		objects := make([]ObjectOnField, 0, len(set))
		for object := range set {
			objects = append(objects, object)
		}
		snapshot[typeName] = objects
	}
	robot := r.robot
	r.mu.RUnlock()

	for typeName, objects := range snapshot {
		poses2d := make([]geometry.Pose2D, 0, len(objects))
		poses3d := make([]geometry.Pose3D, 0, len(objects))
		for _, object := range objects {
			pose := object.Pose3D()
			poses3d = append(poses3d, pose)
			if object.On2DField() {
				poses2d = append(poses2d, pose.ToPose2D())
			}
		}
		r.dashboard.SetPoses(typeName, poses2d)
		r.recorder.RecordPoses(RecordPathPrefix+typeName, poses3d)
	}

	robotPose := robot.Pose3D().ToPose2D()
	r.dashboard.SetRobotPose(robotPose)
	r.recorder.RecordPose2D(RobotRecordPath, robotPose)
}
