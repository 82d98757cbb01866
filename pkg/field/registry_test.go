package field

import (
	"math"
	"testing"

	"github.com/open-fieldtrack/controller/pkg/geometry"
	customlog "github.com/open-fieldtrack/controller/pkg/log"
)

// fakeDashboard captures overlay pushes for assertions.
type fakeDashboard struct {
	channels   map[string][]geometry.Pose2D
	robotPoses []geometry.Pose2D
}

func newFakeDashboard() *fakeDashboard {
	return &fakeDashboard{channels: make(map[string][]geometry.Pose2D)}
}

func (d *fakeDashboard) SetPoses(channel string, poses []geometry.Pose2D) {
	d.channels[channel] = poses
}

func (d *fakeDashboard) SetRobotPose(pose geometry.Pose2D) {
	d.robotPoses = append(d.robotPoses, pose)
}

// fakeRecorder captures record pushes for assertions.
type fakeRecorder struct {
	poseRecords   map[string][]geometry.Pose3D
	pose2dRecords map[string][]geometry.Pose2D
	recordCount   int
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{
		poseRecords:   make(map[string][]geometry.Pose3D),
		pose2dRecords: make(map[string][]geometry.Pose2D),
	}
}

func (r *fakeRecorder) RecordPoses(path string, poses []geometry.Pose3D) {
	r.poseRecords[path] = poses
	r.recordCount++
}

func (r *fakeRecorder) RecordPose2D(path string, pose geometry.Pose2D) {
	r.pose2dRecords[path] = append(r.pose2dRecords[path], pose)
	r.recordCount++
}

func fixedRobot(pose geometry.Pose2D) ObjectOn2DField {
	return NewPlanarObject(RobotChannel, func() geometry.Pose2D { return pose })
}

func newTestRegistry() (*Registry, *fakeDashboard, *fakeRecorder) {
	dashboard := newFakeDashboard()
	recorder := newFakeRecorder()
	robot := fixedRobot(geometry.Pose2D{X: 8, Y: 4})
	registry := NewRegistry(robot, dashboard, recorder, customlog.NewNopLogger())
	return registry, dashboard, recorder
}

func TestAddObjectIsIdempotent(t *testing.T) {
	registry, _, _ := newTestRegistry()

	note := NewPlanarObject("Note", func() geometry.Pose2D {
		return geometry.Pose2D{X: 1, Y: 2}
	})

	if got := registry.AddObject(note); got != note {
		t.Errorf("AddObject did not return the registered object")
	}
	registry.AddObject(note)

	if got := registry.Count("Note"); got != 1 {
		t.Errorf("Count(\"Note\") = %d after double add, want 1", got)
	}
}

func TestTwoObjectsWithEqualPosesAreDistinct(t *testing.T) {
	registry, _, _ := newTestRegistry()

	poseFn := func() geometry.Pose2D { return geometry.Pose2D{X: 1, Y: 1} }
	registry.AddObject(NewPlanarObject("Note", poseFn))
	registry.AddObject(NewPlanarObject("Note", poseFn))

	if got := registry.Count("Note"); got != 2 {
		t.Errorf("Count(\"Note\") = %d, want 2 distinct identity entries", got)
	}
}

func TestRemoveObject(t *testing.T) {
	registry, _, _ := newTestRegistry()

	note := NewPlanarObject("Note", func() geometry.Pose2D { return geometry.Pose2D{} })
	registry.AddObject(note)

	removed, ok := registry.RemoveObject(note)
	if !ok {
		t.Fatalf("RemoveObject reported not found for a registered object")
	}
	if removed != note {
		t.Errorf("RemoveObject returned a different object")
	}
	if got := registry.Count("Note"); got != 0 {
		t.Errorf("Count(\"Note\") = %d after removal, want 0", got)
	}

	// Removing again is a normal not-found outcome.
	if _, ok := registry.RemoveObject(note); ok {
		t.Errorf("RemoveObject found an object that was already removed")
	}

	// Removing an object of an unknown type is also not-found.
	stranger := NewPlanarObject("Cube", func() geometry.Pose2D { return geometry.Pose2D{} })
	if _, ok := registry.RemoveObject(stranger); ok {
		t.Errorf("RemoveObject found an object of a type that was never registered")
	}
}

func TestClearTypeReturnsStableSnapshot(t *testing.T) {
	registry, _, _ := newTestRegistry()

	a := NewPlanarObject("Note", func() geometry.Pose2D { return geometry.Pose2D{X: 1} })
	b := NewPlanarObject("Note", func() geometry.Pose2D { return geometry.Pose2D{X: 2} })
	registry.AddObject(a)
	registry.AddObject(b)

	drained := registry.ClearType("Note")
	if len(drained) != 2 {
		t.Fatalf("ClearType returned %d objects, want 2", len(drained))
	}
	seen := map[ObjectOnField]bool{}
	for _, object := range drained {
		seen[object] = true
	}
	if !seen[a] || !seen[b] {
		t.Errorf("ClearType snapshot is missing members: %v", seen)
	}

	if got := registry.Count("Note"); got != 0 {
		t.Errorf("Count(\"Note\") = %d after clear, want 0", got)
	}

	// The snapshot must not change when the type is repopulated.
	registry.AddObject(NewPlanarObject("Note", func() geometry.Pose2D { return geometry.Pose2D{X: 3} }))
	if len(drained) != 2 {
		t.Errorf("snapshot length changed to %d after repopulation", len(drained))
	}
	if got := registry.Count("Note"); got != 1 {
		t.Errorf("Count(\"Note\") = %d after repopulation, want 1", got)
	}
}

func TestClearUnknownTypeEstablishesEmptyEntry(t *testing.T) {
	registry, dashboard, _ := newTestRegistry()

	if drained := registry.ClearType("Cube"); len(drained) != 0 {
		t.Errorf("ClearType of unknown type returned %d objects, want 0", len(drained))
	}

	registry.Publish()
	poses, ok := dashboard.channels["Cube"]
	if !ok {
		t.Fatalf("publish after ClearType did not establish the \"Cube\" channel")
	}
	if len(poses) != 0 {
		t.Errorf("established channel has %d poses, want 0", len(poses))
	}
}

func TestPublishPartitionsPlanarAndSpatial(t *testing.T) {
	registry, dashboard, recorder := newTestRegistry()

	onField := NewPlanarObject("Note", func() geometry.Pose2D {
		return geometry.Pose2D{X: 1, Y: 2, Theta: 0}
	})
	inFlight := NewObject("Note", func() geometry.Pose3D {
		return geometry.Pose3D{
			Translation: geometry.Translation3D{X: 5, Y: 6, Z: 0.8},
			Rotation:    geometry.NewRotation3DFromEuler(0, -0.4, 0),
		}
	})
	registry.AddObject(onField)
	registry.AddObject(inFlight)

	registry.Publish()

	overlay := dashboard.channels["Note"]
	if len(overlay) != 1 {
		t.Fatalf("overlay has %d poses, want only the on-field object", len(overlay))
	}
	if !overlay[0].ApproxEqual(geometry.Pose2D{X: 1, Y: 2, Theta: 0}) {
		t.Errorf("overlay pose = %+v, want (1, 2, 0)", overlay[0])
	}

	records := recorder.poseRecords["/Field/Note"]
	if len(records) != 2 {
		t.Errorf("record channel has %d poses, want both objects", len(records))
	}
}

func TestPublishRobotChannelAlwaysPresent(t *testing.T) {
	registry, dashboard, recorder := newTestRegistry()

	registry.Publish()

	if len(dashboard.robotPoses) != 1 {
		t.Fatalf("publish issued %d robot overlay updates, want exactly 1", len(dashboard.robotPoses))
	}
	want := geometry.Pose2D{X: 8, Y: 4}
	if !dashboard.robotPoses[0].ApproxEqual(want) {
		t.Errorf("robot overlay pose = %+v, want %+v", dashboard.robotPoses[0], want)
	}

	robotRecords := recorder.pose2dRecords[RobotRecordPath]
	if len(robotRecords) != 1 {
		t.Fatalf("publish issued %d %s records, want exactly 1", len(robotRecords), RobotRecordPath)
	}
	if !robotRecords[0].ApproxEqual(want) {
		t.Errorf("robot record pose = %+v, want %+v", robotRecords[0], want)
	}
}

func TestPublishAfterClearEmptiesOverlay(t *testing.T) {
	registry, dashboard, _ := newTestRegistry()

	piece := NewPlanarObject("Piece", func() geometry.Pose2D {
		return geometry.Pose2D{X: 2, Y: 3}
	})
	registry.AddObject(piece)
	registry.Publish()

	if len(dashboard.channels["Piece"]) != 1 {
		t.Fatalf("overlay missing the registered piece before clear")
	}

	registry.ClearType("Piece")
	registry.Publish()

	if got := len(dashboard.channels["Piece"]); got != 0 {
		t.Errorf("overlay retained %d poses after clear and publish, want 0", got)
	}
}

func TestRobotPoseIsFlattened(t *testing.T) {
	dashboard := newFakeDashboard()
	recorder := newFakeRecorder()

	// A robot reporting a full 3D pose (e.g. climbing) still renders flat.
	robot := NewObject(RobotChannel, func() geometry.Pose3D {
		return geometry.Pose3D{
			Translation: geometry.Translation3D{X: 3, Y: 1, Z: 0.5},
			Rotation:    geometry.NewRotation3DFromEuler(0.2, 0, math.Pi/2),
		}
	})
	registry := NewRegistry(robot, dashboard, recorder, customlog.NewNopLogger())

	registry.Publish()

	got := dashboard.robotPoses[0]
	if !got.ApproxEqual(geometry.Pose2D{X: 3, Y: 1, Theta: math.Pi / 2}) {
		t.Errorf("robot pose not flattened to the field plane: %+v", got)
	}
}

func TestAddObjectRefusesEmptyTypeName(t *testing.T) {
	registry, _, _ := newTestRegistry()

	bad := NewPlanarObject("", func() geometry.Pose2D { return geometry.Pose2D{} })
	registry.AddObject(bad)

	if got := registry.Count(""); got != 0 {
		t.Errorf("object with empty type name was registered (count %d)", got)
	}
	if _, ok := registry.RemoveObject(bad); ok {
		t.Errorf("object with empty type name was removable, so it was registered")
	}
}

func TestAddObjectRefusesPrimaryRobot(t *testing.T) {
	dashboard := newFakeDashboard()
	recorder := newFakeRecorder()
	robot := fixedRobot(geometry.Pose2D{})
	registry := NewRegistry(robot, dashboard, recorder, customlog.NewNopLogger())

	registry.AddObject(robot)

	if got := registry.Count(RobotChannel); got != 0 {
		t.Errorf("primary robot was registered as a type object (count %d)", got)
	}
}
