package simulation

import (
	"math"
	"testing"
	"time"

	"github.com/open-fieldtrack/controller/pkg/config"
	"github.com/open-fieldtrack/controller/pkg/field"
	"github.com/open-fieldtrack/controller/pkg/geometry"
)

type nopDashboard struct{}

func (nopDashboard) SetPoses(string, []geometry.Pose2D) {}
func (nopDashboard) SetRobotPose(geometry.Pose2D)       {}

type nopRecorder struct{}

func (nopRecorder) RecordPoses(string, []geometry.Pose3D) {}
func (nopRecorder) RecordPose2D(string, geometry.Pose2D)  {}

type staticRobot struct{ pose geometry.Pose2D }

func (r *staticRobot) TypeName() string        { return field.RobotChannel }
func (r *staticRobot) On2DField() bool         { return true }
func (r *staticRobot) Pose2D() geometry.Pose2D { return r.pose }
func (r *staticRobot) Pose3D() geometry.Pose3D { return geometry.NewPose3DFromPose2D(r.pose) }

func newTestRegistry(t *testing.T) *field.Registry {
	t.Helper()
	return field.NewRegistry(&staticRobot{}, nopDashboard{}, nopRecorder{}, nil)
}

func testConfig() *config.Config {
	return &config.Config{
		RobotID: "sim-bot",
		Season:  "2026",
		ObjectTypes: []config.ObjectTypeConfig{
			{Name: "Note"},
			{Name: "Cube"},
		},
		GamePieces: []config.PlacementConfig{
			{Type: "Note", Pose: config.PoseConfig{X: 2.9, Y: 4.1}},
			{Type: "Note", Pose: config.PoseConfig{X: 2.9, Y: 5.55}},
			{Type: "Cube", Pose: config.PoseConfig{X: 8.27, Y: 4.1}},
		},
		Opponents: []config.OpponentConfig{
			{ID: "opp-1", Start: config.PoseConfig{X: 12, Y: 4}, PatrolRadius: 2, SpeedMps: 1},
		},
	}
}

func TestSpawnAndCollectPiece(t *testing.T) {
	registry := newTestRegistry(t)
	service := NewGamePieceService(registry, nil)

	piece := service.SpawnPiece("Note", geometry.Pose2D{X: 1, Y: 2})
	if registry.Count("Note") != 1 {
		t.Fatalf("Expected 1 registered Note, got %d", registry.Count("Note"))
	}

	if !service.CollectPiece(piece.ID()) {
		t.Fatal("Expected collection of a live piece to succeed")
	}
	if registry.Count("Note") != 0 {
		t.Errorf("Collected piece still registered, count %d", registry.Count("Note"))
	}
	if service.CollectPiece(piece.ID()) {
		t.Error("Expected second collection of the same piece to fail")
	}
}

func TestResetFieldRestoresStartingPlacements(t *testing.T) {
	registry := newTestRegistry(t)
	service := NewGamePieceService(registry, nil)
	cfg := testConfig()

	service.PopulateFromConfig(cfg)
	if registry.Count("Note") != 2 || registry.Count("Cube") != 1 {
		t.Fatalf("Unexpected initial counts: %d Notes, %d Cubes",
			registry.Count("Note"), registry.Count("Cube"))
	}

	// Mid-match churn: one note collected, a stray cube appears.
	for _, piece := range collectAll(service, registry, "Note")[:1] {
		service.CollectPiece(piece.ID())
	}
	service.SpawnPiece("Cube", geometry.Pose2D{X: 3, Y: 3})

	service.ResetField(cfg)

	if registry.Count("Note") != 2 {
		t.Errorf("Expected 2 Notes after reset, got %d", registry.Count("Note"))
	}
	if registry.Count("Cube") != 1 {
		t.Errorf("Expected 1 Cube after reset, got %d", registry.Count("Cube"))
	}
	if service.PieceCount() != 3 {
		t.Errorf("Expected service to track 3 pieces after reset, got %d", service.PieceCount())
	}
}

func collectAll(service *GamePieceService, registry *field.Registry, typeName string) []*GamePiece {
	var pieces []*GamePiece
	for _, object := range registry.ClearType(typeName) {
		if piece, ok := object.(*GamePiece); ok {
			pieces = append(pieces, piece)
			registry.AddObject(piece)
		}
	}
	return pieces
}

func TestSetObservedReplacesTrackedPieces(t *testing.T) {
	registry := newTestRegistry(t)
	service := NewGamePieceService(registry, nil)

	service.SpawnPiece("Note", geometry.Pose2D{X: 1, Y: 1})
	service.SpawnPiece("Note", geometry.Pose2D{X: 2, Y: 2})

	service.SetObserved("Note", []geometry.Pose2D{
		{X: 5, Y: 5},
		{X: 6, Y: 6},
		{X: 7, Y: 7},
	})

	if registry.Count("Note") != 3 {
		t.Errorf("Expected 3 observed Notes, got %d", registry.Count("Note"))
	}
	if service.PieceCount() != 3 {
		t.Errorf("Expected service to track 3 pieces, got %d", service.PieceCount())
	}
}

func TestLaunchedPieceIsExcludedFromOverlay(t *testing.T) {
	registry := newTestRegistry(t)
	service := NewGamePieceService(registry, nil)

	piece := service.LaunchPiece("Note", geometry.Pose2D{X: 1, Y: 1}, 5, 3, 50*time.Millisecond)
	if piece.On2DField() {
		t.Error("A launched piece must not report a planar pose")
	}
	if registry.Count("Note") != 1 {
		t.Fatalf("Expected launched piece to be registered, count %d", registry.Count("Note"))
	}

	pose := piece.Pose3D()
	if pose.Translation.Z < 0 {
		t.Errorf("Flight altitude went negative: %f", pose.Translation.Z)
	}

	time.Sleep(60 * time.Millisecond)
	service.Step(20 * time.Millisecond)
	if registry.Count("Note") != 0 {
		t.Errorf("Expected landed piece to despawn, count %d", registry.Count("Note"))
	}
}

func TestOpponentPatrolStaysOnCircle(t *testing.T) {
	registry := newTestRegistry(t)
	cfg := testConfig()
	service := NewOpponentService(registry, cfg, nil)

	if registry.Count(OpponentTypeName) != 1 {
		t.Fatalf("Expected 1 registered opponent, got %d", registry.Count(OpponentTypeName))
	}

	robot := service.Robots()[0]
	for i := 0; i < 100; i++ {
		service.Step(20 * time.Millisecond)

		pose := robot.Pose2D()
		dist := math.Hypot(pose.X-12, pose.Y-4)
		if math.Abs(dist-2) > 1e-9 {
			t.Fatalf("Opponent left its patrol circle: distance %f at step %d", dist, i)
		}
	}

	// 2 seconds at 1 m/s on a 2 m radius sweeps 1 radian.
	pose := robot.Pose2D()
	wantAngle := 1.0
	gotAngle := math.Atan2(pose.Y-4, pose.X-12)
	if math.Abs(gotAngle-wantAngle) > 1e-9 {
		t.Errorf("Expected patrol angle %f, got %f", wantAngle, gotAngle)
	}
}

func TestParkedOpponentHoldsStartPose(t *testing.T) {
	robot := NewOpponentRobot(config.OpponentConfig{
		ID:    "opp-2",
		Start: config.PoseConfig{X: 3, Y: 4, Theta: 1.5},
	})

	robot.Step(time.Second)

	want := geometry.Pose2D{X: 3, Y: 4, Theta: 1.5}
	if !robot.Pose2D().ApproxEqual(want) {
		t.Errorf("Expected parked opponent to stay at %+v, got %+v", want, robot.Pose2D())
	}
}
