package telemetry

import (
	"math"
	"sync"
	"testing"

	"github.com/open-fieldtrack/controller/pkg/geometry"
	customlog "github.com/open-fieldtrack/controller/pkg/log"
)

func TestBroadcasterAssemblesFramePerCycle(t *testing.T) {
	b := NewBroadcaster(customlog.NewNopLogger())
	frames, cancel := b.Subscribe()
	defer cancel()

	b.SetPoses("Note", []geometry.Pose2D{{X: 1, Y: 2}, {X: 3, Y: 4}})
	b.SetPoses("Cube", []geometry.Pose2D{})
	b.SetRobotPose(geometry.Pose2D{X: 8, Y: 4, Theta: math.Pi})

	frame := <-frames
	if frame.Seq != 1 {
		t.Errorf("frame seq = %d, want 1", frame.Seq)
	}
	if len(frame.Objects["Note"]) != 2 {
		t.Errorf("Note layer has %d poses, want 2", len(frame.Objects["Note"]))
	}
	cube, ok := frame.Objects["Cube"]
	if !ok {
		t.Fatalf("empty Cube layer missing from frame; clients cannot clear it")
	}
	if len(cube) != 0 {
		t.Errorf("Cube layer has %d poses, want 0", len(cube))
	}
	if frame.Robot.X != 8 || frame.Robot.Y != 4 {
		t.Errorf("robot pose = %+v, want (8, 4)", frame.Robot)
	}
}

func TestBroadcasterSnapshotIsIsolated(t *testing.T) {
	b := NewBroadcaster(customlog.NewNopLogger())
	b.SetPoses("Note", []geometry.Pose2D{{X: 1}})
	b.SetRobotPose(geometry.Pose2D{})

	snapshot := b.Snapshot()
	snapshot.Objects["Note"][0].X = 99

	if got := b.Snapshot().Objects["Note"][0].X; got != 1 {
		t.Errorf("mutating a snapshot leaked into the broadcaster state: X = %v", got)
	}
}

func TestBroadcasterDropsFramesForSlowSubscriber(t *testing.T) {
	b := NewBroadcaster(customlog.NewNopLogger())
	frames, cancel := b.Subscribe()
	defer cancel()

	// Never read; the broadcaster must not block past the buffer.
	for i := 0; i < subscriberBuffer+10; i++ {
		b.SetRobotPose(geometry.Pose2D{X: float64(i)})
	}

	if got := len(frames); got != subscriberBuffer {
		t.Errorf("subscriber buffered %d frames, want %d", got, subscriberBuffer)
	}
}

func TestPoseRecordRoundTrip(t *testing.T) {
	poses := []geometry.Pose3D{
		{
			Translation: geometry.Translation3D{X: 1, Y: 2, Z: 0.5},
			Rotation:    geometry.NewRotation3DFromEuler(0.1, -0.2, 0.3),
		},
		{
			Translation: geometry.Translation3D{X: -4, Y: 0, Z: 0},
			Rotation:    geometry.NewZeroRotation(),
		},
	}

	payload := EncodePoseRecord("/Field/Note", 12345, poses)
	decoded, err := DecodePoseRecord(payload)
	if err != nil {
		t.Fatalf("DecodePoseRecord failed: %v", err)
	}

	if decoded.Path != "/Field/Note" {
		t.Errorf("path = %q, want /Field/Note", decoded.Path)
	}
	if decoded.TimestampNs != 12345 {
		t.Errorf("timestamp = %d, want 12345", decoded.TimestampNs)
	}
	if decoded.Pose2D != nil {
		t.Errorf("per-type record unexpectedly carries a planar pose")
	}
	if len(decoded.Poses) != len(poses) {
		t.Fatalf("decoded %d poses, want %d", len(decoded.Poses), len(poses))
	}
	for i := range poses {
		if !decoded.Poses[i].ApproxEqual(poses[i]) {
			t.Errorf("pose %d = %+v, want %+v", i, decoded.Poses[i], poses[i])
		}
	}
}

func TestPose2DRecordRoundTrip(t *testing.T) {
	pose := geometry.Pose2D{X: 8.2, Y: 4.1, Theta: -1.2}

	payload := EncodePose2DRecord("/Field/Robot", 777, pose)
	decoded, err := DecodePoseRecord(payload)
	if err != nil {
		t.Fatalf("DecodePoseRecord failed: %v", err)
	}

	if decoded.Path != "/Field/Robot" {
		t.Errorf("path = %q, want /Field/Robot", decoded.Path)
	}
	if len(decoded.Poses) != 0 {
		t.Errorf("robot record unexpectedly carries %d spatial poses", len(decoded.Poses))
	}
	if decoded.Pose2D == nil {
		t.Fatalf("robot record is missing its planar pose")
	}
	if !decoded.Pose2D.ApproxEqual(pose) {
		t.Errorf("planar pose = %+v, want %+v", *decoded.Pose2D, pose)
	}
}

// captureSink records every payload it receives.
type captureSink struct {
	mu       sync.Mutex
	payloads map[string][][]byte
	done     chan struct{}
	expected int
}

func newCaptureSink(expected int) *captureSink {
	return &captureSink{
		payloads: make(map[string][][]byte),
		done:     make(chan struct{}),
		expected: expected,
	}
}

func (s *captureSink) Name() string { return "capture" }

func (s *captureSink) WriteRecord(path string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads[path] = append(s.payloads[path], payload)
	s.expected--
	if s.expected == 0 {
		close(s.done)
	}
	return nil
}

func TestRecordDirectorFansOut(t *testing.T) {
	stats := NewChannelStats()
	director := NewRecordDirector(16, stats, customlog.NewNopLogger())
	sink := newCaptureSink(2)
	director.RegisterSink(sink)
	director.Start()
	defer director.Stop()

	director.RecordPoses("/Field/Note", []geometry.Pose3D{{}})
	director.RecordPose2D("/Field/Robot", geometry.Pose2D{X: 1})

	<-sink.done

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.payloads["/Field/Note"]) != 1 {
		t.Errorf("sink received %d /Field/Note records, want 1", len(sink.payloads["/Field/Note"]))
	}
	if len(sink.payloads["/Field/Robot"]) != 1 {
		t.Errorf("sink received %d /Field/Robot records, want 1", len(sink.payloads["/Field/Robot"]))
	}

	info, ok := stats.Get("/Field/Note")
	if !ok {
		t.Fatalf("channel stats missing /Field/Note")
	}
	if info.RecordCount != 1 || info.LastPoseCount != 1 {
		t.Errorf("stats = %+v, want one record of one pose", info)
	}
}

func TestRecordDirectorDiscardsWhenStopped(t *testing.T) {
	director := NewRecordDirector(4, nil, customlog.NewNopLogger())
	sink := newCaptureSink(1)
	director.RegisterSink(sink)

	// Not started: records are discarded, never queued.
	director.RecordPoses("/Field/Note", nil)

	if got := director.Dropped(); got != 0 {
		t.Errorf("discard before start counted as drop: %d", got)
	}
	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.payloads) != 0 {
		t.Errorf("sink received records before the director started")
	}
}
