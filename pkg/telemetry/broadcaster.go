package telemetry

import (
	"sync"

	"github.com/open-fieldtrack/controller/pkg/field"
	"github.com/open-fieldtrack/controller/pkg/geometry"
	customlog "github.com/open-fieldtrack/controller/pkg/log"
)

// Ensure Broadcaster satisfies the registry's dashboard sink.
var _ field.Dashboard = (*Broadcaster)(nil)

// subscriberBuffer is the per-subscriber frame queue depth. A subscriber that
// falls further behind than this loses frames rather than stalling the
// control loop.
const subscriberBuffer = 4

// Broadcaster is the dashboard overlay sink. It accumulates per-channel pose
// layers during a publish cycle and emits one complete FieldFrame to every
// subscriber when the robot pose lands, which the registry always pushes last.
type Broadcaster struct {
	logger customlog.Logger

	mu          sync.Mutex
	frame       FieldFrame
	subscribers map[chan FieldFrame]struct{}
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster(logger customlog.Logger) *Broadcaster {
	if logger == nil {
		logger = customlog.NewNopLogger()
	}
	return &Broadcaster{
		logger:      logger,
		frame:       FieldFrame{Objects: make(map[string][]PoseMsg)},
		subscribers: make(map[chan FieldFrame]struct{}),
	}
}

// SetPoses replaces the named overlay layer with the given poses. An empty
// slice clears the layer.
func (b *Broadcaster) SetPoses(channel string, poses []geometry.Pose2D) {
	msgs := make([]PoseMsg, len(poses))
	for i, pose := range poses {
		msgs[i] = PoseMsg{X: pose.X, Y: pose.Y, Theta: pose.Theta}
	}

	b.mu.Lock()
	b.frame.Objects[channel] = msgs
	b.mu.Unlock()
}

// SetRobotPose updates the robot layer and closes out the cycle's frame,
// broadcasting it to all subscribers. Slow subscribers drop frames; the
// dashboard only ever needs the latest field state.
func (b *Broadcaster) SetRobotPose(pose geometry.Pose2D) {
	b.mu.Lock()
	b.frame.Robot = PoseMsg{X: pose.X, Y: pose.Y, Theta: pose.Theta}
	b.frame.Seq++
	frame := b.frame.clone()
	for sub := range b.subscribers {
		select {
		case sub <- frame:
		default:
			// Subscriber buffer full; skip this frame for them.
		}
	}
	b.mu.Unlock()
}

// Snapshot returns a copy of the latest complete frame.
func (b *Broadcaster) Snapshot() FieldFrame {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.frame.clone()
}

// Subscribe registers a frame consumer. The returned cancel func must be
// called when the consumer goes away; it closes the channel.
func (b *Broadcaster) Subscribe() (<-chan FieldFrame, func()) {
	sub := make(chan FieldFrame, subscriberBuffer)

	b.mu.Lock()
	b.subscribers[sub] = struct{}{}
	count := len(b.subscribers)
	b.mu.Unlock()

	b.logger.Debugf("Dashboard subscriber added (%d active)", count)

	cancel := func() {
		b.mu.Lock()
		if _, ok := b.subscribers[sub]; ok {
			delete(b.subscribers, sub)
			close(sub)
		}
		b.mu.Unlock()
	}
	return sub, cancel
}
