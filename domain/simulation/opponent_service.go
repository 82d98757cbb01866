package simulation

import (
	"math"
	"sync"
	"time"

	"github.com/open-fieldtrack/controller/pkg/config"
	"github.com/open-fieldtrack/controller/pkg/field"
	"github.com/open-fieldtrack/controller/pkg/geometry"
	customlog "github.com/open-fieldtrack/controller/pkg/log"
)

// OpponentTypeName is the registry channel simulated opponents publish on.
const OpponentTypeName = "OpponentRobot"

// OpponentRobot is a simulated opposing robot driving a circular patrol
// around its starting point.
type OpponentRobot struct {
	id     string
	center geometry.Pose2D
	radius float64
	// angular rate derived from the configured ground speed
	omega float64

	mu    sync.RWMutex
	angle float64
	pose  geometry.Pose2D
}

var _ field.ObjectOn2DField = (*OpponentRobot)(nil)

// NewOpponentRobot creates a patrolling opponent. Radius zero keeps the
// robot parked at its start pose.
func NewOpponentRobot(cfg config.OpponentConfig) *OpponentRobot {
	start := geometry.Pose2D{X: cfg.Start.X, Y: cfg.Start.Y, Theta: cfg.Start.Theta}

	robot := &OpponentRobot{
		id:     cfg.ID,
		center: start,
		radius: cfg.PatrolRadius,
		pose:   start,
	}
	if cfg.PatrolRadius > 0 {
		robot.omega = cfg.SpeedMps / cfg.PatrolRadius
	}
	robot.updatePose()
	return robot
}

// ID returns the configured opponent identifier.
func (r *OpponentRobot) ID() string { return r.id }

// TypeName implements the field object contract.
func (r *OpponentRobot) TypeName() string { return OpponentTypeName }

// On2DField reports that opponents drive on the field plane.
func (r *OpponentRobot) On2DField() bool { return true }

// Pose2D returns the opponent's current planar pose.
func (r *OpponentRobot) Pose2D() geometry.Pose2D {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.pose
}

// Pose3D embeds the planar pose in 3D space.
func (r *OpponentRobot) Pose3D() geometry.Pose3D {
	return geometry.NewPose3DFromPose2D(r.Pose2D())
}

// Step advances the patrol by dt.
func (r *OpponentRobot) Step(dt time.Duration) {
	if r.omega == 0 {
		return
	}
	r.mu.Lock()
	r.angle = geometry.NormalizeAngle(r.angle + r.omega*dt.Seconds())
	r.mu.Unlock()
	r.updatePose()
}

func (r *OpponentRobot) updatePose() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.radius == 0 {
		r.pose = r.center
		return
	}
	sin, cos := math.Sincos(r.angle)
	r.pose = geometry.Pose2D{
		X: r.center.X + r.radius*cos,
		Y: r.center.Y + r.radius*sin,
		// tangent to the patrol circle, counterclockwise
		Theta: geometry.NormalizeAngle(r.angle + math.Pi/2),
	}
}

// OpponentService owns the simulated opponent robots and steps them each
// control cycle.
type OpponentService struct {
	logger customlog.Logger

	mu     sync.RWMutex
	robots []*OpponentRobot
}

// NewOpponentService builds the opponents from config and registers them.
func NewOpponentService(registry *field.Registry, cfg *config.Config, logger customlog.Logger) *OpponentService {
	if logger == nil {
		logger = customlog.NewNopLogger()
	}

	service := &OpponentService{logger: logger}
	for _, opponentCfg := range cfg.Opponents {
		robot := NewOpponentRobot(opponentCfg)
		service.robots = append(service.robots, robot)
		registry.AddObject(robot)
	}

	logger.Infof("Registered %d simulated opponent robot(s)", len(service.robots))
	return service
}

// Step advances every opponent by dt.
func (s *OpponentService) Step(dt time.Duration) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, robot := range s.robots {
		robot.Step(dt)
	}
}

// Robots returns the managed opponents.
func (s *OpponentService) Robots() []*OpponentRobot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*OpponentRobot, len(s.robots))
	copy(out, s.robots)
	return out
}
