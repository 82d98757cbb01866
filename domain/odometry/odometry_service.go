package odometry

import (
	"math"
	"sync"
	"time"

	"github.com/open-fieldtrack/controller/pkg/field"
	"github.com/open-fieldtrack/controller/pkg/geometry"
	customlog "github.com/open-fieldtrack/controller/pkg/log"
)

// The robot pose estimate is planar: the registry flattens it for the
// dashboard and records it on the reserved robot channel.
var _ field.ObjectOn2DField = (*OdometryService)(nil)

// Twist is a robot-relative velocity command: forward, leftward and angular.
type Twist struct {
	Vx    float64 `json:"vx"`
	Vy    float64 `json:"vy"`
	Omega float64 `json:"omega"`
}

// OdometryService is the primary robot pose producer. In simulation it
// integrates the commanded twist each control cycle; on a real robot the
// same role is filled by wheel odometry fused with vision.
type OdometryService struct {
	logger customlog.Logger

	mu    sync.RWMutex
	pose  geometry.Pose2D
	twist Twist
}

// NewOdometryService creates an estimator starting at the given pose.
func NewOdometryService(start geometry.Pose2D, logger customlog.Logger) *OdometryService {
	if logger == nil {
		logger = customlog.NewNopLogger()
	}
	return &OdometryService{
		logger: logger,
		pose:   start,
	}
}

// SetTwist replaces the commanded robot-relative velocity.
func (s *OdometryService) SetTwist(twist Twist) {
	s.mu.Lock()
	s.twist = twist
	s.mu.Unlock()
}

// Reset teleports the estimate, e.g. when an autonomous attempt restarts.
func (s *OdometryService) Reset(pose geometry.Pose2D) {
	s.mu.Lock()
	s.pose = pose
	s.twist = Twist{}
	s.mu.Unlock()
	s.logger.Infof("Odometry reset to (%.2f, %.2f, %.2f rad)", pose.X, pose.Y, pose.Theta)
}

// Step integrates the commanded twist over dt. The twist is robot-relative,
// so it is rotated into the field frame by the current heading first.
func (s *OdometryService) Step(dt time.Duration) {
	seconds := dt.Seconds()

	s.mu.Lock()
	sin, cos := math.Sincos(s.pose.Theta)
	s.pose.X += (s.twist.Vx*cos - s.twist.Vy*sin) * seconds
	s.pose.Y += (s.twist.Vx*sin + s.twist.Vy*cos) * seconds
	s.pose.Theta = geometry.NormalizeAngle(s.pose.Theta + s.twist.Omega*seconds)
	s.mu.Unlock()
}

// TypeName implements the field object contract. The registry files the
// primary robot under its reserved channel, so this name never becomes a
// grouping key.
func (s *OdometryService) TypeName() string { return field.RobotChannel }

// On2DField reports that the robot pose is planar.
func (s *OdometryService) On2DField() bool { return true }

// Pose2D returns the current planar estimate.
func (s *OdometryService) Pose2D() geometry.Pose2D {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pose
}

// Pose3D returns the planar estimate embedded in 3D space.
func (s *OdometryService) Pose3D() geometry.Pose3D {
	return geometry.NewPose3DFromPose2D(s.Pose2D())
}
