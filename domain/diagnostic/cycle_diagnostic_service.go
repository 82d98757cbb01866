package diagnostic

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

// CycleMetrics represents publish loop timing information
type CycleMetrics struct {
	Timestamp    time.Time     `json:"timestamp"`
	CycleCount   uint64        `json:"cycle_count"`
	LastCycle    time.Duration `json:"last_cycle_ns"`
	AverageCycle time.Duration `json:"average_cycle_ns"`
	MaxCycle     time.Duration `json:"max_cycle_ns"`
	Overruns     uint64        `json:"overruns"` // cycles exceeding the configured period
	Period       time.Duration `json:"period_ns"`
	RobotID      string        `json:"robot_id"`
}

// DiagnosticService tracks publish loop health
type DiagnosticService struct {
	mu      sync.RWMutex
	metrics CycleMetrics
	// running sum for the average, avoids keeping per-cycle history
	totalCycle time.Duration
}

// NewDiagnosticService creates a new diagnostic service instance
func NewDiagnosticService(robotID string, period time.Duration) *DiagnosticService {
	return &DiagnosticService{
		metrics: CycleMetrics{
			Timestamp: time.Now(),
			Period:    period,
			RobotID:   robotID,
		},
	}
}

// RecordCycle records one completed publish cycle
func (s *DiagnosticService) RecordCycle(elapsed time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics.CycleCount++
	s.metrics.LastCycle = elapsed
	s.totalCycle += elapsed
	s.metrics.AverageCycle = s.totalCycle / time.Duration(s.metrics.CycleCount)
	if elapsed > s.metrics.MaxCycle {
		s.metrics.MaxCycle = elapsed
	}
	if s.metrics.Period > 0 && elapsed > s.metrics.Period {
		s.metrics.Overruns++
	}
	s.metrics.Timestamp = time.Now()
}

// GetMetrics returns the current cycle metrics
func (s *DiagnosticService) GetMetrics() CycleMetrics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.metrics
}

// GetMetricsHandler handles API requests for cycle metrics
func (s *DiagnosticService) GetMetricsHandler(c *fiber.Ctx) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return c.JSON(fiber.Map{
		"status":  "success",
		"metrics": s.metrics,
	})
}
