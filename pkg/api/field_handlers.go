package api

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/open-fieldtrack/controller/domain/odometry"
	"github.com/open-fieldtrack/controller/domain/simulation"
	"github.com/open-fieldtrack/controller/pkg/geometry"
	customlog "github.com/open-fieldtrack/controller/pkg/log"
	"github.com/open-fieldtrack/controller/pkg/telemetry"
	"github.com/open-fieldtrack/controller/services"
)

// FieldHandler holds dependencies for the field state API endpoints.
type FieldHandler struct {
	broadcaster   *telemetry.Broadcaster
	stats         *telemetry.ChannelStats
	pieces        *simulation.GamePieceService
	odom          *odometry.OdometryService
	configService services.FieldConfigService
	logger        customlog.Logger
}

// NewFieldHandler creates a new handler for field state endpoints.
func NewFieldHandler(
	broadcaster *telemetry.Broadcaster,
	stats *telemetry.ChannelStats,
	pieces *simulation.GamePieceService,
	odom *odometry.OdometryService,
	configService services.FieldConfigService,
	logger customlog.Logger,
) *FieldHandler {
	if broadcaster == nil {
		panic("Broadcaster cannot be nil in NewFieldHandler")
	}
	if logger == nil {
		logger = customlog.NewNopLogger()
	}
	return &FieldHandler{
		broadcaster:   broadcaster,
		stats:         stats,
		pieces:        pieces,
		odom:          odom,
		configService: configService,
		logger:        logger,
	}
}

// RegisterFieldRoutes registers the field state API endpoints with the Fiber app.
func (h *FieldHandler) RegisterFieldRoutes(app *fiber.App) {
	apiGroup := app.Group("/api/v1/field")

	apiGroup.Get("/", h.handleGetSnapshot)
	apiGroup.Post("/reset", h.handleResetField)
	apiGroup.Post("/drive", h.handleDrive)
	apiGroup.Post("/observations", h.handleObservations)
	apiGroup.Get("/channels", h.handleGetChannels)

	h.logger.Infof("Registered field state API endpoints under /api/v1/field")
}

// handleGetSnapshot returns the most recently published field frame.
func (h *FieldHandler) handleGetSnapshot(c *fiber.Ctx) error {
	return c.JSON(h.broadcaster.Snapshot())
}

// handleResetField drains the tracked game pieces and restores the
// configured starting placements.
func (h *FieldHandler) handleResetField(c *fiber.Ctx) error {
	if h.pieces == nil || h.configService == nil {
		return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Field simulation is not running.",
		})
	}

	cfg := h.configService.GetCurrentConfig()
	if cfg == nil {
		return c.Status(http.StatusConflict).JSON(fiber.Map{
			"error": "No field configuration loaded; cannot reset placements.",
		})
	}

	h.pieces.ResetField(cfg)
	if h.odom != nil {
		h.odom.Reset(geometry.Pose2D{
			X:     cfg.RobotStart.X,
			Y:     cfg.RobotStart.Y,
			Theta: cfg.RobotStart.Theta,
		})
	}

	h.logger.Infof("Field reset to starting placements (config %s)", cfg.ConfigID)
	return c.JSON(fiber.Map{
		"message": "Field reset to starting placements.",
		"pieces":  h.pieces.PieceCount(),
	})
}

// handleDrive applies a velocity command to the simulated robot.
func (h *FieldHandler) handleDrive(c *fiber.Ctx) error {
	if h.odom == nil {
		return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Odometry is not running.",
		})
	}

	var twist TwistMsg
	if err := c.BodyParser(&twist); err != nil {
		h.logger.Warnf("Failed to parse drive command: %v", err)
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid twist payload.",
		})
	}

	h.odom.SetTwist(odometry.Twist{
		Vx:    twist.Linear.X,
		Vy:    twist.Linear.Y,
		Omega: twist.Angular.Z,
	})
	return c.JSON(fiber.Map{"message": "Drive command accepted."})
}

// handleObservations replaces one object type's tracked poses with
// externally observed ones.
func (h *FieldHandler) handleObservations(c *fiber.Ctx) error {
	if h.pieces == nil {
		return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Field simulation is not running.",
		})
	}

	var obs ObservationMsg
	if err := c.BodyParser(&obs); err != nil || obs.Type == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid observation payload.",
		})
	}

	poses := make([]geometry.Pose2D, 0, len(obs.Poses))
	for _, p := range obs.Poses {
		poses = append(poses, geometry.Pose2D{X: p.X, Y: p.Y, Theta: p.Theta})
	}
	h.pieces.SetObserved(obs.Type, poses)

	return c.JSON(fiber.Map{
		"message": "Observations applied.",
		"type":    obs.Type,
		"count":   len(poses),
	})
}

// handleGetChannels returns per-channel record statistics.
func (h *FieldHandler) handleGetChannels(c *fiber.Ctx) error {
	if h.stats == nil {
		return c.JSON(fiber.Map{"channels": fiber.Map{}})
	}
	return c.JSON(fiber.Map{"channels": h.stats.Snapshot()})
}
