package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/open-fieldtrack/controller/domain/diagnostic"
	"github.com/open-fieldtrack/controller/domain/odometry"
	"github.com/open-fieldtrack/controller/domain/simulation"
	"github.com/open-fieldtrack/controller/pkg/api"
	"github.com/open-fieldtrack/controller/pkg/config"
	"github.com/open-fieldtrack/controller/pkg/field"
	"github.com/open-fieldtrack/controller/pkg/geometry"
	customlog "github.com/open-fieldtrack/controller/pkg/log"
	"github.com/open-fieldtrack/controller/pkg/loop"
	"github.com/open-fieldtrack/controller/pkg/telemetry"
	"github.com/open-fieldtrack/controller/pkg/zeromq"
	"github.com/open-fieldtrack/controller/services"
)

func main() {
	configDir := flag.String("config", "config", "Directory containing controller_config.yaml")
	flag.Parse()

	// --- Bootstrap configuration and logging ---
	bootstrapCfg, err := config.LoadBootstrapConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load bootstrap config: %v\n", err)
	}

	logger, err := customlog.NewLogrusLogger(bootstrapCfg.Logging.Level, bootstrapCfg.Logging.LogPath)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	logger.Infof("Field tracking controller starting")

	// --- Operational field configuration ---
	fieldConfigPath := bootstrapCfg.Data.Directory + "/" + bootstrapCfg.Data.FieldConfigFile
	configService, err := services.NewFieldConfigService(fieldConfigPath, logger)
	if err != nil {
		logger.Fatalf("Failed to create field config service: %v", err)
	}
	fieldCfg := configService.GetCurrentConfig()
	if fieldCfg == nil {
		logger.Fatalf("No usable field configuration at %s", fieldConfigPath)
	}

	// --- Telemetry sinks: dashboard broadcaster and record director ---
	broadcaster := telemetry.NewBroadcaster(logger)
	stats := telemetry.NewChannelStats()
	director := telemetry.NewRecordDirector(bootstrapCfg.ZeroMQ.RecordQueueSize, stats, logger)

	// --- ZeroMQ transport ---
	zmqService, err := zeromq.NewZeroMQService(zeromq.Options{
		RequestBindAddress: bootstrapCfg.ZeroMQ.RequestBindAddress,
		PublishBindAddress: bootstrapCfg.ZeroMQ.PublishBindAddress,
	}, logger)
	if err != nil {
		logger.Fatalf("Failed to create ZeroMQ service: %v", err)
	}
	director.RegisterSink(zeromq.NewRecordPublisher(zmqService, logger))
	configService.SetPublisher(zeromq.NewConfigNotifier(zmqService, logger))
	zeromq.RegisterFieldHandlers(zmqService, broadcaster, configService, logger)

	// --- Field registry and producers ---
	startPose := geometry.Pose2D{
		X:     fieldCfg.RobotStart.X,
		Y:     fieldCfg.RobotStart.Y,
		Theta: fieldCfg.RobotStart.Theta,
	}
	odometryService := odometry.NewOdometryService(startPose, logger)

	registry := field.NewRegistry(odometryService, broadcaster, director, logger)

	pieceService := simulation.NewGamePieceService(registry, logger)
	pieceService.PopulateFromConfig(fieldCfg)
	opponentService := simulation.NewOpponentService(registry, fieldCfg, logger)

	// --- Optional vision feed: observed piece poses over ZeroMQ SUB ---
	var poseListener *zeromq.PoseListener
	if addr := bootstrapCfg.ZeroMQ.VisionSubscribeAddr; addr != "" {
		poseListener, err = zeromq.NewPoseListener(func(record *telemetry.DecodedRecord) {
			typeName := strings.TrimPrefix(record.Path, field.RecordPathPrefix)
			if typeName == record.Path || typeName == "" || typeName == field.RobotChannel {
				logger.Debugf("Ignoring vision record on path %s", record.Path)
				return
			}
			poses := make([]geometry.Pose2D, 0, len(record.Poses))
			for _, pose := range record.Poses {
				poses = append(poses, pose.ToPose2D())
			}
			pieceService.SetObserved(typeName, poses)
		}, logger)
		if err != nil {
			logger.Fatalf("Failed to create vision pose listener: %v", err)
		}
		if err := poseListener.Start(addr); err != nil {
			logger.Fatalf("Failed to start vision pose listener on %s: %v", addr, err)
		}
	}

	// --- Publish loop ---
	period := time.Duration(bootstrapCfg.Loop.PeriodMs) * time.Millisecond
	diagnosticService := diagnostic.NewDiagnosticService(fieldCfg.RobotID, period)

	runner := loop.NewRunner(period, registry, logger)
	runner.AddStep(odometryService.Step)
	runner.AddStep(opponentService.Step)
	runner.AddStep(pieceService.Step)
	runner.AddObserver(diagnosticService.RecordCycle)

	director.Start()
	zmqService.Start()
	runner.Start()

	// --- HTTP server ---
	app := fiber.New(fiber.Config{
		AppName:      "Field Tracking Controller",
		ErrorHandler: customErrorHandler,
	})
	app.Use(fiberlogger.New())
	app.Use(recover.New())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "online",
			"service": "field tracking controller",
			"robot":   fieldCfg.RobotID,
			"season":  fieldCfg.Season,
		})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	api.RegisterConfigRoutes(app, configService, logger)

	fieldHandler := api.NewFieldHandler(broadcaster, stats, pieceService, odometryService, configService, logger)
	fieldHandler.RegisterFieldRoutes(app)

	app.Get("/api/v1/diagnostics", diagnosticService.GetMetricsHandler)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/field", websocket.New(func(conn *websocket.Conn) {
		api.FieldWebSocketHandler(conn, broadcaster, logger)
	}))

	port := bootstrapCfg.Server.HTTPPort
	if port == 0 {
		port = 8080
	}
	go func() {
		logger.Infof("HTTP server starting on port %d", port)
		if err := app.Listen(fmt.Sprintf(":%d", port)); err != nil {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Infof("Shutting down...")

	runner.Stop()
	if poseListener != nil {
		poseListener.Stop()
	}
	zmqService.Stop()
	director.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Infof("Controller exited properly")
}

// customErrorHandler renders every unhandled route error as JSON.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
