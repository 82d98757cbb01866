package simulation

import (
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/open-fieldtrack/controller/pkg/config"
	"github.com/open-fieldtrack/controller/pkg/field"
	"github.com/open-fieldtrack/controller/pkg/geometry"
	customlog "github.com/open-fieldtrack/controller/pkg/log"
)

const gravity = 9.81

// GamePiece is one piece resting on the field. It owns its pose; the
// registry only holds a handle.
type GamePiece struct {
	id       uuid.UUID
	typeName string

	mu   sync.RWMutex
	pose geometry.Pose2D
}

var _ field.ObjectOn2DField = (*GamePiece)(nil)

// ID returns the piece's identity for collect/remove bookkeeping.
func (p *GamePiece) ID() uuid.UUID { return p.id }

// TypeName implements the field object contract.
func (p *GamePiece) TypeName() string { return p.typeName }

// On2DField reports that a resting piece lies on the field plane.
func (p *GamePiece) On2DField() bool { return true }

// Pose2D returns the piece's planar pose.
func (p *GamePiece) Pose2D() geometry.Pose2D {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.pose
}

// Pose3D embeds the planar pose in 3D space.
func (p *GamePiece) Pose3D() geometry.Pose3D {
	return geometry.NewPose3DFromPose2D(p.Pose2D())
}

// SetPose moves the piece, e.g. when a vision observation relocates it.
func (p *GamePiece) SetPose(pose geometry.Pose2D) {
	p.mu.Lock()
	p.pose = pose
	p.mu.Unlock()
}

// flyingPiece is a launched piece following a ballistic arc. It has no
// meaningful planar pose, so it appears on the record stream but never on the
// dashboard overlay.
type flyingPiece struct {
	typeName string
	launched time.Time
	origin   geometry.Pose2D
	vx, vy   float64
	vz       float64
}

var _ field.ObjectOnField = (*flyingPiece)(nil)

func (f *flyingPiece) TypeName() string { return f.typeName }
func (f *flyingPiece) On2DField() bool  { return false }

func (f *flyingPiece) Pose3D() geometry.Pose3D {
	t := time.Since(f.launched).Seconds()
	z := f.vz*t - 0.5*gravity*t*t
	if z < 0 {
		z = 0
	}
	pitch := math.Atan2(f.vz-gravity*t, math.Hypot(f.vx, f.vy))
	return geometry.Pose3D{
		Translation: geometry.Translation3D{
			X: f.origin.X + f.vx*t,
			Y: f.origin.Y + f.vy*t,
			Z: z,
		},
		Rotation: geometry.NewRotation3DFromEuler(0, -pitch, f.origin.Theta),
	}
}

// GamePieceService owns every simulated game piece and keeps the registry's
// membership in sync as pieces spawn, move, get collected and reset.
type GamePieceService struct {
	registry *field.Registry
	logger   customlog.Logger

	mu     sync.Mutex
	pieces map[uuid.UUID]*GamePiece
	flying map[field.ObjectOnField]time.Time
}

// NewGamePieceService creates an empty service bound to the registry.
func NewGamePieceService(registry *field.Registry, logger customlog.Logger) *GamePieceService {
	if logger == nil {
		logger = customlog.NewNopLogger()
	}
	return &GamePieceService{
		registry: registry,
		logger:   logger,
		pieces:   make(map[uuid.UUID]*GamePiece),
		flying:   make(map[field.ObjectOnField]time.Time),
	}
}

// SpawnPiece creates a piece, registers it and returns it.
func (s *GamePieceService) SpawnPiece(typeName string, pose geometry.Pose2D) *GamePiece {
	piece := &GamePiece{
		id:       uuid.New(),
		typeName: typeName,
		pose:     pose,
	}

	s.registry.AddObject(piece)

	s.mu.Lock()
	s.pieces[piece.id] = piece
	s.mu.Unlock()

	s.logger.Debugf("Spawned %s %s at (%.2f, %.2f)", typeName, piece.id, pose.X, pose.Y)
	return piece
}

// CollectPiece removes a piece from play (picked up by a robot). Returns
// false when the piece is unknown or already collected.
func (s *GamePieceService) CollectPiece(id uuid.UUID) bool {
	s.mu.Lock()
	piece, ok := s.pieces[id]
	if ok {
		delete(s.pieces, id)
	}
	s.mu.Unlock()

	if !ok {
		return false
	}

	if _, removed := s.registry.RemoveObject(piece); !removed {
		// Already drained by a field reset; nothing left to do.
		s.logger.Debugf("Piece %s was not registered at collection time", id)
	}
	return true
}

// LaunchPiece registers a ballistic piece (e.g. a shot note). It is tracked
// in 3D only and despawns automatically after the given flight time.
func (s *GamePieceService) LaunchPiece(typeName string, from geometry.Pose2D, speed, vz float64, flightTime time.Duration) field.ObjectOnField {
	sin, cos := math.Sincos(from.Theta)
	piece := &flyingPiece{
		typeName: typeName,
		launched: time.Now(),
		origin:   from,
		vx:       speed * cos,
		vy:       speed * sin,
		vz:       vz,
	}

	s.registry.AddObject(piece)

	s.mu.Lock()
	s.flying[piece] = time.Now().Add(flightTime)
	s.mu.Unlock()

	return piece
}

// Step despawns flying pieces whose flight time expired. Called once per
// control cycle.
func (s *GamePieceService) Step(time.Duration) {
	now := time.Now()

	s.mu.Lock()
	var landed []field.ObjectOnField
	for piece, deadline := range s.flying {
		if now.After(deadline) {
			landed = append(landed, piece)
			delete(s.flying, piece)
		}
	}
	s.mu.Unlock()

	for _, piece := range landed {
		s.registry.RemoveObject(piece)
	}
}

// PopulateFromConfig spawns every configured starting placement.
func (s *GamePieceService) PopulateFromConfig(cfg *config.Config) {
	for _, placement := range cfg.GamePieces {
		s.SpawnPiece(placement.Type, geometry.Pose2D{
			X:     placement.Pose.X,
			Y:     placement.Pose.Y,
			Theta: placement.Pose.Theta,
		})
	}
	s.logger.Infof("Populated %d game piece(s) from config", len(cfg.GamePieces))
}

// ResetField drains every configured piece type and repopulates the starting
// placements, the between-autonomous-attempts reset. The drain uses the
// registry's atomic type swap so a concurrent publish sees either the old or
// the new piece set, never a mix.
func (s *GamePieceService) ResetField(cfg *config.Config) {
	for _, typeName := range cfg.ObjectTypeNames() {
		drained := s.registry.ClearType(typeName)
		s.logger.Infof("Drained %d object(s) of type %s", len(drained), typeName)
	}

	s.mu.Lock()
	s.pieces = make(map[uuid.UUID]*GamePiece)
	s.flying = make(map[field.ObjectOnField]time.Time)
	s.mu.Unlock()

	s.PopulateFromConfig(cfg)
}

// SetObserved replaces the tracked pieces of one type with externally
// observed poses (the vision path). Observed pieces get fresh identities;
// vision cannot tell "the same note" apart between frames anyway.
func (s *GamePieceService) SetObserved(typeName string, poses []geometry.Pose2D) {
	drained := s.registry.ClearType(typeName)

	s.mu.Lock()
	for _, object := range drained {
		if piece, ok := object.(*GamePiece); ok {
			delete(s.pieces, piece.id)
		}
	}
	s.mu.Unlock()

	for _, pose := range poses {
		s.SpawnPiece(typeName, pose)
	}
}

// PieceCount returns the number of resting pieces currently tracked.
func (s *GamePieceService) PieceCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pieces)
}
