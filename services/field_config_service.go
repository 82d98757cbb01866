package services

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/open-fieldtrack/controller/pkg/config"
	customlog "github.com/open-fieldtrack/controller/pkg/log"
)

// ValidationError marks a config update rejected for content reasons, as
// opposed to I/O failures while persisting it.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

// IsValidationError reports whether err is a config validation failure.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ConfigPublisher notifies collaborators that the field configuration
// changed. Defined here as an interface to avoid a direct dependency on the
// ZeroMQ implementation.
type ConfigPublisher interface {
	PublishConfigUpdatedNotification() error
}

// FieldConfigService manages the operational field configuration: the season
// object set, game piece placements and opponent definitions.
type FieldConfigService interface {
	LoadConfig() error
	GetCurrentConfig() *config.Config
	GetCurrentConfigYAML() ([]byte, error)
	UpdateConfig(newConfigYAML []byte) error
	SetPublisher(p ConfigPublisher)
}

// fieldConfigService implements the FieldConfigService interface.
type fieldConfigService struct {
	configPath      string
	logger          customlog.Logger
	configPublisher ConfigPublisher
	currentConfig   *config.Config
	mu              sync.RWMutex
}

// NewFieldConfigService creates a FieldConfigService for the given config
// file. The publisher can be injected later via SetPublisher. A failed
// initial load is logged but does not prevent service creation; the config
// can still arrive through the API.
func NewFieldConfigService(configPath string, logger customlog.Logger) (FieldConfigService, error) {
	if configPath == "" {
		return nil, fmt.Errorf("field configuration path cannot be empty")
	}
	if logger == nil {
		logger = customlog.NewNopLogger()
	}

	service := &fieldConfigService{
		configPath: configPath,
		logger:     logger,
	}

	if err := service.LoadConfig(); err != nil {
		logger.Warnf("Initial load of field config '%s' failed: %v. Service created, but config is nil.", configPath, err)
		return service, nil
	}

	logger.Infof("FieldConfigService initialized for path: %s", configPath)
	return service, nil
}

// LoadConfig reads the field config file from disk and replaces the current
// in-memory configuration.
func (s *fieldConfigService) LoadConfig() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Infof("Loading field configuration from: %s", s.configPath)
	cfg, err := config.LoadConfig(s.configPath)
	if err != nil {
		s.currentConfig = nil
		return fmt.Errorf("error loading field config '%s': %w", s.configPath, err)
	}

	s.currentConfig = cfg
	s.logger.Infof("Loaded field configuration ID: %s, season: %s, %d object type(s)",
		cfg.ConfigID, cfg.Season, len(cfg.ObjectTypes))
	return nil
}

// GetCurrentConfig returns the currently loaded configuration. Treat it as
// read-only; modifications go through UpdateConfig.
func (s *fieldConfigService) GetCurrentConfig() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentConfig
}

// GetCurrentConfigYAML reads the config file from disk and returns its raw
// YAML, for the dashboard's config editor.
func (s *fieldConfigService) GetCurrentConfigYAML() ([]byte, error) {
	s.mu.RLock()
	path := s.configPath
	s.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading field config file '%s': %w", path, err)
	}
	return data, nil
}

// UpdateConfig validates, stamps, persists and applies a new configuration,
// then notifies subscribed collaborators.
func (s *fieldConfigService) UpdateConfig(newConfigYAML []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var newCfg config.Config
	if err := yaml.Unmarshal(newConfigYAML, &newCfg); err != nil {
		return &ValidationError{msg: fmt.Sprintf("invalid YAML format: %v", err)}
	}

	if newCfg.RobotID == "" || newCfg.Season == "" {
		return &ValidationError{msg: "validation failed: missing required fields (RobotID, Season)"}
	}
	for _, placement := range newCfg.GamePieces {
		if _, ok := newCfg.GetObjectType(placement.Type); !ok {
			return &ValidationError{msg: fmt.Sprintf("validation failed: game piece placement references undeclared type %q", placement.Type)}
		}
	}

	// Stamp a new revision so collaborators can tell this apart from the
	// config they already hold.
	newCfg.ConfigID = uuid.NewString()
	newCfg.LastUpdated = time.Now().UTC().Format(time.RFC3339)

	stamped, err := yaml.Marshal(&newCfg)
	if err != nil {
		return fmt.Errorf("failed to serialize stamped config: %w", err)
	}

	if err := s.persistConfigUnlocked(stamped); err != nil {
		return err
	}

	oldID := "N/A"
	if s.currentConfig != nil {
		oldID = s.currentConfig.ConfigID
	}
	s.currentConfig = &newCfg
	s.logger.Infof("Updated field configuration. ID %s -> %s, season: %s", oldID, newCfg.ConfigID, newCfg.Season)

	if s.configPublisher != nil {
		// Notify off the lock path; a slow subscriber must not stall updates.
		go func(publisher ConfigPublisher) {
			if err := publisher.PublishConfigUpdatedNotification(); err != nil {
				s.logger.Warnf("Failed to publish config update notification: %v", err)
			}
		}(s.configPublisher)
	}

	return nil
}

// persistConfigUnlocked writes the config file. The caller holds the lock.
func (s *fieldConfigService) persistConfigUnlocked(yamlData []byte) error {
	if err := os.WriteFile(s.configPath, yamlData, 0644); err != nil {
		return fmt.Errorf("error writing field config file '%s': %w", s.configPath, err)
	}
	s.logger.Infof("Persisted field configuration to %s", s.configPath)
	return nil
}

// SetPublisher injects the ConfigPublisher after initialization.
func (s *fieldConfigService) SetPublisher(p ConfigPublisher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configPublisher = p
}
