package zeromq

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/open-fieldtrack/controller/pkg/config"
	customlog "github.com/open-fieldtrack/controller/pkg/log"
	"github.com/open-fieldtrack/controller/pkg/telemetry"
)

// SnapshotProvider supplies the latest complete dashboard frame. Satisfied by
// the telemetry broadcaster.
type SnapshotProvider interface {
	Snapshot() telemetry.FieldFrame
}

// ConfigProvider supplies the current operational field configuration.
// Satisfied by the field config service.
type ConfigProvider interface {
	GetCurrentConfig() *config.Config
}

// SnapshotHandler answers FIELD_SNAPSHOT_REQUEST messages with the latest
// field frame, letting tools poll field state without a websocket.
type SnapshotHandler struct {
	provider SnapshotProvider
	logger   customlog.Logger
}

// NewSnapshotHandler creates a new handler for snapshot requests
func NewSnapshotHandler(provider SnapshotProvider, logger customlog.Logger) *SnapshotHandler {
	return &SnapshotHandler{
		provider: provider,
		logger:   logger,
	}
}

// HandleMessage processes a FIELD_SNAPSHOT_REQUEST and returns a FIELD_SNAPSHOT_RESPONSE
func (h *SnapshotHandler) HandleMessage(data []byte) ([]byte, error) {
	var msg ZeroMQMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}

	if msg.Type != MsgTypeSnapshotRequest {
		return nil, fmt.Errorf("unexpected message type: %s", msg.Type)
	}

	response := ZeroMQMessage{
		Type:      MsgTypeSnapshotResponse,
		Timestamp: float64(time.Now().Unix()),
		Data:      h.provider.Snapshot(),
	}

	responseData, err := json.Marshal(response)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize snapshot response: %w", err)
	}

	h.logger.Debugf("Sending field snapshot response (%d bytes)", len(responseData))
	return responseData, nil
}

// ConfigRequestHandler answers CONFIG_REQUEST messages with the operational
// field configuration, so external producers can learn the season object set.
type ConfigRequestHandler struct {
	provider ConfigProvider
	logger   customlog.Logger
}

// NewConfigRequestHandler creates a new handler for configuration requests
func NewConfigRequestHandler(provider ConfigProvider, logger customlog.Logger) *ConfigRequestHandler {
	return &ConfigRequestHandler{
		provider: provider,
		logger:   logger,
	}
}

// HandleMessage processes a CONFIG_REQUEST message and returns a CONFIG_RESPONSE
func (h *ConfigRequestHandler) HandleMessage(data []byte) ([]byte, error) {
	var msg ZeroMQMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}

	if msg.Type != MsgTypeConfigRequest {
		return nil, fmt.Errorf("unexpected message type: %s", msg.Type)
	}

	cfg := h.provider.GetCurrentConfig()
	if cfg == nil {
		return nil, fmt.Errorf("no operational field configuration loaded")
	}

	response := ZeroMQMessage{
		Type:      MsgTypeConfigResponse,
		Timestamp: float64(time.Now().Unix()),
		Data:      cfg,
	}

	responseData, err := json.Marshal(response)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize config response: %w", err)
	}

	h.logger.Debugf("Sending field config response (%d bytes)", len(responseData))
	return responseData, nil
}

// RegisterFieldHandlers wires the standard request handlers into the service.
func RegisterFieldHandlers(service *ZeroMQService, snapshots SnapshotProvider, configs ConfigProvider, logger customlog.Logger) {
	service.RegisterHandler(MsgTypeSnapshotRequest, NewSnapshotHandler(snapshots, logger))
	service.RegisterHandler(MsgTypeConfigRequest, NewConfigRequestHandler(configs, logger))
	logger.Infof("Registered field snapshot and config request handlers")
}
