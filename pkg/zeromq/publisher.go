package zeromq

import (
	customlog "github.com/open-fieldtrack/controller/pkg/log"
)

// RecordPublisher streams encoded pose records on the PUB socket, using the
// record's channel path as the subscription topic so replay tools can
// subscribe to individual channels ("/Field/Note") or everything ("/Field/").
// It satisfies the telemetry record-sink contract.
type RecordPublisher struct {
	service *ZeroMQService
	logger  customlog.Logger
}

// NewRecordPublisher creates a publisher on top of an existing service.
func NewRecordPublisher(service *ZeroMQService, logger customlog.Logger) *RecordPublisher {
	return &RecordPublisher{
		service: service,
		logger:  logger,
	}
}

// Name identifies the sink in logs and diagnostics.
func (p *RecordPublisher) Name() string { return "zeromq" }

// WriteRecord publishes one encoded pose record.
func (p *RecordPublisher) WriteRecord(path string, payload []byte) error {
	return p.service.PublishRecord(path, payload)
}

// ConfigNotifier publishes configuration-updated notifications for the field
// config service.
type ConfigNotifier struct {
	service *ZeroMQService
	logger  customlog.Logger
}

// NewConfigNotifier creates a notifier on top of an existing service.
func NewConfigNotifier(service *ZeroMQService, logger customlog.Logger) *ConfigNotifier {
	return &ConfigNotifier{
		service: service,
		logger:  logger,
	}
}

// PublishConfigUpdatedNotification tells subscribed collaborators (vision,
// replay tooling) that the operational field config changed and should be
// re-fetched.
func (n *ConfigNotifier) PublishConfigUpdatedNotification() error {
	n.logger.Infof("Publishing field config update notification")
	return n.service.PublishJSON("configuration.notification", MsgTypeConfigUpdated, nil)
}
