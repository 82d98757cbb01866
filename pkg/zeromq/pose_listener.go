package zeromq

import (
	"sync"
	"time"

	zmq "github.com/pebbe/zmq4"

	customlog "github.com/open-fieldtrack/controller/pkg/log"
	"github.com/open-fieldtrack/controller/pkg/telemetry"
)

// RecordApplyFunc consumes one decoded pose observation from an external
// producer. Implementations update their producer objects; they never touch
// the registry's channels directly.
type RecordApplyFunc func(rec *telemetry.DecodedRecord)

// PoseListener subscribes to pose observations published by an external
// process (the vision pipeline during a real match). Each frame is a
// PoseRecord flatbuffer on a channel-path topic.
type PoseListener struct {
	socket *zmq.Socket
	apply  RecordApplyFunc
	logger customlog.Logger

	mu      sync.Mutex
	running bool
}

// NewPoseListener creates a SUB socket subscribed to every topic.
func NewPoseListener(apply RecordApplyFunc, logger customlog.Logger) (*PoseListener, error) {
	socket, err := zmq.NewSocket(zmq.SUB)
	if err != nil {
		return nil, err
	}

	if err := socket.SetSubscribe(""); err != nil {
		socket.Close()
		return nil, err
	}

	return &PoseListener{
		socket: socket,
		apply:  apply,
		logger: logger,
	}, nil
}

// Start binds the socket and begins the receive loop.
func (l *PoseListener) Start(address string) error {
	if err := l.socket.Bind(address); err != nil {
		return err
	}

	l.mu.Lock()
	l.running = true
	l.mu.Unlock()

	go l.receiveLoop()

	l.logger.Infof("Pose listener started on %s", address)
	return nil
}

// Stop stops the receive loop and closes the socket.
func (l *PoseListener) Stop() {
	l.mu.Lock()
	l.running = false
	l.mu.Unlock()
	l.socket.Close()
}

func (l *PoseListener) isRunning() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// receiveLoop continuously receives and applies pose observations. The topic
// frame duplicates the record's path and is discarded; the payload is
// authoritative.
func (l *PoseListener) receiveLoop() {
	for l.isRunning() {
		parts, err := l.socket.RecvMessageBytes(0)
		if err != nil {
			if l.isRunning() {
				l.logger.Errorf("Error receiving pose observation: %v", err)
				time.Sleep(100 * time.Millisecond)
			}
			continue
		}

		payload := parts[len(parts)-1]
		rec, err := telemetry.DecodePoseRecord(payload)
		if err != nil {
			l.logger.Warnf("Discarding malformed pose observation: %v", err)
			continue
		}

		l.apply(rec)
		l.logger.Debugf("Applied pose observation on %s (%d poses)", rec.Path, len(rec.Poses))
	}
}
