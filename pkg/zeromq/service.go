package zeromq

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pebbe/zmq4"

	customlog "github.com/open-fieldtrack/controller/pkg/log"
)

// Common errors
var (
	ErrServiceClosed      = errors.New("zeromq service is closed")
	ErrInvalidMessage     = errors.New("invalid message format")
	ErrUnknownMessageType = errors.New("unknown message type")
)

// Message types for the JSON request/response envelope on the REP socket.
const (
	MsgTypeSnapshotRequest  = "FIELD_SNAPSHOT_REQUEST"
	MsgTypeSnapshotResponse = "FIELD_SNAPSHOT_RESPONSE"
	MsgTypeConfigRequest    = "CONFIG_REQUEST"
	MsgTypeConfigResponse   = "CONFIG_RESPONSE"
	MsgTypeConfigUpdated    = "CONFIG_UPDATED"
	MsgTypeError            = "ERROR"
)

// ZeroMQMessage is the JSON envelope for request/reply and notification
// traffic. Pose-record frames on the PUB socket are raw flatbuffers and do
// not use this envelope.
type ZeroMQMessage struct {
	Type      string      `json:"type"`
	Timestamp float64     `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// ErrorResponse is the Data payload of an ERROR reply.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// MessageHandler processes one request message type on the REP socket.
type MessageHandler interface {
	HandleMessage(data []byte) ([]byte, error)
}

// HandlerFunc adapts a function to the MessageHandler interface.
type HandlerFunc func(data []byte) ([]byte, error)

// HandleMessage calls the function.
func (f HandlerFunc) HandleMessage(data []byte) ([]byte, error) {
	return f(data)
}

// Options carries the socket bind addresses from the bootstrap config.
type Options struct {
	// RequestBindAddress is where the REP socket answers snapshot and
	// config requests, e.g. "tcp://*:5580".
	RequestBindAddress string
	// PublishBindAddress is where the PUB socket streams pose records,
	// e.g. "tcp://*:5581".
	PublishBindAddress string
}

// ZeroMQService owns the REP request loop and the PUB record stream.
type ZeroMQService struct {
	logger     customlog.Logger
	dispatcher *MessageDispatcher
	receiver   *messageReceiver
	sender     *messageSender
	wg         sync.WaitGroup
}

// NewZeroMQService creates the sockets and binds them. Call Start to begin
// serving requests.
func NewZeroMQService(opts Options, logger customlog.Logger) (*ZeroMQService, error) {
	if logger == nil {
		logger = customlog.NewNopLogger()
	}

	ctx, err := zmq4.NewContext()
	if err != nil {
		return nil, fmt.Errorf("failed to create zeromq context: %w", err)
	}

	dispatcher := newMessageDispatcher(logger)

	svc := &ZeroMQService{
		logger:     logger,
		dispatcher: dispatcher,
	}

	svc.receiver, err = newMessageReceiver(ctx, opts.RequestBindAddress, dispatcher, logger, &svc.wg)
	if err != nil {
		return nil, err
	}

	svc.sender, err = newMessageSender(ctx, opts.PublishBindAddress, logger)
	if err != nil {
		svc.receiver.close()
		return nil, err
	}

	return svc, nil
}

// RegisterHandler adds a handler for a request message type.
func (s *ZeroMQService) RegisterHandler(messageType string, handler MessageHandler) {
	s.dispatcher.registerHandler(messageType, handler)
}

// Start begins the request loop.
func (s *ZeroMQService) Start() {
	s.receiver.start()
}

// Stop halts the request loop and closes both sockets.
func (s *ZeroMQService) Stop() {
	s.receiver.close()
	s.sender.close()
	s.wg.Wait()
	s.logger.Infof("ZeroMQ service stopped")
}

// PublishRecord streams a raw pose-record payload under the given topic.
func (s *ZeroMQService) PublishRecord(topic string, payload []byte) error {
	return s.sender.publish(topic, payload)
}

// PublishJSON streams a JSON envelope message under the given topic.
func (s *ZeroMQService) PublishJSON(topic string, messageType string, data interface{}) error {
	msg := ZeroMQMessage{
		Type:      messageType,
		Timestamp: float64(time.Now().Unix()),
		Data:      data,
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to serialize %s message: %w", messageType, err)
	}
	return s.sender.publish(topic, payload)
}

// messageReceiver runs the REP request loop.
type messageReceiver struct {
	socket     *zmq4.Socket
	poller     *zmq4.Poller
	dispatcher *MessageDispatcher
	logger     customlog.Logger
	wg         *sync.WaitGroup

	mu      sync.Mutex
	running bool
}

func newMessageReceiver(ctx *zmq4.Context, bindAddress string, dispatcher *MessageDispatcher, logger customlog.Logger, wg *sync.WaitGroup) (*messageReceiver, error) {
	socket, err := ctx.NewSocket(zmq4.REP)
	if err != nil {
		return nil, fmt.Errorf("failed to create REP socket: %w", err)
	}

	if err := socket.Bind(bindAddress); err != nil {
		socket.Close()
		return nil, fmt.Errorf("failed to bind to %s: %w", bindAddress, err)
	}

	if err := socket.SetLinger(0); err != nil {
		socket.Close()
		return nil, fmt.Errorf("failed to set linger option: %w", err)
	}

	// Timeouts keep shutdown from hanging on a blocked socket call.
	const socketTimeout = 1 * time.Second
	if err := socket.SetRcvtimeo(socketTimeout); err != nil {
		socket.Close()
		return nil, fmt.Errorf("failed to set receive timeout: %w", err)
	}
	if err := socket.SetSndtimeo(socketTimeout); err != nil {
		socket.Close()
		return nil, fmt.Errorf("failed to set send timeout: %w", err)
	}

	poller := zmq4.NewPoller()
	poller.Add(socket, zmq4.POLLIN)

	logger.Infof("ZeroMQ request socket bound on %s", bindAddress)

	return &messageReceiver{
		socket:     socket,
		poller:     poller,
		dispatcher: dispatcher,
		logger:     logger,
		wg:         wg,
	}, nil
}

func (r *messageReceiver) start() {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.mu.Unlock()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.logger.Infof("ZeroMQ request loop started")

		for r.isRunning() {
			sockets, err := r.poller.Poll(500 * time.Millisecond)
			if err != nil {
				if r.isRunning() {
					r.logger.Errorf("Error polling request socket: %v", err)
				}
				continue
			}
			if len(sockets) == 0 {
				continue
			}

			msg, err := r.socket.RecvBytes(0)
			if err != nil {
				if r.isRunning() {
					r.logger.Errorf("Error receiving request: %v", err)
				}
				continue
			}

			response, err := r.dispatcher.dispatch(msg)
			if err != nil {
				r.logger.Errorf("Error dispatching request: %v", err)
				errorResp := ZeroMQMessage{
					Type:      MsgTypeError,
					Timestamp: float64(time.Now().Unix()),
					Data: ErrorResponse{
						Message: err.Error(),
						Code:    500,
					},
				}
				errData, _ := json.Marshal(errorResp)
				if _, err := r.socket.SendBytes(errData, 0); err != nil && r.isRunning() {
					r.logger.Errorf("Error sending error response: %v", err)
				}
				continue
			}

			if _, err := r.socket.SendBytes(response, 0); err != nil && r.isRunning() {
				r.logger.Errorf("Error sending response: %v", err)
			}
		}
	}()
}

func (r *messageReceiver) isRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

func (r *messageReceiver) close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running && r.socket == nil {
		return
	}
	r.running = false
	if r.socket != nil {
		r.socket.Close()
		r.socket = nil
	}
}

// messageSender owns the PUB socket.
type messageSender struct {
	logger customlog.Logger

	mu      sync.Mutex
	socket  *zmq4.Socket
	running bool
}

func newMessageSender(ctx *zmq4.Context, bindAddress string, logger customlog.Logger) (*messageSender, error) {
	socket, err := ctx.NewSocket(zmq4.PUB)
	if err != nil {
		return nil, fmt.Errorf("failed to create PUB socket: %w", err)
	}

	if err := socket.Bind(bindAddress); err != nil {
		socket.Close()
		return nil, fmt.Errorf("failed to bind to %s: %w", bindAddress, err)
	}

	if err := socket.SetLinger(0); err != nil {
		socket.Close()
		return nil, fmt.Errorf("failed to set linger option: %w", err)
	}

	logger.Infof("ZeroMQ publish socket bound on %s", bindAddress)

	return &messageSender{
		logger:  logger,
		socket:  socket,
		running: true,
	}, nil
}

// publish sends topic and payload as a two-part message.
func (s *messageSender) publish(topic string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return ErrServiceClosed
	}

	if _, err := s.socket.Send(topic, zmq4.SNDMORE); err != nil {
		return fmt.Errorf("failed to send topic: %w", err)
	}
	if _, err := s.socket.SendBytes(payload, 0); err != nil {
		return fmt.Errorf("failed to send payload: %w", err)
	}
	return nil
}

func (s *messageSender) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.running = false
	if s.socket != nil {
		s.socket.Close()
		s.socket = nil
	}
}

// MessageDispatcher routes REP requests to the handler registered for their
// envelope type.
type MessageDispatcher struct {
	logger   customlog.Logger
	mu       sync.RWMutex
	handlers map[string]MessageHandler
}

func newMessageDispatcher(logger customlog.Logger) *MessageDispatcher {
	return &MessageDispatcher{
		logger:   logger,
		handlers: make(map[string]MessageHandler),
	}
}

func (d *MessageDispatcher) registerHandler(messageType string, handler MessageHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[messageType] = handler
	d.logger.Infof("Registered handler for message type: %s", messageType)
}

func (d *MessageDispatcher) dispatch(data []byte) ([]byte, error) {
	var msg ZeroMQMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}

	d.mu.RLock()
	handler, exists := d.handlers[msg.Type]
	d.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMessageType, msg.Type)
	}
	return handler.HandleMessage(data)
}
