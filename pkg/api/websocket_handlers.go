package api

import (
	"errors"
	"syscall"

	"github.com/gofiber/contrib/websocket"

	customlog "github.com/open-fieldtrack/controller/pkg/log"
	"github.com/open-fieldtrack/controller/pkg/telemetry"
)

// FieldWebSocketHandler streams published field frames to a dashboard client.
// One goroutine drains the client's read side to notice disconnects; the
// handler itself writes every frame the broadcaster produces.
func FieldWebSocketHandler(conn *websocket.Conn, broadcaster *telemetry.Broadcaster, logger customlog.Logger) {
	logger.Infof("Field WebSocket connected: %s", conn.RemoteAddr())

	frames, cancel := broadcaster.Subscribe()
	defer cancel()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			// Clients never send field data; reads only surface the close.
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					logger.Errorf("Field WS read error: %v", err)
				} else if err != websocket.ErrCloseSent && !errors.Is(err, syscall.EPIPE) && !errors.Is(err, syscall.ECONNRESET) {
					logger.Infof("Field WS connection closed: %v", err)
				} else {
					logger.Infof("Field WS connection closed normally.")
				}
				return
			}
		}
	}()

	// Send the latest frame immediately so a fresh client doesn't wait a
	// full cycle for its first render.
	if err := conn.WriteJSON(broadcaster.Snapshot()); err != nil {
		logger.Infof("Field WS initial write failed: %v", err)
		return
	}

	for {
		select {
		case <-closed:
			logger.Infof("Field WebSocket disconnected: %s", conn.RemoteAddr())
			return
		case frame, ok := <-frames:
			if !ok {
				return
			}
			if err := conn.WriteJSON(frame); err != nil {
				logger.Infof("Field WS write failed, dropping client: %v", err)
				return
			}
		}
	}
}
