package websocket

import (
	"github.com/kyiku/textpin-back/internal/model"
)

// PingHandler answers ping messages with pong.
type PingHandler struct {
	conn model.WebSocketConn
}

// NewPingHandler creates a new PingHandler.
func NewPingHandler(conn model.WebSocketConn) *PingHandler {
	return &PingHandler{
		conn: conn,
	}
}

// Handle sends a pong and returns true if msg is a ping.
func (h *PingHandler) Handle(msg Message) (bool, error) {
	if msg.Type != TypePing {
		return false, nil
	}

	return true, h.conn.WriteJSON(map[string]interface{}{
		"type": TypePong,
	})
}

// IsPingMessage checks if a raw message is a ping without processing it.
func IsPingMessage(data []byte) bool {
	msg, err := ParseMessage(data)
	return err == nil && msg.Type == TypePing
}
