// Package websocket provides WebSocket message handling for editing sessions.
package websocket

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kyiku/textpin-back/internal/editor"
	"github.com/kyiku/textpin-back/internal/layout"
)

// Message types
const (
	TypePing         = "ping"
	TypePong         = "pong"
	TypePointerDown  = "pointer_down"
	TypePointerMove  = "pointer_move"
	TypePointerUp    = "pointer_up"
	TypePointerLeave = "pointer_leave"
	TypeResize       = "resize"
	TypeState        = "state"
	TypeError        = "error"
)

// ErrInvalidMessage is returned for messages that cannot be parsed.
var ErrInvalidMessage = errors.New("invalid message")

// Message is a message received from the client.
// Pointer messages carry X, Y and Shift in displayed pixels; resize messages carry Width and Height.
type Message struct {
	Type   string  `json:"type"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Shift  bool    `json:"shift"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Point returns the pointer position of the message.
func (m Message) Point() layout.Point {
	return layout.Point{X: m.X, Y: m.Y}
}

// Extent returns the container size of a resize message.
func (m Message) Extent() layout.DisplayExtent {
	return layout.DisplayExtent{Width: m.Width, Height: m.Height}
}

// ParseMessage decodes a client message.
func ParseMessage(data []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	if msg.Type == "" {
		return Message{}, fmt.Errorf("%w: missing type", ErrInvalidMessage)
	}
	return msg, nil
}

// StateMessage is sent after every handled message.
type StateMessage struct {
	Type  string        `json:"type"`
	State editor.Report `json:"state"`
}

// ErrorMessage is sent when a message cannot be handled.
type ErrorMessage struct {
	Type    string `json:"type"`
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

func newErrorMessage(message string) ErrorMessage {
	return ErrorMessage{Type: TypeError, Error: true, Message: message}
}
