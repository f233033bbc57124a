package websocket

import (
	"errors"
	"fmt"
	"log"

	"github.com/kyiku/textpin-back/internal/editor"
	"github.com/kyiku/textpin-back/internal/model"
)

// SessionRunner runs a function with exclusive access to a session's editor.
type SessionRunner interface {
	Do(fn func(*editor.Editor) error) error
}

// Dispatcher applies the messages of one connection to a session's editor and answers
// each handled message with the editor state.
type Dispatcher struct {
	conn   model.WebSocketConn
	sess   SessionRunner
	ping   *PingHandler
	feed   *ResizeFeed
	detach func()

	onActivity func()
}

// NewDispatcher creates a Dispatcher and subscribes the editor to the connection's resize messages.
func NewDispatcher(conn model.WebSocketConn, sess SessionRunner) *Dispatcher {
	d := &Dispatcher{
		conn: conn,
		sess: sess,
		ping: NewPingHandler(conn),
		feed: NewResizeFeed(),
	}
	_ = sess.Do(func(e *editor.Editor) error {
		d.detach = e.Attach(d.feed)
		return nil
	})
	return d
}

// SetOnActivity sets a function called for every well-formed message, pings included.
func (d *Dispatcher) SetOnActivity(fn func()) {
	d.onActivity = fn
}

// Close ends the resize subscription and any drag in progress.
func (d *Dispatcher) Close() {
	_ = d.sess.Do(func(e *editor.Editor) error {
		if d.detach != nil {
			d.detach()
		}
		e.PointerLeave()
		return nil
	})
}

// Handle processes one raw message. Malformed messages are answered with an error message;
// the returned error is only set when writing to the connection fails.
func (d *Dispatcher) Handle(data []byte) error {
	msg, err := ParseMessage(data)
	if err != nil {
		return d.conn.WriteJSON(newErrorMessage("メッセージの形式が不正です"))
	}
	if d.onActivity != nil {
		d.onActivity()
	}

	if handled, err := d.ping.Handle(msg); handled {
		return err
	}

	var report editor.Report
	err = d.sess.Do(func(e *editor.Editor) error {
		if err := d.apply(e, msg); err != nil {
			return err
		}
		report = e.Report()
		return nil
	})
	if err != nil {
		log.Printf("websocket: %s: %v", msg.Type, err)
		return d.conn.WriteJSON(newErrorMessage(messageFor(err)))
	}

	return d.conn.WriteJSON(StateMessage{Type: TypeState, State: report})
}

// apply runs with the session locked.
func (d *Dispatcher) apply(e *editor.Editor, msg Message) error {
	switch msg.Type {
	case TypePointerDown:
		e.PointerDown(msg.Point(), msg.Shift)
	case TypePointerMove:
		e.PointerMove(msg.Point(), msg.Shift)
	case TypePointerUp:
		e.PointerUp()
	case TypePointerLeave:
		e.PointerLeave()
	case TypeResize:
		if msg.Width < 0 || msg.Height < 0 {
			return fmt.Errorf("%w: invalid size", ErrInvalidMessage)
		}
		d.feed.Publish(msg.Extent())
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidMessage, msg.Type)
	}
	return nil
}

func messageFor(err error) string {
	if errors.Is(err, ErrInvalidMessage) {
		return "メッセージの形式が不正です"
	}
	return "メッセージの処理に失敗しました"
}
