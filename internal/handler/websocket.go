package handler

import (
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/kyiku/textpin-back/internal/editor"
	wsmsg "github.com/kyiku/textpin-back/internal/websocket"
)

// WebSocketHandler streams pointer and resize events for a session.
type WebSocketHandler struct {
	store    SessionStoreInterface
	upgrader websocket.Upgrader
	idle     time.Duration
}

// NewWebSocketHandler creates a new WebSocketHandler accepting connections from allowedOrigin.
// An empty allowedOrigin accepts same-host connections only.
func NewWebSocketHandler(store SessionStoreInterface, allowedOrigin string) *WebSocketHandler {
	return &WebSocketHandler{
		store: store,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     originChecker(allowedOrigin),
		},
		idle: 2 * time.Minute,
	}
}

// SetIdleTimeout sets how long a connection may stay silent before it is closed.
func (h *WebSocketHandler) SetIdleTimeout(d time.Duration) {
	h.idle = d
}

// originChecker allows the configured origin and same-host requests.
func originChecker(allowedOrigin string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if allowedOrigin != "" && origin == allowedOrigin {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	}
}

// Connect upgrades the request and dispatches messages until the client disconnects.
func (h *WebSocketHandler) Connect(c echo.Context) error {
	sess, err := getSession(c, h.store)
	if err != nil {
		return sessionError(c, err)
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade has already written the error response.
		log.Printf("websocket upgrade failed: %v", err)
		return nil
	}
	defer conn.Close()

	dispatcher := wsmsg.NewDispatcher(conn, sess)
	defer dispatcher.Close()
	// Dragging over the socket alone keeps the session from expiring.
	dispatcher.SetOnActivity(func() { h.store.Touch(sess.ID) })

	var report editor.Report
	_ = sess.Do(func(e *editor.Editor) error {
		report = e.Report()
		return nil
	})
	if err := conn.WriteJSON(wsmsg.StateMessage{Type: wsmsg.TypeState, State: report}); err != nil {
		return nil
	}

	for {
		if h.idle > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(h.idle))
		}

		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("websocket read error (session %s): %v", sess.ID, err)
			}
			return nil
		}

		if err := dispatcher.Handle(data); err != nil {
			log.Printf("websocket write error (session %s): %v", sess.ID, err)
			return nil
		}
	}
}
