// Package handler provides HTTP handlers for the API.
package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kyiku/textpin-back/internal/editor"
	"github.com/kyiku/textpin-back/internal/response"
	"github.com/kyiku/textpin-back/internal/session"
)

// SessionCookieName is the cookie carrying the session ID.
const SessionCookieName = "session_id"

var (
	errNoSession      = errors.New("no session cookie")
	errInvalidSession = errors.New("invalid session")
)

// SessionStoreInterface defines the interface for session storage.
type SessionStoreInterface interface {
	Create() *session.Session
	Get(sessionID string) (*session.Session, bool)
	Touch(sessionID string) bool
}

// SessionHandler starts editing sessions.
type SessionHandler struct {
	store        SessionStoreInterface
	secureCookie bool
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(store SessionStoreInterface) *SessionHandler {
	return &SessionHandler{
		store: store,
	}
}

// SetSecureCookie marks the session cookie Secure, for deployments behind HTTPS.
func (h *SessionHandler) SetSecureCookie(secure bool) {
	h.secureCookie = secure
}

// Create starts a new session and sets its cookie.
// An existing valid session is reused so that reloading the page keeps the work.
func (h *SessionHandler) Create(c echo.Context) error {
	sess, err := getSession(c, h.store)
	if err != nil {
		sess = h.store.Create()
		c.SetCookie(&http.Cookie{
			Name:     SessionCookieName,
			Value:    sess.ID,
			Path:     "/",
			HttpOnly: true,
			Secure:   h.secureCookie,
			SameSite: http.SameSiteLaxMode,
		})
	}

	var report editor.Report
	_ = sess.Do(func(e *editor.Editor) error {
		report = e.Report()
		return nil
	})

	return response.Success(c, map[string]interface{}{
		"session_id": sess.ID,
		"state":      report,
	})
}

// getSession looks up the session named by the request cookie.
func getSession(c echo.Context, store SessionStoreInterface) (*session.Session, error) {
	cookie, err := c.Cookie(SessionCookieName)
	if err != nil || cookie == nil || cookie.Value == "" {
		return nil, errNoSession
	}

	sess, ok := store.Get(cookie.Value)
	if !ok {
		return nil, errInvalidSession
	}
	return sess, nil
}

// sessionError writes the response for a failed session lookup.
func sessionError(c echo.Context, err error) error {
	if errors.Is(err, errInvalidSession) {
		return response.ErrorWithCode(c, http.StatusUnauthorized, response.ErrCodeSessionExpired,
			"セッションの有効期限が切れました")
	}
	return response.ErrorWithCode(c, http.StatusUnauthorized, response.ErrCodeInvalidSession,
		"セッションが見つかりません")
}
