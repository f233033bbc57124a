// Package session provides session management functionality.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kyiku/textpin-back/internal/editor"
)

// Session is one browser session and the editor it owns.
// All access to the editor goes through Do, which serializes it.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu     sync.Mutex
	editor *editor.Editor
}

// Do runs fn with exclusive access to the session's editor.
func (s *Session) Do(fn func(*editor.Editor) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.editor)
}

// close releases the editor's resources once in-flight work on it is done.
func (s *Session) close() {
	_ = s.Do(func(e *editor.Editor) error { return e.Close() })
}

// sessionEntry holds a session and its last access time for expiry checking.
type sessionEntry struct {
	Session    *Session
	LastAccess time.Time
}

// SessionStore manages editing sessions in memory.
type SessionStore struct {
	sessions  map[string]*sessionEntry
	mu        sync.RWMutex
	expiry    time.Duration // 0 means no expiry
	newEditor func() *editor.Editor
}

// NewSessionStore creates a new SessionStore with no expiry.
func NewSessionStore(newEditor func() *editor.Editor) *SessionStore {
	return NewSessionStoreWithExpiry(newEditor, 0)
}

// NewSessionStoreWithExpiry creates a new SessionStore whose sessions expire after
// being idle for the specified duration.
func NewSessionStoreWithExpiry(newEditor func() *editor.Editor, expiry time.Duration) *SessionStore {
	return &SessionStore{
		sessions:  make(map[string]*sessionEntry),
		expiry:    expiry,
		newEditor: newEditor,
	}
}

// Create creates a new session with a fresh editor.
func (s *SessionStore) Create() *Session {
	now := time.Now()
	sess := &Session{
		ID:        uuid.New().String(),
		CreatedAt: now,
		editor:    s.newEditor(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sess.ID] = &sessionEntry{
		Session:    sess,
		LastAccess: now,
	}

	return sess
}

// Get retrieves a session by ID and refreshes its idle timer.
// Returns nil and false if the session does not exist or has expired.
func (s *SessionStore) Get(sessionID string) (*Session, bool) {
	s.mu.Lock()
	entry, exists := s.sessions[sessionID]
	if !exists {
		s.mu.Unlock()
		return nil, false
	}

	now := time.Now()
	if s.expired(entry, now) {
		delete(s.sessions, sessionID)
		s.mu.Unlock()
		entry.Session.close()
		return nil, false
	}

	entry.LastAccess = now
	s.mu.Unlock()
	return entry.Session, true
}

// Touch refreshes the idle timer of a live session without handing it out.
// It reports whether the session is still held.
func (s *SessionStore) Touch(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.sessions[sessionID]
	if !exists {
		return false
	}
	now := time.Now()
	if s.expired(entry, now) {
		return false
	}
	entry.LastAccess = now
	return true
}

// Delete removes a session by ID.
func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	entry, exists := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if exists {
		entry.Session.close()
	}
}

// Cleanup removes expired sessions and returns how many were removed.
func (s *SessionStore) Cleanup() int {
	s.mu.Lock()
	now := time.Now()
	var removed []*Session
	for id, entry := range s.sessions {
		if s.expired(entry, now) {
			delete(s.sessions, id)
			removed = append(removed, entry.Session)
		}
	}
	s.mu.Unlock()

	for _, sess := range removed {
		sess.close()
	}
	return len(removed)
}

// Count returns the number of sessions held, including expired ones not yet cleaned up.
func (s *SessionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *SessionStore) expired(entry *sessionEntry, now time.Time) bool {
	return s.expiry > 0 && now.Sub(entry.LastAccess) > s.expiry
}
