// Package model provides data models for the application.
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status constants for the template workflow
const (
	StatusEditing    = "editing"
	StatusConfirming = "confirming"
	StatusSubmitting = "submitting"
)

// WebSocketConn defines the interface for WebSocket connections.
type WebSocketConn interface {
	WriteMessage(messageType int, data []byte) error
	WriteJSON(v interface{}) error
	Close() error
}

// Template tracks the submission workflow of one template being edited.
type Template struct {
	ID        string    // UUID
	Status    string    // Current status
	CreatedAt time.Time // When editing started

	// Submission fields
	TemplateID  string    // Identifier returned by the last successful submission
	LastError   string    // Message of the last failed submission
	Attempts    int       // Number of submissions sent
	SubmittedAt time.Time // When the last submission succeeded
}

// NewTemplate creates a new Template in the editing state.
func NewTemplate() *Template {
	return &Template{
		ID:        uuid.New().String(),
		Status:    StatusEditing,
		CreatedAt: time.Now(),
	}
}

// validTransitions defines allowed status transitions.
var validTransitions = map[string][]string{
	StatusEditing:    {StatusConfirming},
	StatusConfirming: {StatusEditing, StatusSubmitting},
	StatusSubmitting: {StatusEditing, StatusConfirming},
}

// CanTransitionTo checks if the template can transition to the given status.
func (t *Template) CanTransitionTo(status string) bool {
	allowedStatuses, ok := validTransitions[t.Status]
	if !ok {
		return false
	}

	for _, allowed := range allowedStatuses {
		if allowed == status {
			return true
		}
	}
	return false
}

// TransitionTo moves the template to the given status if the transition is allowed.
func (t *Template) TransitionTo(status string) error {
	if !t.CanTransitionTo(status) {
		return fmt.Errorf("cannot transition from %s to %s", t.Status, status)
	}
	t.Status = status
	return nil
}

// Submitting reports whether a submission is pending.
func (t *Template) Submitting() bool {
	return t.Status == StatusSubmitting
}

// RecordSuccess stores the identifier of a successful submission and closes the confirmation.
func (t *Template) RecordSuccess(templateID string) {
	t.TemplateID = templateID
	t.LastError = ""
	t.SubmittedAt = time.Now()
	t.Status = StatusEditing
}

// RecordFailure stores the failure and returns to the confirmation so the user can retry.
func (t *Template) RecordFailure(err error) {
	t.LastError = err.Error()
	t.Status = StatusConfirming
}

// Reset returns the template to editing and forgets the previous submission.
// This is called when a new image is loaded.
func (t *Template) Reset() {
	t.Status = StatusEditing
	t.TemplateID = ""
	t.LastError = ""
	t.Attempts = 0
	t.SubmittedAt = time.Time{}
}
