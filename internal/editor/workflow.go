package editor

import (
	"github.com/kyiku/textpin-back/internal/model"
	"github.com/kyiku/textpin-back/internal/submit"
)

// OpenConfirmation opens the submission confirmation.
func (e *Editor) OpenConfirmation() error {
	if !e.HasImage() {
		return ErrNoImage
	}
	if e.template.Submitting() {
		return ErrSubmitting
	}
	if e.template.Status == model.StatusConfirming {
		return nil
	}
	return e.template.TransitionTo(model.StatusConfirming)
}

// CloseConfirmation closes the confirmation without submitting.
func (e *Editor) CloseConfirmation() error {
	if e.template.Submitting() {
		return ErrSubmitting
	}
	if e.template.Status == model.StatusEditing {
		return nil
	}
	return e.template.TransitionTo(model.StatusEditing)
}

// BeginSubmit marks the submission pending and returns the payload to send.
// The payload is a copy; edits made while it is in flight do not change it.
func (e *Editor) BeginSubmit() (submit.Payload, error) {
	if !e.HasImage() {
		return submit.Payload{}, ErrNoImage
	}
	if e.template.Submitting() {
		return submit.Payload{}, ErrSubmitting
	}
	if e.template.Status != model.StatusConfirming {
		return submit.Payload{}, ErrNotConfirming
	}

	f := e.Frame()
	p := submit.Payload{
		Image:          e.imageData,
		Filename:       submit.DefaultFilename,
		TextSize:       e.text.Size,
		ReferencePoint: f.OriginalRef,
		Mode:           e.text.Mode,
		TextColor:      e.text.Color,
	}

	if err := e.template.TransitionTo(model.StatusSubmitting); err != nil {
		return submit.Payload{}, err
	}
	e.template.Attempts++
	return p, nil
}

// FinishSubmit records the outcome of a submission and clears the pending state.
func (e *Editor) FinishSubmit(templateID string, err error) {
	if !e.template.Submitting() {
		return
	}
	if err != nil {
		e.template.RecordFailure(err)
		return
	}
	e.template.RecordSuccess(templateID)
}
