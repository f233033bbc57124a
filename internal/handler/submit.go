package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kyiku/textpin-back/internal/editor"
	"github.com/kyiku/textpin-back/internal/response"
	"github.com/kyiku/textpin-back/internal/submit"
)

// Submitter sends a template to the template service.
type Submitter interface {
	Submit(ctx context.Context, p submit.Payload) (string, error)
}

// SubmitHandler submits the confirmed template.
type SubmitHandler struct {
	store     SessionStoreInterface
	submitter Submitter
	timeout   time.Duration
}

// NewSubmitHandler creates a new SubmitHandler.
func NewSubmitHandler(store SessionStoreInterface, submitter Submitter) *SubmitHandler {
	return &SubmitHandler{
		store:     store,
		submitter: submitter,
		timeout:   30 * time.Second,
	}
}

// SetTimeout sets how long a submission may take. 0 means no limit beyond the request's.
func (h *SubmitHandler) SetTimeout(d time.Duration) {
	h.timeout = d
}

// Submit sends the template. The session stays usable while the request is in flight;
// a second submission is refused until the first one finishes.
func (h *SubmitHandler) Submit(c echo.Context) error {
	sess, err := getSession(c, h.store)
	if err != nil {
		return sessionError(c, err)
	}

	var payload submit.Payload
	err = sess.Do(func(e *editor.Editor) error {
		var beginErr error
		payload, beginErr = e.BeginSubmit()
		return beginErr
	})
	if err != nil {
		return editorError(c, err)
	}

	ctx := c.Request().Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	templateID, submitErr := h.submitter.Submit(ctx, payload)

	var report editor.Report
	_ = sess.Do(func(e *editor.Editor) error {
		e.FinishSubmit(templateID, submitErr)
		report = e.Report()
		return nil
	})

	if submitErr != nil {
		c.Logger().Errorf("template submission failed: %v", submitErr)
		return c.JSON(http.StatusBadGateway, map[string]interface{}{
			"error":   true,
			"message": "テンプレートの作成に失敗しました",
			"state":   report,
		})
	}

	return response.Success(c, map[string]interface{}{
		"template_id": templateID,
		"message":     "テンプレートを作成しました",
		"state":       report,
	})
}
