package handler

import (
	"encoding/json"
	"errors"
	"image"
	"io"
	"log"
	"math"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kyiku/textpin-back/internal/editor"
	"github.com/kyiku/textpin-back/internal/layout"
	"github.com/kyiku/textpin-back/internal/overlay"
	"github.com/kyiku/textpin-back/internal/response"
)

// TemplateHandler edits the template of the current session.
type TemplateHandler struct {
	store          SessionStoreInterface
	maxUploadBytes int64
}

// NewTemplateHandler creates a new TemplateHandler.
func NewTemplateHandler(store SessionStoreInterface) *TemplateHandler {
	return &TemplateHandler{
		store:          store,
		maxUploadBytes: 20 << 20,
	}
}

// SetMaxUploadBytes sets the largest accepted image upload. 0 disables the limit.
func (h *TemplateHandler) SetMaxUploadBytes(n int64) {
	h.maxUploadBytes = n
}

// Get returns the current state.
func (h *TemplateHandler) Get(c echo.Context) error {
	return withEditor(c, h.store, func(e *editor.Editor) error {
		return nil
	})
}

// UploadImage replaces the image with the multipart field "image".
func (h *TemplateHandler) UploadImage(c echo.Context) error {
	sess, err := getSession(c, h.store)
	if err != nil {
		return sessionError(c, err)
	}

	file, err := c.FormFile("image")
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "画像ファイルが指定されていません")
	}
	if h.maxUploadBytes > 0 && file.Size > h.maxUploadBytes {
		return response.Error(c, http.StatusRequestEntityTooLarge, "画像ファイルが大きすぎます")
	}

	src, err := file.Open()
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "画像ファイルを開けませんでした")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "画像ファイルの読み込みに失敗しました")
	}

	return loadImage(c, sess.Do, data, file.Filename)
}

// loadImage decodes data into the session's editor and responds with the new state.
func loadImage(c echo.Context, do func(func(*editor.Editor) error) error, data []byte, filename string) error {
	var report editor.Report
	err := do(func(e *editor.Editor) error {
		if err := e.LoadImage(data, filename); err != nil {
			return err
		}
		report = e.Report()
		return nil
	})
	if errors.Is(err, editor.ErrSubmitting) {
		return editorError(c, err)
	}
	if err != nil {
		c.Logger().Warnf("failed to load image %q: %v", filename, err)
		return response.Error(c, http.StatusBadRequest, "画像を読み込めませんでした。対応している形式の画像を選択してください")
	}

	return response.Success(c, map[string]interface{}{
		"state": report,
	})
}

// ContainerRequest is the size of the area the image is shown in.
type ContainerRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// SetContainer updates the container size.
func (h *TemplateHandler) SetContainer(c echo.Context) error {
	var req ContainerRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "リクエストの解析に失敗しました")
	}
	if req.Width < 0 || req.Height < 0 {
		return response.Error(c, http.StatusBadRequest, "サイズは0以上で指定してください")
	}

	return withEditor(c, h.store, func(e *editor.Editor) error {
		e.SetContainer(layout.DisplayExtent{Width: req.Width, Height: req.Height})
		return nil
	})
}

// TextRequest updates any of the text settings. Omitted fields are left unchanged.
// Size may be a number or a numeric string.
type TextRequest struct {
	Content *string          `json:"content"`
	Size    *json.RawMessage `json:"size"`
	Color   *string          `json:"color"`
	Mode    *string          `json:"mode"`
}

// UpdateText updates the text settings. Nothing is applied when any field is invalid.
func (h *TemplateHandler) UpdateText(c echo.Context) error {
	var req TextRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "リクエストの解析に失敗しました")
	}

	var (
		size  float64
		color string
		mode  layout.AnchorMode
		err   error
	)
	if req.Size != nil {
		if size, err = parseSize(*req.Size); err != nil {
			return response.Error(c, http.StatusBadRequest, "文字サイズは数値で指定してください")
		}
	}
	if req.Color != nil {
		if color, err = layout.NormalizeHexColor(*req.Color); err != nil {
			return response.Error(c, http.StatusBadRequest, "文字色は#RGBまたは#RRGGBB形式で指定してください")
		}
	}
	if req.Mode != nil {
		if mode, err = layout.ParseAnchorMode(*req.Mode); err != nil {
			return response.Error(c, http.StatusBadRequest, "配置はcenter、left、rightのいずれかで指定してください")
		}
	}

	return withEditor(c, h.store, func(e *editor.Editor) error {
		if req.Content != nil {
			e.SetContent(*req.Content)
		}
		if req.Size != nil {
			if err := e.SetTextSizeValue(size); err != nil {
				return err
			}
		}
		if req.Color != nil {
			if err := e.SetColor(color); err != nil {
				return err
			}
		}
		if req.Mode != nil {
			if err := e.SetMode(mode.String()); err != nil {
				return err
			}
		}
		return nil
	})
}

func parseSize(raw json.RawMessage) (float64, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return layout.ParseTextSize(s)
	}

	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, layout.ErrInvalidTextSize
	}
	return math.Max(0, v), nil
}

// PointerRequest is one pointer event in displayed pixels.
type PointerRequest struct {
	Type  string  `json:"type"` // down, move, up or leave
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Shift bool    `json:"shift"`
}

// Pointer applies a pointer event.
func (h *TemplateHandler) Pointer(c echo.Context) error {
	var req PointerRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "リクエストの解析に失敗しました")
	}

	pos := layout.Point{X: req.X, Y: req.Y}
	var apply func(e *editor.Editor)
	switch strings.ToLower(req.Type) {
	case "down":
		apply = func(e *editor.Editor) { e.PointerDown(pos, req.Shift) }
	case "move":
		apply = func(e *editor.Editor) { e.PointerMove(pos, req.Shift) }
	case "up":
		apply = func(e *editor.Editor) { e.PointerUp() }
	case "leave":
		apply = func(e *editor.Editor) { e.PointerLeave() }
	default:
		return response.Error(c, http.StatusBadRequest, "typeはdown、move、up、leaveのいずれかで指定してください")
	}

	return withEditor(c, h.store, func(e *editor.Editor) error {
		apply(e)
		return nil
	})
}

// Overlay returns the overlay draw instructions.
func (h *TemplateHandler) Overlay(c echo.Context) error {
	sess, err := getSession(c, h.store)
	if err != nil {
		return sessionError(c, err)
	}

	var (
		report editor.Report
		ins    []overlay.Instruction
	)
	_ = sess.Do(func(e *editor.Editor) error {
		report = e.Report()
		ins = e.Guides()
		return nil
	})
	if ins == nil {
		ins = []overlay.Instruction{}
	}

	return response.Success(c, map[string]interface{}{
		"state":        report,
		"instructions": ins,
	})
}

// Render returns the image with the overlay as PNG. With ?view=simulation it returns the
// finished look instead of the editing guides.
func (h *TemplateHandler) Render(c echo.Context) error {
	render := (*editor.Editor).RenderOverlay
	if c.QueryParam("view") == "simulation" {
		render = (*editor.Editor).RenderSimulation
	}
	return renderPNG(c, h.store, render)
}

// Preview returns the confirmation preview as PNG.
func (h *TemplateHandler) Preview(c echo.Context) error {
	return renderPNG(c, h.store, (*editor.Editor).RenderPreview)
}

// OpenConfirmation opens the submission confirmation.
func (h *TemplateHandler) OpenConfirmation(c echo.Context) error {
	return withEditor(c, h.store, (*editor.Editor).OpenConfirmation)
}

// CloseConfirmation closes the confirmation.
func (h *TemplateHandler) CloseConfirmation(c echo.Context) error {
	return withEditor(c, h.store, (*editor.Editor).CloseConfirmation)
}

// withEditor runs fn on the session's editor and responds with the resulting state.
func withEditor(c echo.Context, store SessionStoreInterface, fn func(*editor.Editor) error) error {
	sess, err := getSession(c, store)
	if err != nil {
		return sessionError(c, err)
	}

	var report editor.Report
	err = sess.Do(func(e *editor.Editor) error {
		if err := fn(e); err != nil {
			return err
		}
		report = e.Report()
		return nil
	})
	if err != nil {
		return editorError(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"state": report,
	})
}

func renderPNG(c echo.Context, store SessionStoreInterface, render func(*editor.Editor) (image.Image, error)) error {
	sess, err := getSession(c, store)
	if err != nil {
		return sessionError(c, err)
	}

	var img image.Image
	err = sess.Do(func(e *editor.Editor) error {
		var renderErr error
		img, renderErr = render(e)
		return renderErr
	})
	if err != nil {
		return editorError(c, err)
	}

	return response.PNG(c, img)
}

// editorError maps editor errors to responses.
func editorError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, editor.ErrNoImage):
		return response.ErrorWithCode(c, http.StatusBadRequest, response.ErrCodeNoImage,
			"画像がアップロードされていません")
	case errors.Is(err, editor.ErrSubmitting):
		return response.ErrorWithCode(c, http.StatusConflict, response.ErrCodeSubmitting,
			"送信中です。しばらくお待ちください")
	case errors.Is(err, editor.ErrNotConfirming):
		return response.Error(c, http.StatusConflict, "送信内容を確認してから送信してください")
	case errors.Is(err, layout.ErrInvalidTextSize), errors.Is(err, layout.ErrInvalidColor),
		errors.Is(err, layout.ErrInvalidAnchorMode):
		return response.Error(c, http.StatusBadRequest, "入力値が不正です")
	}

	log.Printf("editor error: %v", err)
	return response.ErrorWithCode(c, http.StatusInternalServerError, response.ErrCodeInternalError,
		"サーバーエラーが発生しました")
}
