package handler

import (
	"bytes"
	"image/png"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyiku/textpin-back/internal/editor"
	"github.com/kyiku/textpin-back/internal/layout"
	"github.com/kyiku/textpin-back/internal/testutil"
)

func TestTemplateHandler_UploadImage(t *testing.T) {
	tests := []struct {
		name       string
		field      string
		data       []byte
		maxBytes   int64
		wantStatus int
		wantWidth  int
	}{
		{
			name:       "正常系: PNGアップロード",
			field:      "image",
			data:       testutil.CreateTestPNG(320, 240),
			wantStatus: http.StatusOK,
			wantWidth:  320,
		},
		{
			name:       "正常系: JPEGアップロード",
			field:      "image",
			data:       testutil.CreateTestJPEG(64, 32),
			wantStatus: http.StatusOK,
			wantWidth:  64,
		},
		{
			name:       "異常系: ファイルなし",
			field:      "",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "異常系: 画像ではない",
			field:      "image",
			data:       []byte("plain text"),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "異常系: サイズ超過",
			field:      "image",
			data:       testutil.CreateTestPNG(64, 64),
			maxBytes:   10,
			wantStatus: http.StatusRequestEntityTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t)
			sess := store.Create()
			h := NewTemplateHandler(store)
			if tt.maxBytes > 0 {
				h.SetMaxUploadBytes(tt.maxBytes)
			}
			tc := newMultipartContext(t, "/api/template/image", sess.ID, tt.field, "upload.png", tt.data)

			err := h.UploadImage(tc.Context)

			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, tc.GetResponseCode())
			if tt.wantStatus != http.StatusOK {
				assert.Equal(t, true, tc.GetResponseBody()["error"])
				return
			}
			state := stateOf(t, tc)
			assert.Equal(t, tt.wantWidth, state.Image.Width)
		})
	}
}

func TestTemplateHandler_SetContainer(t *testing.T) {
	tests := []struct {
		name        string
		body        interface{}
		wantStatus  int
		wantDisplay layout.DisplayExtent
	}{
		{
			name:        "正常系: 横長コンテナ",
			body:        map[string]interface{}{"width": 400, "height": 100},
			wantStatus:  http.StatusOK,
			wantDisplay: layout.DisplayExtent{Width: 200, Height: 100},
		},
		{
			name:       "異常系: 負のサイズ",
			body:       map[string]interface{}{"width": -1, "height": 100},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "異常系: 不正なJSON",
			body:       "not an object",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t)
			sess := newSessionWithImage(t, store)
			h := NewTemplateHandler(store)
			tc := newJSONContext(http.MethodPut, "/api/template/container", sess.ID, tt.body)

			err := h.SetContainer(tc.Context)

			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, tc.GetResponseCode())
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantDisplay, stateOf(t, tc).Display)
			}
		})
	}
}

func TestTemplateHandler_UpdateText(t *testing.T) {
	tests := []struct {
		name       string
		body       map[string]interface{}
		wantStatus int
		wantText   layout.TextSpec
	}{
		{
			name: "正常系: すべて更新",
			body: map[string]interface{}{
				"content": "ようこそ",
				"size":    32,
				"color":   "#00ff00",
				"mode":    "left",
			},
			wantStatus: http.StatusOK,
			wantText:   layout.TextSpec{Content: "ようこそ", Size: 32, Color: "#00ff00", Mode: layout.AnchorLeft},
		},
		{
			name:       "正常系: 文字列のサイズ",
			body:       map[string]interface{}{"size": "24.5"},
			wantStatus: http.StatusOK,
			wantText:   layout.TextSpec{Content: "Sample Text", Size: 24.5, Color: "#000000", Mode: layout.AnchorCenter},
		},
		{
			name:       "正常系: 負のサイズは0",
			body:       map[string]interface{}{"size": -3},
			wantStatus: http.StatusOK,
			wantText:   layout.TextSpec{Content: "Sample Text", Size: 0, Color: "#000000", Mode: layout.AnchorCenter},
		},
		{
			name:       "正常系: #なしの色",
			body:       map[string]interface{}{"color": "abc"},
			wantStatus: http.StatusOK,
			wantText:   layout.TextSpec{Content: "Sample Text", Size: 48, Color: "#abc", Mode: layout.AnchorCenter},
		},
		{
			name:       "異常系: 数値でないサイズ",
			body:       map[string]interface{}{"content": "changed", "size": "big"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "異常系: 不正な色",
			body:       map[string]interface{}{"content": "changed", "color": "#12"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "異常系: 不正な配置",
			body:       map[string]interface{}{"content": "changed", "mode": "top"},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t)
			sess := store.Create()
			h := NewTemplateHandler(store)
			tc := newJSONContext(http.MethodPut, "/api/template/text", sess.ID, tt.body)

			err := h.UpdateText(tc.Context)

			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, tc.GetResponseCode())

			var text layout.TextSpec
			_ = sess.Do(func(e *editor.Editor) error {
				text = e.Report().Text
				return nil
			})
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantText, text)
			} else {
				// 不正な値があれば何も反映されない
				assert.Equal(t, layout.DefaultTextSpec(), text)
			}
		})
	}
}

func TestTemplateHandler_Pointer(t *testing.T) {
	store := newTestStore(t)
	sess := newSessionWithImage(t, store)
	h := NewTemplateHandler(store)

	events := []map[string]interface{}{
		{"type": "down", "x": 200, "y": 100},
		{"type": "move", "x": 100, "y": 50},
		{"type": "up"},
	}
	var last *testutil.TestContext
	for _, ev := range events {
		last = newJSONContext(http.MethodPost, "/api/template/pointer", sess.ID, ev)
		require.NoError(t, h.Pointer(last.Context))
		require.Equal(t, http.StatusOK, last.GetResponseCode())
	}

	state := stateOf(t, last)
	assert.Equal(t, layout.PixelPoint{X: 50, Y: 25}, state.ReferencePoint)
	assert.False(t, state.Drag.Active)

	tc := newJSONContext(http.MethodPost, "/api/template/pointer", sess.ID, map[string]interface{}{"type": "click"})
	require.NoError(t, h.Pointer(tc.Context))
	assert.Equal(t, http.StatusBadRequest, tc.GetResponseCode())
}

func TestTemplateHandler_Overlay(t *testing.T) {
	t.Run("正常系: 画像あり", func(t *testing.T) {
		store := newTestStore(t)
		sess := newSessionWithImage(t, store)
		h := NewTemplateHandler(store)
		tc := newJSONContext(http.MethodGet, "/api/template/overlay", sess.ID, nil)

		require.NoError(t, h.Overlay(tc.Context))

		assert.Equal(t, http.StatusOK, tc.GetResponseCode())
		ins, ok := tc.GetResponseBody()["instructions"].([]interface{})
		require.True(t, ok)
		assert.Len(t, ins, 8)
	})

	t.Run("正常系: 画像なしは空", func(t *testing.T) {
		store := newTestStore(t)
		sess := store.Create()
		h := NewTemplateHandler(store)
		tc := newJSONContext(http.MethodGet, "/api/template/overlay", sess.ID, nil)

		require.NoError(t, h.Overlay(tc.Context))

		ins, ok := tc.GetResponseBody()["instructions"].([]interface{})
		require.True(t, ok)
		assert.Empty(t, ins)
	})
}

func TestTemplateHandler_Render(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		call       func(*TemplateHandler, echo.Context) error
		withImage  bool
		wantStatus int
		wantWidth  int
		wantHeight int
	}{
		{
			name:       "正常系: オーバーレイ",
			path:       "/api/template/render.png",
			call:       (*TemplateHandler).Render,
			withImage:  true,
			wantStatus: http.StatusOK,
			wantWidth:  400,
			wantHeight: 200,
		},
		{
			name:       "正常系: 完成イメージ",
			path:       "/api/template/render.png?view=simulation",
			call:       (*TemplateHandler).Render,
			withImage:  true,
			wantStatus: http.StatusOK,
			wantWidth:  400,
			wantHeight: 200,
		},
		{
			name:       "正常系: プレビュー",
			path:       "/api/template/preview.png",
			call:       (*TemplateHandler).Preview,
			withImage:  true,
			wantStatus: http.StatusOK,
			wantWidth:  300,
			wantHeight: 150,
		},
		{
			name:       "異常系: 画像なし",
			path:       "/api/template/render.png",
			call:       (*TemplateHandler).Render,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t)
			sess := store.Create()
			if tt.withImage {
				sess = newSessionWithImage(t, store)
			}
			h := NewTemplateHandler(store)
			tc := newJSONContext(http.MethodGet, tt.path, sess.ID, nil)

			require.NoError(t, tt.call(h, tc.Context))

			assert.Equal(t, tt.wantStatus, tc.GetResponseCode())
			if tt.wantStatus != http.StatusOK {
				assert.Equal(t, testutil.ErrCodeNoImage, tc.GetResponseBody()["code"])
				return
			}
			img, err := png.Decode(bytes.NewReader(tc.Recorder.Body.Bytes()))
			require.NoError(t, err)
			assert.Equal(t, tt.wantWidth, img.Bounds().Dx())
			assert.Equal(t, tt.wantHeight, img.Bounds().Dy())
		})
	}
}

func TestTemplateHandler_Confirmation(t *testing.T) {
	store := newTestStore(t)
	sess := newSessionWithImage(t, store)
	h := NewTemplateHandler(store)

	tc := newJSONContext(http.MethodPost, "/api/template/confirm", sess.ID, nil)
	require.NoError(t, h.OpenConfirmation(tc.Context))
	assert.Equal(t, http.StatusOK, tc.GetResponseCode())
	assert.Equal(t, "confirming", stateOf(t, tc).Status)

	tc = newJSONContext(http.MethodDelete, "/api/template/confirm", sess.ID, nil)
	require.NoError(t, h.CloseConfirmation(tc.Context))
	assert.Equal(t, http.StatusOK, tc.GetResponseCode())
	assert.Equal(t, "editing", stateOf(t, tc).Status)

	// 画像なしでは確認できない
	empty := store.Create()
	tc = newJSONContext(http.MethodPost, "/api/template/confirm", empty.ID, nil)
	require.NoError(t, h.OpenConfirmation(tc.Context))
	assert.Equal(t, http.StatusBadRequest, tc.GetResponseCode())
}
