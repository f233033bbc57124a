package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyiku/textpin-back/internal/storage"
	"github.com/kyiku/textpin-back/internal/testutil"
)

func newTestCatalog(setup func(*testutil.MockS3Client)) *storage.S3Client {
	mockS3 := testutil.NewMockS3Client()
	setup(mockS3)
	return storage.NewS3Client(mockS3, "test-bucket", "https://test.cloudfront.net")
}

func TestCatalogHandler_List(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(*testutil.MockS3Client)
		wantStatus int
		wantCount  int
	}{
		{
			name: "正常系: 画像一覧",
			setup: func(m *testutil.MockS3Client) {
				m.Objects["images/a.png"] = testutil.CreateTestPNG(10, 10)
				m.Objects["images/b.jpg"] = testutil.CreateTestJPEG(10, 10)
			},
			wantStatus: http.StatusOK,
			wantCount:  2,
		},
		{
			name: "異常系: S3エラー",
			setup: func(m *testutil.MockS3Client) {
				m.ListErr = errors.New("unavailable")
			},
			wantStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t)
			h := NewCatalogHandler(store, newTestCatalog(tt.setup))
			tc := testutil.NewTestContext(http.MethodGet, "/api/images", nil)

			err := h.List(tc.Context)

			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, tc.GetResponseCode())
			if tt.wantStatus == http.StatusOK {
				images, ok := tc.GetResponseBody()["images"].([]interface{})
				require.True(t, ok)
				assert.Len(t, images, tt.wantCount)
			}
		})
	}
}

func TestCatalogHandler_Load(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		wantStatus int
		wantWidth  int
	}{
		{
			name:       "正常系: カタログ画像を読み込む",
			key:        "images/base.png",
			wantStatus: http.StatusOK,
			wantWidth:  120,
		},
		{
			name:       "異常系: キーなし",
			key:        "",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "異常系: 不正なキー",
			key:        "../etc/passwd",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "異常系: 存在しない画像",
			key:        "images/missing.png",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "異常系: 画像として読めない",
			key:        "images/broken.png",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t)
			sess := store.Create()
			catalog := newTestCatalog(func(m *testutil.MockS3Client) {
				m.Objects["images/base.png"] = testutil.CreateTestPNG(120, 60)
				m.Objects["images/broken.png"] = []byte("broken")
			})
			h := NewCatalogHandler(store, catalog)
			tc := newJSONContext(http.MethodPost, "/api/template/image/catalog", sess.ID,
				map[string]string{"key": tt.key})

			err := h.Load(tc.Context)

			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, tc.GetResponseCode())
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantWidth, stateOf(t, tc).Image.Width)
			}
		})
	}
}

func TestCatalogHandler_Load_NoSession(t *testing.T) {
	store := newTestStore(t)
	h := NewCatalogHandler(store, newTestCatalog(func(m *testutil.MockS3Client) {}))
	tc := newJSONContext(http.MethodPost, "/api/template/image/catalog", "", map[string]string{"key": "images/a.png"})

	require.NoError(t, h.Load(tc.Context))

	assert.Equal(t, http.StatusUnauthorized, tc.GetResponseCode())
}
