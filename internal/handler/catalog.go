package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kyiku/textpin-back/internal/response"
	"github.com/kyiku/textpin-back/internal/storage"
)

// ImageCatalog lists and fetches stored base images.
type ImageCatalog interface {
	ListImages() ([]storage.CatalogImage, error)
	GetImage(key string) ([]byte, error)
}

// CatalogHandler loads template images from the image catalog.
type CatalogHandler struct {
	store   SessionStoreInterface
	catalog ImageCatalog
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(store SessionStoreInterface, catalog ImageCatalog) *CatalogHandler {
	return &CatalogHandler{
		store:   store,
		catalog: catalog,
	}
}

// List returns the available images.
func (h *CatalogHandler) List(c echo.Context) error {
	images, err := h.catalog.ListImages()
	if err != nil {
		c.Logger().Errorf("failed to list catalog images: %v", err)
		return response.Error(c, http.StatusBadGateway, "画像一覧の取得に失敗しました")
	}

	return response.Success(c, map[string]interface{}{
		"images": images,
	})
}

// CatalogRequest names a catalog image.
type CatalogRequest struct {
	Key string `json:"key"`
}

// Load replaces the session's image with a catalog image.
func (h *CatalogHandler) Load(c echo.Context) error {
	sess, err := getSession(c, h.store)
	if err != nil {
		return sessionError(c, err)
	}

	var req CatalogRequest
	if err := c.Bind(&req); err != nil || req.Key == "" {
		return response.Error(c, http.StatusBadRequest, "画像のキーを指定してください")
	}

	data, err := h.catalog.GetImage(req.Key)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidKey) {
			return response.Error(c, http.StatusBadRequest, "画像のキーが不正です")
		}
		c.Logger().Errorf("failed to get catalog image %q: %v", req.Key, err)
		return response.Error(c, http.StatusNotFound, "画像が見つかりません")
	}

	return loadImage(c, sess.Do, data, req.Key)
}
