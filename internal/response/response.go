// Package response provides helpers for consistent API responses.
package response

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Error codes returned in the "code" field.
const (
	ErrCodeSessionExpired = "SESSION_EXPIRED"
	ErrCodeInvalidSession = "INVALID_SESSION"
	ErrCodeNoImage        = "NO_IMAGE"
	ErrCodeSubmitting     = "SUBMITTING"
	ErrCodeInternalError  = "INTERNAL_ERROR"
)

// Success sends a successful JSON response with the given data.
// The response will always include "error": false.
func Success(c echo.Context, data map[string]interface{}) error {
	resp := make(map[string]interface{})
	resp["error"] = false

	// Merge additional data
	for k, v := range data {
		resp[k] = v
	}

	return c.JSON(http.StatusOK, resp)
}

// Error sends an error JSON response with the given status code and message.
func Error(c echo.Context, statusCode int, message string) error {
	return c.JSON(statusCode, map[string]interface{}{
		"error":   true,
		"message": message,
	})
}

// ErrorWithCode sends an error response with a specific error code.
// This is useful for clients that need to handle specific error types.
func ErrorWithCode(c echo.Context, statusCode int, code string, message string) error {
	return c.JSON(statusCode, map[string]interface{}{
		"error":   true,
		"code":    code,
		"message": message,
	})
}

// PNG encodes img and sends it as image/png.
func PNG(c echo.Context, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}
