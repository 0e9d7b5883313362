package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/backend/internal/storage"
)

type UploadHandler struct {
	Store *storage.ImageStore
}

// Upload accepts a multipart "image" file and stores it in the image bucket.
func (h *UploadHandler) Upload(c echo.Context) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "image file is required")
	}

	key, err := h.Store.Upload(c.Request().Context(), fileHeader)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	url, err := h.Store.PresignedURL(c.Request().Context(), key)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{"image": key, "url": url})
}
