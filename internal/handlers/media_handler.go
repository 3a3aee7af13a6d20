package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/anonto42/pixgram/backend/pkg/media"
	"github.com/labstack/echo/v4"
)

// MediaHandler accepts uploads and streams stored objects back
type MediaHandler struct {
	uploader *media.Uploader
}

func NewMediaHandler(uploader *media.Uploader) *MediaHandler {
	return &MediaHandler{uploader: uploader}
}

// RegisterUploadRoutes registers the authenticated upload route
func (h *MediaHandler) RegisterUploadRoutes(g *echo.Group) {
	g.POST("/media", h.Upload)
}

// RegisterPublicRoutes registers the unauthenticated download route
func (h *MediaHandler) RegisterPublicRoutes(g *echo.Group) {
	g.GET("/media/:key", h.Download)
}

// Upload stores the multipart "file" field and returns its reference
func (h *MediaHandler) Upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing file field")
	}
	src, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Unreadable upload")
	}
	defer src.Close()

	key, err := h.uploader.Upload(c.Request().Context(), fh.Filename, src, fh.Size)
	switch {
	case errors.Is(err, media.ErrUnsupportedType), errors.Is(err, media.ErrEmpty):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, media.ErrTooLarge):
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, err.Error())
	case err != nil:
		return serviceError(c, err)
	}
	return success(c, http.StatusCreated, echo.Map{
		"key": key,
		"url": media.URL(key),
	})
}

// Download streams a stored object
func (h *MediaHandler) Download(c echo.Context) error {
	obj, err := h.uploader.Store().Open(c.Request().Context(), c.Param("key"))
	if errors.Is(err, media.ErrObjectNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Media not found")
	}
	if err != nil {
		return serviceError(c, err)
	}
	defer obj.Close()

	c.Response().Header().Set(echo.HeaderContentLength, strconv.FormatInt(obj.Size, 10))
	c.Response().Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	c.Response().Header().Set(echo.HeaderXContentTypeOptions, "nosniff")
	c.Response().Header().Set(echo.HeaderContentDisposition, "inline")
	return c.Stream(http.StatusOK, obj.ContentType, obj)
}
