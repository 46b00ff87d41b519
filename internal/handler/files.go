package handler

import (
	"errors"
	"mime"
	"net/http"
	"strconv"

	"accessibilityhire/internal/apperr"
	"accessibilityhire/internal/model"
	"accessibilityhire/pkg/storage"

	"github.com/gin-gonic/gin"
)

// FileHandler serves stored objects at /files/*path
type FileHandler struct {
	store storage.ObjectStore
}

func NewFileHandler(store storage.ObjectStore) *FileHandler {
	return &FileHandler{store: store}
}

// Serve handles GET /files/*path
func (h *FileHandler) Serve(c *gin.Context) {
	objectPath, err := storage.CleanPath(c.Param("path"))
	if err != nil {
		badRequest(c, "Invalid file path", "")
		return
	}

	rc, info, err := h.store.Open(c.Request.Context(), objectPath)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, model.NewCodedErrorResponse(apperr.CodeObjectNotFound, "File not found", ""))
		return
	}
	if err != nil {
		respondError(c, apperr.Provider(apperr.CodeObjectNotFound, err))
		return
	}
	defer rc.Close()

	headers := map[string]string{
		"Cache-Control":           "public, max-age=300",
		"X-Content-Type-Options":  "nosniff",
		"Content-Security-Policy": "default-src 'none'",
		"Last-Modified":           info.UpdatedAt.UTC().Format(http.TimeFormat),
		"ETag":                    strconv.Quote(strconv.FormatInt(info.UpdatedAt.UnixNano(), 36) + "-" + strconv.FormatInt(info.Size, 36)),
	}
	contentType := info.ContentType
	if !inlineContentTypes[mediaType(contentType)] {
		contentType = storage.DefaultContentType
		headers["Content-Disposition"] = "attachment"
	}
	c.DataFromReader(http.StatusOK, info.Size, contentType, rc, headers)
}

// inlineContentTypes are rendered by the browser, everything else downloads
var inlineContentTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
}

func mediaType(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return mt
}
