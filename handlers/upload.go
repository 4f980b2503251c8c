package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"zawamu/observability"
	"zawamu/upload"
)

const (
	maxUploadFile  = 10 << 20
	uploadTimeout  = 60 * time.Second
	uploadFormPart = "images"
)

type UploadHandler struct {
	uploader upload.Uploader
}

func NewUploadHandler(u upload.Uploader) *UploadHandler {
	return &UploadHandler{uploader: u}
}

func (h *UploadHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		observability.ObserveUpload("rejected", 1)
		c.JSON(http.StatusBadRequest, gin.H{"message": "No files uploaded", "error": err.Error()})
		return
	}
	files := form.File[uploadFormPart]
	for _, fh := range files {
		if fh.Size > maxUploadFile {
			observability.ObserveUpload("rejected", len(files))
			c.JSON(http.StatusBadRequest, gin.H{"message": "File too large", "error": fh.Filename + " exceeds 10MB"})
			return
		}
	}

	if err := upload.Validate(files); err != nil {
		observability.ObserveUpload("rejected", max(len(files), 1))
		switch {
		case errors.Is(err, upload.ErrNoFiles):
			c.JSON(http.StatusBadRequest, gin.H{"message": "No files uploaded"})
		case errors.Is(err, upload.ErrTooManyFiles):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Too many files", "error": err.Error()})
		case errors.Is(err, upload.ErrNotImage):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Only image files are allowed", "error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid upload", "error": err.Error()})
		}
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), uploadTimeout)
	defer cancel()

	urls, err := upload.All(ctx, h.uploader, files)
	if err != nil {
		observability.ObserveUpload("failed", len(files))
		serverError(c, "Upload failed", err)
		return
	}
	observability.ObserveUpload("ok", len(urls))
	c.JSON(http.StatusOK, gin.H{"urls": urls})
}
