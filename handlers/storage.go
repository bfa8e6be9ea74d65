package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"coursehub/i18n"
	"coursehub/middleware"
	"coursehub/services/files"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// multipartOverhead is the allowance for form boundaries and headers on top of the file limit.
const multipartOverhead = 1 << 20

// StorageHandler serves shared file uploads and downloads.
type StorageHandler struct {
	Files    files.FileService
	MaxBytes int64
}

func (h *StorageHandler) fileError(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, files.ErrFileNotFound):
		fail(c, http.StatusNotFound, i18n.MsgNotFound)
	case errors.Is(err, files.ErrFileTooLarge):
		fail(c, http.StatusRequestEntityTooLarge, i18n.MsgFileTooLarge)
	case errors.Is(err, files.ErrFileTypeNotAllowed):
		fail(c, http.StatusUnsupportedMediaType, i18n.MsgFileTypeNotAllowed)
	case errors.Is(err, files.ErrForbidden):
		fail(c, http.StatusForbidden, i18n.MsgForbidden)
	case errors.Is(err, files.ErrStorageUnavailable):
		fail(c, http.StatusServiceUnavailable, i18n.MsgStorageUnavailable)
	default:
		internalError(c, msg, err)
	}
}

// UploadFileHandler handles POST /api/files with a multipart "file" field.
func (h *StorageHandler) UploadFileHandler(c *gin.Context) {
	if h.MaxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxBytes+multipartOverhead)
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			fail(c, http.StatusRequestEntityTooLarge, i18n.MsgFileTooLarge)
			return
		}
		failWith(c, http.StatusBadRequest, i18n.MsgInvalidRequest, "file not provided")
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		internalError(c, "failed to open upload", err)
		return
	}
	defer src.Close()

	f, err := h.Files.Upload(c.Request.Context(), middleware.CurrentActor(c), files.UploadInput{
		Name:   fileHeader.Filename,
		Size:   fileHeader.Size,
		Reader: src,
	})
	if err != nil {
		getLogger(c).Warn("upload rejected", zap.String("name", fileHeader.Filename), zap.Error(err))
		h.fileError(c, "upload failed", err)
		return
	}
	c.JSON(http.StatusCreated, f)
}

// ListFilesHandler handles GET /api/files.
func (h *StorageHandler) ListFilesHandler(c *gin.Context) {
	page, size := pageParams(c)
	res, err := h.Files.List(c.Request.Context(), page, size)
	if err != nil {
		internalError(c, "failed to list files", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// DownloadFileHandler handles GET /api/files/:id/download. ?expiresIn= is in seconds.
func (h *StorageHandler) DownloadFileHandler(c *gin.Context) {
	var expires time.Duration
	if raw := c.Query("expiresIn"); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil {
			failWith(c, http.StatusBadRequest, i18n.MsgInvalidRequest, "expiresIn must be a number of seconds")
			return
		}
		expires = time.Duration(secs) * time.Second
	}
	link, err := h.Files.DownloadURL(c.Request.Context(), c.Param("id"), expires)
	if err != nil {
		h.fileError(c, "failed to sign download", err)
		return
	}
	c.JSON(http.StatusOK, link)
}

// DeleteFileHandler handles DELETE /api/files/:id.
func (h *StorageHandler) DeleteFileHandler(c *gin.Context) {
	if err := h.Files.Delete(c.Request.Context(), middleware.CurrentActor(c), c.Param("id")); err != nil {
		h.fileError(c, "failed to delete file", err)
		return
	}
	c.Status(http.StatusNoContent)
}
