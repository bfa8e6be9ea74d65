package handlers

import (
	"errors"
	"net/http"

	"coursehub/i18n"
	"coursehub/middleware"
	"coursehub/models"
	"coursehub/services/progress"

	"github.com/gin-gonic/gin"
)

// ProgressHandler serves the course player's progress endpoints.
type ProgressHandler struct {
	Progress progress.ProgressService
}

func (h *ProgressHandler) progressError(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, progress.ErrLessonNotFound), errors.Is(err, progress.ErrCourseNotFound):
		fail(c, http.StatusNotFound, i18n.MsgNotFound)
	case errors.Is(err, progress.ErrNoAccess):
		fail(c, http.StatusForbidden, i18n.MsgNoAccess)
	case errors.Is(err, progress.ErrInvalidDuration):
		failWith(c, http.StatusBadRequest, i18n.MsgValidationFailed, err.Error())
	default:
		internalError(c, msg, err)
	}
}

// RecordProgressHandler handles PUT /api/progress/lessons/:id.
func (h *ProgressHandler) RecordProgressHandler(c *gin.Context) {
	var req models.ProgressUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	actor := middleware.CurrentActor(c)
	p, err := h.Progress.RecordProgress(c.Request.Context(), actor.UserID, actor.IsAdmin(), c.Param("id"), req)
	if err != nil {
		h.progressError(c, "failed to record progress", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// MarkCompleteHandler handles POST /api/progress/lessons/:id/complete.
func (h *ProgressHandler) MarkCompleteHandler(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	p, err := h.Progress.MarkComplete(c.Request.Context(), actor.UserID, actor.IsAdmin(), c.Param("id"))
	if err != nil {
		h.progressError(c, "failed to complete lesson", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// GetLessonProgressHandler handles GET /api/progress/lessons/:id.
func (h *ProgressHandler) GetLessonProgressHandler(c *gin.Context) {
	p, err := h.Progress.GetLessonProgress(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		h.progressError(c, "failed to load progress", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// GetCourseProgressHandler handles GET /api/progress/courses/:id.
func (h *ProgressHandler) GetCourseProgressHandler(c *gin.Context) {
	p, err := h.Progress.GetCourseProgress(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		h.progressError(c, "failed to load course progress", err)
		return
	}
	c.JSON(http.StatusOK, p)
}
