package handlers

import (
	"errors"
	"net/http"

	"coursehub/i18n"
	"coursehub/middleware"
	"coursehub/models"
	"coursehub/services/catalog"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves courses, lessons and the lead form.
type CatalogHandler struct {
	Catalog catalog.CatalogService
}

func viewer(c *gin.Context) catalog.Viewer {
	a := middleware.CurrentActor(c)
	return catalog.Viewer{UserID: a.UserID, Role: a.Role}
}

func (h *CatalogHandler) catalogError(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, catalog.ErrCourseNotFound), errors.Is(err, catalog.ErrLessonNotFound):
		fail(c, http.StatusNotFound, i18n.MsgNotFound)
	case errors.Is(err, catalog.ErrNoAccess):
		fail(c, http.StatusForbidden, i18n.MsgNoAccess)
	case errors.Is(err, catalog.ErrSlugTaken):
		fail(c, http.StatusConflict, i18n.MsgSlugTaken)
	case errors.Is(err, catalog.ErrInvalidSlug):
		failWith(c, http.StatusBadRequest, i18n.MsgValidationFailed, err.Error())
	default:
		internalError(c, msg, err)
	}
}

// ListCoursesHandler handles GET /api/courses.
func (h *CatalogHandler) ListCoursesHandler(c *gin.Context) {
	courses, err := h.Catalog.ListPublishedCourses(c.Request.Context())
	if err != nil {
		internalError(c, "failed to list courses", err)
		return
	}
	c.JSON(http.StatusOK, courses)
}

// GetCourseHandler handles GET /api/courses/:slug. Lesson videos are only included for owners.
func (h *CatalogHandler) GetCourseHandler(c *gin.Context) {
	detail, err := h.Catalog.GetCourseBySlug(c.Request.Context(), c.Param("slug"), viewer(c))
	if err != nil {
		h.catalogError(c, "failed to load course", err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// GetLessonHandler handles GET /api/lessons/:id.
func (h *CatalogHandler) GetLessonHandler(c *gin.Context) {
	lesson, err := h.Catalog.GetLesson(c.Request.Context(), c.Param("id"), viewer(c))
	if err != nil {
		h.catalogError(c, "failed to load lesson", err)
		return
	}
	c.JSON(http.StatusOK, lesson)
}

// CaptureLeadHandler handles POST /api/leads.
func (h *CatalogHandler) CaptureLeadHandler(c *gin.Context) {
	var req models.LeadRequest
	if !bindJSON(c, &req) {
		return
	}
	created, err := h.Catalog.CaptureLead(c.Request.Context(), req)
	if err != nil {
		internalError(c, "failed to capture lead", err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	message(c, status, i18n.MsgSubscribed)
}

// ListAllCoursesHandler handles GET /api/admin/courses, drafts included.
func (h *CatalogHandler) ListAllCoursesHandler(c *gin.Context) {
	courses, err := h.Catalog.ListAllCourses(c.Request.Context())
	if err != nil {
		internalError(c, "failed to list courses", err)
		return
	}
	c.JSON(http.StatusOK, courses)
}

// CreateCourseHandler handles POST /api/admin/courses.
func (h *CatalogHandler) CreateCourseHandler(c *gin.Context) {
	var req models.CourseRequest
	if !bindJSON(c, &req) {
		return
	}
	course, err := h.Catalog.CreateCourse(c.Request.Context(), req)
	if err != nil {
		h.catalogError(c, "failed to create course", err)
		return
	}
	c.JSON(http.StatusCreated, course)
}

// UpdateCourseHandler handles PUT /api/admin/courses/:id.
func (h *CatalogHandler) UpdateCourseHandler(c *gin.Context) {
	var req models.CourseRequest
	if !bindJSON(c, &req) {
		return
	}
	course, err := h.Catalog.UpdateCourse(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.catalogError(c, "failed to update course", err)
		return
	}
	c.JSON(http.StatusOK, course)
}

// CreateLessonHandler handles POST /api/admin/lessons.
func (h *CatalogHandler) CreateLessonHandler(c *gin.Context) {
	var req models.LessonRequest
	if !bindJSON(c, &req) {
		return
	}
	lesson, err := h.Catalog.CreateLesson(c.Request.Context(), req)
	if err != nil {
		h.catalogError(c, "failed to create lesson", err)
		return
	}
	c.JSON(http.StatusCreated, lesson)
}

// UpdateLessonHandler handles PUT /api/admin/lessons/:id.
func (h *CatalogHandler) UpdateLessonHandler(c *gin.Context) {
	var req models.LessonRequest
	if !bindJSON(c, &req) {
		return
	}
	lesson, err := h.Catalog.UpdateLesson(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.catalogError(c, "failed to update lesson", err)
		return
	}
	c.JSON(http.StatusOK, lesson)
}

// DeleteLessonHandler handles DELETE /api/admin/lessons/:id.
func (h *CatalogHandler) DeleteLessonHandler(c *gin.Context) {
	if err := h.Catalog.DeleteLesson(c.Request.Context(), c.Param("id")); err != nil {
		h.catalogError(c, "failed to delete lesson", err)
		return
	}
	c.Status(http.StatusNoContent)
}
