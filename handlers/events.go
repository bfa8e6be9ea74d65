package handlers

import (
	"errors"
	"net/http"

	"coursehub/i18n"
	"coursehub/middleware"
	"coursehub/models"
	"coursehub/services/events"

	"github.com/gin-gonic/gin"
)

// EventHandler serves community events and registrations.
type EventHandler struct {
	Events events.EventService
}

func (h *EventHandler) eventError(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, events.ErrEventNotFound):
		fail(c, http.StatusNotFound, i18n.MsgNotFound)
	case errors.Is(err, events.ErrEventFull):
		fail(c, http.StatusConflict, i18n.MsgEventFull)
	case errors.Is(err, events.ErrEventStarted):
		fail(c, http.StatusConflict, i18n.MsgEventStarted)
	case errors.Is(err, events.ErrAlreadyRegistered):
		fail(c, http.StatusConflict, i18n.MsgAlreadyRegistered)
	case errors.Is(err, events.ErrNotRegistered):
		fail(c, http.StatusNotFound, i18n.MsgNotRegistered)
	case errors.Is(err, events.ErrInvalidSchedule):
		fail(c, http.StatusBadRequest, i18n.MsgInvalidSchedule)
	case errors.Is(err, events.ErrCapacityTooLow):
		failWith(c, http.StatusConflict, i18n.MsgValidationFailed, err.Error())
	default:
		internalError(c, msg, err)
	}
}

// ListEventsHandler handles GET /api/events.
func (h *EventHandler) ListEventsHandler(c *gin.Context) {
	page, size := pageParams(c)
	list, err := h.Events.ListUpcoming(c.Request.Context(), page, size)
	if err != nil {
		internalError(c, "failed to list events", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetEventHandler handles GET /api/events/:id.
func (h *EventHandler) GetEventHandler(c *gin.Context) {
	event, err := h.Events.GetEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.eventError(c, "failed to load event", err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// RegisterHandler handles POST /api/events/:id/registration.
func (h *EventHandler) RegisterHandler(c *gin.Context) {
	event, err := h.Events.Register(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		h.eventError(c, "failed to register", err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

// UnregisterHandler handles DELETE /api/events/:id/registration.
func (h *EventHandler) UnregisterHandler(c *gin.Context) {
	if err := h.Events.Unregister(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		h.eventError(c, "failed to unregister", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MyRegistrationsHandler handles GET /api/me/registrations.
func (h *EventHandler) MyRegistrationsHandler(c *gin.Context) {
	list, err := h.Events.ListMyRegistrations(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		internalError(c, "failed to list registrations", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// CreateEventHandler handles POST /api/admin/events.
func (h *EventHandler) CreateEventHandler(c *gin.Context) {
	var req models.EventRequest
	if !bindJSON(c, &req) {
		return
	}
	event, err := h.Events.CreateEvent(c.Request.Context(), middleware.CurrentActor(c), req)
	if err != nil {
		h.eventError(c, "failed to create event", err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

// UpdateEventHandler handles PUT /api/admin/events/:id.
func (h *EventHandler) UpdateEventHandler(c *gin.Context) {
	var req models.EventRequest
	if !bindJSON(c, &req) {
		return
	}
	event, err := h.Events.UpdateEvent(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.eventError(c, "failed to update event", err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// DeleteEventHandler handles DELETE /api/admin/events/:id.
func (h *EventHandler) DeleteEventHandler(c *gin.Context) {
	if err := h.Events.DeleteEvent(c.Request.Context(), c.Param("id")); err != nil {
		h.eventError(c, "failed to delete event", err)
		return
	}
	c.Status(http.StatusNoContent)
}
