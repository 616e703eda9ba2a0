package handler

import (
	"github.com/gin-gonic/gin"

	notificationapp "github.com/sfa/backend/internal/application/notification"
)

// NotificationHandler serves the caller's inbox
type NotificationHandler struct {
	BaseHandler
	notificationService *notificationapp.Service
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService *notificationapp.Service) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// CountData carries a single count
type CountData struct {
	Count int64 `json:"count"`
}

// List godoc
// @Summary      List the caller's notifications
// @Tags         notifications
// @Produce      json
// @Param        status query string false "read or unread"
// @Success      200 {object} dto.Response{data=[]notificationapp.Response,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var q notificationapp.ListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	result, err := h.notificationService.List(c.Request.Context(), actor, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page(c, result)
}

// UnreadCount returns the number of unread notifications
// @Router /notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	n, err := h.notificationService.UnreadCount(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, CountData{Count: n})
}

// MarkRead acknowledges one notification. Notifications of other users
// answer 404.
// @Router /notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	n, err := h.notificationService.MarkRead(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, n)
}

// MarkAllRead acknowledges every unread notification of the caller
// @Router /notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	n, err := h.notificationService.MarkAllRead(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, CountData{Count: n})
}
