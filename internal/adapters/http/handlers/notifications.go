package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stackit/interaction/internal/adapters/http/dto"
	"github.com/stackit/interaction/internal/adapters/http/middleware"
	"github.com/stackit/interaction/internal/app"
)

// NotificationHandler exposes the notification list and its read-flag
// intents.
type NotificationHandler struct {
	notifications *app.NotificationService
}

// NewNotificationHandler creates a notification handler.
func NewNotificationHandler(notifications *app.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List handles GET /api/v1/notifications.
// The unread count in the response is derived from the list; clients
// never maintain their own counter.
func (h *NotificationHandler) List(c *gin.Context) {
	session := middleware.GetSession(c)

	if c.Query("refresh") == "true" {
		if err := h.notifications.Refresh(c.Request.Context(), session); err != nil {
			dto.HandleError(c, err)
			return
		}
	}

	list, unread := h.notifications.List(session)

	c.JSON(http.StatusOK, dto.NewNotificationListResponse(list, unread))
}

// MarkRead handles POST /api/v1/notifications/:id/read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	session := middleware.GetSession(c)

	err := h.notifications.MarkRead(c.Request.Context(), session, c.Param("id"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	list, unread := h.notifications.List(session)

	c.JSON(http.StatusOK, dto.NewNotificationListResponse(list, unread))
}

// MarkAllRead handles POST /api/v1/notifications/read-all.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	session := middleware.GetSession(c)

	err := h.notifications.MarkAllRead(c.Request.Context(), session)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	list, unread := h.notifications.List(session)

	c.JSON(http.StatusOK, dto.NewNotificationListResponse(list, unread))
}

// RegisterRoutes wires the notification endpoints. All of them require
// an authenticated session; anonymous viewers have no notifications.
func (h *NotificationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	notifications := rg.Group("/notifications")
	notifications.Use(middleware.RequireSession())
	notifications.GET("", h.List)
	notifications.POST("/:id/read", h.MarkRead)
	notifications.POST("/read-all", h.MarkAllRead)
}
