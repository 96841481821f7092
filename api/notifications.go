package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/travelbooking/internal/service/notification"
	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	service notification.NotificationUseCase
}

func NewNotificationHandler(service notification.NotificationUseCase) *NotificationHandler {
	return &NotificationHandler{service: service}
}

func (h *NotificationHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.PUT("/mark-all-read", h.markAllRead)
	router.PUT("/:id/read", h.markRead)
}

func (h *NotificationHandler) list(c *gin.Context) {
	notifications, err := h.service.List(c.Request.Context(), CurrentPrincipal(c).ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, notifications)
}

func (h *NotificationHandler) markRead(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), id, CurrentPrincipal(c).ID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"read": true})
}

func (h *NotificationHandler) markAllRead(c *gin.Context) {
	updated, err := h.service.MarkAllRead(c.Request.Context(), CurrentPrincipal(c).ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}
