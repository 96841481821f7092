package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/service/approval"
	"github.com/Domenick1991/travelbooking/internal/service/notification"
	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	approvals     approval.ApprovalUseCase
	notifications notification.NotificationUseCase
}

type decideBookingRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

func NewAdminHandler(approvals approval.ApprovalUseCase, notifications notification.NotificationUseCase) *AdminHandler {
	return &AdminHandler{approvals: approvals, notifications: notifications}
}

func (h *AdminHandler) Register(router *gin.RouterGroup) {
	router.PUT("/bookings/:bookingType/:id/status", h.decide)
	router.GET("/bookings/pending", h.pending)
	router.GET("/logs", h.auditLog)
	router.POST("/notifications", h.broadcast)
}

func (h *AdminHandler) decide(c *gin.Context) {
	kind, err := domain.ParseBookingKind(c.Param("bookingType"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking type"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	var req decideBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	decision, err := domain.ParseDecision(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be approved or rejected"})
		return
	}

	result, err := h.approvals.Decide(c.Request.Context(), kind, id, decision, CurrentPrincipal(c).ID, req.Notes)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *AdminHandler) pending(c *gin.Context) {
	pending, err := h.approvals.PendingBookings(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, pending)
}

func (h *AdminHandler) auditLog(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	entries, err := h.approvals.RecentAuditLog(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *AdminHandler) broadcast(c *gin.Context) {
	var input notification.BroadcastInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.notifications.Broadcast(c.Request.Context(), CurrentPrincipal(c).ID, input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}
