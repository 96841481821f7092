package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Domenick1991/travelbooking/internal/apperr"
	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestNotificationHandler_list(t *testing.T) {
	mockService := &MockNotificationUseCase{}
	handler := NewNotificationHandler(mockService)

	c, w := testContext(t, domain.Principal{ID: 7, Role: domain.RoleUser})
	c.Request = httptest.NewRequest("GET", "/api/notifications", nil)

	notifications := []domain.Notification{
		{ID: 1, Title: "Booking confirmed", Type: domain.NotificationSuccess},
	}
	mockService.On("List", c.Request.Context(), int64(7)).Return(notifications, nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Booking confirmed")
	mockService.AssertExpectations(t)
}

func TestNotificationHandler_markRead(t *testing.T) {
	mockService := &MockNotificationUseCase{}
	handler := NewNotificationHandler(mockService)

	c, w := testContext(t, domain.Principal{ID: 7, Role: domain.RoleUser})
	c.Request = httptest.NewRequest("PUT", "/api/notifications/15/read", nil)
	c.Params = gin.Params{{Key: "id", Value: "15"}}

	mockService.On("MarkRead", c.Request.Context(), int64(15), int64(7)).Return(nil)

	handler.markRead(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"read":true`)
	mockService.AssertExpectations(t)
}

func TestNotificationHandler_markRead_NotOwned(t *testing.T) {
	mockService := &MockNotificationUseCase{}
	handler := NewNotificationHandler(mockService)

	c, w := testContext(t, domain.Principal{ID: 7, Role: domain.RoleUser})
	c.Request = httptest.NewRequest("PUT", "/api/notifications/15/read", nil)
	c.Params = gin.Params{{Key: "id", Value: "15"}}

	mockService.On("MarkRead", c.Request.Context(), int64(15), int64(7)).
		Return(apperr.NotFound("notification not found"))

	handler.markRead(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "notification not found")
}

func TestNotificationHandler_markRead_InvalidID(t *testing.T) {
	mockService := &MockNotificationUseCase{}
	handler := NewNotificationHandler(mockService)

	c, w := testContext(t, domain.Principal{ID: 7, Role: domain.RoleUser})
	c.Request = httptest.NewRequest("PUT", "/api/notifications/abc/read", nil)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	handler.markRead(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "MarkRead")
}

func TestNotificationHandler_markAllRead(t *testing.T) {
	mockService := &MockNotificationUseCase{}
	handler := NewNotificationHandler(mockService)

	c, w := testContext(t, domain.Principal{ID: 7, Role: domain.RoleUser})
	c.Request = httptest.NewRequest("PUT", "/api/notifications/mark-all-read", nil)

	mockService.On("MarkAllRead", c.Request.Context(), int64(7)).Return(int64(3), nil)

	handler.markAllRead(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"updated":3`)
	mockService.AssertExpectations(t)
}
