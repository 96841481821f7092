package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRepositories(t *testing.T) {
	assert.NotNil(t, NewBookingRepository())
	assert.NotNil(t, NewApprovalRepository())
	assert.NotNil(t, NewAuditRepository())
	assert.NotNil(t, NewNotificationRepository())
}

func TestPrefixed(t *testing.T) {
	assert.Equal(t, "b.id, b.user_id, b.status", prefixed("b", "id, user_id, status"))
}
