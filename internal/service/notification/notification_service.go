package notification

import (
	"context"
	"time"

	"github.com/Domenick1991/travelbooking/internal/apperr"
	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/postgres"
	"github.com/Domenick1991/travelbooking/internal/repository"
)

const defaultListLimit = 100

type NotificationUseCase interface {
	List(ctx context.Context, userID int64) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id, userID int64) error
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
	Broadcast(ctx context.Context, adminID int64, input BroadcastInput) (*domain.Notification, error)
}

type BroadcastInput struct {
	Title      string                  `json:"title"`
	Message    string                  `json:"message"`
	Type       domain.NotificationType `json:"type"`
	Link       string                  `json:"link"`
	ValidUntil *time.Time              `json:"valid_until"`
}

type NotificationService struct {
	db            postgres.Querier
	txm           postgres.TxManager
	notifications repository.NotificationRepository
	audits        repository.AuditRepository
}

func NewNotificationService(db postgres.Querier, txm postgres.TxManager, notifications repository.NotificationRepository, audits repository.AuditRepository) *NotificationService {
	return &NotificationService{db: db, txm: txm, notifications: notifications, audits: audits}
}

func (s *NotificationService) List(ctx context.Context, userID int64) ([]domain.Notification, error) {
	return s.notifications.ListForUser(ctx, s.db, userID, defaultListLimit)
}

func (s *NotificationService) MarkRead(ctx context.Context, id, userID int64) error {
	return s.notifications.MarkRead(ctx, s.db, id, userID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	return s.notifications.MarkAllRead(ctx, s.db, userID)
}

// Broadcast creates an admin-authored notification visible to every
// user, with the matching audit entry in the same transaction.
func (s *NotificationService) Broadcast(ctx context.Context, adminID int64, input BroadcastInput) (*domain.Notification, error) {
	if input.Title == "" {
		return nil, apperr.Validation("title is required")
	}
	if input.Type == "" {
		input.Type = domain.NotificationInfo
	}

	admin := adminID
	n := &domain.Notification{
		AdminID:    &admin,
		Title:      input.Title,
		Message:    input.Message,
		Type:       input.Type,
		Link:       input.Link,
		ValidUntil: input.ValidUntil,
	}

	err := s.txm.RunInTx(ctx, postgres.TxOptions{Name: "broadcast_notification"}, func(ctx context.Context, q postgres.Querier) error {
		if err := s.notifications.Insert(ctx, q, n); err != nil {
			return err
		}
		return s.audits.Record(ctx, q, &domain.AuditEntry{
			AdminID:    &admin,
			Action:     domain.AuditActionNotificationSent,
			EntityType: "notification",
			EntityID:   n.ID,
			Details:    input.Title,
		})
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}

var _ NotificationUseCase = (*NotificationService)(nil)
