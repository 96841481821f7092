package repository

import (
	"context"

	"github.com/Domenick1991/travelbooking/internal/apperr"
	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/postgres"
)

type NotificationRepository interface {
	Insert(ctx context.Context, q postgres.Querier, n *domain.Notification) error
	ListForUser(ctx context.Context, q postgres.Querier, userID int64, limit int) ([]domain.Notification, error)
	MarkRead(ctx context.Context, q postgres.Querier, id, userID int64) error
	MarkAllRead(ctx context.Context, q postgres.Querier, userID int64) (int64, error)
}

type PGNotificationRepository struct{}

func NewNotificationRepository() NotificationRepository {
	return &PGNotificationRepository{}
}

func (r *PGNotificationRepository) Insert(ctx context.Context, q postgres.Querier, n *domain.Notification) error {
	return q.QueryRow(ctx, `INSERT INTO notifications (user_id, admin_id, title, message, type, link, valid_until)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, read, created_at`,
		n.UserID, n.AdminID, n.Title, n.Message, n.Type, n.Link, n.ValidUntil).
		Scan(&n.ID, &n.Read, &n.CreatedAt)
}

// ListForUser returns the user's own notifications plus broadcasts,
// skipping expired ones.
func (r *PGNotificationRepository) ListForUser(ctx context.Context, q postgres.Querier, userID int64, limit int) ([]domain.Notification, error) {
	rows, err := q.Query(ctx, `SELECT id, user_id, admin_id, title, message, type, read, link, valid_until, created_at
		FROM notifications
		WHERE (user_id = $1 OR user_id IS NULL)
		AND (valid_until IS NULL OR valid_until > now())
		ORDER BY created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := make([]domain.Notification, 0)
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.AdminID, &n.Title, &n.Message, &n.Type, &n.Read, &n.Link, &n.ValidUntil, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkRead flips the read flag only when the notification belongs to
// the user or is a broadcast. "Not yours" and "does not exist" are the
// same NotFoundError so existence is not leaked.
func (r *PGNotificationRepository) MarkRead(ctx context.Context, q postgres.Querier, id, userID int64) error {
	cmd, err := q.Exec(ctx, `UPDATE notifications SET read = TRUE
		WHERE id = $1 AND (user_id = $2 OR user_id IS NULL)`, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("notification not found")
	}
	return nil
}

func (r *PGNotificationRepository) MarkAllRead(ctx context.Context, q postgres.Querier, userID int64) (int64, error) {
	cmd, err := q.Exec(ctx, `UPDATE notifications SET read = TRUE
		WHERE (user_id = $1 OR user_id IS NULL) AND read = FALSE`, userID)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

var _ NotificationRepository = (*PGNotificationRepository)(nil)
