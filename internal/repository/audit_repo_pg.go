package repository

import (
	"context"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/postgres"
)

// AuditRepository appends administrative actions to the admin log.
// Entries are never updated or deleted; a failed insert must abort the
// enclosing transaction.
type AuditRepository interface {
	Record(ctx context.Context, q postgres.Querier, entry *domain.AuditEntry) error
	ListRecent(ctx context.Context, q postgres.Querier, limit int) ([]domain.AuditEntry, error)
}

type PGAuditRepository struct{}

func NewAuditRepository() AuditRepository {
	return &PGAuditRepository{}
}

func (r *PGAuditRepository) Record(ctx context.Context, q postgres.Querier, entry *domain.AuditEntry) error {
	return q.QueryRow(ctx, `INSERT INTO admin_logs (admin_id, action, entity_type, entity_id, details)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		entry.AdminID, entry.Action, entry.EntityType, entry.EntityID, entry.Details).
		Scan(&entry.ID, &entry.CreatedAt)
}

func (r *PGAuditRepository) ListRecent(ctx context.Context, q postgres.Querier, limit int) ([]domain.AuditEntry, error) {
	rows, err := q.Query(ctx, `SELECT id, admin_id, action, entity_type, entity_id, details, created_at
		FROM admin_logs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]domain.AuditEntry, 0)
	for rows.Next() {
		var e domain.AuditEntry
		if err := rows.Scan(&e.ID, &e.AdminID, &e.Action, &e.EntityType, &e.EntityID, &e.Details, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

var _ AuditRepository = (*PGAuditRepository)(nil)
