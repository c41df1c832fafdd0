package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/field-service/internal/domain"
	"github.com/spec-kit/field-service/internal/persistence"
)

// AuditRepository stores the append-only audit ledger. No update or
// delete operation is exposed.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditEntry) error
	ListByWorkOrder(ctx context.Context, workOrderID string, limit, offset int) ([]domain.AuditEntry, error)
}

type auditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository builds repository.
func NewAuditRepository(pool *pgxpool.Pool) AuditRepository {
	return &auditRepository{pool: pool}
}

func (r *auditRepository) Create(ctx context.Context, entry *domain.AuditEntry) error {
	const query = `
        INSERT INTO audit_entries (work_order_id, action, description, field, old_value, new_value, metadata, actor_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at`
	return persistence.QuerierFrom(ctx, r.pool).QueryRow(ctx, query,
		entry.WorkOrderID,
		entry.Action,
		entry.Description,
		entry.Field,
		entry.OldValue,
		entry.NewValue,
		entry.Metadata,
		entry.ActorID,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *auditRepository) ListByWorkOrder(ctx context.Context, workOrderID string, limit, offset int) ([]domain.AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, work_order_id, action, description, field, old_value, new_value, metadata, actor_id, created_at
        FROM audit_entries WHERE work_order_id=$1 ORDER BY created_at ASC, id ASC LIMIT $2 OFFSET $3`
	rows, err := persistence.QuerierFrom(ctx, r.pool).Query(ctx, query, workOrderID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AuditEntry
	for rows.Next() {
		var entry domain.AuditEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.WorkOrderID,
			&entry.Action,
			&entry.Description,
			&entry.Field,
			&entry.OldValue,
			&entry.NewValue,
			&entry.Metadata,
			&entry.ActorID,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
