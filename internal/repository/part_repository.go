package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/field-service/internal/domain"
	"github.com/spec-kit/field-service/internal/persistence"
)

// PartRepository reads spare parts linked to a work order.
type PartRepository interface {
	NonTerminal(ctx context.Context, workOrderID string) ([]domain.Part, error)
	HasParts(ctx context.Context, workOrderID string) (bool, error)
}

type partRepository struct {
	pool *pgxpool.Pool
}

// NewPartRepository instantiates repository.
func NewPartRepository(pool *pgxpool.Pool) PartRepository {
	return &partRepository{pool: pool}
}

func (r *partRepository) NonTerminal(ctx context.Context, workOrderID string) ([]domain.Part, error) {
	const query = `
        SELECT id, work_order_id, name, state, created_at, updated_at
        FROM work_order_parts
        WHERE work_order_id=$1 AND state IN ($2,$3,$4)
        ORDER BY created_at ASC`
	rows, err := persistence.QuerierFrom(ctx, r.pool).Query(ctx, query, workOrderID,
		domain.PartRequested, domain.PartDispatched, domain.PartReceived)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Part
	for rows.Next() {
		var part domain.Part
		if err := rows.Scan(
			&part.ID,
			&part.WorkOrderID,
			&part.Name,
			&part.State,
			&part.CreatedAt,
			&part.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, part)
	}
	return result, rows.Err()
}

func (r *partRepository) HasParts(ctx context.Context, workOrderID string) (bool, error) {
	var found bool
	err := persistence.QuerierFrom(ctx, r.pool).
		QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM work_order_parts WHERE work_order_id=$1)`, workOrderID).
		Scan(&found)
	return found, err
}
