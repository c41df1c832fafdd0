package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/field-service/internal/domain"
	"github.com/spec-kit/field-service/internal/persistence"
)

// StatusRepository reads the seeded status taxonomy.
type StatusRepository interface {
	ListAll(ctx context.Context) ([]domain.Status, error)
}

type statusRepository struct {
	pool *pgxpool.Pool
}

// NewStatusRepository instantiates repository.
func NewStatusRepository(pool *pgxpool.Pool) StatusRepository {
	return &statusRepository{pool: pool}
}

func (r *statusRepository) ListAll(ctx context.Context) ([]domain.Status, error) {
	const query = `SELECT id, slug, name, parent_id FROM statuses ORDER BY id`
	rows, err := persistence.QuerierFrom(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Status
	for rows.Next() {
		var status domain.Status
		if err := rows.Scan(&status.ID, &status.Slug, &status.Name, &status.ParentID); err != nil {
			return nil, err
		}
		result = append(result, status)
	}
	return result, rows.Err()
}
