package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/field-service/internal/domain"
	"github.com/spec-kit/field-service/internal/persistence"
)

// ServiceRepository exposes the file requirements of service definitions.
type ServiceRepository interface {
	RequiredFileTypes(ctx context.Context, serviceID string) ([]domain.FileType, error)
}

type serviceRepository struct {
	pool *pgxpool.Pool
}

// NewServiceRepository instantiates repository.
func NewServiceRepository(pool *pgxpool.Pool) ServiceRepository {
	return &serviceRepository{pool: pool}
}

func (r *serviceRepository) RequiredFileTypes(ctx context.Context, serviceID string) ([]domain.FileType, error) {
	const query = `
        SELECT t.id, t.name
        FROM service_required_files s
        JOIN file_types t ON t.id = s.file_type_id
        WHERE s.service_id=$1
        ORDER BY t.name`
	rows, err := persistence.QuerierFrom(ctx, r.pool).Query(ctx, query, serviceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.FileType
	for rows.Next() {
		var fileType domain.FileType
		if err := rows.Scan(&fileType.ID, &fileType.Name); err != nil {
			return nil, err
		}
		result = append(result, fileType)
	}
	return result, rows.Err()
}
