package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/field-service/internal/domain"
	"github.com/spec-kit/field-service/internal/persistence"
)

// WorkOrderFileRepository reads uploaded files for guard evaluation.
type WorkOrderFileRepository interface {
	UploadedTypes(ctx context.Context, workOrderID string) ([]string, error)
	PendingOrRejected(ctx context.Context, workOrderID string) ([]domain.WorkOrderFile, error)
}

type workOrderFileRepository struct {
	pool *pgxpool.Pool
}

// NewWorkOrderFileRepository instantiates repository.
func NewWorkOrderFileRepository(pool *pgxpool.Pool) WorkOrderFileRepository {
	return &workOrderFileRepository{pool: pool}
}

func (r *workOrderFileRepository) UploadedTypes(ctx context.Context, workOrderID string) ([]string, error) {
	const query = `SELECT DISTINCT file_type_id FROM work_order_files WHERE work_order_id=$1`
	rows, err := persistence.QuerierFrom(ctx, r.pool).Query(ctx, query, workOrderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var typeID string
		if err := rows.Scan(&typeID); err != nil {
			return nil, err
		}
		result = append(result, typeID)
	}
	return result, rows.Err()
}

func (r *workOrderFileRepository) PendingOrRejected(ctx context.Context, workOrderID string) ([]domain.WorkOrderFile, error) {
	const query = `
        SELECT f.id, f.work_order_id, f.file_type_id, t.name, f.file_name, f.storage_key, f.approval_status, f.uploaded_at
        FROM work_order_files f
        JOIN file_types t ON t.id = f.file_type_id
        WHERE f.work_order_id=$1 AND f.approval_status IN ($2,$3)
        ORDER BY f.uploaded_at ASC`
	rows, err := persistence.QuerierFrom(ctx, r.pool).Query(ctx, query, workOrderID,
		domain.FileApprovalPending, domain.FileApprovalRejected)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.WorkOrderFile
	for rows.Next() {
		var file domain.WorkOrderFile
		if err := rows.Scan(
			&file.ID,
			&file.WorkOrderID,
			&file.FileTypeID,
			&file.FileTypeName,
			&file.FileName,
			&file.StorageKey,
			&file.ApprovalStatus,
			&file.UploadedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, file)
	}
	return result, rows.Err()
}
