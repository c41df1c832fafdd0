package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/field-service/internal/domain"
	"github.com/spec-kit/field-service/internal/persistence"
)

// ErrVersionConflict signals that the optimistic version check failed:
// another writer committed since this work order was read.
var ErrVersionConflict = errors.New("work order version conflict")

// WorkOrderFilter captures listing parameters.
type WorkOrderFilter struct {
	StatusID     *int64
	TechnicianID *string
	CustomerID   *string
	Limit        int
	Offset       int
}

// WorkOrderRepository encapsulates work order persistence.
type WorkOrderRepository interface {
	Create(ctx context.Context, wo *domain.WorkOrder) error
	GetByID(ctx context.Context, id string) (*domain.WorkOrder, error)
	// GetForUpdate re-reads the row with a row-level lock so guard
	// evaluation inside the transaction sees the latest persisted state.
	GetForUpdate(ctx context.Context, id string) (*domain.WorkOrder, error)
	// UpdateVersioned writes all mutable fields guarded by the version
	// column; returns ErrVersionConflict when the row moved underneath.
	UpdateVersioned(ctx context.Context, wo *domain.WorkOrder) error
	List(ctx context.Context, filter WorkOrderFilter) ([]domain.WorkOrder, error)
}

type workOrderRepository struct {
	pool *pgxpool.Pool
}

// NewWorkOrderRepository instantiates repository.
func NewWorkOrderRepository(pool *pgxpool.Pool) WorkOrderRepository {
	return &workOrderRepository{pool: pool}
}

const workOrderColumns = `id, sequence_key, customer_id, service_id, brand_id, product_id,
       warranty_type, brand_complaint_no, indoor_serial_no, outdoor_serial_no,
       indoor_model, outdoor_model, purchase_date,
       status_id, sub_status_id, technician_id, assigned_at, accepted_at, rejected_at, reject_reason,
       appointment_date, appointment_time, service_start_date, service_start_time,
       service_end_date, service_end_time, completed_at, completed_by,
       cancelled_at, cancelled_by, closed_at, is_locked, remarks, version, created_at, updated_at`

func (r *workOrderRepository) Create(ctx context.Context, wo *domain.WorkOrder) error {
	const query = `
        INSERT INTO work_orders (sequence_key, customer_id, service_id, brand_id, product_id,
            warranty_type, brand_complaint_no, indoor_serial_no, outdoor_serial_no,
            indoor_model, outdoor_model, purchase_date, status_id, sub_status_id, remarks)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
        RETURNING id, version, created_at, updated_at`
	return persistence.QuerierFrom(ctx, r.pool).QueryRow(ctx, query,
		wo.SequenceKey,
		wo.CustomerID,
		wo.ServiceID,
		wo.BrandID,
		wo.ProductID,
		wo.WarrantyType,
		wo.BrandComplaintNo,
		wo.IndoorSerialNo,
		wo.OutdoorSerialNo,
		wo.IndoorModel,
		wo.OutdoorModel,
		wo.PurchaseDate,
		wo.StatusID,
		wo.SubStatusID,
		wo.Remarks,
	).Scan(&wo.ID, &wo.Version, &wo.CreatedAt, &wo.UpdatedAt)
}

func (r *workOrderRepository) GetByID(ctx context.Context, id string) (*domain.WorkOrder, error) {
	query := `SELECT ` + workOrderColumns + ` FROM work_orders WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *workOrderRepository) GetForUpdate(ctx context.Context, id string) (*domain.WorkOrder, error) {
	query := `SELECT ` + workOrderColumns + ` FROM work_orders WHERE id=$1 FOR UPDATE`
	return r.fetchSingle(ctx, query, id)
}

func (r *workOrderRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.WorkOrder, error) {
	var wo domain.WorkOrder
	if err := persistence.QuerierFrom(ctx, r.pool).QueryRow(ctx, query, arg).Scan(
		&wo.ID,
		&wo.SequenceKey,
		&wo.CustomerID,
		&wo.ServiceID,
		&wo.BrandID,
		&wo.ProductID,
		&wo.WarrantyType,
		&wo.BrandComplaintNo,
		&wo.IndoorSerialNo,
		&wo.OutdoorSerialNo,
		&wo.IndoorModel,
		&wo.OutdoorModel,
		&wo.PurchaseDate,
		&wo.StatusID,
		&wo.SubStatusID,
		&wo.TechnicianID,
		&wo.AssignedAt,
		&wo.AcceptedAt,
		&wo.RejectedAt,
		&wo.RejectReason,
		&wo.AppointmentDate,
		&wo.AppointmentTime,
		&wo.ServiceStartDate,
		&wo.ServiceStartTime,
		&wo.ServiceEndDate,
		&wo.ServiceEndTime,
		&wo.CompletedAt,
		&wo.CompletedBy,
		&wo.CancelledAt,
		&wo.CancelledBy,
		&wo.ClosedAt,
		&wo.IsLocked,
		&wo.Remarks,
		&wo.Version,
		&wo.CreatedAt,
		&wo.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &wo, nil
}

func (r *workOrderRepository) UpdateVersioned(ctx context.Context, wo *domain.WorkOrder) error {
	const query = `
        UPDATE work_orders SET
            brand_complaint_no=$1, indoor_serial_no=$2, outdoor_serial_no=$3,
            indoor_model=$4, outdoor_model=$5, purchase_date=$6,
            status_id=$7, sub_status_id=$8, technician_id=$9,
            assigned_at=$10, accepted_at=$11, rejected_at=$12, reject_reason=$13,
            appointment_date=$14, appointment_time=$15,
            service_start_date=$16, service_start_time=$17,
            service_end_date=$18, service_end_time=$19,
            completed_at=$20, completed_by=$21, cancelled_at=$22, cancelled_by=$23,
            closed_at=$24, is_locked=$25, remarks=$26,
            version=version+1, updated_at=NOW()
        WHERE id=$27 AND version=$28`
	cmd, err := persistence.QuerierFrom(ctx, r.pool).Exec(ctx, query,
		wo.BrandComplaintNo,
		wo.IndoorSerialNo,
		wo.OutdoorSerialNo,
		wo.IndoorModel,
		wo.OutdoorModel,
		wo.PurchaseDate,
		wo.StatusID,
		wo.SubStatusID,
		wo.TechnicianID,
		wo.AssignedAt,
		wo.AcceptedAt,
		wo.RejectedAt,
		wo.RejectReason,
		wo.AppointmentDate,
		wo.AppointmentTime,
		wo.ServiceStartDate,
		wo.ServiceStartTime,
		wo.ServiceEndDate,
		wo.ServiceEndTime,
		wo.CompletedAt,
		wo.CompletedBy,
		wo.CancelledAt,
		wo.CancelledBy,
		wo.ClosedAt,
		wo.IsLocked,
		wo.Remarks,
		wo.ID,
		wo.Version,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		exists, err := r.exists(ctx, wo.ID)
		if err != nil {
			return err
		}
		if !exists {
			return pgx.ErrNoRows
		}
		return ErrVersionConflict
	}
	wo.Version++
	return nil
}

func (r *workOrderRepository) exists(ctx context.Context, id string) (bool, error) {
	var found bool
	err := persistence.QuerierFrom(ctx, r.pool).
		QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM work_orders WHERE id=$1)`, id).
		Scan(&found)
	return found, err
}

func (r *workOrderRepository) List(ctx context.Context, filter WorkOrderFilter) ([]domain.WorkOrder, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.StatusID != nil {
		args = append(args, *filter.StatusID)
		clauses = append(clauses, fmt.Sprintf("status_id=$%d", len(args)))
	}
	if filter.TechnicianID != nil {
		args = append(args, *filter.TechnicianID)
		clauses = append(clauses, fmt.Sprintf("technician_id=$%d", len(args)))
	}
	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		clauses = append(clauses, fmt.Sprintf("customer_id=$%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM work_orders WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		workOrderColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := persistence.QuerierFrom(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.WorkOrder
	for rows.Next() {
		var wo domain.WorkOrder
		if err := rows.Scan(
			&wo.ID,
			&wo.SequenceKey,
			&wo.CustomerID,
			&wo.ServiceID,
			&wo.BrandID,
			&wo.ProductID,
			&wo.WarrantyType,
			&wo.BrandComplaintNo,
			&wo.IndoorSerialNo,
			&wo.OutdoorSerialNo,
			&wo.IndoorModel,
			&wo.OutdoorModel,
			&wo.PurchaseDate,
			&wo.StatusID,
			&wo.SubStatusID,
			&wo.TechnicianID,
			&wo.AssignedAt,
			&wo.AcceptedAt,
			&wo.RejectedAt,
			&wo.RejectReason,
			&wo.AppointmentDate,
			&wo.AppointmentTime,
			&wo.ServiceStartDate,
			&wo.ServiceStartTime,
			&wo.ServiceEndDate,
			&wo.ServiceEndTime,
			&wo.CompletedAt,
			&wo.CompletedBy,
			&wo.CancelledAt,
			&wo.CancelledBy,
			&wo.ClosedAt,
			&wo.IsLocked,
			&wo.Remarks,
			&wo.Version,
			&wo.CreatedAt,
			&wo.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, wo)
	}
	return result, rows.Err()
}
