package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/field-service/internal/domain"
	"github.com/spec-kit/field-service/internal/persistence"
)

// FeedbackRepository persists customer feedback.
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *domain.Feedback) error
	GetByWorkOrder(ctx context.Context, workOrderID string) (*domain.Feedback, error)
	Exists(ctx context.Context, workOrderID string) (bool, error)
}

type feedbackRepository struct {
	pool *pgxpool.Pool
}

// NewFeedbackRepository instantiates repository.
func NewFeedbackRepository(pool *pgxpool.Pool) FeedbackRepository {
	return &feedbackRepository{pool: pool}
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *domain.Feedback) error {
	const query = `
        INSERT INTO work_order_feedback (work_order_id, rating, comment)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return persistence.QuerierFrom(ctx, r.pool).
		QueryRow(ctx, query, feedback.WorkOrderID, feedback.Rating, feedback.Comments).
		Scan(&feedback.ID, &feedback.CreatedAt)
}

func (r *feedbackRepository) GetByWorkOrder(ctx context.Context, workOrderID string) (*domain.Feedback, error) {
	const query = `SELECT id, work_order_id, rating, comment, created_at
        FROM work_order_feedback WHERE work_order_id=$1`
	var feedback domain.Feedback
	if err := persistence.QuerierFrom(ctx, r.pool).QueryRow(ctx, query, workOrderID).Scan(
		&feedback.ID,
		&feedback.WorkOrderID,
		&feedback.Rating,
		&feedback.Comments,
		&feedback.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &feedback, nil
}

func (r *feedbackRepository) Exists(ctx context.Context, workOrderID string) (bool, error) {
	var found bool
	err := persistence.QuerierFrom(ctx, r.pool).
		QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM work_order_feedback WHERE work_order_id=$1)`, workOrderID).
		Scan(&found)
	return found, err
}
