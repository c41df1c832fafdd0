// Package workflow implements the work order lifecycle engine: the
// status/sub-status state machine, its transition guards, technician
// assignment, and the audit trail written alongside every transition.
package workflow

import (
	"context"

	"github.com/spec-kit/field-service/internal/domain"
)

// Actor identifies who requested an operation.
type Actor struct {
	ID   string
	Role domain.StaffRole
}

// TxRunner executes a function inside a single transaction boundary.
// Guard evaluation, field mutation and audit insertion for one
// operation all run within one call.
type TxRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// StaffDirectory resolves staff ids to display names for audit labels
// and notification messages.
type StaffDirectory interface {
	GetByID(ctx context.Context, id string) (*domain.StaffMember, error)
	DisplayName(ctx context.Context, id string) string
}
