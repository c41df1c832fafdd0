package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/field-service/internal/catalog"
	"github.com/spec-kit/field-service/internal/domain"
	"github.com/spec-kit/field-service/internal/events"
	"github.com/spec-kit/field-service/internal/repository"
	apperrors "github.com/spec-kit/field-service/pkg/util"
)

// AssignmentManager binds technicians to work orders. Reassignment
// starts a fresh dispatch epoch: acceptance, rejection, scheduling and
// service progress recorded for the previous technician are cleared so
// the new assignee starts from a clean dispatched state.
type AssignmentManager struct {
	tx         TxRunner
	workOrders repository.WorkOrderRepository
	staff      StaffDirectory
	audit      *AuditTrail
	catalog    *catalog.Catalog
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// AssignmentDependencies bundles collaborators for the manager.
type AssignmentDependencies struct {
	Tx         TxRunner
	WorkOrders repository.WorkOrderRepository
	Staff      StaffDirectory
	Audit      *AuditTrail
	Catalog    *catalog.Catalog
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Now        func() time.Time
}

// NewAssignmentManager constructs the manager.
func NewAssignmentManager(deps AssignmentDependencies) *AssignmentManager {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentManager{
		tx:         deps.Tx,
		workOrders: deps.WorkOrders,
		staff:      deps.Staff,
		audit:      deps.Audit,
		catalog:    deps.Catalog,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        now,
	}
}

// Assign binds a technician to the work order. Assigning the current
// technician again is rejected without touching the work order or the
// audit trail.
func (m *AssignmentManager) Assign(ctx context.Context, workOrderID, technicianID, note string, actor Actor) (*domain.WorkOrder, error) {
	var out *domain.WorkOrder
	var reassigned bool
	var technicianName string

	attempt := func(ctx context.Context) error {
		wo, err := m.workOrders.GetForUpdate(ctx, workOrderID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("work order", map[string]any{"work_order_id": workOrderID})
			}
			return err
		}
		if wo.IsLocked || wo.ClosedAt != nil {
			return apperrors.NewIllegalTransition("work order is closed and locked")
		}
		switch m.catalog.SlugOf(wo.StatusID) {
		case domain.StatusCancelled:
			return apperrors.NewIllegalTransition("work order is cancelled")
		case domain.StatusCompleted:
			return apperrors.NewIllegalTransition("completed work orders cannot be assigned")
		}
		if wo.TechnicianID != nil && *wo.TechnicianID == technicianID {
			return apperrors.NewAlreadyAssigned(technicianID)
		}

		technician, err := m.staff.GetByID(ctx, technicianID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("technician", map[string]any{"technician_id": technicianID})
			}
			return err
		}
		if technician.Role != domain.StaffRoleTechnician {
			return apperrors.NewValidationError("staff member is not a technician",
				map[string]any{"technician_id": technicianID})
		}
		if !technician.Active {
			return apperrors.NewValidationError("technician is not active",
				map[string]any{"technician_id": technicianID})
		}
		technicianName = technician.DisplayName()

		snap := takeSnapshot(wo)
		reassigned = wo.TechnicianID != nil
		if reassigned {
			resetDispatchEpoch(wo)
		}

		top, sub, err := m.catalog.Resolve(domain.StatusDispatched, domain.SubAssignedToTechnician)
		if err != nil {
			return err
		}
		now := m.now()
		subID := sub.ID
		techID := technicianID
		wo.StatusID = top.ID
		wo.SubStatusID = &subID
		wo.TechnicianID = &techID
		wo.AssignedAt = &now

		verb := "Assigned to"
		if reassigned {
			verb = "Reassigned to"
		}
		remark := fmt.Sprintf("%s %s", verb, technicianName)
		if note = strings.TrimSpace(note); note != "" {
			remark += ": " + note
		}
		wo.AppendRemark(now, remark)

		if err := m.workOrders.UpdateVersioned(ctx, wo); err != nil {
			return err
		}
		if changes := snap.diff(wo); len(changes) > 0 {
			if err := m.audit.RecordChanges(ctx, wo.ID, domain.AuditActionAssignment, actor, changes, nil); err != nil {
				return err
			}
		}
		out = wo
		return nil
	}

	err := m.tx.RunInTransaction(ctx, attempt)
	if errors.Is(err, repository.ErrVersionConflict) {
		err = m.tx.RunInTransaction(ctx, attempt)
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, apperrors.NewConflictRetryExhausted("work order")
		}
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	kind := events.KindAssigned
	message := fmt.Sprintf("Work order %s has been assigned to %s", out.SequenceKey, technicianName)
	if reassigned {
		kind = events.KindReassigned
		message = fmt.Sprintf("Work order %s has been reassigned to %s", out.SequenceKey, technicianName)
	}
	m.publish(ctx, kind, out, actor, message)
	return out, nil
}

// Reject records the assigned technician declining the job. The work
// order stays dispatched so back office can reassign it.
func (m *AssignmentManager) Reject(ctx context.Context, workOrderID, reason string, actor Actor) (*domain.WorkOrder, error) {
	var out *domain.WorkOrder

	attempt := func(ctx context.Context) error {
		wo, err := m.workOrders.GetForUpdate(ctx, workOrderID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("work order", map[string]any{"work_order_id": workOrderID})
			}
			return err
		}
		if wo.IsLocked || wo.ClosedAt != nil {
			return apperrors.NewIllegalTransition("work order is closed and locked")
		}
		if wo.TechnicianID == nil {
			return apperrors.NewIllegalTransition("no technician assigned to reject")
		}
		if wo.AcceptedAt != nil {
			return apperrors.NewIllegalTransition("work order already accepted")
		}

		snap := takeSnapshot(wo)
		top, sub, err := m.catalog.Resolve(domain.StatusDispatched, domain.SubTechnicianRejected)
		if err != nil {
			return err
		}
		now := m.now()
		subID := sub.ID
		wo.StatusID = top.ID
		wo.SubStatusID = &subID
		wo.RejectedAt = &now
		if reason = strings.TrimSpace(reason); reason != "" {
			wo.RejectReason = &reason
			wo.AppendRemark(now, "Rejected by technician: "+reason)
		}

		if err := m.workOrders.UpdateVersioned(ctx, wo); err != nil {
			return err
		}
		if changes := snap.diff(wo); len(changes) > 0 {
			if err := m.audit.RecordChanges(ctx, wo.ID, domain.AuditActionAssignment, actor, changes, nil); err != nil {
				return err
			}
		}
		out = wo
		return nil
	}

	err := m.tx.RunInTransaction(ctx, attempt)
	if errors.Is(err, repository.ErrVersionConflict) {
		err = m.tx.RunInTransaction(ctx, attempt)
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, apperrors.NewConflictRetryExhausted("work order")
		}
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	m.publish(ctx, events.KindRejected, out, actor,
		fmt.Sprintf("Work order %s was rejected by the technician", out.SequenceKey))
	return out, nil
}

// resetDispatchEpoch clears per-technician progress when the work order
// moves to a new assignee.
func resetDispatchEpoch(wo *domain.WorkOrder) {
	wo.AcceptedAt = nil
	wo.RejectedAt = nil
	wo.RejectReason = nil
	wo.AppointmentDate = nil
	wo.AppointmentTime = nil
	wo.ServiceStartDate = nil
	wo.ServiceStartTime = nil
	wo.ServiceEndDate = nil
	wo.ServiceEndTime = nil
	wo.CompletedAt = nil
	wo.CompletedBy = nil
}

func (m *AssignmentManager) publish(ctx context.Context, kind events.Kind, wo *domain.WorkOrder, actor Actor, message string) {
	if m.dispatcher == nil || wo == nil {
		return
	}
	event := events.Event{
		ID:          uuid.NewString(),
		Kind:        kind,
		WorkOrderID: wo.ID,
		SequenceKey: wo.SequenceKey,
		ActorID:     actor.ID,
		Message:     message,
		Timestamp:   m.now(),
	}
	if err := m.dispatcher.Publish(ctx, event); err != nil {
		m.logger.Warn("notification dispatch failed",
			zap.String("work_order_id", wo.ID),
			zap.String("event_kind", string(kind)),
			zap.Error(err))
	}
}
