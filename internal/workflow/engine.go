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

// Engine is the state machine core. Every operation re-reads the work
// order inside a transaction, evaluates its guards against that fresh
// state, applies the mutation with an optimistic version check, writes
// the audit entries, and publishes a notification event after commit.
type Engine struct {
	tx         TxRunner
	workOrders repository.WorkOrderRepository
	services   repository.ServiceRepository
	files      repository.WorkOrderFileRepository
	parts      repository.PartRepository
	feedback   repository.FeedbackRepository
	audit      *AuditTrail
	catalog    *catalog.Catalog
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// EngineDependencies bundles collaborators for the engine.
type EngineDependencies struct {
	Tx         TxRunner
	WorkOrders repository.WorkOrderRepository
	Services   repository.ServiceRepository
	Files      repository.WorkOrderFileRepository
	Parts      repository.PartRepository
	Feedback   repository.FeedbackRepository
	Audit      *AuditTrail
	Catalog    *catalog.Catalog
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Now        func() time.Time
}

// NewEngine constructs the engine.
func NewEngine(deps EngineDependencies) *Engine {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		tx:         deps.Tx,
		workOrders: deps.WorkOrders,
		services:   deps.Services,
		files:      deps.Files,
		parts:      deps.Parts,
		feedback:   deps.Feedback,
		audit:      deps.Audit,
		catalog:    deps.Catalog,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        now,
	}
}

// CreateInput describes a new work order.
type CreateInput struct {
	CustomerID      string
	ServiceID       string
	BrandID         *string
	ProductID       *string
	WarrantyType    domain.WarrantyType
	AppointmentDate *time.Time
	AppointmentTime *string
	Remarks         string
}

// StartServiceInput selects the in-progress variant.
type StartServiceInput struct {
	// OnTheWay marks the technician as travelling; the work-started
	// sub-status and service start timestamps are set on arrival.
	OnTheWay bool
}

// CompleteInput carries completion data and late warranty details.
type CompleteInput struct {
	EndDate          *time.Time
	EndTime          *string
	IndoorSerialNo   *string
	OutdoorSerialNo  *string
	IndoorModel      *string
	OutdoorModel     *string
	PurchaseDate     *time.Time
	BrandComplaintNo *string
	Remarks          string
}

// CancelInput carries cancellation context.
type CancelInput struct {
	Reason       string
	ByTechnician bool
}

// ScheduleInput carries the appointment slot.
type ScheduleInput struct {
	Date time.Time
	Time string
}

// FeedbackInput carries the customer's post-service rating.
type FeedbackInput struct {
	Rating   int
	Comments string
}

// Create registers a new work order in the allocated state.
func (e *Engine) Create(ctx context.Context, input CreateInput, actor Actor) (*domain.WorkOrder, error) {
	status, _, err := e.catalog.Resolve(domain.StatusAllocated, "")
	if err != nil {
		return nil, err
	}
	warranty := input.WarrantyType
	if warranty == "" {
		warranty = domain.WarrantyNone
	}

	wo := &domain.WorkOrder{
		SequenceKey:     generateSequenceKey(),
		CustomerID:      input.CustomerID,
		ServiceID:       input.ServiceID,
		BrandID:         input.BrandID,
		ProductID:       input.ProductID,
		WarrantyType:    warranty,
		StatusID:        status.ID,
		AppointmentDate: input.AppointmentDate,
		AppointmentTime: input.AppointmentTime,
		Remarks:         strings.TrimSpace(input.Remarks),
	}

	err = e.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := e.workOrders.Create(ctx, wo); err != nil {
			return err
		}
		return e.audit.RecordNote(ctx, wo.ID, domain.AuditActionCreated,
			fmt.Sprintf("Work order %s was created", wo.SequenceKey), actor, nil)
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	e.publish(ctx, events.KindCreated, wo, actor,
		fmt.Sprintf("Work order %s has been created", wo.SequenceKey), nil)
	return wo, nil
}

// Accept records the assigned technician accepting the job.
func (e *Engine) Accept(ctx context.Context, id string, actor Actor) (*domain.WorkOrder, error) {
	wo, err := e.transition(ctx, id, actor, events.KindAccepted, domain.AuditActionTransition,
		func(ctx context.Context, wo *domain.WorkOrder) error {
			if wo.TechnicianID == nil {
				return apperrors.NewIllegalTransition("no technician assigned to accept")
			}
			if wo.AcceptedAt != nil {
				return apperrors.NewIllegalTransition("work order already accepted")
			}
			if err := e.setStatus(wo, domain.StatusDispatched, domain.SubTechnicianAccepted); err != nil {
				return err
			}
			now := e.now()
			wo.AcceptedAt = &now
			wo.RejectedAt = nil
			return nil
		})
	if err != nil {
		return nil, err
	}
	return wo, nil
}

// StartService moves the work order into progress.
func (e *Engine) StartService(ctx context.Context, id string, actor Actor, input StartServiceInput) (*domain.WorkOrder, error) {
	return e.transition(ctx, id, actor, events.KindStarted, domain.AuditActionTransition,
		func(ctx context.Context, wo *domain.WorkOrder) error {
			if wo.CompletedAt != nil {
				return apperrors.NewIllegalTransition("work order already completed")
			}
			sub := domain.SubWorkStarted
			if input.OnTheWay {
				sub = domain.SubGoingToWork
			}
			if err := e.setStatus(wo, domain.StatusInProgress, sub); err != nil {
				return err
			}
			if !input.OnTheWay && wo.ServiceStartDate == nil {
				now := e.now()
				startTime := now.Format("15:04")
				wo.ServiceStartDate = &now
				wo.ServiceStartTime = &startTime
			}
			return nil
		})
}

// Complete finishes the job, guarded by file and warranty completeness.
func (e *Engine) Complete(ctx context.Context, id string, actor Actor, input CompleteInput) (*domain.WorkOrder, error) {
	return e.transition(ctx, id, actor, events.KindCompleted, domain.AuditActionTransition,
		func(ctx context.Context, wo *domain.WorkOrder) error {
			if wo.CompletedAt != nil {
				return apperrors.NewIllegalTransition("work order already completed")
			}
			applyWarrantyDetails(wo, input)

			required, err := e.services.RequiredFileTypes(ctx, wo.ServiceID)
			if err != nil {
				return err
			}
			uploaded, err := e.files.UploadedTypes(ctx, wo.ID)
			if err != nil {
				return err
			}
			guardIn := GuardInput{RequiredFileTypes: required, UploadedTypeIDs: uploaded}
			if violations := collect(RequiredFilesGuard(guardIn), WarrantyFieldsGuard(wo)); len(violations) > 0 {
				return violationError(violations)
			}

			e.applyCompletion(wo, actor, input.EndDate, input.EndTime)
			if note := strings.TrimSpace(input.Remarks); note != "" {
				wo.AppendRemark(e.now(), note)
			}
			return nil
		})
}

// MarkPartInDemand parks the work order while spare parts are sourced.
func (e *Engine) MarkPartInDemand(ctx context.Context, id string, actor Actor) (*domain.WorkOrder, error) {
	return e.transition(ctx, id, actor, events.KindPartInDemand, domain.AuditActionTransition,
		func(ctx context.Context, wo *domain.WorkOrder) error {
			if wo.CompletedAt != nil {
				return apperrors.NewIllegalTransition("work order already completed")
			}
			hasParts, err := e.parts.HasParts(ctx, wo.ID)
			if err != nil {
				return err
			}
			if !hasParts {
				return apperrors.NewIllegalTransition("no parts linked to work order")
			}
			return e.setStatus(wo, domain.StatusPartInDemand, "")
		})
}

// CompleteFromPartDemand finishes the job once all parts are resolved.
func (e *Engine) CompleteFromPartDemand(ctx context.Context, id string, actor Actor) (*domain.WorkOrder, error) {
	return e.transition(ctx, id, actor, events.KindCompleted, domain.AuditActionTransition,
		func(ctx context.Context, wo *domain.WorkOrder) error {
			if e.catalog.SlugOf(wo.StatusID) != domain.StatusPartInDemand {
				return apperrors.NewIllegalTransition("work order is not waiting on parts")
			}
			pending, err := e.parts.NonTerminal(ctx, wo.ID)
			if err != nil {
				return err
			}
			if violations := collect(PartsResolvedGuard(GuardInput{NonTerminalParts: pending})); len(violations) > 0 {
				return violationError(violations)
			}
			e.applyCompletion(wo, actor, nil, nil)
			return nil
		})
}

// Approve runs the post-completion review. The sub-status moves to
// feedback-pending even when files are still pending review: in that
// case the move and a violation-reporting audit entry are committed
// together, and the violation is returned alongside the updated work
// order. This partial success is deliberate and relied upon downstream.
func (e *Engine) Approve(ctx context.Context, id string, actor Actor) (*domain.WorkOrder, error) {
	var violations []Violation
	wo, err := e.transitionWithAction(ctx, id, actor, events.KindApproved, domain.AuditActionReview,
		func(ctx context.Context, wo *domain.WorkOrder) (map[string]any, error) {
			if e.catalog.SlugOf(wo.StatusID) != domain.StatusCompleted {
				return nil, apperrors.NewIllegalTransition("work order is not completed")
			}
			pendingFiles, err := e.files.PendingOrRejected(ctx, wo.ID)
			if err != nil {
				return nil, err
			}
			violations = collect(FileApprovalGuard(GuardInput{PendingFiles: pendingFiles}))

			if err := e.setStatus(wo, domain.StatusCompleted, domain.SubFeedbackPending); err != nil {
				return nil, err
			}
			if len(violations) == 0 {
				return nil, nil
			}
			return map[string]any{"missing_files": violations[0].Missing}, nil
		})
	if err != nil {
		return nil, err
	}
	if len(violations) > 0 {
		return wo, violationError(violations)
	}
	return wo, nil
}

// Close locks the work order after feedback and file review.
func (e *Engine) Close(ctx context.Context, id string, actor Actor) (*domain.WorkOrder, error) {
	return e.transition(ctx, id, actor, events.KindClosed, domain.AuditActionTransition,
		func(ctx context.Context, wo *domain.WorkOrder) error {
			if e.catalog.SlugOf(wo.StatusID) != domain.StatusCompleted || e.subSlug(wo) != domain.SubFeedbackPending {
				return apperrors.NewIllegalTransition("work order is not pending feedback")
			}
			feedbackExists, err := e.feedback.Exists(ctx, wo.ID)
			if err != nil {
				return err
			}
			pendingFiles, err := e.files.PendingOrRejected(ctx, wo.ID)
			if err != nil {
				return err
			}
			guardIn := GuardInput{FeedbackExists: feedbackExists, PendingFiles: pendingFiles}
			violations := collect(FeedbackGuard(guardIn), FileApprovalGuard(guardIn), brandComplaintGuard(wo))
			if len(violations) > 0 {
				return violationError(violations)
			}

			if err := e.setStatus(wo, domain.StatusClosed, ""); err != nil {
				return err
			}
			now := e.now()
			wo.ClosedAt = &now
			wo.IsLocked = true
			return nil
		})
}

// SubmitFeedback records the customer's rating once the work order is
// pending feedback. A work order carries at most one feedback record.
func (e *Engine) SubmitFeedback(ctx context.Context, id string, actor Actor, input FeedbackInput) (*domain.Feedback, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, apperrors.NewValidationError("rating must be between 1 and 5",
			map[string]any{"rating": input.Rating})
	}

	var feedback *domain.Feedback
	err := e.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		wo, err := e.loadForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if e.catalog.SlugOf(wo.StatusID) != domain.StatusCompleted || e.subSlug(wo) != domain.SubFeedbackPending {
			return apperrors.NewIllegalTransition("work order is not pending feedback")
		}
		exists, err := e.feedback.Exists(ctx, wo.ID)
		if err != nil {
			return err
		}
		if exists {
			return apperrors.NewConflict("feedback already submitted",
				map[string]any{"work_order_id": wo.ID})
		}

		feedback = &domain.Feedback{
			WorkOrderID: wo.ID,
			Rating:      input.Rating,
			Comments:    strings.TrimSpace(input.Comments),
			CreatedAt:   e.now(),
		}
		if err := e.feedback.Create(ctx, feedback); err != nil {
			return err
		}
		return e.audit.RecordNote(ctx, wo.ID, domain.AuditActionReview,
			fmt.Sprintf("Customer feedback received for work order %s", wo.SequenceKey), actor,
			map[string]any{"rating": input.Rating})
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return feedback, nil
}

// GetFeedback fetches the feedback record for one work order.
func (e *Engine) GetFeedback(ctx context.Context, id string) (*domain.Feedback, error) {
	feedback, err := e.feedback.GetByWorkOrder(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("feedback", map[string]any{"work_order_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return feedback, nil
}

// RejectCompletion bounces a completed job back for rework.
func (e *Engine) RejectCompletion(ctx context.Context, id string, actor Actor, reason string) (*domain.WorkOrder, error) {
	return e.transition(ctx, id, actor, events.KindReworked, domain.AuditActionTransition,
		func(ctx context.Context, wo *domain.WorkOrder) error {
			if e.catalog.SlugOf(wo.StatusID) != domain.StatusCompleted {
				return apperrors.NewIllegalTransition("work order is not completed")
			}
			if err := e.setStatus(wo, domain.StatusInProgress, domain.SubReworkRequired); err != nil {
				return err
			}
			wo.CompletedAt = nil
			wo.CompletedBy = nil
			wo.ServiceEndDate = nil
			wo.ServiceEndTime = nil
			if reason = strings.TrimSpace(reason); reason != "" {
				wo.AppendRemark(e.now(), "Rework requested: "+reason)
			}
			return nil
		})
}

// Cancel aborts a non-completed work order.
func (e *Engine) Cancel(ctx context.Context, id string, actor Actor, input CancelInput) (*domain.WorkOrder, error) {
	return e.transition(ctx, id, actor, events.KindCancelled, domain.AuditActionTransition,
		func(ctx context.Context, wo *domain.WorkOrder) error {
			if wo.CompletedAt != nil || e.catalog.SlugOf(wo.StatusID) == domain.StatusCompleted {
				return apperrors.NewIllegalTransition("completed work orders cannot be cancelled")
			}
			sub := domain.SubCustomerCancelled
			if input.ByTechnician {
				sub = domain.SubTechnicianCancelled
			}
			if err := e.setStatus(wo, domain.StatusCancelled, sub); err != nil {
				return err
			}
			now := e.now()
			actorID := actor.ID
			wo.CancelledAt = &now
			wo.CancelledBy = &actorID
			if reason := strings.TrimSpace(input.Reason); reason != "" {
				wo.RejectReason = &reason
				wo.AppendRemark(now, "Cancelled: "+reason)
			}
			return nil
		})
}

// Schedule sets the appointment slot.
func (e *Engine) Schedule(ctx context.Context, id string, actor Actor, input ScheduleInput) (*domain.WorkOrder, error) {
	return e.transition(ctx, id, actor, events.KindScheduled, domain.AuditActionTransition,
		func(ctx context.Context, wo *domain.WorkOrder) error {
			if wo.CompletedAt != nil || e.catalog.SlugOf(wo.StatusID) == domain.StatusCompleted {
				return apperrors.NewIllegalTransition("completed work orders cannot be scheduled")
			}
			date := input.Date
			slot := input.Time
			wo.AppointmentDate = &date
			wo.AppointmentTime = &slot
			// An assigned technician is considered committed to the new
			// slot; scheduling never regresses a later status.
			if wo.TechnicianID != nil && e.catalog.SlugOf(wo.StatusID) == domain.StatusDispatched {
				if err := e.setStatus(wo, domain.StatusDispatched, domain.SubTechnicianAccepted); err != nil {
					return err
				}
			}
			return nil
		})
}

// GetWorkOrder fetches one work order.
func (e *Engine) GetWorkOrder(ctx context.Context, id string) (*domain.WorkOrder, error) {
	wo, err := e.workOrders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("work order", map[string]any{"work_order_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return wo, nil
}

// ListWorkOrders lists work orders with filters.
func (e *Engine) ListWorkOrders(ctx context.Context, filter repository.WorkOrderFilter) ([]domain.WorkOrder, error) {
	result, err := e.workOrders.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

// transition runs one guarded transition with a single retry on
// concurrent-write conflict.
func (e *Engine) transition(ctx context.Context, id string, actor Actor, kind events.Kind, action domain.AuditAction, mutate func(ctx context.Context, wo *domain.WorkOrder) error) (*domain.WorkOrder, error) {
	return e.transitionWithAction(ctx, id, actor, kind, action,
		func(ctx context.Context, wo *domain.WorkOrder) (map[string]any, error) {
			return nil, mutate(ctx, wo)
		})
}

func (e *Engine) transitionWithAction(ctx context.Context, id string, actor Actor, kind events.Kind, action domain.AuditAction, mutate func(ctx context.Context, wo *domain.WorkOrder) (map[string]any, error)) (*domain.WorkOrder, error) {
	var out *domain.WorkOrder

	attempt := func(ctx context.Context) error {
		wo, err := e.loadForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := e.ensureMutable(wo); err != nil {
			return err
		}

		snap := takeSnapshot(wo)
		metadata, err := mutate(ctx, wo)
		if err != nil {
			return err
		}
		if err := e.validateSubStatus(wo); err != nil {
			return err
		}
		if err := e.workOrders.UpdateVersioned(ctx, wo); err != nil {
			return err
		}
		if changes := snap.diff(wo); len(changes) > 0 {
			if err := e.audit.RecordChanges(ctx, wo.ID, action, actor, changes, metadata); err != nil {
				return err
			}
		}
		out = wo
		return nil
	}

	err := e.tx.RunInTransaction(ctx, attempt)
	if errors.Is(err, repository.ErrVersionConflict) {
		err = e.tx.RunInTransaction(ctx, attempt)
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, apperrors.NewConflictRetryExhausted("work order")
		}
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	e.publish(ctx, kind, out, actor, renderMessage(kind, out), nil)
	return out, nil
}

func (e *Engine) loadForUpdate(ctx context.Context, id string) (*domain.WorkOrder, error) {
	wo, err := e.workOrders.GetForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("work order", map[string]any{"work_order_id": id})
		}
		return nil, err
	}
	return wo, nil
}

// ensureMutable rejects all mutation once a work order reached a
// terminal state.
func (e *Engine) ensureMutable(wo *domain.WorkOrder) error {
	if wo.IsLocked || wo.ClosedAt != nil {
		return apperrors.NewIllegalTransition("work order is closed and locked")
	}
	if e.catalog.SlugOf(wo.StatusID) == domain.StatusCancelled {
		return apperrors.NewIllegalTransition("work order is cancelled")
	}
	return nil
}

// validateSubStatus enforces that a set sub-status belongs to the
// current top status.
func (e *Engine) validateSubStatus(wo *domain.WorkOrder) error {
	if wo.SubStatusID == nil {
		return nil
	}
	sub, ok := e.catalog.ByID(*wo.SubStatusID)
	if !ok {
		return apperrors.NewNotFound("sub-status", map[string]any{"id": *wo.SubStatusID})
	}
	if sub.ParentID == nil || *sub.ParentID != wo.StatusID {
		return apperrors.NewInternalError(fmt.Errorf("sub-status %s does not belong to status %s",
			sub.Slug, e.catalog.SlugOf(wo.StatusID)))
	}
	return nil
}

func (e *Engine) setStatus(wo *domain.WorkOrder, topSlug, subSlug string) error {
	top, sub, err := e.catalog.Resolve(topSlug, subSlug)
	if err != nil {
		return err
	}
	wo.StatusID = top.ID
	if sub != nil {
		subID := sub.ID
		wo.SubStatusID = &subID
	} else {
		wo.SubStatusID = nil
	}
	return nil
}

func (e *Engine) subSlug(wo *domain.WorkOrder) string {
	if wo.SubStatusID == nil {
		return ""
	}
	return e.catalog.SlugOf(*wo.SubStatusID)
}

func (e *Engine) applyCompletion(wo *domain.WorkOrder, actor Actor, endDate *time.Time, endTime *string) {
	now := e.now()
	if endDate == nil {
		endDate = &now
	}
	if endTime == nil {
		formatted := now.Format("15:04")
		endTime = &formatted
	}
	actorID := actor.ID
	wo.ServiceEndDate = endDate
	wo.ServiceEndTime = endTime
	wo.CompletedAt = &now
	wo.CompletedBy = &actorID
	// setStatus cannot fail here: both slugs are seeded constants.
	_ = e.setStatus(wo, domain.StatusCompleted, domain.SubPendingServiceCentre)
}

// publish dispatches the lifecycle event after commit. Failures are
// logged and never surfaced: the transition already committed.
func (e *Engine) publish(ctx context.Context, kind events.Kind, wo *domain.WorkOrder, actor Actor, message string, payload map[string]any) {
	if e.dispatcher == nil || wo == nil {
		return
	}
	event := events.Event{
		ID:          uuid.NewString(),
		Kind:        kind,
		WorkOrderID: wo.ID,
		SequenceKey: wo.SequenceKey,
		ActorID:     actor.ID,
		Message:     message,
		Timestamp:   e.now(),
		Payload:     payload,
	}
	if err := e.dispatcher.Publish(ctx, event); err != nil {
		e.logger.Warn("notification dispatch failed",
			zap.String("work_order_id", wo.ID),
			zap.String("event_kind", string(kind)),
			zap.Error(err))
	}
}

func applyWarrantyDetails(wo *domain.WorkOrder, input CompleteInput) {
	if input.IndoorSerialNo != nil {
		wo.IndoorSerialNo = input.IndoorSerialNo
	}
	if input.OutdoorSerialNo != nil {
		wo.OutdoorSerialNo = input.OutdoorSerialNo
	}
	if input.IndoorModel != nil {
		wo.IndoorModel = input.IndoorModel
	}
	if input.OutdoorModel != nil {
		wo.OutdoorModel = input.OutdoorModel
	}
	if input.PurchaseDate != nil {
		wo.PurchaseDate = input.PurchaseDate
	}
	if input.BrandComplaintNo != nil {
		wo.BrandComplaintNo = input.BrandComplaintNo
	}
}

// brandComplaintGuard requires the brand complaint number before a
// brand-warranty work order can close.
func brandComplaintGuard(wo *domain.WorkOrder) *Violation {
	if wo.WarrantyType != domain.WarrantyOnBrand || present(wo.BrandComplaintNo) {
		return nil
	}
	return &Violation{
		Guard:   "brand_complaint",
		Message: "brand complaint number is missing",
		Missing: []string{"Brand Complaint Number"},
	}
}

func renderMessage(kind events.Kind, wo *domain.WorkOrder) string {
	switch kind {
	case events.KindAccepted:
		return fmt.Sprintf("Work order %s was accepted by the technician", wo.SequenceKey)
	case events.KindRejected:
		return fmt.Sprintf("Work order %s was rejected by the technician", wo.SequenceKey)
	case events.KindStarted:
		return fmt.Sprintf("Service has started on work order %s", wo.SequenceKey)
	case events.KindCompleted:
		return fmt.Sprintf("Work order %s has been completed", wo.SequenceKey)
	case events.KindPartInDemand:
		return fmt.Sprintf("Work order %s is waiting for parts", wo.SequenceKey)
	case events.KindApproved:
		return fmt.Sprintf("Work order %s passed service centre review", wo.SequenceKey)
	case events.KindClosed:
		return fmt.Sprintf("Work order %s has been closed", wo.SequenceKey)
	case events.KindCancelled:
		return fmt.Sprintf("Work order %s has been cancelled", wo.SequenceKey)
	case events.KindReworked:
		return fmt.Sprintf("Work order %s was sent back for rework", wo.SequenceKey)
	case events.KindScheduled:
		return fmt.Sprintf("Work order %s has been scheduled", wo.SequenceKey)
	default:
		return fmt.Sprintf("Work order %s was updated", wo.SequenceKey)
	}
}

func generateSequenceKey() string {
	return "WO-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
