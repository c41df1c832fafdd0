package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/field-service/internal/domain"
	"github.com/spec-kit/field-service/internal/events"
	apperrors "github.com/spec-kit/field-service/pkg/util"
)

var crmActor = Actor{ID: "crm-1", Role: domain.StaffRoleCRM}
var techActor = Actor{ID: "tech-1", Role: domain.StaffRoleTechnician}

func missingItems(t *testing.T, err error) []string {
	t.Helper()
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, apperrors.CodeValidationViolation, domainErr.Code)
	raw, ok := domainErr.Details["missing"].([]string)
	require.True(t, ok, "missing detail should be a string slice")
	return raw
}

func TestCreateStartsAllocated(t *testing.T) {
	h := newHarness()

	wo, err := h.engine.Create(context.Background(), CreateInput{
		CustomerID:   "cust-9",
		ServiceID:    "svc-1",
		WarrantyType: domain.WarrantyOffBrand,
		Remarks:      "door code 4711",
	}, crmActor)
	require.NoError(t, err)

	top, sub := h.slugOf(wo)
	assert.Equal(t, domain.StatusAllocated, top)
	assert.Empty(t, sub)
	assert.Regexp(t, `^WO-[0-9A-F]{8}$`, wo.SequenceKey)
	assert.Equal(t, int64(1), wo.Version)

	entries := h.audit.byWorkOrder(wo.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.AuditActionCreated, entries[0].Action)
	assert.Contains(t, entries[0].Description, wo.SequenceKey)
	assert.Equal(t, []events.Kind{events.KindCreated}, h.dispatcher.kinds())
}

func TestAcceptSetsSubStatusAndTimestamp(t *testing.T) {
	h := newHarness()
	id := h.seedWorkOrder(domain.StatusDispatched, domain.SubAssignedToTechnician, func(wo *domain.WorkOrder) {
		wo.TechnicianID = strptr("tech-1")
		wo.AssignedAt = timeptr(testClock.Add(-time.Hour))
	})

	wo, err := h.engine.Accept(context.Background(), id, techActor)
	require.NoError(t, err)

	top, sub := h.slugOf(wo)
	assert.Equal(t, domain.StatusDispatched, top)
	assert.Equal(t, domain.SubTechnicianAccepted, sub)
	require.NotNil(t, wo.AcceptedAt)
	assert.True(t, wo.AcceptedAt.Equal(testClock))
}

func TestAcceptTwiceRejected(t *testing.T) {
	h := newHarness()
	id := h.seedWorkOrder(domain.StatusDispatched, domain.SubAssignedToTechnician, func(wo *domain.WorkOrder) {
		wo.TechnicianID = strptr("tech-1")
	})

	_, err := h.engine.Accept(context.Background(), id, techActor)
	require.NoError(t, err)

	_, err = h.engine.Accept(context.Background(), id, techActor)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeIllegalTransition))
}

func TestStartServiceVariants(t *testing.T) {
	h := newHarness()
	id := h.seedWorkOrder(domain.StatusDispatched, domain.SubTechnicianAccepted, func(wo *domain.WorkOrder) {
		wo.TechnicianID = strptr("tech-1")
		wo.AcceptedAt = timeptr(testClock)
	})

	wo, err := h.engine.StartService(context.Background(), id, techActor, StartServiceInput{OnTheWay: true})
	require.NoError(t, err)
	_, sub := h.slugOf(wo)
	assert.Equal(t, domain.SubGoingToWork, sub)
	assert.Nil(t, wo.ServiceStartDate)

	wo, err = h.engine.StartService(context.Background(), id, techActor, StartServiceInput{})
	require.NoError(t, err)
	_, sub = h.slugOf(wo)
	assert.Equal(t, domain.SubWorkStarted, sub)
	require.NotNil(t, wo.ServiceStartDate)
	require.NotNil(t, wo.ServiceStartTime)
	assert.Equal(t, "09:00", *wo.ServiceStartTime)
}

func TestCompleteBlockedByMissingRequiredFile(t *testing.T) {
	h := newHarness()
	id := h.seedWorkOrder(domain.StatusInProgress, domain.SubWorkStarted, func(wo *domain.WorkOrder) {
		wo.TechnicianID = strptr("tech-1")
	})
	h.services.required["svc-1"] = []domain.FileType{
		{ID: "ft-a", Name: "Service Report"},
		{ID: "ft-b", Name: "Installation Photo"},
	}
	h.files.uploaded[id] = []string{"ft-a"}

	_, err := h.engine.Complete(context.Background(), id, techActor, CompleteInput{})
	missing := missingItems(t, err)
	assert.Equal(t, []string{"Installation Photo"}, missing)

	stored := h.workOrders.get(id)
	top, _ := h.slugOf(stored)
	assert.Equal(t, domain.StatusInProgress, top)
	assert.Nil(t, stored.CompletedAt)
	assert.Empty(t, h.audit.byWorkOrder(id))
}

func TestCompleteBrandWarrantyRequiresDetails(t *testing.T) {
	h := newHarness()
	id := h.seedWorkOrder(domain.StatusInProgress, domain.SubWorkStarted, func(wo *domain.WorkOrder) {
		wo.TechnicianID = strptr("tech-1")
		wo.WarrantyType = domain.WarrantyOnBrand
		wo.IndoorSerialNo = strptr("IN-123")
		wo.OutdoorSerialNo = strptr("OUT-456")
		wo.IndoorModel = strptr("M-IN")
		wo.OutdoorModel = strptr("M-OUT")
	})

	_, err := h.engine.Complete(context.Background(), id, techActor, CompleteInput{})
	missing := missingItems(t, err)
	assert.Equal(t, []string{"Purchase Date"}, missing)

	// Supplying the missing field at completion time unblocks the guard.
	purchase := testClock.AddDate(-1, 0, 0)
	wo, err := h.engine.Complete(context.Background(), id, techActor, CompleteInput{PurchaseDate: &purchase})
	require.NoError(t, err)
	top, sub := h.slugOf(wo)
	assert.Equal(t, domain.StatusCompleted, top)
	assert.Equal(t, domain.SubPendingServiceCentre, sub)
	require.NotNil(t, wo.CompletedBy)
	assert.Equal(t, "tech-1", *wo.CompletedBy)
}

func TestCompleteSetsEndTimestamps(t *testing.T) {
	h := newHarness()
	id := h.seedWorkOrder(domain.StatusInProgress, domain.SubWorkStarted, func(wo *domain.WorkOrder) {
		wo.TechnicianID = strptr("tech-1")
	})

	wo, err := h.engine.Complete(context.Background(), id, techActor, CompleteInput{Remarks: "replaced filter"})
	require.NoError(t, err)
	require.NotNil(t, wo.ServiceEndDate)
	require.NotNil(t, wo.ServiceEndTime)
	require.NotNil(t, wo.CompletedAt)
	assert.Contains(t, wo.Remarks, "replaced filter")
}

func TestPartInDemandRoundTrip(t *testing.T) {
	h := newHarness()
	id := h.seedWorkOrder(domain.StatusInProgress, domain.SubWorkStarted, func(wo *domain.WorkOrder) {
		wo.TechnicianID = strptr("tech-1")
	})

	// No linked parts: cannot park the work order.
	_, err := h.engine.MarkPartInDemand(context.Background(), id, techActor)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeIllegalTransition))

	h.parts.parts[id] = []domain.Part{
		{ID: "p-1", WorkOrderID: id, Name: "Compressor", State: domain.PartRequested},
	}
	wo, err := h.engine.MarkPartInDemand(context.Background(), id, techActor)
	require.NoError(t, err)
	top, sub := h.slugOf(wo)
	assert.Equal(t, domain.StatusPartInDemand, top)
	assert.Empty(t, sub)

	// Part still pending: completion from part demand stays blocked.
	_, err = h.engine.CompleteFromPartDemand(context.Background(), id, techActor)
	missing := missingItems(t, err)
	assert.Equal(t, []string{"Compressor (REQUESTED)"}, missing)

	h.parts.parts[id][0].State = domain.PartInstalled
	wo, err = h.engine.CompleteFromPartDemand(context.Background(), id, techActor)
	require.NoError(t, err)
	top, sub = h.slugOf(wo)
	assert.Equal(t, domain.StatusCompleted, top)
	assert.Equal(t, domain.SubPendingServiceCentre, sub)
}

func TestApprovePartialCommitWithPendingFiles(t *testing.T) {
	h := newHarness()
	id := h.seedWorkOrder(domain.StatusCompleted, domain.SubPendingServiceCentre, func(wo *domain.WorkOrder) {
		wo.TechnicianID = strptr("tech-1")
		wo.CompletedAt = timeptr(testClock)
	})
	h.files.pending[id] = []domain.WorkOrderFile{
		{FileName: "report.pdf", ApprovalStatus: domain.FileApprovalPending},
	}

	_, err := h.engine.Approve(context.Background(), id, crmActor)
	missing := missingItems(t, err)
	assert.Equal(t, []string{"report.pdf (pending)"}, missing)

	// The sub-status move committed despite the violation.
	stored := h.workOrders.get(id)
	_, sub := h.slugOf(stored)
	assert.Equal(t, domain.SubFeedbackPending, sub)

	entries := h.audit.byWorkOrder(id)
	require.NotEmpty(t, entries)
	last := entries[len(entries)-1]
	assert.Equal(t, domain.AuditActionReview, last.Action)
	assert.Contains(t, last.Metadata, "missing_files")
}

func TestApproveCleanPath(t *testing.T) {
	h := newHarness()
	id := h.seedWorkOrder(domain.StatusCompleted, domain.SubPendingServiceCentre, func(wo *domain.WorkOrder) {
		wo.CompletedAt = timeptr(testClock)
	})

	wo, err := h.engine.Approve(context.Background(), id, crmActor)
	require.NoError(t, err)
	_, sub := h.slugOf(wo)
	assert.Equal(t, domain.SubFeedbackPending, sub)
}

func TestCloseBeforeApproveRejected(t *testing.T) {
	h := newHarness()
	id := h.seedWorkOrder(domain.StatusCompleted, domain.SubPendingServiceCentre, func(wo *domain.WorkOrder) {
		wo.CompletedAt = timeptr(testClock)
	})
	h.feedback.put(id, 5)

	_, err := h.engine.Close(context.Background(), id, crmActor)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeIllegalTransition))
}

func TestCloseBlockedByRejectedFileThenSucceeds(t *testing.T) {
	h := newHarness()
	id := h.seedWorkOrder(domain.StatusCompleted, domain.SubFeedbackPending, func(wo *domain.WorkOrder) {
		wo.CompletedAt = timeptr(testClock)
	})
	h.feedback.put(id, 5)
	h.files.pending[id] = []domain.WorkOrderFile{
		{FileName: "invoice.jpg", ApprovalStatus: domain.FileApprovalRejected},
	}

	_, err := h.engine.Close(context.Background(), id, crmActor)
	missing := missingItems(t, err)
	assert.Equal(t, []string{"invoice.jpg (rejected)"}, missing)

	h.files.pending[id] = nil
	wo, err := h.engine.Close(context.Background(), id, crmActor)
	require.NoError(t, err)
	top, _ := h.slugOf(wo)
	assert.Equal(t, domain.StatusClosed, top)
	assert.True(t, wo.IsLocked)
	require.NotNil(t, wo.ClosedAt)
}

func TestCloseBrandWarrantyNeedsComplaintNumber(t *testing.T) {
	h := newHarness()
	id := h.seedWorkOrder(domain.StatusCompleted, domain.SubFeedbackPending, func(wo *domain.WorkOrder) {
		wo.WarrantyType = domain.WarrantyOnBrand
		wo.CompletedAt = timeptr(testClock)
	})
	h.feedback.put(id, 5)

	_, err := h.engine.Close(context.Background(), id, crmActor)
	missing := missingItems(t, err)
	assert.Contains(t, missing, "Brand Complaint Number")
}

func TestCloseRequiresFeedback(t *testing.T) {
	h := newHarness()
	id := h.seedWorkOrder(domain.StatusCompleted, domain.SubFeedbackPending, func(wo *domain.WorkOrder) {
		wo.CompletedAt = timeptr(testClock)
	})

	_, err := h.engine.Close(context.Background(), id, crmActor)
	missing := missingItems(t, err)
	assert.Equal(t, []string{"Customer Feedback"}, missing)
}

func TestSubmitFeedbackEnablesClose(t *testing.T) {
	h := newHarness()
	id := h.seedWorkOrder(domain.StatusCompleted, domain.SubFeedbackPending, func(wo *domain.WorkOrder) {
		wo.CompletedAt = timeptr(testClock)
	})

	feedback, err := h.engine.SubmitFeedback(context.Background(), id, crmActor, FeedbackInput{
		Rating:   4,
		Comments: "  prompt and tidy  ",
	})
	require.NoError(t, err)
	assert.Equal(t, id, feedback.WorkOrderID)
	assert.Equal(t, 4, feedback.Rating)
	assert.Equal(t, "prompt and tidy", feedback.Comments)

	stored, err := h.engine.GetFeedback(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, feedback.ID, stored.ID)

	entries := h.audit.byWorkOrder(id)
	require.NotEmpty(t, entries)
	last := entries[len(entries)-1]
	assert.Equal(t, domain.AuditActionReview, last.Action)
	assert.Contains(t, last.Metadata, "rating")

	wo, err := h.engine.Close(context.Background(), id, crmActor)
	require.NoError(t, err)
	top, _ := h.slugOf(wo)
	assert.Equal(t, domain.StatusClosed, top)
}

func TestSubmitFeedbackTwiceRejected(t *testing.T) {
	h := newHarness()
	id := h.seedWorkOrder(domain.StatusCompleted, domain.SubFeedbackPending, func(wo *domain.WorkOrder) {
		wo.CompletedAt = timeptr(testClock)
	})

	_, err := h.engine.SubmitFeedback(context.Background(), id, crmActor, FeedbackInput{Rating: 5})
	require.NoError(t, err)

	_, err = h.engine.SubmitFeedback(context.Background(), id, crmActor, FeedbackInput{Rating: 2})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))
}

func TestSubmitFeedbackRequiresFeedbackPending(t *testing.T) {
	h := newHarness()
	id := h.seedWorkOrder(domain.StatusCompleted, domain.SubPendingServiceCentre, func(wo *domain.WorkOrder) {
		wo.CompletedAt = timeptr(testClock)
	})

	_, err := h.engine.SubmitFeedback(context.Background(), id, crmActor, FeedbackInput{Rating: 3})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeIllegalTransition))
}

func TestSubmitFeedbackRatingOutOfRange(t *testing.T) {
	h := newHarness()
	id := h.seedWorkOrder(domain.StatusCompleted, domain.SubFeedbackPending, func(wo *domain.WorkOrder) {
		wo.CompletedAt = timeptr(testClock)
	})

	_, err := h.engine.SubmitFeedback(context.Background(), id, crmActor, FeedbackInput{Rating: 6})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))

	_, err = h.engine.GetFeedback(context.Background(), id)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestLockedWorkOrderRejectsAllOperations(t *testing.T) {
	h := newHarness()
	id := h.seedWorkOrder(domain.StatusClosed, "", func(wo *domain.WorkOrder) {
		wo.IsLocked = true
		wo.ClosedAt = timeptr(testClock)
	})

	_, err := h.engine.Accept(context.Background(), id, techActor)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeIllegalTransition))
	_, err = h.engine.Cancel(context.Background(), id, crmActor, CancelInput{Reason: "late"})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeIllegalTransition))
	_, err = h.assignments.Assign(context.Background(), id, "tech-2", "", crmActor)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeIllegalTransition))
}

func TestRejectCompletionMovesToRework(t *testing.T) {
	h := newHarness()
	id := h.seedWorkOrder(domain.StatusCompleted, domain.SubPendingServiceCentre, func(wo *domain.WorkOrder) {
		wo.TechnicianID = strptr("tech-1")
		wo.CompletedAt = timeptr(testClock)
		wo.CompletedBy = strptr("tech-1")
		wo.ServiceEndDate = timeptr(testClock)
		wo.ServiceEndTime = strptr("16:30")
	})

	wo, err := h.engine.RejectCompletion(context.Background(), id, crmActor, "photos unusable")
	require.NoError(t, err)

	top, sub := h.slugOf(wo)
	assert.Equal(t, domain.StatusInProgress, top)
	assert.Equal(t, domain.SubReworkRequired, sub)
	assert.Nil(t, wo.CompletedAt)
	assert.Nil(t, wo.CompletedBy)
	assert.Nil(t, wo.ServiceEndDate)
	assert.Nil(t, wo.ServiceEndTime)
	assert.Contains(t, wo.Remarks, "photos unusable")
}

func TestCancelVariants(t *testing.T) {
	h := newHarness()
	id := h.seedWorkOrder(domain.StatusDispatched, domain.SubAssignedToTechnician, func(wo *domain.WorkOrder) {
		wo.TechnicianID = strptr("tech-1")
	})

	wo, err := h.engine.Cancel(context.Background(), id, crmActor, CancelInput{Reason: "customer moved"})
	require.NoError(t, err)
	top, sub := h.slugOf(wo)
	assert.Equal(t, domain.StatusCancelled, top)
	assert.Equal(t, domain.SubCustomerCancelled, sub)
	require.NotNil(t, wo.CancelledBy)
	assert.Equal(t, "crm-1", *wo.CancelledBy)

	// A cancelled work order allows no further transitions.
	_, err = h.engine.Accept(context.Background(), id, techActor)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeIllegalTransition))
}

func TestCancelCompletedRejected(t *testing.T) {
	h := newHarness()
	id := h.seedWorkOrder(domain.StatusCompleted, domain.SubPendingServiceCentre, func(wo *domain.WorkOrder) {
		wo.CompletedAt = timeptr(testClock)
	})

	_, err := h.engine.Cancel(context.Background(), id, crmActor, CancelInput{Reason: "late"})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeIllegalTransition))
}

func TestScheduleSetsAppointmentAndSubStatus(t *testing.T) {
	h := newHarness()
	id := h.seedWorkOrder(domain.StatusDispatched, domain.SubAssignedToTechnician, func(wo *domain.WorkOrder) {
		wo.TechnicianID = strptr("tech-1")
	})

	date := testClock.AddDate(0, 0, 2)
	wo, err := h.engine.Schedule(context.Background(), id, crmActor, ScheduleInput{Date: date, Time: "14:00"})
	require.NoError(t, err)

	require.NotNil(t, wo.AppointmentDate)
	assert.Equal(t, "14:00", *wo.AppointmentTime)
	_, sub := h.slugOf(wo)
	assert.Equal(t, domain.SubTechnicianAccepted, sub)
}

func TestScheduleWithoutTechnicianKeepsStatus(t *testing.T) {
	h := newHarness()
	id := h.seedWorkOrder(domain.StatusAllocated, "", nil)

	wo, err := h.engine.Schedule(context.Background(), id, crmActor, ScheduleInput{Date: testClock, Time: "10:00"})
	require.NoError(t, err)
	top, sub := h.slugOf(wo)
	assert.Equal(t, domain.StatusAllocated, top)
	assert.Empty(t, sub)
}

func TestVersionConflictRetriesOnce(t *testing.T) {
	h := newHarness()
	id := h.seedWorkOrder(domain.StatusDispatched, domain.SubAssignedToTechnician, func(wo *domain.WorkOrder) {
		wo.TechnicianID = strptr("tech-1")
	})

	h.workOrders.conflicts = 1
	wo, err := h.engine.Accept(context.Background(), id, techActor)
	require.NoError(t, err)
	_, sub := h.slugOf(wo)
	assert.Equal(t, domain.SubTechnicianAccepted, sub)
}

func TestVersionConflictExhaustsAfterSecondFailure(t *testing.T) {
	h := newHarness()
	id := h.seedWorkOrder(domain.StatusDispatched, domain.SubAssignedToTechnician, func(wo *domain.WorkOrder) {
		wo.TechnicianID = strptr("tech-1")
	})

	h.workOrders.conflicts = 2
	_, err := h.engine.Accept(context.Background(), id, techActor)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConflictRetryExhausted))
}

func TestAuditTrailReplaysTransitionHistory(t *testing.T) {
	h := newHarness()
	id := h.seedWorkOrder(domain.StatusDispatched, domain.SubTechnicianAccepted, func(wo *domain.WorkOrder) {
		wo.TechnicianID = strptr("tech-1")
		wo.AcceptedAt = timeptr(testClock)
	})

	_, err := h.engine.StartService(context.Background(), id, techActor, StartServiceInput{})
	require.NoError(t, err)
	_, err = h.engine.Complete(context.Background(), id, techActor, CompleteInput{})
	require.NoError(t, err)

	entries := h.audit.byWorkOrder(id)
	require.NotEmpty(t, entries)

	var descriptions []string
	for _, entry := range entries {
		descriptions = append(descriptions, entry.Description)
	}
	assert.Contains(t, descriptions, "Status was changed from Dispatched to In Progress")
	assert.Contains(t, descriptions, "Status was changed from In Progress to Completed")

	// Every entry carries the acting staff member.
	for _, entry := range entries {
		require.NotNil(t, entry.ActorID)
	}
}

func TestGetWorkOrderNotFound(t *testing.T) {
	h := newHarness()
	_, err := h.engine.GetWorkOrder(context.Background(), "missing")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
	assert.False(t, errors.Is(err, context.Canceled))
}
