package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/field-service/internal/api/dto"
	"github.com/spec-kit/field-service/internal/auth"
	"github.com/spec-kit/field-service/internal/catalog"
	"github.com/spec-kit/field-service/internal/domain"
	"github.com/spec-kit/field-service/internal/repository"
	"github.com/spec-kit/field-service/internal/workflow"
)

const dateLayout = "2006-01-02"

// WorkOrdersHandler exposes the work order lifecycle endpoints.
type WorkOrdersHandler struct {
	engine      *workflow.Engine
	assignments *workflow.AssignmentManager
	audits      repository.AuditRepository
	catalog     *catalog.Catalog
}

// NewWorkOrdersHandler constructs handler.
func NewWorkOrdersHandler(engine *workflow.Engine, assignments *workflow.AssignmentManager, audits repository.AuditRepository, cat *catalog.Catalog) *WorkOrdersHandler {
	return &WorkOrdersHandler{engine: engine, assignments: assignments, audits: audits, catalog: cat}
}

// Create POST /work-orders.
func (h *WorkOrdersHandler) Create(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.CreateWorkOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if strings.TrimSpace(req.CustomerID) == "" || strings.TrimSpace(req.ServiceID) == "" {
		return fiber.NewError(http.StatusBadRequest, "customer_id and service_id required")
	}

	input := workflow.CreateInput{
		CustomerID:      req.CustomerID,
		ServiceID:       req.ServiceID,
		BrandID:         req.BrandID,
		ProductID:       req.ProductID,
		WarrantyType:    req.WarrantyType,
		AppointmentTime: req.AppointmentTime,
		Remarks:         req.Remarks,
	}
	if req.AppointmentDate != nil {
		date, err := time.Parse(dateLayout, *req.AppointmentDate)
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, "invalid appointment_date")
		}
		input.AppointmentDate = &date
	}

	wo, err := h.engine.Create(c.Context(), input, actor)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": h.workOrderResponse(wo)})
}

// Get GET /work-orders/:id.
func (h *WorkOrdersHandler) Get(c *fiber.Ctx) error {
	wo, err := h.engine.GetWorkOrder(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.workOrderResponse(wo)})
}

// List GET /work-orders.
func (h *WorkOrdersHandler) List(c *fiber.Ctx) error {
	filter := repository.WorkOrderFilter{}
	if slug := c.Query("status"); slug != "" {
		top, _, err := h.catalog.Resolve(slug, "")
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, "unknown status")
		}
		statusID := top.ID
		filter.StatusID = &statusID
	}
	if technicianID := c.Query("technician_id"); technicianID != "" {
		filter.TechnicianID = &technicianID
	}
	if customerID := c.Query("customer_id"); customerID != "" {
		filter.CustomerID = &customerID
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize

	workOrders, err := h.engine.ListWorkOrders(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.WorkOrderResponse, 0, len(workOrders))
	for i := range workOrders {
		items = append(items, h.workOrderResponse(&workOrders[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Assign POST /work-orders/:id/assign.
func (h *WorkOrdersHandler) Assign(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if strings.TrimSpace(req.TechnicianID) == "" {
		return fiber.NewError(http.StatusBadRequest, "technician_id required")
	}
	wo, err := h.assignments.Assign(c.Context(), c.Params("id"), req.TechnicianID, req.Note, actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.workOrderResponse(wo)})
}

// Accept POST /work-orders/:id/accept.
func (h *WorkOrdersHandler) Accept(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	wo, err := h.engine.Accept(c.Context(), c.Params("id"), actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.workOrderResponse(wo)})
}

// RejectAssignment POST /work-orders/:id/reject-assignment.
func (h *WorkOrdersHandler) RejectAssignment(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.RejectAssignmentRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, "invalid payload")
		}
	}
	wo, err := h.assignments.Reject(c.Context(), c.Params("id"), req.Reason, actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.workOrderResponse(wo)})
}

// StartService POST /work-orders/:id/start.
func (h *WorkOrdersHandler) StartService(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.StartServiceRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, "invalid payload")
		}
	}
	wo, err := h.engine.StartService(c.Context(), c.Params("id"), actor, workflow.StartServiceInput{OnTheWay: req.OnTheWay})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.workOrderResponse(wo)})
}

// Complete POST /work-orders/:id/complete.
func (h *WorkOrdersHandler) Complete(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.CompleteRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, "invalid payload")
		}
	}
	input := workflow.CompleteInput{
		EndTime:          req.ServiceEndTime,
		IndoorSerialNo:   req.IndoorSerialNo,
		OutdoorSerialNo:  req.OutdoorSerialNo,
		IndoorModel:      req.IndoorModel,
		OutdoorModel:     req.OutdoorModel,
		BrandComplaintNo: req.BrandComplaintNo,
		Remarks:          req.Remarks,
	}
	if req.ServiceEndDate != nil {
		date, err := time.Parse(dateLayout, *req.ServiceEndDate)
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, "invalid service_end_date")
		}
		input.EndDate = &date
	}
	if req.PurchaseDate != nil {
		date, err := time.Parse(dateLayout, *req.PurchaseDate)
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, "invalid purchase_date")
		}
		input.PurchaseDate = &date
	}

	wo, err := h.engine.Complete(c.Context(), c.Params("id"), actor, input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.workOrderResponse(wo)})
}

// MarkPartInDemand POST /work-orders/:id/part-in-demand.
func (h *WorkOrdersHandler) MarkPartInDemand(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	wo, err := h.engine.MarkPartInDemand(c.Context(), c.Params("id"), actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.workOrderResponse(wo)})
}

// CompleteFromPartDemand POST /work-orders/:id/complete-from-part-demand.
func (h *WorkOrdersHandler) CompleteFromPartDemand(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	wo, err := h.engine.CompleteFromPartDemand(c.Context(), c.Params("id"), actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.workOrderResponse(wo)})
}

// Approve POST /work-orders/:id/approve. The sub-status move commits
// even when file review is outstanding; that case surfaces as a 422
// with the already-updated work order omitted.
func (h *WorkOrdersHandler) Approve(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	wo, err := h.engine.Approve(c.Context(), c.Params("id"), actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.workOrderResponse(wo)})
}

// Close POST /work-orders/:id/close.
func (h *WorkOrdersHandler) Close(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	wo, err := h.engine.Close(c.Context(), c.Params("id"), actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.workOrderResponse(wo)})
}

// RejectCompletion POST /work-orders/:id/reject-completion.
func (h *WorkOrdersHandler) RejectCompletion(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.RejectCompletionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	wo, err := h.engine.RejectCompletion(c.Context(), c.Params("id"), actor, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.workOrderResponse(wo)})
}

// Cancel POST /work-orders/:id/cancel.
func (h *WorkOrdersHandler) Cancel(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.CancelRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, "invalid payload")
		}
	}
	wo, err := h.engine.Cancel(c.Context(), c.Params("id"), actor, workflow.CancelInput{
		Reason:       req.Reason,
		ByTechnician: req.ByTechnician,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.workOrderResponse(wo)})
}

// Schedule POST /work-orders/:id/schedule.
func (h *WorkOrdersHandler) Schedule(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.ScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	date, err := time.Parse(dateLayout, req.AppointmentDate)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid appointment_date")
	}
	if strings.TrimSpace(req.AppointmentTime) == "" {
		return fiber.NewError(http.StatusBadRequest, "appointment_time required")
	}
	wo, err := h.engine.Schedule(c.Context(), c.Params("id"), actor, workflow.ScheduleInput{
		Date: date,
		Time: req.AppointmentTime,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.workOrderResponse(wo)})
}

// SubmitFeedback POST /work-orders/:id/feedback.
func (h *WorkOrdersHandler) SubmitFeedback(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.SubmitFeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	feedback, err := h.engine.SubmitFeedback(c.Context(), c.Params("id"), actor, workflow.FeedbackInput{
		Rating:   req.Rating,
		Comments: req.Comments,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": feedbackResponse(feedback)})
}

// GetFeedback GET /work-orders/:id/feedback.
func (h *WorkOrdersHandler) GetFeedback(c *fiber.Ctx) error {
	feedback, err := h.engine.GetFeedback(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": feedbackResponse(feedback)})
}

// ListAudit GET /work-orders/:id/audit.
func (h *WorkOrdersHandler) ListAudit(c *fiber.Ctx) error {
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 100)
	entries, err := h.audits.ListByWorkOrder(c.Context(), c.Params("id"), pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	items := make([]dto.AuditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.AuditEntryResponse{
			ID:          entry.ID,
			Action:      entry.Action,
			Description: entry.Description,
			Field:       entry.Field,
			OldValue:    entry.OldValue,
			NewValue:    entry.NewValue,
			Metadata:    entry.Metadata,
			ActorID:     entry.ActorID,
			CreatedAt:   entry.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

func (h *WorkOrdersHandler) workOrderResponse(wo *domain.WorkOrder) dto.WorkOrderResponse {
	resp := dto.WorkOrderResponse{
		ID:               wo.ID,
		SequenceKey:      wo.SequenceKey,
		CustomerID:       wo.CustomerID,
		ServiceID:        wo.ServiceID,
		BrandID:          wo.BrandID,
		ProductID:        wo.ProductID,
		WarrantyType:     wo.WarrantyType,
		BrandComplaintNo: wo.BrandComplaintNo,
		IndoorSerialNo:   wo.IndoorSerialNo,
		OutdoorSerialNo:  wo.OutdoorSerialNo,
		IndoorModel:      wo.IndoorModel,
		OutdoorModel:     wo.OutdoorModel,
		PurchaseDate:     wo.PurchaseDate,
		TechnicianID:     wo.TechnicianID,
		AssignedAt:       wo.AssignedAt,
		AcceptedAt:       wo.AcceptedAt,
		RejectedAt:       wo.RejectedAt,
		RejectReason:     wo.RejectReason,
		AppointmentDate:  wo.AppointmentDate,
		AppointmentTime:  wo.AppointmentTime,
		ServiceStartDate: wo.ServiceStartDate,
		ServiceStartTime: wo.ServiceStartTime,
		ServiceEndDate:   wo.ServiceEndDate,
		ServiceEndTime:   wo.ServiceEndTime,
		CompletedAt:      wo.CompletedAt,
		CompletedBy:      wo.CompletedBy,
		CancelledAt:      wo.CancelledAt,
		CancelledBy:      wo.CancelledBy,
		ClosedAt:         wo.ClosedAt,
		IsLocked:         wo.IsLocked,
		Remarks:          wo.Remarks,
		Version:          wo.Version,
		CreatedAt:        wo.CreatedAt,
		UpdatedAt:        wo.UpdatedAt,
	}
	if status, ok := h.catalog.ByID(wo.StatusID); ok {
		resp.Status = dto.StatusResponse{Slug: status.Slug, Name: status.Name}
	}
	if wo.SubStatusID != nil {
		if sub, ok := h.catalog.ByID(*wo.SubStatusID); ok {
			resp.SubStatus = &dto.StatusResponse{Slug: sub.Slug, Name: sub.Name}
		}
	}
	return resp
}

func feedbackResponse(feedback *domain.Feedback) dto.FeedbackResponse {
	return dto.FeedbackResponse{
		ID:          feedback.ID,
		WorkOrderID: feedback.WorkOrderID,
		Rating:      feedback.Rating,
		Comments:    feedback.Comments,
		CreatedAt:   feedback.CreatedAt,
	}
}

func actorFromContext(c *fiber.Ctx) (workflow.Actor, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return workflow.Actor{}, fiber.NewError(http.StatusUnauthorized, "staff required")
	}
	return workflow.Actor{ID: principal.Staff.ID, Role: principal.Staff.Role}, nil
}

func parseInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
