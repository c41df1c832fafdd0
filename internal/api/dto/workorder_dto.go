package dto

import (
	"time"

	"github.com/spec-kit/field-service/internal/domain"
)

// CreateWorkOrderRequest payload.
type CreateWorkOrderRequest struct {
	CustomerID      string              `json:"customer_id"`
	ServiceID       string              `json:"service_id"`
	BrandID         *string             `json:"brand_id"`
	ProductID       *string             `json:"product_id"`
	WarrantyType    domain.WarrantyType `json:"warranty_type"`
	AppointmentDate *string             `json:"appointment_date"`
	AppointmentTime *string             `json:"appointment_time"`
	Remarks         string              `json:"remarks"`
}

// AssignRequest payload.
type AssignRequest struct {
	TechnicianID string `json:"technician_id"`
	Note         string `json:"note"`
}

// RejectAssignmentRequest payload.
type RejectAssignmentRequest struct {
	Reason string `json:"reason"`
}

// StartServiceRequest payload.
type StartServiceRequest struct {
	OnTheWay bool `json:"on_the_way"`
}

// CompleteRequest payload. Warranty fields may be supplied late, at
// completion time.
type CompleteRequest struct {
	ServiceEndDate   *string `json:"service_end_date"`
	ServiceEndTime   *string `json:"service_end_time"`
	IndoorSerialNo   *string `json:"indoor_serial_no"`
	OutdoorSerialNo  *string `json:"outdoor_serial_no"`
	IndoorModel      *string `json:"indoor_model"`
	OutdoorModel     *string `json:"outdoor_model"`
	PurchaseDate     *string `json:"purchase_date"`
	BrandComplaintNo *string `json:"brand_complaint_no"`
	Remarks          string  `json:"remarks"`
}

// RejectCompletionRequest payload.
type RejectCompletionRequest struct {
	Reason string `json:"reason"`
}

// CancelRequest payload.
type CancelRequest struct {
	Reason       string `json:"reason"`
	ByTechnician bool   `json:"by_technician"`
}

// ScheduleRequest payload.
type ScheduleRequest struct {
	AppointmentDate string `json:"appointment_date"`
	AppointmentTime string `json:"appointment_time"`
}

// SubmitFeedbackRequest payload.
type SubmitFeedbackRequest struct {
	Rating   int    `json:"rating"`
	Comments string `json:"comments"`
}

// FeedbackResponse renders the customer's rating.
type FeedbackResponse struct {
	ID          string    `json:"id"`
	WorkOrderID string    `json:"work_order_id"`
	Rating      int       `json:"rating"`
	Comments    string    `json:"comments"`
	CreatedAt   time.Time `json:"created_at"`
}

// StatusResponse renders a catalog status.
type StatusResponse struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// WorkOrderResponse is the full work order view.
type WorkOrderResponse struct {
	ID               string              `json:"id"`
	SequenceKey      string              `json:"sequence_key"`
	CustomerID       string              `json:"customer_id"`
	ServiceID        string              `json:"service_id"`
	BrandID          *string             `json:"brand_id"`
	ProductID        *string             `json:"product_id"`
	WarrantyType     domain.WarrantyType `json:"warranty_type"`
	BrandComplaintNo *string             `json:"brand_complaint_no"`
	IndoorSerialNo   *string             `json:"indoor_serial_no"`
	OutdoorSerialNo  *string             `json:"outdoor_serial_no"`
	IndoorModel      *string             `json:"indoor_model"`
	OutdoorModel     *string             `json:"outdoor_model"`
	PurchaseDate     *time.Time          `json:"purchase_date"`
	Status           StatusResponse      `json:"status"`
	SubStatus        *StatusResponse     `json:"sub_status"`
	TechnicianID     *string             `json:"technician_id"`
	AssignedAt       *time.Time          `json:"assigned_at"`
	AcceptedAt       *time.Time          `json:"accepted_at"`
	RejectedAt       *time.Time          `json:"rejected_at"`
	RejectReason     *string             `json:"reject_reason"`
	AppointmentDate  *time.Time          `json:"appointment_date"`
	AppointmentTime  *string             `json:"appointment_time"`
	ServiceStartDate *time.Time          `json:"service_start_date"`
	ServiceStartTime *string             `json:"service_start_time"`
	ServiceEndDate   *time.Time          `json:"service_end_date"`
	ServiceEndTime   *string             `json:"service_end_time"`
	CompletedAt      *time.Time          `json:"completed_at"`
	CompletedBy      *string             `json:"completed_by"`
	CancelledAt      *time.Time          `json:"cancelled_at"`
	CancelledBy      *string             `json:"cancelled_by"`
	ClosedAt         *time.Time          `json:"closed_at"`
	IsLocked         bool                `json:"is_locked"`
	Remarks          string              `json:"remarks"`
	Version          int64               `json:"version"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// AuditEntryResponse is one ledger line.
type AuditEntryResponse struct {
	ID          string             `json:"id"`
	Action      domain.AuditAction `json:"action"`
	Description string             `json:"description"`
	Field       *string            `json:"field"`
	OldValue    *string            `json:"old_value"`
	NewValue    *string            `json:"new_value"`
	Metadata    map[string]any     `json:"metadata,omitempty"`
	ActorID     *string            `json:"actor_id"`
	CreatedAt   time.Time          `json:"created_at"`
}
