package domain

import "time"

// AuditAction classifies why an audit entry was written.
type AuditAction string

const (
	AuditActionCreated    AuditAction = "CREATED"
	AuditActionTransition AuditAction = "TRANSITION"
	AuditActionAssignment AuditAction = "ASSIGNMENT"
	AuditActionReview     AuditAction = "REVIEW"
)

// AuditEntry is one immutable record of a single field change on a work
// order. Old and new values are stored already resolved to display form.
type AuditEntry struct {
	ID          string
	WorkOrderID string
	Action      AuditAction
	Description string
	Field       *string
	OldValue    *string
	NewValue    *string
	Metadata    map[string]any
	ActorID     *string
	CreatedAt   time.Time
}
