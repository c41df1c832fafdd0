package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/spec-kit/field-service/internal/catalog"
	"github.com/spec-kit/field-service/internal/domain"
	"github.com/spec-kit/field-service/internal/repository"
)

// LabelResolver turns a raw field value into its display form.
type LabelResolver func(ctx context.Context, value any) string

// AuditTrail writes the append-only change ledger for work orders. The
// field-to-resolver table is registered at construction; no runtime
// reflection is involved in label resolution.
type AuditTrail struct {
	repo        repository.AuditRepository
	fieldLabels map[string]string
	resolvers   map[string]LabelResolver
}

// NewAuditTrail builds the trail with resolvers for catalog-backed and
// staff-backed fields; remaining fields use the generic formatter.
func NewAuditTrail(repo repository.AuditRepository, cat *catalog.Catalog, staff StaffDirectory) *AuditTrail {
	statusResolver := func(ctx context.Context, value any) string {
		id, ok := value.(int64)
		if !ok {
			return ""
		}
		return cat.Label(id)
	}
	staffResolver := func(ctx context.Context, value any) string {
		id, ok := value.(string)
		if !ok || id == "" {
			return ""
		}
		return staff.DisplayName(ctx, id)
	}

	return &AuditTrail{
		repo: repo,
		fieldLabels: map[string]string{
			"status":             "Status",
			"sub_status":         "Sub Status",
			"technician_id":      "Technician",
			"assigned_at":        "Assigned At",
			"accepted_at":        "Accepted At",
			"rejected_at":        "Rejected At",
			"reject_reason":      "Reject Reason",
			"appointment_date":   "Appointment Date",
			"appointment_time":   "Appointment Time",
			"service_start_date": "Service Start Date",
			"service_start_time": "Service Start Time",
			"service_end_date":   "Service End Date",
			"service_end_time":   "Service End Time",
			"completed_at":       "Completed At",
			"completed_by":       "Completed By",
			"cancelled_at":       "Cancelled At",
			"cancelled_by":       "Cancelled By",
			"closed_at":          "Closed At",
			"is_locked":          "Locked",
			"brand_complaint_no": "Brand Complaint Number",
			"indoor_serial_no":   "Indoor Serial Number",
			"outdoor_serial_no":  "Outdoor Serial Number",
			"indoor_model":       "Indoor Model",
			"outdoor_model":      "Outdoor Model",
			"purchase_date":      "Purchase Date",
		},
		resolvers: map[string]LabelResolver{
			"status":        statusResolver,
			"sub_status":    statusResolver,
			"technician_id": staffResolver,
			"completed_by":  staffResolver,
			"cancelled_by":  staffResolver,
		},
	}
}

// RecordChanges writes one audit entry per changed field, with old and
// new values resolved to display form. Failures propagate so the
// enclosing transaction rolls back: the ledger must never diverge from
// the work order's real history.
func (t *AuditTrail) RecordChanges(ctx context.Context, workOrderID string, action domain.AuditAction, actor Actor, changes []FieldChange, metadata map[string]any) error {
	statusChanged := false
	for _, change := range changes {
		if change.Field == "status" {
			statusChanged = true
			break
		}
	}

	for _, change := range changes {
		oldLabel := t.resolve(ctx, change.Field, change.Old)
		newLabel := t.resolve(ctx, change.Field, change.New)
		entry := &domain.AuditEntry{
			WorkOrderID: workOrderID,
			Action:      action,
			Description: t.describe(change.Field, oldLabel, newLabel, statusChanged),
			Metadata:    metadata,
		}
		field := change.Field
		entry.Field = &field
		if oldLabel != "" {
			old := oldLabel
			entry.OldValue = &old
		}
		if newLabel != "" {
			val := newLabel
			entry.NewValue = &val
		}
		if actor.ID != "" {
			actorID := actor.ID
			entry.ActorID = &actorID
		}
		if err := t.repo.Create(ctx, entry); err != nil {
			return fmt.Errorf("write audit entry: %w", err)
		}
	}
	return nil
}

// RecordNote writes a free-form audit entry not tied to a single field.
func (t *AuditTrail) RecordNote(ctx context.Context, workOrderID string, action domain.AuditAction, description string, actor Actor, metadata map[string]any) error {
	entry := &domain.AuditEntry{
		WorkOrderID: workOrderID,
		Action:      action,
		Description: description,
		Metadata:    metadata,
	}
	if actor.ID != "" {
		actorID := actor.ID
		entry.ActorID = &actorID
	}
	if err := t.repo.Create(ctx, entry); err != nil {
		return fmt.Errorf("write audit entry: %w", err)
	}
	return nil
}

func (t *AuditTrail) resolve(ctx context.Context, field string, value any) string {
	if value == nil {
		return ""
	}
	if resolver, ok := t.resolvers[field]; ok {
		return resolver(ctx, value)
	}
	return formatValue(value)
}

// describe builds the human description for one change. A sub-status
// move inside an unchanged top status names only the new sub-status;
// equal or absent resolved values fall back to a generic update line so
// the reader never sees "from X to X".
func (t *AuditTrail) describe(field, oldLabel, newLabel string, statusChanged bool) string {
	label := t.fieldLabels[field]
	if label == "" {
		label = field
	}
	switch {
	case field == "sub_status" && !statusChanged && newLabel != "":
		return newLabel + " was updated"
	case oldLabel == "" || oldLabel == newLabel:
		return label + " was updated"
	case newLabel == "":
		return label + " was cleared"
	default:
		return fmt.Sprintf("%s was changed from %s to %s", label, oldLabel, newLabel)
	}
}

func formatValue(value any) string {
	switch v := value.(type) {
	case time.Time:
		return v.Format("2006-01-02 15:04")
	case string:
		return v
	case bool:
		if v {
			return "Yes"
		}
		return "No"
	default:
		return fmt.Sprintf("%v", v)
	}
}
