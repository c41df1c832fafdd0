package workflow

import (
	"time"

	"github.com/spec-kit/field-service/internal/domain"
)

// FieldChange is one observed field mutation, carrying raw values. The
// audit trail resolves them to display labels before persisting.
type FieldChange struct {
	Field string
	Old   any
	New   any
}

// trackedFields lists audited work order fields in a stable order so
// audit entries for one transition are written deterministically.
var trackedFields = []string{
	"status",
	"sub_status",
	"technician_id",
	"assigned_at",
	"accepted_at",
	"rejected_at",
	"reject_reason",
	"appointment_date",
	"appointment_time",
	"service_start_date",
	"service_start_time",
	"service_end_date",
	"service_end_time",
	"completed_at",
	"completed_by",
	"cancelled_at",
	"cancelled_by",
	"closed_at",
	"is_locked",
	"brand_complaint_no",
	"indoor_serial_no",
	"outdoor_serial_no",
	"indoor_model",
	"outdoor_model",
	"purchase_date",
}

type snapshot map[string]any

// takeSnapshot captures the audited fields of a work order before
// mutation.
func takeSnapshot(wo *domain.WorkOrder) snapshot {
	return fieldValues(wo)
}

// diff returns the fields whose value changed since the snapshot.
func (s snapshot) diff(wo *domain.WorkOrder) []FieldChange {
	current := fieldValues(wo)
	var changes []FieldChange
	for _, field := range trackedFields {
		if !valuesEqual(s[field], current[field]) {
			changes = append(changes, FieldChange{Field: field, Old: s[field], New: current[field]})
		}
	}
	return changes
}

func fieldValues(wo *domain.WorkOrder) map[string]any {
	return map[string]any{
		"status":             wo.StatusID,
		"sub_status":         derefInt64(wo.SubStatusID),
		"technician_id":      derefString(wo.TechnicianID),
		"assigned_at":        derefTime(wo.AssignedAt),
		"accepted_at":        derefTime(wo.AcceptedAt),
		"rejected_at":        derefTime(wo.RejectedAt),
		"reject_reason":      derefString(wo.RejectReason),
		"appointment_date":   derefTime(wo.AppointmentDate),
		"appointment_time":   derefString(wo.AppointmentTime),
		"service_start_date": derefTime(wo.ServiceStartDate),
		"service_start_time": derefString(wo.ServiceStartTime),
		"service_end_date":   derefTime(wo.ServiceEndDate),
		"service_end_time":   derefString(wo.ServiceEndTime),
		"completed_at":       derefTime(wo.CompletedAt),
		"completed_by":       derefString(wo.CompletedBy),
		"cancelled_at":       derefTime(wo.CancelledAt),
		"cancelled_by":       derefString(wo.CancelledBy),
		"closed_at":          derefTime(wo.ClosedAt),
		"is_locked":          wo.IsLocked,
		"brand_complaint_no": derefString(wo.BrandComplaintNo),
		"indoor_serial_no":   derefString(wo.IndoorSerialNo),
		"outdoor_serial_no":  derefString(wo.OutdoorSerialNo),
		"indoor_model":       derefString(wo.IndoorModel),
		"outdoor_model":      derefString(wo.OutdoorModel),
		"purchase_date":      derefTime(wo.PurchaseDate),
	}
}

func valuesEqual(a, b any) bool {
	at, aok := a.(time.Time)
	bt, bok := b.(time.Time)
	if aok && bok {
		return at.Equal(bt)
	}
	return a == b
}

func derefInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func derefString(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func derefTime(v *time.Time) any {
	if v == nil {
		return nil
	}
	return *v
}
