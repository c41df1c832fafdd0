package domain

import "time"

// WarrantyType distinguishes brand-warranty jobs, which carry extra
// mandatory fields, from everything else.
type WarrantyType string

const (
	WarrantyOnBrand  WarrantyType = "on-brand-warranty"
	WarrantyOffBrand WarrantyType = "off-brand-warranty"
	WarrantyNone     WarrantyType = "no-warranty"
)

// WorkOrder is the aggregate for a scheduled field-service job.
//
// Status and SubStatus hold catalog ids; all transition logic resolves
// them to slugs through the status catalog, never compares raw ids.
type WorkOrder struct {
	ID          string
	SequenceKey string
	CustomerID  string
	ServiceID   string
	BrandID     *string
	ProductID   *string

	WarrantyType     WarrantyType
	BrandComplaintNo *string
	IndoorSerialNo   *string
	OutdoorSerialNo  *string
	IndoorModel      *string
	OutdoorModel     *string
	PurchaseDate     *time.Time

	StatusID    int64
	SubStatusID *int64

	TechnicianID *string
	AssignedAt   *time.Time
	AcceptedAt   *time.Time
	RejectedAt   *time.Time
	RejectReason *string

	AppointmentDate  *time.Time
	AppointmentTime  *string
	ServiceStartDate *time.Time
	ServiceStartTime *string
	ServiceEndDate   *time.Time
	ServiceEndTime   *string

	CompletedAt *time.Time
	CompletedBy *string
	CancelledAt *time.Time
	CancelledBy *string
	ClosedAt    *time.Time
	IsLocked    bool

	Remarks string

	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AppendRemark adds a timestamped line to the remarks log.
func (w *WorkOrder) AppendRemark(at time.Time, note string) {
	line := at.Format("2006-01-02 15:04") + " - " + note
	if w.Remarks == "" {
		w.Remarks = line
		return
	}
	w.Remarks += "\n" + line
}
