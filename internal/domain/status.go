package domain

// Status is one node of the two-level status taxonomy. Top-level
// statuses have a nil ParentID; sub-statuses point at their parent.
// Slugs are the stable contract; names are display-only.
type Status struct {
	ID       int64
	Slug     string
	Name     string
	ParentID *int64
}

// IsTop reports whether the status is a top-level status.
func (s Status) IsTop() bool {
	return s.ParentID == nil
}

// Top-level status slugs.
const (
	StatusAllocated    = "allocated"
	StatusDispatched   = "dispatched"
	StatusInProgress   = "in-progress"
	StatusPartInDemand = "part-in-demand"
	StatusCompleted    = "completed"
	StatusCancelled    = "cancelled"
	StatusClosed       = "closed"
)

// Sub-status slugs, grouped by parent.
const (
	SubAssignedToTechnician = "assigned-to-technician"
	SubTechnicianAccepted   = "technician-accepted"
	SubTechnicianRejected   = "technician-rejected"

	SubGoingToWork    = "going-to-work"
	SubWorkStarted    = "work-started"
	SubReworkRequired = "rework-required"

	SubPendingServiceCentre = "pending-service-centre-complete"
	SubFeedbackPending      = "feedback-pending"

	SubCustomerCancelled   = "customer-cancelled"
	SubTechnicianCancelled = "technician-cancelled"
)
