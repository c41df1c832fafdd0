package domain

import "time"

// PartState tracks a spare part requested for a work order.
type PartState string

const (
	PartRequested  PartState = "REQUESTED"
	PartDispatched PartState = "DISPATCHED"
	PartReceived   PartState = "RECEIVED"
	PartInstalled  PartState = "INSTALLED"
	PartReturned   PartState = "RETURNED"
)

// IsTerminal reports whether the part no longer blocks completion.
func (p PartState) IsTerminal() bool {
	return p == PartInstalled || p == PartReturned
}

// Part is a spare part linked to a work order.
type Part struct {
	ID          string
	WorkOrderID string
	Name        string
	State       PartState
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
