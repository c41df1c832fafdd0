package events

import "time"

// Kind enumerates work order lifecycle event identifiers.
type Kind string

const (
	KindCreated      Kind = "work_order_created"
	KindAssigned     Kind = "work_order_assigned"
	KindReassigned   Kind = "work_order_reassigned"
	KindAccepted     Kind = "work_order_accepted"
	KindRejected     Kind = "work_order_rejected"
	KindStarted      Kind = "work_order_started"
	KindCompleted    Kind = "work_order_completed"
	KindPartInDemand Kind = "work_order_part_in_demand"
	KindApproved     Kind = "work_order_approved"
	KindClosed       Kind = "work_order_closed"
	KindCancelled    Kind = "work_order_cancelled"
	KindReworked     Kind = "work_order_reworked"
	KindScheduled    Kind = "work_order_scheduled"
)

// Event represents a lifecycle event emitted after a committed
// transition. Message is already rendered for human delivery; delivery
// channel selection is the dispatcher's concern.
type Event struct {
	ID          string         `json:"id"`
	Kind        Kind           `json:"kind"`
	WorkOrderID string         `json:"work_order_id"`
	SequenceKey string         `json:"sequence_key"`
	ActorID     string         `json:"actor_id,omitempty"`
	Message     string         `json:"message"`
	Timestamp   time.Time      `json:"timestamp"`
	Payload     map[string]any `json:"payload,omitempty"`
}
