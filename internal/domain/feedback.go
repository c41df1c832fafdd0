package domain

import "time"

// Feedback is the customer's post-service rating for a work order.
type Feedback struct {
	ID          string
	WorkOrderID string
	Rating      int
	Comments    string
	CreatedAt   time.Time
}
