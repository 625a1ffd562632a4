package models

import "time"

type TicketStatus string

const (
	TicketOpen     TicketStatus = "OPEN"
	TicketResolved TicketStatus = "RESOLVED"
	TicketClosed   TicketStatus = "CLOSED"
)

// Ticket is a standalone request; unlike tasks it has no board or section
// relation.
type Ticket struct {
	ID           int64        `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Priority     TaskPriority `json:"priority"`
	Status       TicketStatus `json:"status"`
	CreatedByID  int64        `json:"created_by_id"`
	AssignedToID *int64       `json:"assigned_to_id,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}
