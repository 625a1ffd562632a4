package models

import "time"

// SprintStatus defines the lifecycle state of a sprint. Transitions are
// one-directional: PLANNING -> ACTIVE -> COMPLETED.
type SprintStatus string

const (
	SprintPlanning  SprintStatus = "PLANNING"
	SprintActive    SprintStatus = "ACTIVE"
	SprintCompleted SprintStatus = "COMPLETED"
)

type Sprint struct {
	ID        int64        `json:"id"`
	ProjectID int64        `json:"project_id"`
	Name      string       `json:"name"`
	Goal      string       `json:"goal"`
	Status    SprintStatus `json:"status"`
	StartDate *time.Time   `json:"start_date,omitempty"`
	EndDate   *time.Time   `json:"end_date,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
