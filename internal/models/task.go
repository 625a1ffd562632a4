package models

import "time"

// TaskStatus defines the possible statuses for a task.
type TaskStatus string

const (
	TaskActive   TaskStatus = "ACTIVE"
	TaskComplete TaskStatus = "COMPLETE"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityNormal TaskPriority = "normal"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Task lives in exactly one section, and transitively on one board.
// Position is the rank within the section, assigned append-to-end.
type Task struct {
	ID          int64        `json:"id"`
	SectionID   int64        `json:"section_id"`
	SprintID    *int64       `json:"sprint_id,omitempty"`
	Title       string       `json:"title"`
	Content     string       `json:"content"`
	Priority    TaskPriority `json:"priority"`
	Position    int          `json:"position"`
	Status      TaskStatus   `json:"status"`
	CreatedByID int64        `json:"created_by_id"`
	UpdatedByID int64        `json:"updated_by_id"`
	AssigneeIDs []int64      `json:"assignee_ids"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// ChecklistItem is one entry of a task checklist. The whole checklist is
// persisted as a versioned blob; see TaskRepository.UpdateChecklist.
type ChecklistItem struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Checked bool   `json:"checked"`
}

// Checklist pairs the items with the version used for optimistic updates.
type Checklist struct {
	Items   []ChecklistItem `json:"items"`
	Version int64           `json:"version"`
}

type Comment struct {
	ID        int64     `json:"id"`
	TaskID    int64     `json:"task_id"`
	AuthorID  int64     `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type Subtask struct {
	ID          int64     `json:"id"`
	TaskID      int64     `json:"task_id"`
	Title       string    `json:"title"`
	Completed   bool      `json:"completed"`
	CreatedByID int64     `json:"created_by_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// TaskFilter defines the available parameters for listing tasks.
type TaskFilter struct {
	BoardID    *int64
	SectionID  *int64
	SprintID   *int64
	AssigneeID *int64
	Status     *TaskStatus
}
