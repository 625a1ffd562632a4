package models

import "time"

type ProjectStatus string

const (
	ProjectPlanning  ProjectStatus = "PLANNING"
	ProjectActive    ProjectStatus = "ACTIVE"
	ProjectCompleted ProjectStatus = "COMPLETED"
	ProjectInactive  ProjectStatus = "INACTIVE"
)

// ProjectRole is the role of a user inside a single project, independent
// of the global account role.
type ProjectRole string

const (
	ProjectOwner         ProjectRole = "OWNER"
	ProjectManagerMember ProjectRole = "MANAGER"
	ProjectPlainMember   ProjectRole = "MEMBER"
)

type Project struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Status      ProjectStatus `json:"status"`
	CreatedByID int64         `json:"created_by_id"`
	StartDate   *time.Time    `json:"start_date,omitempty"`
	EndDate     *time.Time    `json:"end_date,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// ProjectMember is the join row granting project-scoped permissions.
// At most one row exists per (project_id, user_id) pair.
type ProjectMember struct {
	ID        int64       `json:"id"`
	ProjectID int64       `json:"project_id"`
	UserID    int64       `json:"user_id"`
	Role      ProjectRole `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

type ProjectFilter struct {
	Status      *ProjectStatus
	CreatedByID *int64
	MemberID    *int64
}
