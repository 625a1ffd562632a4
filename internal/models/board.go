package models

import "time"

type Board struct {
	ID          int64     `json:"id"`
	ProjectID   int64     `json:"project_id"`
	Name        string    `json:"name"`
	CreatedByID int64     `json:"created_by_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Section is an ordered column on a board. Position is unique within the
// board; ascending position is display order.
type Section struct {
	ID       int64  `json:"id"`
	BoardID  int64  `json:"board_id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

// DefaultSectionNames are provisioned, in order, for every board created
// through the standard path.
var DefaultSectionNames = []string{"To Do", "In Progress", "Done"}
