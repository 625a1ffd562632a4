// Package authz is the single authorization evaluator. Every endpoint that
// reads or mutates a resource goes through CanAccess/CanMutate instead of
// re-deriving the creator/assignee/member/admin union per call site.
//
// The evaluator is pure: it decides on a Snapshot the caller loaded from
// the store, performs no I/O and keeps no state.
package authz

import "teamhub/internal/models"

// Caller is the resolved identity making a request.
type Caller struct {
	ID   int64
	Role models.Role
}

func (c Caller) IsAdmin() bool { return c.Role == models.RoleAdmin }

// Action classifies what the caller wants to do with the resource.
type Action int

const (
	ActionView Action = iota
	// ActionComment covers comments, checklist edits, subtasks and task
	// completion: things an assignee may do without being the creator.
	ActionComment
	// ActionEdit is a content mutation (update fields, move, structural
	// additions such as creating boards/sprints or adding members).
	ActionEdit
	// ActionDelete is destructive; assignees do not get it.
	ActionDelete
)

// Snapshot is the ownership/membership state of one resource at evaluation
// time. Zero values mean "not applicable": a standalone board task has
// HasProject=false and project rules are skipped entirely.
type Snapshot struct {
	CreatorID      int64
	BoardCreatorID int64
	AssigneeIDs    []int64

	HasProject     bool
	ProjectOwnerID int64
	// MemberRole is empty when the caller has no membership row.
	MemberRole models.ProjectRole
}

// CanAccess reports whether the caller may see the resource at all.
func CanAccess(caller Caller, snap Snapshot) bool {
	return CanMutate(caller, snap, ActionView)
}

// CanMutate evaluates the fixed rule precedence as a short-circuit OR:
// admin, creator (incl. board creator and project owner), assignee for
// non-destructive actions, then project membership.
func CanMutate(caller Caller, snap Snapshot, action Action) bool {
	if caller.IsAdmin() {
		return true
	}
	if isCreator(caller.ID, snap) {
		return true
	}
	if isAssignee(caller.ID, snap) && action <= ActionComment {
		return true
	}
	if snap.HasProject && snap.MemberRole != "" {
		switch action {
		case ActionView, ActionComment:
			return true
		case ActionEdit:
			return snap.MemberRole == models.ProjectOwner || snap.MemberRole == models.ProjectManagerMember
		}
	}
	return false
}

func isCreator(id int64, snap Snapshot) bool {
	if id == 0 {
		return false
	}
	if id == snap.CreatorID || id == snap.BoardCreatorID {
		return true
	}
	return snap.HasProject && id == snap.ProjectOwnerID
}

func isAssignee(id int64, snap Snapshot) bool {
	for _, a := range snap.AssigneeIDs {
		if a == id {
			return true
		}
	}
	return false
}
