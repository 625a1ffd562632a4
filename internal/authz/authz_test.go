package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"teamhub/internal/models"
)

func TestCanMutateUnion(t *testing.T) {
	snap := Snapshot{
		CreatorID:      10,
		BoardCreatorID: 20,
		AssigneeIDs:    []int64{30, 31},
		HasProject:     true,
		ProjectOwnerID: 40,
	}

	tests := []struct {
		name   string
		caller Caller
		snap   Snapshot
		action Action
		want   bool
	}{
		{"admin always", Caller{ID: 999, Role: models.RoleAdmin}, snap, ActionDelete, true},
		{"creator deletes", Caller{ID: 10, Role: models.RoleMember}, snap, ActionDelete, true},
		{"board creator edits", Caller{ID: 20, Role: models.RoleMember}, snap, ActionEdit, true},
		{"project owner deletes", Caller{ID: 40, Role: models.RoleMember}, snap, ActionDelete, true},
		{"assignee views", Caller{ID: 30, Role: models.RoleMember}, snap, ActionView, true},
		{"assignee comments", Caller{ID: 31, Role: models.RoleMember}, snap, ActionComment, true},
		{"assignee cannot edit", Caller{ID: 30, Role: models.RoleMember}, snap, ActionEdit, false},
		{"assignee cannot delete", Caller{ID: 30, Role: models.RoleMember}, snap, ActionDelete, false},
		{"stranger denied", Caller{ID: 777, Role: models.RoleMember}, snap, ActionView, false},
		{
			"plain member views",
			Caller{ID: 50, Role: models.RoleMember},
			func() Snapshot { s := snap; s.MemberRole = models.ProjectPlainMember; return s }(),
			ActionView, true,
		},
		{
			"plain member comments",
			Caller{ID: 50, Role: models.RoleMember},
			func() Snapshot { s := snap; s.MemberRole = models.ProjectPlainMember; return s }(),
			ActionComment, true,
		},
		{
			"plain member cannot edit",
			Caller{ID: 50, Role: models.RoleMember},
			func() Snapshot { s := snap; s.MemberRole = models.ProjectPlainMember; return s }(),
			ActionEdit, false,
		},
		{
			"manager member edits",
			Caller{ID: 50, Role: models.RoleMember},
			func() Snapshot { s := snap; s.MemberRole = models.ProjectManagerMember; return s }(),
			ActionEdit, true,
		},
		{
			"manager member cannot delete",
			Caller{ID: 50, Role: models.RoleMember},
			func() Snapshot { s := snap; s.MemberRole = models.ProjectManagerMember; return s }(),
			ActionDelete, false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanMutate(tt.caller, tt.snap, tt.action))
		})
	}
}

func TestStandaloneBoardSkipsProjectRules(t *testing.T) {
	// no project: membership fields must not grant anything
	snap := Snapshot{
		CreatorID:      10,
		ProjectOwnerID: 40,
		MemberRole:     models.ProjectOwner,
	}
	assert.False(t, CanAccess(Caller{ID: 40, Role: models.RoleMember}, snap),
		"owner id without HasProject must not count")
	assert.False(t, CanMutate(Caller{ID: 50, Role: models.RoleMember}, snap, ActionComment))
	assert.True(t, CanAccess(Caller{ID: 10, Role: models.RoleMember}, snap))
}

func TestCanAccessMatchesViewAction(t *testing.T) {
	snap := Snapshot{AssigneeIDs: []int64{7}}
	caller := Caller{ID: 7, Role: models.RoleViewer}
	assert.Equal(t, CanMutate(caller, snap, ActionView), CanAccess(caller, snap))
}

func TestZeroCallerNeverCreator(t *testing.T) {
	// an unset creator id in the snapshot must not match an anonymous caller
	snap := Snapshot{CreatorID: 0, BoardCreatorID: 0}
	assert.False(t, CanAccess(Caller{ID: 0, Role: models.RoleMember}, snap))
}
