package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamhub/internal/apperr"
	"teamhub/internal/authz"
	"teamhub/internal/models"
)

func memberProjectRepo(ownerID int64, members map[int64]models.ProjectRole) *fakeProjectRepo {
	return &fakeProjectRepo{
		findByIDFn: func(_ context.Context, id int64) (*models.Project, error) {
			return &models.Project{ID: id, Name: "p", CreatedByID: ownerID}, nil
		},
		findMemberFn: func(_ context.Context, _ int64, userID int64) (*models.ProjectMember, error) {
			role, ok := members[userID]
			if !ok {
				return nil, nil
			}
			return &models.ProjectMember{UserID: userID, Role: role}, nil
		},
	}
}

func TestSprintCreateForcesPlanning(t *testing.T) {
	var stored *models.Sprint
	repo := &fakeSprintRepo{
		storeFn: func(_ context.Context, s *models.Sprint) error {
			s.ID = 1
			stored = s
			return nil
		},
	}
	svc := NewSprintService(repo, memberProjectRepo(100, nil))

	sprint := &models.Sprint{ProjectID: 5, Name: "Sprint 1", Status: models.SprintActive}
	err := svc.Create(context.Background(), authz.Caller{ID: 100, Role: models.RoleMember}, sprint)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, models.SprintPlanning, stored.Status, "client-supplied status must be ignored")
}

func TestSprintTransitionMatrix(t *testing.T) {
	tests := []struct {
		from models.SprintStatus
		to   models.SprintStatus
		ok   bool
	}{
		{models.SprintPlanning, models.SprintActive, true},
		{models.SprintActive, models.SprintCompleted, true},
		{models.SprintPlanning, models.SprintCompleted, false},
		{models.SprintActive, models.SprintPlanning, false},
		{models.SprintCompleted, models.SprintActive, false},
		{models.SprintCompleted, models.SprintPlanning, false},
		{models.SprintPlanning, models.SprintPlanning, false},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.ok, canTransitionSprint(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestSprintStartLifecycle(t *testing.T) {
	status := models.SprintPlanning
	repo := &fakeSprintRepo{
		findByIDFn: func(_ context.Context, id int64) (*models.Sprint, error) {
			return &models.Sprint{ID: id, ProjectID: 5, Name: "s", Status: status}, nil
		},
		transitionStatusFn: func(_ context.Context, _ int64, from, to models.SprintStatus) (bool, error) {
			if status != from {
				return false, nil
			}
			status = to
			return true, nil
		},
	}
	svc := NewSprintService(repo, memberProjectRepo(100, map[int64]models.ProjectRole{
		200: models.ProjectPlainMember,
	}))
	caller := authz.Caller{ID: 200, Role: models.RoleMember}

	sprint, err := svc.Start(context.Background(), caller, 1)
	require.NoError(t, err)
	assert.Equal(t, models.SprintActive, sprint.Status)

	sprint, err = svc.Complete(context.Background(), caller, 1)
	require.NoError(t, err)
	assert.Equal(t, models.SprintCompleted, sprint.Status)

	// completed is terminal
	_, err = svc.Start(context.Background(), caller, 1)
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, e.Status)
	assert.Equal(t, "invalid_state", e.Code)
}

func TestSprintStartSkippingStateRejected(t *testing.T) {
	repo := &fakeSprintRepo{
		findByIDFn: func(_ context.Context, id int64) (*models.Sprint, error) {
			return &models.Sprint{ID: id, ProjectID: 5, Status: models.SprintPlanning}, nil
		},
	}
	svc := NewSprintService(repo, memberProjectRepo(100, nil))

	_, err := svc.Complete(context.Background(), authz.Caller{ID: 100, Role: models.RoleMember}, 1)
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, "invalid_state", e.Code)
}

func TestSprintTransitionLostRace(t *testing.T) {
	repo := &fakeSprintRepo{
		findByIDFn: func(_ context.Context, id int64) (*models.Sprint, error) {
			return &models.Sprint{ID: id, ProjectID: 5, Status: models.SprintPlanning}, nil
		},
		// someone else moved the sprint between our read and the update
		transitionStatusFn: func(context.Context, int64, models.SprintStatus, models.SprintStatus) (bool, error) {
			return false, nil
		},
	}
	svc := NewSprintService(repo, memberProjectRepo(100, nil))

	_, err := svc.Start(context.Background(), authz.Caller{ID: 100, Role: models.RoleMember}, 1)
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, "invalid_state", e.Code)
}

func TestSprintNonMemberForbidden(t *testing.T) {
	repo := &fakeSprintRepo{
		findByIDFn: func(_ context.Context, id int64) (*models.Sprint, error) {
			return &models.Sprint{ID: id, ProjectID: 5, Status: models.SprintPlanning}, nil
		},
	}
	svc := NewSprintService(repo, memberProjectRepo(100, map[int64]models.ProjectRole{
		200: models.ProjectPlainMember,
	}))

	_, err := svc.Start(context.Background(), authz.Caller{ID: 999, Role: models.RoleMember}, 1)
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, e.Status)
}

func TestSprintCreateRequiresEditRole(t *testing.T) {
	svc := NewSprintService(&fakeSprintRepo{}, memberProjectRepo(100, map[int64]models.ProjectRole{
		200: models.ProjectPlainMember,
	}))

	// plain members may comment but not create sprints
	err := svc.Create(context.Background(), authz.Caller{ID: 200, Role: models.RoleMember},
		&models.Sprint{ProjectID: 5, Name: "s"})
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, e.Status)
}
