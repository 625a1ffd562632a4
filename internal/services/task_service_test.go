package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamhub/internal/apperr"
	"teamhub/internal/authz"
	"teamhub/internal/models"
	"teamhub/internal/repositories"
)

func boardRepoWithFirstSection() *fakeBoardRepo {
	return &fakeBoardRepo{
		findByIDFn: func(_ context.Context, id int64) (*models.Board, error) {
			return &models.Board{ID: id, ProjectID: 5, Name: "Development", CreatedByID: 100}, nil
		},
		firstSectionFn: func(_ context.Context, boardID int64) (*models.Section, error) {
			return &models.Section{ID: 11, BoardID: boardID, Name: "To Do", Position: 0}, nil
		},
	}
}

func accessRepo(info repositories.TaskAccessInfo) *fakeTaskRepo {
	return &fakeTaskRepo{
		accessInfoFn: func(context.Context, int64) (*repositories.TaskAccessInfo, error) {
			cp := info
			return &cp, nil
		},
	}
}

func TestTaskCreateLandsInFirstSection(t *testing.T) {
	var stored *models.Task
	repo := &fakeTaskRepo{
		storeFn: func(_ context.Context, task *models.Task) error {
			task.ID = 1
			task.Position = 4 // the repository assigns count-of-section
			stored = task
			return nil
		},
	}
	svc := NewTaskService(repo, boardRepoWithFirstSection(), memberProjectRepo(100, nil), nil)

	task, err := svc.Create(context.Background(), authz.Caller{ID: 100, Role: models.RoleMember}, CreateTaskInput{
		BoardID:     3,
		Title:       "Write docs",
		Content:     "cover the checklist API",
		Priority:    models.PriorityHigh,
		AssigneeIDs: []int64{200},
	})
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, int64(11), task.SectionID, "new tasks go to the lowest-position section")
	assert.Equal(t, 4, task.Position)
	assert.Equal(t, models.TaskActive, task.Status)
	assert.Equal(t, models.PriorityHigh, task.Priority)
	assert.Equal(t, int64(100), task.CreatedByID)
}

func TestTaskCreateNoSectionOnBoard(t *testing.T) {
	boards := boardRepoWithFirstSection()
	boards.firstSectionFn = func(context.Context, int64) (*models.Section, error) {
		return nil, nil
	}
	svc := NewTaskService(&fakeTaskRepo{}, boards, memberProjectRepo(100, nil), nil)

	_, err := svc.Create(context.Background(), authz.Caller{ID: 100, Role: models.RoleMember}, CreateTaskInput{
		BoardID:     3,
		Title:       "t",
		Content:     "c",
		Priority:    models.PriorityNormal,
		AssigneeIDs: []int64{200},
	})
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, "invalid_state", e.Code)
}

func TestTaskCreateValidation(t *testing.T) {
	svc := NewTaskService(&fakeTaskRepo{}, boardRepoWithFirstSection(), memberProjectRepo(100, nil), nil)
	caller := authz.Caller{ID: 100, Role: models.RoleMember}

	tests := []struct {
		name string
		in   CreateTaskInput
	}{
		{"missing title", CreateTaskInput{BoardID: 3, Content: "c", Priority: models.PriorityNormal, AssigneeIDs: []int64{1}}},
		{"missing board", CreateTaskInput{Title: "t", Content: "c", Priority: models.PriorityNormal, AssigneeIDs: []int64{1}}},
		{"missing assignee", CreateTaskInput{BoardID: 3, Title: "t", Content: "c", Priority: models.PriorityNormal}},
		{"missing content", CreateTaskInput{BoardID: 3, Title: "t", Priority: models.PriorityNormal, AssigneeIDs: []int64{1}}},
		{"missing priority", CreateTaskInput{BoardID: 3, Title: "t", Content: "c", AssigneeIDs: []int64{1}}},
		{"unknown priority", CreateTaskInput{BoardID: 3, Title: "t", Content: "c", Priority: "blocker", AssigneeIDs: []int64{1}}},
	}
	for _, tc := range tests {
		_, err := svc.Create(context.Background(), caller, tc.in)
		e, ok := apperr.As(err)
		require.True(t, ok, tc.name)
		assert.Equal(t, "invalid_input", e.Code, tc.name)
	}
}

func TestTaskCompleteIsIdempotent(t *testing.T) {
	completions := 0
	repo := accessRepo(repositories.TaskAccessInfo{TaskID: 1, AssigneeIDs: []int64{200}})
	repo.completeFn = func(_ context.Context, id, byID int64, at time.Time) error {
		completions++
		return nil
	}
	repo.findByIDFn = func(_ context.Context, id int64) (*models.Task, error) {
		return &models.Task{ID: id, Status: models.TaskComplete}, nil
	}
	svc := NewTaskService(repo, &fakeBoardRepo{}, memberProjectRepo(100, nil), nil)
	caller := authz.Caller{ID: 200, Role: models.RoleMember}

	for i := 0; i < 3; i++ {
		task, err := svc.Complete(context.Background(), caller, 1)
		require.NoError(t, err)
		assert.Equal(t, models.TaskComplete, task.Status)
	}
	assert.Equal(t, 3, completions, "every call re-stamps, none errors")
}

func TestTaskAssigneeCannotEditOrDelete(t *testing.T) {
	repo := accessRepo(repositories.TaskAccessInfo{TaskID: 1, CreatorID: 100, AssigneeIDs: []int64{200}})
	svc := NewTaskService(repo, &fakeBoardRepo{}, memberProjectRepo(100, nil), nil)
	caller := authz.Caller{ID: 200, Role: models.RoleMember}

	_, err := svc.Update(context.Background(), caller, 1, UpdateTaskInput{})
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, e.Status)

	err = svc.Delete(context.Background(), caller, 1)
	e, ok = apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, e.Status)

	// but completion is allowed
	repo.findByIDFn = func(_ context.Context, id int64) (*models.Task, error) {
		return &models.Task{ID: id, Status: models.TaskComplete}, nil
	}
	_, err = svc.Complete(context.Background(), caller, 1)
	assert.NoError(t, err)
}

func TestTaskUpdateRejectsForeignSection(t *testing.T) {
	repo := accessRepo(repositories.TaskAccessInfo{TaskID: 1, CreatorID: 100, BoardID: 3})
	repo.findByIDFn = func(_ context.Context, id int64) (*models.Task, error) {
		return &models.Task{ID: id, SectionID: 11, Title: "t"}, nil
	}
	boards := &fakeBoardRepo{
		findSectionFn: func(_ context.Context, sectionID int64) (*models.Section, error) {
			switch sectionID {
			case 12:
				return &models.Section{ID: 12, BoardID: 3, Position: 1}, nil
			case 77:
				return &models.Section{ID: 77, BoardID: 9, Position: 0}, nil
			}
			return nil, nil
		},
	}
	svc := NewTaskService(repo, boards, memberProjectRepo(100, nil), nil)
	caller := authz.Caller{ID: 100, Role: models.RoleMember}

	foreign := int64(77)
	_, err := svc.Update(context.Background(), caller, 1, UpdateTaskInput{SectionID: &foreign})
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, "invalid_input", e.Code)

	missing := int64(404)
	_, err = svc.Update(context.Background(), caller, 1, UpdateTaskInput{SectionID: &missing})
	e, ok = apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, e.Status)

	sameBoard := int64(12)
	task, err := svc.Update(context.Background(), caller, 1, UpdateTaskInput{SectionID: &sameBoard})
	require.NoError(t, err)
	assert.Equal(t, int64(12), task.SectionID)
}

func TestChecklistAddAndToggle(t *testing.T) {
	var items []models.ChecklistItem
	var version int64
	repo := accessRepo(repositories.TaskAccessInfo{TaskID: 1, CreatorID: 100})
	repo.getChecklistFn = func(context.Context, int64) (models.Checklist, error) {
		return models.Checklist{Items: append([]models.ChecklistItem(nil), items...), Version: version}, nil
	}
	repo.updateChecklistFn = func(_ context.Context, _ int64, next []models.ChecklistItem, expected int64) (bool, error) {
		if expected != version {
			return false, nil
		}
		items = next
		version++
		return true, nil
	}
	svc := NewTaskService(repo, &fakeBoardRepo{}, memberProjectRepo(100, nil), nil)
	caller := authz.Caller{ID: 100, Role: models.RoleMember}

	item, err := svc.AddChecklistItem(context.Background(), caller, 1, "step one")
	require.NoError(t, err)
	require.NotEmpty(t, item.ID)
	require.Len(t, items, 1)
	assert.False(t, items[0].Checked)

	got, err := svc.ToggleChecklistItem(context.Background(), caller, 1, item.ID, true)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Checked)
	assert.Equal(t, int64(2), version)
}

func TestChecklistToggleUnknownItem(t *testing.T) {
	repo := accessRepo(repositories.TaskAccessInfo{TaskID: 1, CreatorID: 100})
	repo.getChecklistFn = func(context.Context, int64) (models.Checklist, error) {
		return models.Checklist{Items: []models.ChecklistItem{{ID: "a", Text: "x"}}}, nil
	}
	svc := NewTaskService(repo, &fakeBoardRepo{}, memberProjectRepo(100, nil), nil)

	_, err := svc.ToggleChecklistItem(context.Background(),
		authz.Caller{ID: 100, Role: models.RoleMember}, 1, "missing", true)
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, e.Status)
}

func TestChecklistRetriesOnVersionConflict(t *testing.T) {
	attempts := 0
	repo := accessRepo(repositories.TaskAccessInfo{TaskID: 1, CreatorID: 100})
	repo.getChecklistFn = func(context.Context, int64) (models.Checklist, error) {
		return models.Checklist{Version: int64(attempts)}, nil
	}
	repo.updateChecklistFn = func(_ context.Context, _ int64, _ []models.ChecklistItem, _ int64) (bool, error) {
		attempts++
		return attempts >= 2, nil // first write loses the race, second wins
	}
	svc := NewTaskService(repo, &fakeBoardRepo{}, memberProjectRepo(100, nil), nil)

	_, err := svc.AddChecklistItem(context.Background(),
		authz.Caller{ID: 100, Role: models.RoleMember}, 1, "x")
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestChecklistConflictExhaustsRetries(t *testing.T) {
	attempts := 0
	repo := accessRepo(repositories.TaskAccessInfo{TaskID: 1, CreatorID: 100})
	repo.updateChecklistFn = func(context.Context, int64, []models.ChecklistItem, int64) (bool, error) {
		attempts++
		return false, nil
	}
	svc := NewTaskService(repo, &fakeBoardRepo{}, memberProjectRepo(100, nil), nil)

	_, err := svc.AddChecklistItem(context.Background(),
		authz.Caller{ID: 100, Role: models.RoleMember}, 1, "x")
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, "invalid_state", e.Code)
	assert.Equal(t, checklistRetries, attempts)
}

func TestTaskNotFound(t *testing.T) {
	svc := NewTaskService(&fakeTaskRepo{}, &fakeBoardRepo{}, memberProjectRepo(100, nil), nil)

	_, err := svc.GetByID(context.Background(), authz.Caller{ID: 1, Role: models.RoleAdmin}, 42)
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, e.Status)
}

func TestAddedAssignees(t *testing.T) {
	assert.Equal(t, []int64{3}, addedAssignees([]int64{1, 2}, []int64{1, 2, 3}))
	assert.Nil(t, addedAssignees([]int64{1, 2}, []int64{2, 1}))
	assert.Equal(t, []int64{5, 6}, addedAssignees(nil, []int64{5, 6}))
}
