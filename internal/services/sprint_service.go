package services

import (
	"context"
	"fmt"
	"strings"

	"teamhub/internal/apperr"
	"teamhub/internal/authz"
	"teamhub/internal/models"
	"teamhub/internal/repositories"
)

// Allowed sprint status transitions. One-directional: no skipping, no
// going backward.
var sprintTransitions = map[models.SprintStatus]map[models.SprintStatus]bool{
	models.SprintPlanning:  {models.SprintActive: true},
	models.SprintActive:    {models.SprintCompleted: true},
	models.SprintCompleted: {},
}

func canTransitionSprint(current, to models.SprintStatus) bool {
	nexts, ok := sprintTransitions[current]
	if !ok {
		return false
	}
	return nexts[to]
}

type SprintService interface {
	Create(ctx context.Context, caller authz.Caller, sprint *models.Sprint) error
	GetByID(ctx context.Context, caller authz.Caller, id int64) (*models.Sprint, error)
	ListByProject(ctx context.Context, caller authz.Caller, projectID int64) ([]models.Sprint, error)
	Start(ctx context.Context, caller authz.Caller, id int64) (*models.Sprint, error)
	Complete(ctx context.Context, caller authz.Caller, id int64) (*models.Sprint, error)
}

type sprintService struct {
	repo     repositories.SprintRepository
	projects repositories.ProjectRepository
}

func NewSprintService(repo repositories.SprintRepository, projects repositories.ProjectRepository) SprintService {
	return &sprintService{repo: repo, projects: projects}
}

func (s *sprintService) snapshot(ctx context.Context, projectID, callerID int64) (authz.Snapshot, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return authz.Snapshot{}, apperr.Unexpected(err)
	}
	if project == nil {
		return authz.Snapshot{}, apperr.NotFound("project")
	}
	snap := authz.Snapshot{
		CreatorID:      project.CreatedByID,
		HasProject:     true,
		ProjectOwnerID: project.CreatedByID,
	}
	member, err := s.projects.FindMember(ctx, projectID, callerID)
	if err != nil {
		return snap, apperr.Unexpected(err)
	}
	if member != nil {
		snap.MemberRole = member.Role
	}
	return snap, nil
}

func (s *sprintService) Create(ctx context.Context, caller authz.Caller, sprint *models.Sprint) error {
	if strings.TrimSpace(sprint.Name) == "" {
		return apperr.InvalidInput("sprint name is required")
	}
	snap, err := s.snapshot(ctx, sprint.ProjectID, caller.ID)
	if err != nil {
		return err
	}
	if !authz.CanMutate(caller, snap, authz.ActionEdit) {
		return apperr.Forbidden("")
	}
	// a new sprint always enters the lifecycle at PLANNING
	sprint.Status = models.SprintPlanning
	if err := s.repo.Store(ctx, sprint); err != nil {
		return apperr.Unexpected(err)
	}
	return nil
}

func (s *sprintService) GetByID(ctx context.Context, caller authz.Caller, id int64) (*models.Sprint, error) {
	sprint, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	if sprint == nil {
		return nil, apperr.NotFound("sprint")
	}
	snap, err := s.snapshot(ctx, sprint.ProjectID, caller.ID)
	if err != nil {
		return nil, err
	}
	if !authz.CanAccess(caller, snap) {
		return nil, apperr.Forbidden("")
	}
	return sprint, nil
}

func (s *sprintService) ListByProject(ctx context.Context, caller authz.Caller, projectID int64) ([]models.Sprint, error) {
	snap, err := s.snapshot(ctx, projectID, caller.ID)
	if err != nil {
		return nil, err
	}
	if !authz.CanAccess(caller, snap) {
		return nil, apperr.Forbidden("")
	}
	sprints, err := s.repo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	return sprints, nil
}

func (s *sprintService) Start(ctx context.Context, caller authz.Caller, id int64) (*models.Sprint, error) {
	return s.transition(ctx, caller, id, models.SprintPlanning, models.SprintActive)
}

func (s *sprintService) Complete(ctx context.Context, caller authz.Caller, id int64) (*models.Sprint, error) {
	return s.transition(ctx, caller, id, models.SprintActive, models.SprintCompleted)
}

func (s *sprintService) transition(ctx context.Context, caller authz.Caller, id int64, from, to models.SprintStatus) (*models.Sprint, error) {
	sprint, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	if sprint == nil {
		return nil, apperr.NotFound("sprint")
	}
	snap, err := s.snapshot(ctx, sprint.ProjectID, caller.ID)
	if err != nil {
		return nil, err
	}
	if !authz.CanMutate(caller, snap, authz.ActionComment) {
		return nil, apperr.Forbidden("")
	}
	if !canTransitionSprint(sprint.Status, to) {
		return nil, apperr.InvalidState(
			fmt.Sprintf("sprint is %s, cannot move to %s", sprint.Status, to))
	}

	// conditional update: a concurrent transition loses cleanly instead of
	// skipping a lifecycle step
	ok, err := s.repo.TransitionStatus(ctx, id, from, to)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	if !ok {
		return nil, apperr.InvalidState(
			fmt.Sprintf("sprint is no longer %s", from))
	}
	sprint.Status = to
	return sprint, nil
}
