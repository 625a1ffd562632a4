package services

import (
	"context"
	"strings"

	"teamhub/internal/apperr"
	"teamhub/internal/authz"
	"teamhub/internal/models"
	"teamhub/internal/repositories"
)

type ProjectService interface {
	Create(ctx context.Context, caller authz.Caller, project *models.Project) error
	GetByID(ctx context.Context, caller authz.Caller, id int64) (*models.Project, error)
	List(ctx context.Context, caller authz.Caller) ([]models.Project, error)
	Update(ctx context.Context, caller authz.Caller, project *models.Project) (*models.Project, error)
	Delete(ctx context.Context, caller authz.Caller, id int64) error

	AddMember(ctx context.Context, caller authz.Caller, member *models.ProjectMember) error
	ListMembers(ctx context.Context, caller authz.Caller, projectID int64) ([]models.ProjectMember, error)
}

type projectService struct {
	repo repositories.ProjectRepository
}

func NewProjectService(repo repositories.ProjectRepository) ProjectService {
	return &projectService{repo: repo}
}

// snapshot loads the membership/ownership state the evaluator needs for a
// project-scoped decision.
func (s *projectService) snapshot(ctx context.Context, project *models.Project, callerID int64) (authz.Snapshot, error) {
	snap := authz.Snapshot{
		CreatorID:      project.CreatedByID,
		HasProject:     true,
		ProjectOwnerID: project.CreatedByID,
	}
	member, err := s.repo.FindMember(ctx, project.ID, callerID)
	if err != nil {
		return snap, apperr.Unexpected(err)
	}
	if member != nil {
		snap.MemberRole = member.Role
	}
	return snap, nil
}

func (s *projectService) Create(ctx context.Context, caller authz.Caller, p *models.Project) error {
	if strings.TrimSpace(p.Name) == "" {
		return apperr.InvalidInput("project name is required")
	}
	if p.Status == "" {
		p.Status = models.ProjectPlanning
	}
	p.CreatedByID = caller.ID
	if err := s.repo.Store(ctx, p); err != nil {
		return apperr.Unexpected(err)
	}
	// the creator becomes OWNER member so project rules apply uniformly
	owner := &models.ProjectMember{ProjectID: p.ID, UserID: caller.ID, Role: models.ProjectOwner}
	if _, err := s.repo.AddMember(ctx, owner); err != nil {
		return apperr.Unexpected(err)
	}
	return nil
}

func (s *projectService) GetByID(ctx context.Context, caller authz.Caller, id int64) (*models.Project, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	if p == nil {
		return nil, apperr.NotFound("project")
	}
	snap, err := s.snapshot(ctx, p, caller.ID)
	if err != nil {
		return nil, err
	}
	if !authz.CanAccess(caller, snap) {
		return nil, apperr.Forbidden("")
	}
	return p, nil
}

func (s *projectService) List(ctx context.Context, caller authz.Caller) ([]models.Project, error) {
	filter := models.ProjectFilter{}
	if !caller.IsAdmin() {
		filter.MemberID = &caller.ID
	}
	projects, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	return projects, nil
}

func (s *projectService) Update(ctx context.Context, caller authz.Caller, updateData *models.Project) (*models.Project, error) {
	existing, err := s.repo.FindByID(ctx, updateData.ID)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	if existing == nil {
		return nil, apperr.NotFound("project")
	}
	snap, err := s.snapshot(ctx, existing, caller.ID)
	if err != nil {
		return nil, err
	}
	if !authz.CanMutate(caller, snap, authz.ActionEdit) {
		return nil, apperr.Forbidden("")
	}

	if updateData.Name != "" {
		existing.Name = updateData.Name
	}
	existing.Description = updateData.Description
	if updateData.Status != "" {
		existing.Status = updateData.Status
	}
	existing.StartDate = updateData.StartDate
	existing.EndDate = updateData.EndDate

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, apperr.Unexpected(err)
	}
	return existing, nil
}

func (s *projectService) Delete(ctx context.Context, caller authz.Caller, id int64) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return apperr.Unexpected(err)
	}
	if existing == nil {
		return apperr.NotFound("project")
	}
	snap, err := s.snapshot(ctx, existing, caller.ID)
	if err != nil {
		return err
	}
	if !authz.CanMutate(caller, snap, authz.ActionDelete) {
		return apperr.Forbidden("")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperr.Unexpected(err)
	}
	return nil
}

func (s *projectService) AddMember(ctx context.Context, caller authz.Caller, m *models.ProjectMember) error {
	project, err := s.repo.FindByID(ctx, m.ProjectID)
	if err != nil {
		return apperr.Unexpected(err)
	}
	if project == nil {
		return apperr.NotFound("project")
	}
	snap, err := s.snapshot(ctx, project, caller.ID)
	if err != nil {
		return err
	}
	if !authz.CanMutate(caller, snap, authz.ActionEdit) {
		return apperr.Forbidden("")
	}
	if m.Role == "" {
		m.Role = models.ProjectPlainMember
	}

	inserted, err := s.repo.AddMember(ctx, m)
	if err != nil {
		return apperr.Unexpected(err)
	}
	if !inserted {
		return apperr.InvalidInput("user is already a member of this project")
	}
	return nil
}

func (s *projectService) ListMembers(ctx context.Context, caller authz.Caller, projectID int64) ([]models.ProjectMember, error) {
	project, err := s.repo.FindByID(ctx, projectID)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	if project == nil {
		return nil, apperr.NotFound("project")
	}
	snap, err := s.snapshot(ctx, project, caller.ID)
	if err != nil {
		return nil, err
	}
	if !authz.CanAccess(caller, snap) {
		return nil, apperr.Forbidden("")
	}
	members, err := s.repo.ListMembers(ctx, projectID)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	return members, nil
}
