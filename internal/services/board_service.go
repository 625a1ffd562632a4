package services

import (
	"context"
	"strings"

	"teamhub/internal/apperr"
	"teamhub/internal/authz"
	"teamhub/internal/models"
	"teamhub/internal/repositories"
)

// BoardWithSections is the read model returned for a single board.
type BoardWithSections struct {
	Board    models.Board     `json:"board"`
	Sections []models.Section `json:"sections"`
}

type BoardService interface {
	Create(ctx context.Context, caller authz.Caller, board *models.Board) (*BoardWithSections, error)
	GetByID(ctx context.Context, caller authz.Caller, id int64) (*BoardWithSections, error)
	ListByProject(ctx context.Context, caller authz.Caller, projectID int64) ([]models.Board, error)
}

type boardService struct {
	repo     repositories.BoardRepository
	projects repositories.ProjectRepository
}

func NewBoardService(repo repositories.BoardRepository, projects repositories.ProjectRepository) BoardService {
	return &boardService{repo: repo, projects: projects}
}

func (s *boardService) snapshot(ctx context.Context, projectID, boardCreatorID, callerID int64) (authz.Snapshot, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return authz.Snapshot{}, apperr.Unexpected(err)
	}
	if project == nil {
		return authz.Snapshot{}, apperr.NotFound("project")
	}
	snap := authz.Snapshot{
		CreatorID:      project.CreatedByID,
		BoardCreatorID: boardCreatorID,
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

// Create provisions the board with its three default sections atomically;
// a board is never visible without the full default section set.
func (s *boardService) Create(ctx context.Context, caller authz.Caller, board *models.Board) (*BoardWithSections, error) {
	if strings.TrimSpace(board.Name) == "" {
		return nil, apperr.InvalidInput("board name is required")
	}
	snap, err := s.snapshot(ctx, board.ProjectID, 0, caller.ID)
	if err != nil {
		return nil, err
	}
	if !authz.CanMutate(caller, snap, authz.ActionEdit) {
		return nil, apperr.Forbidden("")
	}
	board.CreatedByID = caller.ID

	sections, err := s.repo.StoreWithSections(ctx, board, models.DefaultSectionNames)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	return &BoardWithSections{Board: *board, Sections: sections}, nil
}

func (s *boardService) GetByID(ctx context.Context, caller authz.Caller, id int64) (*BoardWithSections, error) {
	board, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	if board == nil {
		return nil, apperr.NotFound("board")
	}
	snap, err := s.snapshot(ctx, board.ProjectID, board.CreatedByID, caller.ID)
	if err != nil {
		return nil, err
	}
	if !authz.CanAccess(caller, snap) {
		return nil, apperr.Forbidden("")
	}
	sections, err := s.repo.ListSections(ctx, id)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	return &BoardWithSections{Board: *board, Sections: sections}, nil
}

func (s *boardService) ListByProject(ctx context.Context, caller authz.Caller, projectID int64) ([]models.Board, error) {
	snap, err := s.snapshot(ctx, projectID, 0, caller.ID)
	if err != nil {
		return nil, err
	}
	if !authz.CanAccess(caller, snap) {
		return nil, apperr.Forbidden("")
	}
	boards, err := s.repo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	return boards, nil
}
