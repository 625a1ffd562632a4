package services

import (
	"context"
	"fmt"
	"time"

	"teamhub/internal/apperr"
	"teamhub/internal/authz"
	"teamhub/internal/models"
	"teamhub/internal/pdf"
	"teamhub/internal/repositories"
)

// ProjectSummary aggregates the project state for the overview endpoint.
type ProjectSummary struct {
	ProjectID       int64                       `json:"project_id"`
	Name            string                      `json:"name"`
	Status          models.ProjectStatus        `json:"status"`
	Members         int                         `json:"members"`
	Boards          int                         `json:"boards"`
	SprintsByStatus map[models.SprintStatus]int `json:"sprints_by_status"`
	TasksTotal      int                         `json:"tasks_total"`
	TasksCompleted  int                         `json:"tasks_completed"`
}

type ReportService struct {
	projects  repositories.ProjectRepository
	boards    repositories.BoardRepository
	sprints   repositories.SprintRepository
	tasks     repositories.TaskRepository
	generator pdf.Generator
}

func NewReportService(
	projects repositories.ProjectRepository,
	boards repositories.BoardRepository,
	sprints repositories.SprintRepository,
	tasks repositories.TaskRepository,
	generator pdf.Generator,
) *ReportService {
	return &ReportService{
		projects:  projects,
		boards:    boards,
		sprints:   sprints,
		tasks:     tasks,
		generator: generator,
	}
}

func (s *ReportService) projectSnapshot(ctx context.Context, caller authz.Caller, projectID int64) (*models.Project, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	if project == nil {
		return nil, apperr.NotFound("project")
	}
	snap := authz.Snapshot{
		CreatorID:      project.CreatedByID,
		HasProject:     true,
		ProjectOwnerID: project.CreatedByID,
	}
	member, err := s.projects.FindMember(ctx, projectID, caller.ID)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	if member != nil {
		snap.MemberRole = member.Role
	}
	if !authz.CanAccess(caller, snap) {
		return nil, apperr.Forbidden("")
	}
	return project, nil
}

func (s *ReportService) ProjectSummary(ctx context.Context, caller authz.Caller, projectID int64) (*ProjectSummary, error) {
	project, err := s.projectSnapshot(ctx, caller, projectID)
	if err != nil {
		return nil, err
	}

	members, err := s.projects.ListMembers(ctx, projectID)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	boards, err := s.boards.ListByProject(ctx, projectID)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	sprints, err := s.sprints.ListByProject(ctx, projectID)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}

	summary := &ProjectSummary{
		ProjectID:       project.ID,
		Name:            project.Name,
		Status:          project.Status,
		Members:         len(members),
		Boards:          len(boards),
		SprintsByStatus: map[models.SprintStatus]int{},
	}
	for _, sp := range sprints {
		summary.SprintsByStatus[sp.Status]++
	}
	for i := range boards {
		tasks, err := s.tasks.FindAll(ctx, models.TaskFilter{BoardID: &boards[i].ID})
		if err != nil {
			return nil, apperr.Unexpected(err)
		}
		summary.TasksTotal += len(tasks)
		for _, t := range tasks {
			if t.Status == models.TaskComplete {
				summary.TasksCompleted++
			}
		}
	}
	return summary, nil
}

// SprintReportPDF renders the sprint report to a file and returns its path.
func (s *ReportService) SprintReportPDF(ctx context.Context, caller authz.Caller, sprintID int64) (string, error) {
	sprint, err := s.sprints.FindByID(ctx, sprintID)
	if err != nil {
		return "", apperr.Unexpected(err)
	}
	if sprint == nil {
		return "", apperr.NotFound("sprint")
	}
	project, err := s.projectSnapshot(ctx, caller, sprint.ProjectID)
	if err != nil {
		return "", err
	}
	tasks, err := s.tasks.FindAll(ctx, models.TaskFilter{SprintID: &sprint.ID})
	if err != nil {
		return "", apperr.Unexpected(err)
	}

	path, err := s.generator.GenerateSprintReport(pdf.SprintReportData{
		ProjectName: project.Name,
		SprintName:  sprint.Name,
		Status:      sprint.Status,
		StartDate:   sprint.StartDate,
		EndDate:     sprint.EndDate,
		Tasks:       tasks,
		Filename:    fmt.Sprintf("sprint_%d_%s.pdf", sprint.ID, time.Now().Format("20060102")),
	})
	if err != nil {
		return "", apperr.Unexpected(err)
	}
	return path, nil
}
