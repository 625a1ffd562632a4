package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"teamhub/internal/apperr"
	"teamhub/internal/authz"
	"teamhub/internal/models"
	"teamhub/internal/repositories"
)

// checklistRetries bounds the optimistic read-modify-write loop for
// checklist updates.
const checklistRetries = 3

type CreateTaskInput struct {
	BoardID     int64
	SprintID    *int64
	Title       string
	Content     string
	Priority    models.TaskPriority
	AssigneeIDs []int64
	DueDate     *time.Time
}

type UpdateTaskInput struct {
	Title       *string
	Content     *string
	Priority    *models.TaskPriority
	SectionID   *int64
	DueDate     *time.Time
	AssigneeIDs *[]int64
}

type TaskService interface {
	Create(ctx context.Context, caller authz.Caller, in CreateTaskInput) (*models.Task, error)
	GetByID(ctx context.Context, caller authz.Caller, id int64) (*models.Task, error)
	ListBySection(ctx context.Context, caller authz.Caller, sectionID int64) ([]models.Task, error)
	Update(ctx context.Context, caller authz.Caller, id int64, in UpdateTaskInput) (*models.Task, error)
	Complete(ctx context.Context, caller authz.Caller, id int64) (*models.Task, error)
	Delete(ctx context.Context, caller authz.Caller, id int64) error

	AddChecklistItem(ctx context.Context, caller authz.Caller, taskID int64, text string) (*models.ChecklistItem, error)
	ToggleChecklistItem(ctx context.Context, caller authz.Caller, taskID int64, itemID string, checked bool) ([]models.ChecklistItem, error)

	AddComment(ctx context.Context, caller authz.Caller, taskID int64, body string) (*models.Comment, error)
	ListComments(ctx context.Context, caller authz.Caller, taskID int64) ([]models.Comment, error)
	AddSubtask(ctx context.Context, caller authz.Caller, taskID int64, title string) (*models.Subtask, error)
	ListSubtasks(ctx context.Context, caller authz.Caller, taskID int64) ([]models.Subtask, error)
	AttachDocument(ctx context.Context, caller authz.Caller, taskID, documentID int64) error
	ListAttachedDocuments(ctx context.Context, caller authz.Caller, taskID int64) ([]models.Document, error)
}

type taskService struct {
	repo     repositories.TaskRepository
	boards   repositories.BoardRepository
	projects repositories.ProjectRepository
	notifier *TaskNotifier
}

func NewTaskService(
	repo repositories.TaskRepository,
	boards repositories.BoardRepository,
	projects repositories.ProjectRepository,
	notifier *TaskNotifier,
) TaskService {
	return &taskService{repo: repo, boards: boards, projects: projects, notifier: notifier}
}

// snapshot resolves the five-way access union for one task: creator,
// assignee, project member (via the task's sprint), project owner, admin.
// A standalone board task has no project; the board creator stands in.
func (s *taskService) snapshot(ctx context.Context, info *repositories.TaskAccessInfo, callerID int64) (authz.Snapshot, error) {
	snap := authz.Snapshot{
		CreatorID:      info.CreatorID,
		BoardCreatorID: info.BoardCreatorID,
		AssigneeIDs:    info.AssigneeIDs,
	}
	if info.ProjectID != 0 {
		snap.HasProject = true
		snap.ProjectOwnerID = info.ProjectOwnerID
		member, err := s.projects.FindMember(ctx, info.ProjectID, callerID)
		if err != nil {
			return snap, apperr.Unexpected(err)
		}
		if member != nil {
			snap.MemberRole = member.Role
		}
	}
	return snap, nil
}

func (s *taskService) authorize(ctx context.Context, caller authz.Caller, taskID int64, action authz.Action) (*repositories.TaskAccessInfo, error) {
	info, err := s.repo.AccessInfo(ctx, taskID)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	if info == nil {
		return nil, apperr.NotFound("task")
	}
	snap, err := s.snapshot(ctx, info, caller.ID)
	if err != nil {
		return nil, err
	}
	if !authz.CanMutate(caller, snap, action) {
		return nil, apperr.Forbidden("")
	}
	return info, nil
}

func (s *taskService) boardSnapshot(ctx context.Context, board *models.Board, callerID int64) (authz.Snapshot, error) {
	snap := authz.Snapshot{BoardCreatorID: board.CreatedByID}
	project, err := s.projects.FindByID(ctx, board.ProjectID)
	if err != nil {
		return snap, apperr.Unexpected(err)
	}
	if project != nil {
		snap.HasProject = true
		snap.CreatorID = project.CreatedByID
		snap.ProjectOwnerID = project.CreatedByID
		member, err := s.projects.FindMember(ctx, board.ProjectID, callerID)
		if err != nil {
			return snap, apperr.Unexpected(err)
		}
		if member != nil {
			snap.MemberRole = member.Role
		}
	}
	return snap, nil
}

func (s *taskService) Create(ctx context.Context, caller authz.Caller, in CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, apperr.InvalidInput("title is required")
	}
	if in.BoardID == 0 {
		return nil, apperr.InvalidInput("board is required")
	}
	if len(in.AssigneeIDs) == 0 {
		return nil, apperr.InvalidInput("assignee is required")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, apperr.InvalidInput("content is required")
	}
	if in.Priority == "" {
		return nil, apperr.InvalidInput("priority is required")
	}
	if !in.Priority.Valid() {
		return nil, apperr.InvalidInput("unknown priority")
	}

	board, err := s.boards.FindByID(ctx, in.BoardID)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	if board == nil {
		return nil, apperr.NotFound("board")
	}
	snap, err := s.boardSnapshot(ctx, board, caller.ID)
	if err != nil {
		return nil, err
	}
	if !authz.CanMutate(caller, snap, authz.ActionComment) {
		return nil, apperr.Forbidden("")
	}

	// new tasks land in the first column of the board
	section, err := s.boards.FirstSection(ctx, in.BoardID)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	if section == nil {
		return nil, apperr.InvalidState("no section found on board")
	}

	task := &models.Task{
		SectionID:   section.ID,
		SprintID:    in.SprintID,
		Title:       in.Title,
		Content:     in.Content,
		Priority:    in.Priority,
		Status:      models.TaskActive,
		CreatedByID: caller.ID,
		AssigneeIDs: in.AssigneeIDs,
		DueDate:     in.DueDate,
	}
	if err := s.repo.Store(ctx, task); err != nil {
		return nil, apperr.Unexpected(err)
	}

	if s.notifier != nil {
		for _, uid := range task.AssigneeIDs {
			s.notifier.Notify(TaskNotification{
				Kind:        TaskCreatedNotification,
				RecipientID: uid,
				ActorID:     caller.ID,
				TaskTitle:   task.Title,
				BoardName:   board.Name,
			})
		}
	}
	return task, nil
}

func (s *taskService) GetByID(ctx context.Context, caller authz.Caller, id int64) (*models.Task, error) {
	if _, err := s.authorize(ctx, caller, id, authz.ActionView); err != nil {
		return nil, err
	}
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	if task == nil {
		return nil, apperr.NotFound("task")
	}
	return task, nil
}

func (s *taskService) ListBySection(ctx context.Context, caller authz.Caller, sectionID int64) ([]models.Task, error) {
	section, err := s.boards.FindSection(ctx, sectionID)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	if section == nil {
		return nil, apperr.NotFound("section")
	}
	board, err := s.boards.FindByID(ctx, section.BoardID)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	if board == nil {
		return nil, apperr.NotFound("board")
	}
	snap, err := s.boardSnapshot(ctx, board, caller.ID)
	if err != nil {
		return nil, err
	}
	if !authz.CanAccess(caller, snap) {
		return nil, apperr.Forbidden("")
	}
	tasks, err := s.repo.FindAll(ctx, models.TaskFilter{SectionID: &sectionID})
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	return tasks, nil
}

func (s *taskService) Update(ctx context.Context, caller authz.Caller, id int64, in UpdateTaskInput) (*models.Task, error) {
	info, err := s.authorize(ctx, caller, id, authz.ActionEdit)
	if err != nil {
		return nil, err
	}
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	if task == nil {
		return nil, apperr.NotFound("task")
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, apperr.InvalidInput("title cannot be empty")
		}
		task.Title = *in.Title
	}
	if in.Content != nil {
		task.Content = *in.Content
	}
	if in.Priority != nil {
		task.Priority = *in.Priority
	}
	if in.SectionID != nil {
		section, err := s.boards.FindSection(ctx, *in.SectionID)
		if err != nil {
			return nil, apperr.Unexpected(err)
		}
		if section == nil {
			return nil, apperr.NotFound("section")
		}
		if section.BoardID != info.BoardID {
			return nil, apperr.InvalidInput("section belongs to a different board")
		}
		task.SectionID = *in.SectionID
	}
	if in.DueDate != nil {
		task.DueDate = in.DueDate
	}
	task.UpdatedByID = caller.ID
	task.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, apperr.Unexpected(err)
	}

	if in.AssigneeIDs != nil {
		newAssignees := addedAssignees(task.AssigneeIDs, *in.AssigneeIDs)
		if err := s.repo.ReplaceAssignees(ctx, id, *in.AssigneeIDs); err != nil {
			return nil, apperr.Unexpected(err)
		}
		task.AssigneeIDs = *in.AssigneeIDs

		// the update is committed; notification trouble stays out of the
		// response
		if s.notifier != nil {
			board, berr := s.boards.FindByID(ctx, info.BoardID)
			boardName := ""
			if berr == nil && board != nil {
				boardName = board.Name
			}
			for _, uid := range newAssignees {
				s.notifier.Notify(TaskNotification{
					Kind:        TaskUpdatedNotification,
					RecipientID: uid,
					ActorID:     caller.ID,
					TaskTitle:   task.Title,
					BoardName:   boardName,
				})
			}
		}
	}
	return task, nil
}

func addedAssignees(before, after []int64) []int64 {
	seen := make(map[int64]struct{}, len(before))
	for _, id := range before {
		seen[id] = struct{}{}
	}
	var added []int64
	for _, id := range after {
		if _, ok := seen[id]; !ok {
			added = append(added, id)
		}
	}
	return added
}

func (s *taskService) Complete(ctx context.Context, caller authz.Caller, id int64) (*models.Task, error) {
	if _, err := s.authorize(ctx, caller, id, authz.ActionComment); err != nil {
		return nil, err
	}
	// idempotent: completing an already-complete task re-stamps completed_at
	if err := s.repo.Complete(ctx, id, caller.ID, time.Now()); err != nil {
		return nil, apperr.Unexpected(err)
	}
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	return task, nil
}

func (s *taskService) Delete(ctx context.Context, caller authz.Caller, id int64) error {
	if _, err := s.authorize(ctx, caller, id, authz.ActionDelete); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperr.Unexpected(err)
	}
	return nil
}

func (s *taskService) AddChecklistItem(ctx context.Context, caller authz.Caller, taskID int64, text string) (*models.ChecklistItem, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperr.InvalidInput("checklist item text is required")
	}
	if _, err := s.authorize(ctx, caller, taskID, authz.ActionComment); err != nil {
		return nil, err
	}

	item := models.ChecklistItem{ID: uuid.NewString(), Text: text}
	err := s.mutateChecklist(ctx, taskID, func(items []models.ChecklistItem) ([]models.ChecklistItem, error) {
		return append(items, item), nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *taskService) ToggleChecklistItem(ctx context.Context, caller authz.Caller, taskID int64, itemID string, checked bool) ([]models.ChecklistItem, error) {
	if _, err := s.authorize(ctx, caller, taskID, authz.ActionComment); err != nil {
		return nil, err
	}

	var result []models.ChecklistItem
	err := s.mutateChecklist(ctx, taskID, func(items []models.ChecklistItem) ([]models.ChecklistItem, error) {
		found := false
		for i := range items {
			if items[i].ID == itemID {
				items[i].Checked = checked
				found = true
				break
			}
		}
		if !found {
			return nil, apperr.NotFound("checklist item")
		}
		result = items
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// mutateChecklist is the version-stamped read-modify-write: rewrite the
// whole list only if nobody else did since we read it, retrying a bounded
// number of times. Concurrent togglers cannot overwrite each other's
// unrelated changes.
func (s *taskService) mutateChecklist(ctx context.Context, taskID int64, mutate func([]models.ChecklistItem) ([]models.ChecklistItem, error)) error {
	for attempt := 0; attempt < checklistRetries; attempt++ {
		cl, err := s.repo.GetChecklist(ctx, taskID)
		if err != nil {
			return apperr.Unexpected(err)
		}
		items, err := mutate(cl.Items)
		if err != nil {
			return err
		}
		ok, err := s.repo.UpdateChecklist(ctx, taskID, items, cl.Version)
		if err != nil {
			return apperr.Unexpected(err)
		}
		if ok {
			return nil
		}
	}
	return apperr.InvalidState("checklist changed concurrently, try again")
}

func (s *taskService) AddComment(ctx context.Context, caller authz.Caller, taskID int64, body string) (*models.Comment, error) {
	if strings.TrimSpace(body) == "" {
		return nil, apperr.InvalidInput("comment body is required")
	}
	if _, err := s.authorize(ctx, caller, taskID, authz.ActionComment); err != nil {
		return nil, err
	}
	comment := &models.Comment{TaskID: taskID, AuthorID: caller.ID, Body: body}
	if err := s.repo.AddComment(ctx, comment); err != nil {
		return nil, apperr.Unexpected(err)
	}
	return comment, nil
}

func (s *taskService) ListComments(ctx context.Context, caller authz.Caller, taskID int64) ([]models.Comment, error) {
	if _, err := s.authorize(ctx, caller, taskID, authz.ActionView); err != nil {
		return nil, err
	}
	comments, err := s.repo.ListComments(ctx, taskID)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	return comments, nil
}

func (s *taskService) AddSubtask(ctx context.Context, caller authz.Caller, taskID int64, title string) (*models.Subtask, error) {
	if strings.TrimSpace(title) == "" {
		return nil, apperr.InvalidInput("subtask title is required")
	}
	if _, err := s.authorize(ctx, caller, taskID, authz.ActionComment); err != nil {
		return nil, err
	}
	subtask := &models.Subtask{TaskID: taskID, Title: title, CreatedByID: caller.ID}
	if err := s.repo.AddSubtask(ctx, subtask); err != nil {
		return nil, apperr.Unexpected(err)
	}
	return subtask, nil
}

func (s *taskService) ListSubtasks(ctx context.Context, caller authz.Caller, taskID int64) ([]models.Subtask, error) {
	if _, err := s.authorize(ctx, caller, taskID, authz.ActionView); err != nil {
		return nil, err
	}
	subtasks, err := s.repo.ListSubtasks(ctx, taskID)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	return subtasks, nil
}

func (s *taskService) AttachDocument(ctx context.Context, caller authz.Caller, taskID, documentID int64) error {
	if _, err := s.authorize(ctx, caller, taskID, authz.ActionComment); err != nil {
		return err
	}
	if err := s.repo.AttachDocument(ctx, taskID, documentID); err != nil {
		return apperr.Unexpected(err)
	}
	return nil
}

func (s *taskService) ListAttachedDocuments(ctx context.Context, caller authz.Caller, taskID int64) ([]models.Document, error) {
	if _, err := s.authorize(ctx, caller, taskID, authz.ActionView); err != nil {
		return nil, err
	}
	docs, err := s.repo.ListAttachedDocuments(ctx, taskID)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	return docs, nil
}
