package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"teamhub/internal/models"
)

// TaskAccessInfo is the ownership chain of a task, loaded in one query for
// the authorization evaluator: task creator, board creator, and — when the
// task belongs to a sprint — the owning project.
type TaskAccessInfo struct {
	TaskID         int64
	CreatorID      int64
	BoardID        int64
	BoardCreatorID int64
	AssigneeIDs    []int64
	ProjectID      int64 // 0 for a standalone board task without sprint
	ProjectOwnerID int64
}

type TaskRepository interface {
	// Store inserts the task with position = current number of tasks in
	// the target section, together with its assignment rows, in one
	// transaction.
	Store(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id int64) (*models.Task, error)
	FindAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	ReplaceAssignees(ctx context.Context, taskID int64, assigneeIDs []int64) error
	Delete(ctx context.Context, id int64) error
	Complete(ctx context.Context, id, byID int64, at time.Time) error

	AccessInfo(ctx context.Context, taskID int64) (*TaskAccessInfo, error)

	GetChecklist(ctx context.Context, taskID int64) (models.Checklist, error)
	// UpdateChecklist writes the whole list back only when the stored
	// version still matches; reports false on a version mismatch.
	UpdateChecklist(ctx context.Context, taskID int64, items []models.ChecklistItem, expectedVersion int64) (bool, error)

	AddComment(ctx context.Context, comment *models.Comment) error
	ListComments(ctx context.Context, taskID int64) ([]models.Comment, error)
	AddSubtask(ctx context.Context, subtask *models.Subtask) error
	ListSubtasks(ctx context.Context, taskID int64) ([]models.Subtask, error)

	AttachDocument(ctx context.Context, taskID, documentID int64) error
	ListAttachedDocuments(ctx context.Context, taskID int64) ([]models.Document, error)
}

type taskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) TaskRepository {
	return &taskRepository{db: db}
}

const taskColumns = `id, section_id, sprint_id, title, content, priority, position,
	status, created_by_id, updated_by_id, due_date, completed_at, created_at, updated_at`

func (r *taskRepository) Store(ctx context.Context, task *models.Task) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// append-to-end: no gap-filling, no renumbering of siblings
	var position int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tasks WHERE section_id = $1`, task.SectionID).Scan(&position); err != nil {
		return err
	}
	task.Position = position

	const q = `
		INSERT INTO tasks (section_id, sprint_id, title, content, priority, position,
			status, created_by_id, updated_by_id, due_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$8,$9)
		RETURNING id, created_at, updated_at`
	if err := tx.QueryRowContext(ctx, q,
		task.SectionID, task.SprintID, task.Title, task.Content, task.Priority,
		task.Position, task.Status, task.CreatedByID, task.DueDate,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt); err != nil {
		return err
	}
	task.UpdatedByID = task.CreatedByID

	for _, uid := range task.AssigneeIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO task_assignees (task_id, user_id) VALUES ($1,$2)
			 ON CONFLICT DO NOTHING`, task.ID, uid); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *taskRepository) scanTask(row interface{ Scan(...interface{}) error }) (*models.Task, error) {
	t := &models.Task{}
	err := row.Scan(
		&t.ID, &t.SectionID, &t.SprintID, &t.Title, &t.Content, &t.Priority, &t.Position,
		&t.Status, &t.CreatedByID, &t.UpdatedByID, &t.DueDate, &t.CompletedAt,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *taskRepository) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	t, err := r.scanTask(r.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id FROM task_assignees WHERE task_id = $1 ORDER BY user_id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var uid int64
		if err := rows.Scan(&uid); err != nil {
			return nil, err
		}
		t.AssigneeIDs = append(t.AssigneeIDs, uid)
	}
	return t, rows.Err()
}

func (r *taskRepository) FindAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	baseQuery := `SELECT ` + taskColumns + ` FROM tasks`

	conditions := []string{}
	args := []interface{}{}
	argID := 1

	if filter.BoardID != nil {
		conditions = append(conditions, fmt.Sprintf(
			"section_id IN (SELECT id FROM sections WHERE board_id = $%d)", argID))
		args = append(args, *filter.BoardID)
		argID++
	}
	if filter.SectionID != nil {
		conditions = append(conditions, fmt.Sprintf("section_id = $%d", argID))
		args = append(args, *filter.SectionID)
		argID++
	}
	if filter.SprintID != nil {
		conditions = append(conditions, fmt.Sprintf("sprint_id = $%d", argID))
		args = append(args, *filter.SprintID)
		argID++
	}
	if filter.AssigneeID != nil {
		conditions = append(conditions, fmt.Sprintf(
			"id IN (SELECT task_id FROM task_assignees WHERE user_id = $%d)", argID))
		args = append(args, *filter.AssigneeID)
		argID++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argID))
		args = append(args, *filter.Status)
		argID++
	}

	if len(conditions) > 0 {
		baseQuery += " WHERE " + strings.Join(conditions, " AND ")
	}
	baseQuery += " ORDER BY position, id"

	rows, err := r.db.QueryContext(ctx, baseQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := r.scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Update(ctx context.Context, task *models.Task) error {
	const q = `
		UPDATE tasks SET
			section_id=$1, sprint_id=$2, title=$3, content=$4, priority=$5,
			due_date=$6, updated_by_id=$7, updated_at=$8
		WHERE id=$9`
	_, err := r.db.ExecContext(ctx, q,
		task.SectionID, task.SprintID, task.Title, task.Content, task.Priority,
		task.DueDate, task.UpdatedByID, task.UpdatedAt, task.ID)
	return err
}

func (r *taskRepository) ReplaceAssignees(ctx context.Context, taskID int64, assigneeIDs []int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM task_assignees WHERE task_id = $1 AND NOT (user_id = ANY($2))`,
		taskID, pq.Array(assigneeIDs)); err != nil {
		return err
	}
	for _, uid := range assigneeIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO task_assignees (task_id, user_id) VALUES ($1,$2)
			 ON CONFLICT DO NOTHING`, taskID, uid); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *taskRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	return err
}

func (r *taskRepository) Complete(ctx context.Context, id, byID int64, at time.Time) error {
	// no prior-status guard: re-completing simply re-stamps completed_at
	_, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET status=$1, completed_at=$2, updated_by_id=$3, updated_at=NOW()
		 WHERE id=$4`, models.TaskComplete, at, byID, id)
	return err
}

func (r *taskRepository) AccessInfo(ctx context.Context, taskID int64) (*TaskAccessInfo, error) {
	const q = `
		SELECT t.id, t.created_by_id, b.id, b.created_by_id,
		       COALESCE(s.project_id, 0), COALESCE(p.created_by_id, 0),
		       COALESCE(array_agg(ta.user_id) FILTER (WHERE ta.user_id IS NOT NULL), '{}')
		FROM tasks t
		JOIN sections sec ON sec.id = t.section_id
		JOIN boards b ON b.id = sec.board_id
		LEFT JOIN sprints s ON s.id = t.sprint_id
		LEFT JOIN projects p ON p.id = s.project_id
		LEFT JOIN task_assignees ta ON ta.task_id = t.id
		WHERE t.id = $1
		GROUP BY t.id, t.created_by_id, b.id, b.created_by_id, s.project_id, p.created_by_id`
	info := &TaskAccessInfo{}
	var assignees pq.Int64Array
	err := r.db.QueryRowContext(ctx, q, taskID).Scan(
		&info.TaskID, &info.CreatorID, &info.BoardID, &info.BoardCreatorID,
		&info.ProjectID, &info.ProjectOwnerID, &assignees,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	info.AssigneeIDs = assignees
	return info, nil
}

func (r *taskRepository) GetChecklist(ctx context.Context, taskID int64) (models.Checklist, error) {
	var (
		cl  models.Checklist
		raw []byte
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT checklist, checklist_version FROM tasks WHERE id = $1`, taskID).
		Scan(&raw, &cl.Version)
	if err != nil {
		return cl, err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &cl.Items); err != nil {
			return cl, err
		}
	}
	return cl, nil
}

func (r *taskRepository) UpdateChecklist(ctx context.Context, taskID int64, items []models.ChecklistItem, expectedVersion int64) (bool, error) {
	raw, err := json.Marshal(items)
	if err != nil {
		return false, err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET checklist=$1, checklist_version=checklist_version+1, updated_at=NOW()
		WHERE id=$2 AND checklist_version=$3`, raw, taskID, expectedVersion)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *taskRepository) AddComment(ctx context.Context, c *models.Comment) error {
	const q = `
		INSERT INTO task_comments (task_id, author_id, body)
		VALUES ($1,$2,$3)
		RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, q, c.TaskID, c.AuthorID, c.Body).
		Scan(&c.ID, &c.CreatedAt)
}

func (r *taskRepository) ListComments(ctx context.Context, taskID int64) ([]models.Comment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, task_id, author_id, body, created_at
		 FROM task_comments WHERE task_id = $1 ORDER BY created_at, id`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.TaskID, &c.AuthorID, &c.Body, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *taskRepository) AddSubtask(ctx context.Context, s *models.Subtask) error {
	const q = `
		INSERT INTO subtasks (task_id, title, completed, created_by_id)
		VALUES ($1,$2,$3,$4)
		RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, q, s.TaskID, s.Title, s.Completed, s.CreatedByID).
		Scan(&s.ID, &s.CreatedAt)
}

func (r *taskRepository) ListSubtasks(ctx context.Context, taskID int64) ([]models.Subtask, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, task_id, title, completed, created_by_id, created_at
		 FROM subtasks WHERE task_id = $1 ORDER BY id`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subtasks []models.Subtask
	for rows.Next() {
		var s models.Subtask
		if err := rows.Scan(&s.ID, &s.TaskID, &s.Title, &s.Completed, &s.CreatedByID, &s.CreatedAt); err != nil {
			return nil, err
		}
		subtasks = append(subtasks, s)
	}
	return subtasks, rows.Err()
}

func (r *taskRepository) AttachDocument(ctx context.Context, taskID, documentID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO task_attachments (task_id, document_id) VALUES ($1,$2)
		 ON CONFLICT DO NOTHING`, taskID, documentID)
	return err
}

func (r *taskRepository) ListAttachedDocuments(ctx context.Context, taskID int64) ([]models.Document, error) {
	const q = `
		SELECT d.id, d.uploader_id, d.name, d.file_key, d.size, d.content_type, d.created_at
		FROM documents d
		JOIN task_attachments ta ON ta.document_id = d.id
		WHERE ta.task_id = $1
		ORDER BY ta.created_at`
	rows, err := r.db.QueryContext(ctx, q, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		var d models.Document
		if err := rows.Scan(&d.ID, &d.UploaderID, &d.Name, &d.FileKey, &d.Size, &d.ContentType, &d.CreatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}
