package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"teamhub/internal/models"
)

type ProjectRepository interface {
	Store(ctx context.Context, project *models.Project) error
	FindByID(ctx context.Context, id int64) (*models.Project, error)
	FindAll(ctx context.Context, filter models.ProjectFilter) ([]models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id int64) error

	// AddMember inserts conditionally; it reports false when the
	// (project, user) membership already exists, without a prior read.
	AddMember(ctx context.Context, member *models.ProjectMember) (bool, error)
	ListMembers(ctx context.Context, projectID int64) ([]models.ProjectMember, error)
	FindMember(ctx context.Context, projectID, userID int64) (*models.ProjectMember, error)
	RemoveMember(ctx context.Context, projectID, userID int64) error
}

type projectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Store(ctx context.Context, p *models.Project) error {
	const q = `
		INSERT INTO projects (name, description, status, created_by_id, start_date, end_date)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, q,
		p.Name, p.Description, p.Status, p.CreatedByID, p.StartDate, p.EndDate,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *projectRepository) FindByID(ctx context.Context, id int64) (*models.Project, error) {
	const q = `
		SELECT id, name, description, status, created_by_id, start_date, end_date, created_at, updated_at
		FROM projects WHERE id = $1`
	p := &models.Project{}
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Status, &p.CreatedByID,
		&p.StartDate, &p.EndDate, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *projectRepository) FindAll(ctx context.Context, filter models.ProjectFilter) ([]models.Project, error) {
	baseQuery := `SELECT p.id, p.name, p.description, p.status, p.created_by_id,
		p.start_date, p.end_date, p.created_at, p.updated_at FROM projects p`

	conditions := []string{}
	args := []interface{}{}
	argID := 1

	if filter.MemberID != nil {
		baseQuery += ` JOIN project_members pm ON pm.project_id = p.id`
		conditions = append(conditions, fmt.Sprintf("pm.user_id = $%d", argID))
		args = append(args, *filter.MemberID)
		argID++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("p.status = $%d", argID))
		args = append(args, *filter.Status)
		argID++
	}
	if filter.CreatedByID != nil {
		conditions = append(conditions, fmt.Sprintf("p.created_by_id = $%d", argID))
		args = append(args, *filter.CreatedByID)
		argID++
	}

	if len(conditions) > 0 {
		baseQuery += " WHERE " + strings.Join(conditions, " AND ")
	}
	baseQuery += " ORDER BY p.created_at DESC"

	rows, err := r.db.QueryContext(ctx, baseQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Status, &p.CreatedByID,
			&p.StartDate, &p.EndDate, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *projectRepository) Update(ctx context.Context, p *models.Project) error {
	const q = `
		UPDATE projects SET
			name=$1, description=$2, status=$3, start_date=$4, end_date=$5, updated_at=NOW()
		WHERE id=$6`
	_, err := r.db.ExecContext(ctx, q,
		p.Name, p.Description, p.Status, p.StartDate, p.EndDate, p.ID)
	return err
}

func (r *projectRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	return err
}

func (r *projectRepository) AddMember(ctx context.Context, m *models.ProjectMember) (bool, error) {
	// one atomic statement instead of check-then-insert, so concurrent
	// adds cannot create a duplicate row
	const q = `
		INSERT INTO project_members (project_id, user_id, role)
		VALUES ($1,$2,$3)
		ON CONFLICT (project_id, user_id) DO NOTHING
		RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, q, m.ProjectID, m.UserID, m.Role).
		Scan(&m.ID, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *projectRepository) ListMembers(ctx context.Context, projectID int64) ([]models.ProjectMember, error) {
	const q = `
		SELECT id, project_id, user_id, role, created_at
		FROM project_members WHERE project_id = $1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, q, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []models.ProjectMember
	for rows.Next() {
		var m models.ProjectMember
		if err := rows.Scan(&m.ID, &m.ProjectID, &m.UserID, &m.Role, &m.CreatedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *projectRepository) FindMember(ctx context.Context, projectID, userID int64) (*models.ProjectMember, error) {
	const q = `
		SELECT id, project_id, user_id, role, created_at
		FROM project_members WHERE project_id = $1 AND user_id = $2`
	m := &models.ProjectMember{}
	err := r.db.QueryRowContext(ctx, q, projectID, userID).
		Scan(&m.ID, &m.ProjectID, &m.UserID, &m.Role, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *projectRepository) RemoveMember(ctx context.Context, projectID, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM project_members WHERE project_id = $1 AND user_id = $2`, projectID, userID)
	return err
}
