package repositories

import (
	"context"
	"database/sql"

	"teamhub/internal/models"
)

type SprintRepository interface {
	Store(ctx context.Context, sprint *models.Sprint) error
	FindByID(ctx context.Context, id int64) (*models.Sprint, error)
	ListByProject(ctx context.Context, projectID int64) ([]models.Sprint, error)
	Update(ctx context.Context, sprint *models.Sprint) error
	Delete(ctx context.Context, id int64) error

	// TransitionStatus performs the status change atomically: the UPDATE
	// carries the expected current status, so a concurrent transition can
	// never skip a lifecycle step. Returns false when the precondition
	// did not hold.
	TransitionStatus(ctx context.Context, id int64, from, to models.SprintStatus) (bool, error)
}

type sprintRepository struct {
	db *sql.DB
}

func NewSprintRepository(db *sql.DB) SprintRepository {
	return &sprintRepository{db: db}
}

func (r *sprintRepository) Store(ctx context.Context, s *models.Sprint) error {
	const q = `
		INSERT INTO sprints (project_id, name, goal, status, start_date, end_date)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, q,
		s.ProjectID, s.Name, s.Goal, s.Status, s.StartDate, s.EndDate,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

func (r *sprintRepository) FindByID(ctx context.Context, id int64) (*models.Sprint, error) {
	const q = `
		SELECT id, project_id, name, goal, status, start_date, end_date, created_at, updated_at
		FROM sprints WHERE id = $1`
	s := &models.Sprint{}
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&s.ID, &s.ProjectID, &s.Name, &s.Goal, &s.Status,
		&s.StartDate, &s.EndDate, &s.CreatedAt, &s.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *sprintRepository) ListByProject(ctx context.Context, projectID int64) ([]models.Sprint, error) {
	const q = `
		SELECT id, project_id, name, goal, status, start_date, end_date, created_at, updated_at
		FROM sprints WHERE project_id = $1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, q, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sprints []models.Sprint
	for rows.Next() {
		var s models.Sprint
		if err := rows.Scan(
			&s.ID, &s.ProjectID, &s.Name, &s.Goal, &s.Status,
			&s.StartDate, &s.EndDate, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		sprints = append(sprints, s)
	}
	return sprints, rows.Err()
}

func (r *sprintRepository) Update(ctx context.Context, s *models.Sprint) error {
	const q = `
		UPDATE sprints SET name=$1, goal=$2, start_date=$3, end_date=$4, updated_at=NOW()
		WHERE id=$5`
	_, err := r.db.ExecContext(ctx, q, s.Name, s.Goal, s.StartDate, s.EndDate, s.ID)
	return err
}

func (r *sprintRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sprints WHERE id = $1`, id)
	return err
}

func (r *sprintRepository) TransitionStatus(ctx context.Context, id int64, from, to models.SprintStatus) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sprints SET status=$1, updated_at=NOW() WHERE id=$2 AND status=$3`,
		to, id, from)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
