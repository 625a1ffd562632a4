package repositories

import (
	"context"
	"database/sql"

	"teamhub/internal/models"
)

type BoardRepository interface {
	// StoreWithSections creates the board and its default sections in one
	// transaction: either the board appears with its full section set or
	// not at all.
	StoreWithSections(ctx context.Context, board *models.Board, sectionNames []string) ([]models.Section, error)
	FindByID(ctx context.Context, id int64) (*models.Board, error)
	ListByProject(ctx context.Context, projectID int64) ([]models.Board, error)
	Delete(ctx context.Context, id int64) error

	ListSections(ctx context.Context, boardID int64) ([]models.Section, error)
	FindSection(ctx context.Context, sectionID int64) (*models.Section, error)
	// FirstSection returns the section with the minimal position on the
	// board, or nil when the board has no sections.
	FirstSection(ctx context.Context, boardID int64) (*models.Section, error)
}

type boardRepository struct {
	db *sql.DB
}

func NewBoardRepository(db *sql.DB) BoardRepository {
	return &boardRepository{db: db}
}

func (r *boardRepository) StoreWithSections(ctx context.Context, b *models.Board, sectionNames []string) ([]models.Section, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	const insBoard = `
		INSERT INTO boards (project_id, name, created_by_id)
		VALUES ($1,$2,$3)
		RETURNING id, created_at, updated_at`
	if err := tx.QueryRowContext(ctx, insBoard, b.ProjectID, b.Name, b.CreatedByID).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}

	const insSection = `
		INSERT INTO sections (board_id, name, position)
		VALUES ($1,$2,$3)
		RETURNING id`
	sections := make([]models.Section, 0, len(sectionNames))
	for i, name := range sectionNames {
		s := models.Section{BoardID: b.ID, Name: name, Position: i}
		if err := tx.QueryRowContext(ctx, insSection, b.ID, name, i).Scan(&s.ID); err != nil {
			return nil, err
		}
		sections = append(sections, s)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return sections, nil
}

func (r *boardRepository) FindByID(ctx context.Context, id int64) (*models.Board, error) {
	const q = `
		SELECT id, project_id, name, created_by_id, created_at, updated_at
		FROM boards WHERE id = $1`
	b := &models.Board{}
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&b.ID, &b.ProjectID, &b.Name, &b.CreatedByID, &b.CreatedAt, &b.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *boardRepository) ListByProject(ctx context.Context, projectID int64) ([]models.Board, error) {
	const q = `
		SELECT id, project_id, name, created_by_id, created_at, updated_at
		FROM boards WHERE project_id = $1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, q, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var boards []models.Board
	for rows.Next() {
		var b models.Board
		if err := rows.Scan(&b.ID, &b.ProjectID, &b.Name, &b.CreatedByID, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		boards = append(boards, b)
	}
	return boards, rows.Err()
}

func (r *boardRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM boards WHERE id = $1`, id)
	return err
}

func (r *boardRepository) ListSections(ctx context.Context, boardID int64) ([]models.Section, error) {
	const q = `
		SELECT id, board_id, name, position
		FROM sections WHERE board_id = $1 ORDER BY position`
	rows, err := r.db.QueryContext(ctx, q, boardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []models.Section
	for rows.Next() {
		var s models.Section
		if err := rows.Scan(&s.ID, &s.BoardID, &s.Name, &s.Position); err != nil {
			return nil, err
		}
		sections = append(sections, s)
	}
	return sections, rows.Err()
}

func (r *boardRepository) FindSection(ctx context.Context, sectionID int64) (*models.Section, error) {
	const q = `SELECT id, board_id, name, position FROM sections WHERE id = $1`
	s := &models.Section{}
	err := r.db.QueryRowContext(ctx, q, sectionID).Scan(&s.ID, &s.BoardID, &s.Name, &s.Position)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *boardRepository) FirstSection(ctx context.Context, boardID int64) (*models.Section, error) {
	const q = `
		SELECT id, board_id, name, position
		FROM sections WHERE board_id = $1
		ORDER BY position LIMIT 1`
	s := &models.Section{}
	err := r.db.QueryRowContext(ctx, q, boardID).Scan(&s.ID, &s.BoardID, &s.Name, &s.Position)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}
