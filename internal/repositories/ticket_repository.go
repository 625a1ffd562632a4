package repositories

import (
	"context"
	"database/sql"

	"teamhub/internal/models"
)

type TicketRepository interface {
	Store(ctx context.Context, ticket *models.Ticket) error
	FindByID(ctx context.Context, id int64) (*models.Ticket, error)
	List(ctx context.Context, limit, offset int) ([]models.Ticket, error)
	Update(ctx context.Context, ticket *models.Ticket) error
	Delete(ctx context.Context, id int64) error
}

type ticketRepository struct {
	db *sql.DB
}

func NewTicketRepository(db *sql.DB) TicketRepository {
	return &ticketRepository{db: db}
}

func (r *ticketRepository) Store(ctx context.Context, t *models.Ticket) error {
	const q = `
		INSERT INTO tickets (title, description, priority, status, created_by_id, assigned_to_id)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, q,
		t.Title, t.Description, t.Priority, t.Status, t.CreatedByID, t.AssignedToID,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

func (r *ticketRepository) FindByID(ctx context.Context, id int64) (*models.Ticket, error) {
	const q = `
		SELECT id, title, description, priority, status, created_by_id, assigned_to_id, created_at, updated_at
		FROM tickets WHERE id = $1`
	t := &models.Ticket{}
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&t.ID, &t.Title, &t.Description, &t.Priority, &t.Status,
		&t.CreatedByID, &t.AssignedToID, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *ticketRepository) List(ctx context.Context, limit, offset int) ([]models.Ticket, error) {
	const q = `
		SELECT id, title, description, priority, status, created_by_id, assigned_to_id, created_at, updated_at
		FROM tickets ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []models.Ticket
	for rows.Next() {
		var t models.Ticket
		if err := rows.Scan(
			&t.ID, &t.Title, &t.Description, &t.Priority, &t.Status,
			&t.CreatedByID, &t.AssignedToID, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

func (r *ticketRepository) Update(ctx context.Context, t *models.Ticket) error {
	const q = `
		UPDATE tickets SET
			title=$1, description=$2, priority=$3, status=$4, assigned_to_id=$5, updated_at=NOW()
		WHERE id=$6`
	_, err := r.db.ExecContext(ctx, q,
		t.Title, t.Description, t.Priority, t.Status, t.AssignedToID, t.ID)
	return err
}

func (r *ticketRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tickets WHERE id = $1`, id)
	return err
}
