package repositories

import (
	"context"
	"database/sql"

	"teamhub/internal/models"
)

type DocumentRepository interface {
	Store(ctx context.Context, doc *models.Document) error
	FindByID(ctx context.Context, id int64) (*models.Document, error)
	ListByUploader(ctx context.Context, uploaderID int64) ([]models.Document, error)
	List(ctx context.Context, limit, offset int) ([]models.Document, error)
	// Delete removes the document row together with its task-attachment
	// join rows; referential cleanup is explicit, not a cascade.
	Delete(ctx context.Context, id int64) error
}

type documentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Store(ctx context.Context, d *models.Document) error {
	const q = `
		INSERT INTO documents (uploader_id, name, file_key, size, content_type)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, q,
		d.UploaderID, d.Name, d.FileKey, d.Size, d.ContentType,
	).Scan(&d.ID, &d.CreatedAt)
}

func (r *documentRepository) FindByID(ctx context.Context, id int64) (*models.Document, error) {
	const q = `
		SELECT id, uploader_id, name, file_key, size, content_type, created_at
		FROM documents WHERE id = $1`
	d := &models.Document{}
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&d.ID, &d.UploaderID, &d.Name, &d.FileKey, &d.Size, &d.ContentType, &d.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *documentRepository) ListByUploader(ctx context.Context, uploaderID int64) ([]models.Document, error) {
	return r.list(ctx,
		`SELECT id, uploader_id, name, file_key, size, content_type, created_at
		 FROM documents WHERE uploader_id = $1 ORDER BY created_at DESC`, uploaderID)
}

func (r *documentRepository) List(ctx context.Context, limit, offset int) ([]models.Document, error) {
	return r.list(ctx,
		`SELECT id, uploader_id, name, file_key, size, content_type, created_at
		 FROM documents ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
}

func (r *documentRepository) list(ctx context.Context, q string, args ...interface{}) ([]models.Document, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
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

func (r *documentRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM task_attachments WHERE document_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM documents WHERE id = $1`, id); err != nil {
		return err
	}
	return tx.Commit()
}
