package models

import "time"

// Document is an uploaded file; the payload lives on disk under the files
// root keyed by FileKey, only metadata is stored in the database.
type Document struct {
	ID          int64     `json:"id"`
	UploaderID  int64     `json:"uploader_id"`
	Name        string    `json:"name"`
	FileKey     string    `json:"-"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
}

// TaskAttachment links a document to a task. Rows are removed explicitly
// when the document is deleted; there is no cascade.
type TaskAttachment struct {
	TaskID     int64     `json:"task_id"`
	DocumentID int64     `json:"document_id"`
	CreatedAt  time.Time `json:"created_at"`
}
