package services

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"teamhub/internal/apperr"
	"teamhub/internal/authz"
	"teamhub/internal/models"
	"teamhub/internal/repositories"
)

// DocumentService stores uploaded files on disk under FilesRoot keyed by a
// generated file key; the database keeps only metadata.
type DocumentService struct {
	repo      repositories.DocumentRepository
	FilesRoot string
}

func NewDocumentService(repo repositories.DocumentRepository, filesRoot string) *DocumentService {
	return &DocumentService{repo: repo, FilesRoot: filepath.Clean(filesRoot)}
}

func (s *DocumentService) Upload(ctx context.Context, caller authz.Caller, name, contentType string, src io.Reader) (*models.Document, error) {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "" || name == "." {
		return nil, apperr.InvalidInput("file name is required")
	}

	key := uuid.NewString() + filepath.Ext(name)
	if err := os.MkdirAll(s.FilesRoot, 0o755); err != nil {
		return nil, apperr.Unexpected(err)
	}
	dst, err := os.Create(filepath.Join(s.FilesRoot, key))
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	size, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(filepath.Join(s.FilesRoot, key))
		return nil, apperr.Unexpected(err)
	}

	doc := &models.Document{
		UploaderID:  caller.ID,
		Name:        name,
		FileKey:     key,
		Size:        size,
		ContentType: contentType,
	}
	if err := s.repo.Store(ctx, doc); err != nil {
		_ = os.Remove(filepath.Join(s.FilesRoot, key))
		return nil, apperr.Unexpected(err)
	}
	return doc, nil
}

func (s *DocumentService) GetByID(ctx context.Context, id int64) (*models.Document, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	if doc == nil {
		return nil, apperr.NotFound("document")
	}
	return doc, nil
}

// FilePath resolves the on-disk location for serving a download.
func (s *DocumentService) FilePath(doc *models.Document) string {
	return filepath.Join(s.FilesRoot, filepath.Base(doc.FileKey))
}

func (s *DocumentService) List(ctx context.Context, caller authz.Caller, limit, offset int) ([]models.Document, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var (
		docs []models.Document
		err  error
	)
	if caller.IsAdmin() {
		docs, err = s.repo.List(ctx, limit, offset)
	} else {
		docs, err = s.repo.ListByUploader(ctx, caller.ID)
	}
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	return docs, nil
}

// Delete removes the metadata, the task-attachment join rows and the file.
// Only the uploader or an admin may delete.
func (s *DocumentService) Delete(ctx context.Context, caller authz.Caller, id int64) error {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return apperr.Unexpected(err)
	}
	if doc == nil {
		return apperr.NotFound("document")
	}
	if !caller.IsAdmin() && doc.UploaderID != caller.ID {
		return apperr.Forbidden("only the uploader can delete this document")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return apperr.Unexpected(err)
	}
	// the row is gone; a leftover file is only noise
	if err := os.Remove(s.FilePath(doc)); err != nil && !os.IsNotExist(err) {
		log.Printf("[document][delete] warning: remove file %s: %v", doc.FileKey, err)
	}
	return nil
}
