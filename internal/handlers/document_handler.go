package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"teamhub/internal/services"
)

const maxUploadSize = 25 << 20 // 25 MiB

type DocumentHandler struct {
	service *services.DocumentService
}

func NewDocumentHandler(service *services.DocumentService) *DocumentHandler {
	return &DocumentHandler{service: service}
}

// POST /documents — multipart upload, field "file".
func (h *DocumentHandler) Upload(c *gin.Context) {
	caller := getCaller(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		log.Printf("[document][upload][err] form file: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field is required"})
		return
	}
	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read uploaded file"})
		return
	}
	defer src.Close()

	doc, err := h.service.Upload(c.Request.Context(), caller,
		fileHeader.Filename, fileHeader.Header.Get("Content-Type"), src)
	if err != nil {
		respondError(c, "[document][upload]", err)
		return
	}
	log.Printf("[document][upload][ok] id=%d name=%q size=%d by=%d",
		doc.ID, doc.Name, doc.Size, caller.ID)
	c.JSON(http.StatusCreated, doc)
}

// GET /documents/:id/download
func (h *DocumentHandler) Download(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	doc, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, "[document][download]", err)
		return
	}
	c.FileAttachment(h.service.FilePath(doc), doc.Name)
}

// GET /documents
func (h *DocumentHandler) List(c *gin.Context) {
	caller := getCaller(c)
	docs, err := h.service.List(c.Request.Context(), caller,
		queryInt(c, "limit", 50), queryInt(c, "offset", 0))
	if err != nil {
		respondError(c, "[document][list]", err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

// DELETE /documents/:id
func (h *DocumentHandler) Delete(c *gin.Context) {
	caller := getCaller(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), caller, id); err != nil {
		respondError(c, "[document][delete]", err)
		return
	}
	log.Printf("[document][delete][ok] id=%d by=%d", id, caller.ID)
	c.Status(http.StatusNoContent)
}
