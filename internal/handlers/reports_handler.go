package handlers

import (
	"log"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"teamhub/internal/services"
)

type ReportsHandler struct {
	service *services.ReportService
}

func NewReportsHandler(service *services.ReportService) *ReportsHandler {
	return &ReportsHandler{service: service}
}

// GET /projects/:id/summary
func (h *ReportsHandler) ProjectSummary(c *gin.Context) {
	caller := getCaller(c)
	projectID, ok := paramID(c, "id")
	if !ok {
		return
	}
	summary, err := h.service.ProjectSummary(c.Request.Context(), caller, projectID)
	if err != nil {
		respondError(c, "[report][summary]", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GET /sprints/:id/report — renders the PDF and streams it back.
func (h *ReportsHandler) SprintReport(c *gin.Context) {
	caller := getCaller(c)
	sprintID, ok := paramID(c, "id")
	if !ok {
		return
	}
	path, err := h.service.SprintReportPDF(c.Request.Context(), caller, sprintID)
	if err != nil {
		respondError(c, "[report][sprint]", err)
		return
	}
	log.Printf("[report][sprint][ok] sprint=%d file=%s by=%d", sprintID, filepath.Base(path), caller.ID)
	c.FileAttachment(path, filepath.Base(path))
}
