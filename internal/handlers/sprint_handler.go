package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"teamhub/internal/models"
	"teamhub/internal/services"
)

type SprintHandler struct {
	service services.SprintService
}

func NewSprintHandler(service services.SprintService) *SprintHandler {
	return &SprintHandler{service: service}
}

// POST /projects/:id/sprints
func (h *SprintHandler) Create(c *gin.Context) {
	caller := getCaller(c)
	projectID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Name      string `json:"name" binding:"required"`
		Goal      string `json:"goal"`
		StartDate string `json:"start_date"` // RFC3339
		EndDate   string `json:"end_date"`   // RFC3339
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[sprint][create][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sprint := &models.Sprint{ProjectID: projectID, Name: req.Name, Goal: req.Goal}
	if req.StartDate != "" {
		t, err := time.Parse(time.RFC3339, req.StartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date (RFC3339)"})
			return
		}
		sprint.StartDate = &t
	}
	if req.EndDate != "" {
		t, err := time.Parse(time.RFC3339, req.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date (RFC3339)"})
			return
		}
		sprint.EndDate = &t
	}

	if err := h.service.Create(c.Request.Context(), caller, sprint); err != nil {
		respondError(c, "[sprint][create]", err)
		return
	}
	log.Printf("[sprint][create][ok] id=%d project=%d by=%d", sprint.ID, projectID, caller.ID)
	c.JSON(http.StatusCreated, sprint)
}

// GET /sprints/:id
func (h *SprintHandler) GetByID(c *gin.Context) {
	caller := getCaller(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	sprint, err := h.service.GetByID(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, "[sprint][getByID]", err)
		return
	}
	c.JSON(http.StatusOK, sprint)
}

// GET /projects/:id/sprints
func (h *SprintHandler) ListByProject(c *gin.Context) {
	caller := getCaller(c)
	projectID, ok := paramID(c, "id")
	if !ok {
		return
	}
	sprints, err := h.service.ListByProject(c.Request.Context(), caller, projectID)
	if err != nil {
		respondError(c, "[sprint][list]", err)
		return
	}
	c.JSON(http.StatusOK, sprints)
}

// POST /sprints/:id/start
func (h *SprintHandler) Start(c *gin.Context) {
	caller := getCaller(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	sprint, err := h.service.Start(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, "[sprint][start]", err)
		return
	}
	log.Printf("[sprint][start][ok] id=%d by=%d", id, caller.ID)
	c.JSON(http.StatusOK, sprint)
}

// POST /sprints/:id/complete
func (h *SprintHandler) Complete(c *gin.Context) {
	caller := getCaller(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	sprint, err := h.service.Complete(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, "[sprint][complete]", err)
		return
	}
	log.Printf("[sprint][complete][ok] id=%d by=%d", id, caller.ID)
	c.JSON(http.StatusOK, sprint)
}
