package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"teamhub/internal/models"
	"teamhub/internal/services"
)

type ProjectHandler struct {
	service services.ProjectService
}

func NewProjectHandler(service services.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

// POST /projects
func (h *ProjectHandler) Create(c *gin.Context) {
	caller := getCaller(c)
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[project][create][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project := &models.Project{Name: req.Name, Description: req.Description}
	if err := h.service.Create(c.Request.Context(), caller, project); err != nil {
		respondError(c, "[project][create]", err)
		return
	}
	log.Printf("[project][create][ok] id=%d by=%d", project.ID, caller.ID)
	c.JSON(http.StatusCreated, project)
}

// GET /projects/:id
func (h *ProjectHandler) GetByID(c *gin.Context) {
	caller := getCaller(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	project, err := h.service.GetByID(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, "[project][getByID]", err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// GET /projects — admins see everything, others their memberships.
func (h *ProjectHandler) List(c *gin.Context) {
	caller := getCaller(c)
	projects, err := h.service.List(c.Request.Context(), caller)
	if err != nil {
		respondError(c, "[project][list]", err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

// PUT /projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	caller := getCaller(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Name        *string               `json:"name"`
		Description *string               `json:"description"`
		Status      *models.ProjectStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := &models.Project{ID: id}
	if req.Name != nil {
		update.Name = *req.Name
	}
	if req.Description != nil {
		update.Description = *req.Description
	}
	if req.Status != nil {
		update.Status = *req.Status
	}

	project, err := h.service.Update(c.Request.Context(), caller, update)
	if err != nil {
		respondError(c, "[project][update]", err)
		return
	}
	log.Printf("[project][update][ok] id=%d by=%d", id, caller.ID)
	c.JSON(http.StatusOK, project)
}

// DELETE /projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	caller := getCaller(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), caller, id); err != nil {
		respondError(c, "[project][delete]", err)
		return
	}
	log.Printf("[project][delete][ok] id=%d by=%d", id, caller.ID)
	c.Status(http.StatusNoContent)
}

// POST /projects/:id/members
func (h *ProjectHandler) AddMember(c *gin.Context) {
	caller := getCaller(c)
	projectID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req struct {
		UserID int64              `json:"user_id" binding:"required"`
		Role   models.ProjectRole `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Role == "" {
		req.Role = models.ProjectPlainMember
	}

	member := &models.ProjectMember{ProjectID: projectID, UserID: req.UserID, Role: req.Role}
	if err := h.service.AddMember(c.Request.Context(), caller, member); err != nil {
		respondError(c, "[project][addMember]", err)
		return
	}
	log.Printf("[project][addMember][ok] project=%d user=%d role=%s by=%d",
		projectID, req.UserID, req.Role, caller.ID)
	c.JSON(http.StatusCreated, member)
}

// GET /projects/:id/members
func (h *ProjectHandler) ListMembers(c *gin.Context) {
	caller := getCaller(c)
	projectID, ok := paramID(c, "id")
	if !ok {
		return
	}
	members, err := h.service.ListMembers(c.Request.Context(), caller, projectID)
	if err != nil {
		respondError(c, "[project][listMembers]", err)
		return
	}
	c.JSON(http.StatusOK, members)
}
