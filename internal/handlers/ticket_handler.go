package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"teamhub/internal/models"
	"teamhub/internal/services"
)

type TicketHandler struct {
	service *services.TicketService
}

func NewTicketHandler(service *services.TicketService) *TicketHandler {
	return &TicketHandler{service: service}
}

// POST /tickets
func (h *TicketHandler) Create(c *gin.Context) {
	caller := getCaller(c)
	var req struct {
		Title        string              `json:"title" binding:"required"`
		Description  string              `json:"description"`
		Priority     models.TaskPriority `json:"priority"`
		AssignedToID *int64              `json:"assigned_to_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ticket := &models.Ticket{
		Title:        req.Title,
		Description:  req.Description,
		Priority:     req.Priority,
		AssignedToID: req.AssignedToID,
	}
	created, err := h.service.Create(c.Request.Context(), caller, ticket)
	if err != nil {
		respondError(c, "[ticket][create]", err)
		return
	}
	log.Printf("[ticket][create][ok] id=%d by=%d", created.ID, caller.ID)
	c.JSON(http.StatusCreated, created)
}

// GET /tickets/:id
func (h *TicketHandler) GetByID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ticket, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, "[ticket][getByID]", err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

// GET /tickets
func (h *TicketHandler) List(c *gin.Context) {
	tickets, err := h.service.List(c.Request.Context(),
		queryInt(c, "limit", 50), queryInt(c, "offset", 0))
	if err != nil {
		respondError(c, "[ticket][list]", err)
		return
	}
	c.JSON(http.StatusOK, tickets)
}

// PUT /tickets/:id
func (h *TicketHandler) Update(c *gin.Context) {
	caller := getCaller(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var in services.UpdateTicketInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ticket, err := h.service.Update(c.Request.Context(), caller, id, in)
	if err != nil {
		respondError(c, "[ticket][update]", err)
		return
	}
	log.Printf("[ticket][update][ok] id=%d by=%d", id, caller.ID)
	c.JSON(http.StatusOK, ticket)
}

// DELETE /tickets/:id
func (h *TicketHandler) Delete(c *gin.Context) {
	caller := getCaller(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), caller, id); err != nil {
		respondError(c, "[ticket][delete]", err)
		return
	}
	log.Printf("[ticket][delete][ok] id=%d by=%d", id, caller.ID)
	c.Status(http.StatusNoContent)
}
