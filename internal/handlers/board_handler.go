package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"teamhub/internal/models"
	"teamhub/internal/services"
)

type BoardHandler struct {
	service services.BoardService
}

func NewBoardHandler(service services.BoardService) *BoardHandler {
	return &BoardHandler{service: service}
}

// POST /projects/:id/boards — the board comes back with its default
// sections already in place.
func (h *BoardHandler) Create(c *gin.Context) {
	caller := getCaller(c)
	projectID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[board][create][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	board := &models.Board{ProjectID: projectID, Name: req.Name}
	created, err := h.service.Create(c.Request.Context(), caller, board)
	if err != nil {
		respondError(c, "[board][create]", err)
		return
	}
	log.Printf("[board][create][ok] id=%d project=%d sections=%d by=%d",
		created.Board.ID, projectID, len(created.Sections), caller.ID)
	c.JSON(http.StatusCreated, created)
}

// GET /boards/:id
func (h *BoardHandler) GetByID(c *gin.Context) {
	caller := getCaller(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	board, err := h.service.GetByID(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, "[board][getByID]", err)
		return
	}
	c.JSON(http.StatusOK, board)
}

// GET /projects/:id/boards
func (h *BoardHandler) ListByProject(c *gin.Context) {
	caller := getCaller(c)
	projectID, ok := paramID(c, "id")
	if !ok {
		return
	}
	boards, err := h.service.ListByProject(c.Request.Context(), caller, projectID)
	if err != nil {
		respondError(c, "[board][list]", err)
		return
	}
	c.JSON(http.StatusOK, boards)
}
