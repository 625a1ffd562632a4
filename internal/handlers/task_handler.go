package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"teamhub/internal/models"
	"teamhub/internal/services"
)

type TaskHandler struct {
	service services.TaskService
}

func NewTaskHandler(service services.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// POST /tasks
func (h *TaskHandler) Create(c *gin.Context) {
	caller := getCaller(c)
	var req struct {
		BoardID     int64               `json:"board_id" binding:"required"`
		SprintID    *int64              `json:"sprint_id"`
		Title       string              `json:"title" binding:"required"`
		Content     string              `json:"content"`
		Priority    models.TaskPriority `json:"priority"` // low|normal|high|urgent
		AssigneeIDs []int64             `json:"assignee_ids"`
		DueDate     string              `json:"due_date"` // RFC3339
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[task][create][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := services.CreateTaskInput{
		BoardID:     req.BoardID,
		SprintID:    req.SprintID,
		Title:       req.Title,
		Content:     req.Content,
		Priority:    req.Priority,
		AssigneeIDs: req.AssigneeIDs,
	}
	if req.DueDate != "" {
		t, err := time.Parse(time.RFC3339, req.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due_date (RFC3339)"})
			return
		}
		in.DueDate = &t
	}

	task, err := h.service.Create(c.Request.Context(), caller, in)
	if err != nil {
		respondError(c, "[task][create]", err)
		return
	}
	log.Printf("[task][create][ok] id=%d board=%d section=%d pos=%d by=%d",
		task.ID, req.BoardID, task.SectionID, task.Position, caller.ID)
	c.JSON(http.StatusCreated, task)
}

// GET /tasks/:id
func (h *TaskHandler) GetByID(c *gin.Context) {
	caller := getCaller(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	task, err := h.service.GetByID(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, "[task][getByID]", err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// GET /sections/:id/tasks — ordered by position.
func (h *TaskHandler) ListBySection(c *gin.Context) {
	caller := getCaller(c)
	sectionID, ok := paramID(c, "id")
	if !ok {
		return
	}
	tasks, err := h.service.ListBySection(c.Request.Context(), caller, sectionID)
	if err != nil {
		respondError(c, "[task][listBySection]", err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// PUT /tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	caller := getCaller(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Title       *string              `json:"title"`
		Content     *string              `json:"content"`
		Priority    *models.TaskPriority `json:"priority"`
		SectionID   *int64               `json:"section_id"`
		AssigneeIDs *[]int64             `json:"assignee_ids"`
		DueDate     *string              `json:"due_date"` // RFC3339, "" clears
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[task][update][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := services.UpdateTaskInput{
		Title:       req.Title,
		Content:     req.Content,
		Priority:    req.Priority,
		SectionID:   req.SectionID,
		AssigneeIDs: req.AssigneeIDs,
	}
	if req.DueDate != nil && *req.DueDate != "" {
		t, err := time.Parse(time.RFC3339, *req.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due_date (RFC3339)"})
			return
		}
		in.DueDate = &t
	}

	task, err := h.service.Update(c.Request.Context(), caller, id, in)
	if err != nil {
		respondError(c, "[task][update]", err)
		return
	}
	log.Printf("[task][update][ok] id=%d by=%d", id, caller.ID)
	c.JSON(http.StatusOK, task)
}

// POST /tasks/:id/complete — idempotent, repeating the call re-stamps
// completed_at.
func (h *TaskHandler) Complete(c *gin.Context) {
	caller := getCaller(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	task, err := h.service.Complete(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, "[task][complete]", err)
		return
	}
	log.Printf("[task][complete][ok] id=%d by=%d", id, caller.ID)
	c.JSON(http.StatusOK, task)
}

// DELETE /tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	caller := getCaller(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), caller, id); err != nil {
		respondError(c, "[task][delete]", err)
		return
	}
	log.Printf("[task][delete][ok] id=%d by=%d", id, caller.ID)
	c.Status(http.StatusNoContent)
}

// POST /tasks/:id/checklist
func (h *TaskHandler) AddChecklistItem(c *gin.Context) {
	caller := getCaller(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item, err := h.service.AddChecklistItem(c.Request.Context(), caller, id, req.Text)
	if err != nil {
		respondError(c, "[task][checklist][add]", err)
		return
	}
	log.Printf("[task][checklist][add][ok] task=%d item=%s by=%d", id, item.ID, caller.ID)
	c.JSON(http.StatusCreated, item)
}

// PUT /tasks/:id/checklist/:itemID
func (h *TaskHandler) ToggleChecklistItem(c *gin.Context) {
	caller := getCaller(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	itemID := c.Param("itemID")
	if itemID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid itemID"})
		return
	}
	var req struct {
		Checked bool `json:"checked"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	items, err := h.service.ToggleChecklistItem(c.Request.Context(), caller, id, itemID, req.Checked)
	if err != nil {
		respondError(c, "[task][checklist][toggle]", err)
		return
	}
	log.Printf("[task][checklist][toggle][ok] task=%d item=%s checked=%v by=%d",
		id, itemID, req.Checked, caller.ID)
	c.JSON(http.StatusOK, items)
}

// POST /tasks/:id/comments
func (h *TaskHandler) AddComment(c *gin.Context) {
	caller := getCaller(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Body string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	comment, err := h.service.AddComment(c.Request.Context(), caller, id, req.Body)
	if err != nil {
		respondError(c, "[task][comment][add]", err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// GET /tasks/:id/comments
func (h *TaskHandler) ListComments(c *gin.Context) {
	caller := getCaller(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	comments, err := h.service.ListComments(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, "[task][comment][list]", err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// POST /tasks/:id/subtasks
func (h *TaskHandler) AddSubtask(c *gin.Context) {
	caller := getCaller(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Title string `json:"title" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	subtask, err := h.service.AddSubtask(c.Request.Context(), caller, id, req.Title)
	if err != nil {
		respondError(c, "[task][subtask][add]", err)
		return
	}
	c.JSON(http.StatusCreated, subtask)
}

// GET /tasks/:id/subtasks
func (h *TaskHandler) ListSubtasks(c *gin.Context) {
	caller := getCaller(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	subtasks, err := h.service.ListSubtasks(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, "[task][subtask][list]", err)
		return
	}
	c.JSON(http.StatusOK, subtasks)
}

// POST /tasks/:id/documents
func (h *TaskHandler) AttachDocument(c *gin.Context) {
	caller := getCaller(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		DocumentID int64 `json:"document_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.AttachDocument(c.Request.Context(), caller, id, req.DocumentID); err != nil {
		respondError(c, "[task][document][attach]", err)
		return
	}
	log.Printf("[task][document][attach][ok] task=%d doc=%d by=%d", id, req.DocumentID, caller.ID)
	c.Status(http.StatusNoContent)
}

// GET /tasks/:id/documents
func (h *TaskHandler) ListAttachedDocuments(c *gin.Context) {
	caller := getCaller(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	docs, err := h.service.ListAttachedDocuments(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, "[task][document][list]", err)
		return
	}
	c.JSON(http.StatusOK, docs)
}
