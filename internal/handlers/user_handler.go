package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"teamhub/internal/apperr"
	"teamhub/internal/models"
	"teamhub/internal/services"
)

type UserHandler struct {
	service services.UserService
}

func NewUserHandler(service services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// GET /users/me
func (h *UserHandler) Me(c *gin.Context) {
	caller := getCaller(c)
	user, err := h.service.GetUserByID(c.Request.Context(), caller.ID)
	if err != nil {
		respondError(c, "[user][me]", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// GET /users/:id
func (h *UserHandler) GetByID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	user, err := h.service.GetUserByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, "[user][getByID]", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// GET /users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context(),
		queryInt(c, "limit", 50), queryInt(c, "offset", 0))
	if err != nil {
		respondError(c, "[user][list]", err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// PUT /users/:id — self-service profile edit, role changes are admin-only.
func (h *UserHandler) Update(c *gin.Context) {
	caller := getCaller(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if !caller.IsAdmin() && caller.ID != id {
		respondError(c, "[user][update]", apperr.Forbidden(""))
		return
	}

	var req struct {
		Name  *string      `json:"name"`
		Email *string      `json:"email"`
		Role  *models.Role `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.GetUserByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, "[user][update]", err)
		return
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Role != nil {
		if !caller.IsAdmin() {
			respondError(c, "[user][update]", apperr.Forbidden("only admins can change roles"))
			return
		}
		if !req.Role.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown role"})
			return
		}
		user.Role = *req.Role
	}

	if err := h.service.UpdateUser(c.Request.Context(), user); err != nil {
		respondError(c, "[user][update]", err)
		return
	}
	log.Printf("[user][update][ok] id=%d by=%d", id, caller.ID)
	c.JSON(http.StatusOK, user)
}

// DELETE /users/:id — admin only, enforced in routes.
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteUser(c.Request.Context(), id); err != nil {
		respondError(c, "[user][delete]", err)
		return
	}
	log.Printf("[user][delete][ok] id=%d", id)
	c.Status(http.StatusNoContent)
}
