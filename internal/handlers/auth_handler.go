package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"teamhub/internal/apperr"
	"teamhub/internal/models"
	"teamhub/internal/repositories"
	"teamhub/internal/services"
	"teamhub/internal/utils"
)

const refreshTokenTTL = 30 * 24 * time.Hour

type AuthHandler struct {
	users    services.UserService
	auth     services.AuthService
	userRepo repositories.UserRepository
}

func NewAuthHandler(users services.UserService, auth services.AuthService, userRepo repositories.UserRepository) *AuthHandler {
	return &AuthHandler{users: users, auth: auth, userRepo: userRepo}
}

// POST /register
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[auth][register][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := &models.User{Name: req.Name, Email: req.Email}
	if err := h.users.CreateUserWithPassword(c.Request.Context(), user, req.Password); err != nil {
		respondError(c, "[auth][register]", err)
		return
	}
	log.Printf("[auth][register][ok] id=%d email=%s", user.ID, user.Email)
	c.JSON(http.StatusCreated, user)
}

// POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[auth][login][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, "[auth][login]", err)
		return
	}
	if user == nil || !h.auth.CheckPassword(user.PasswordHash, req.Password) {
		log.Printf("[auth][login][deny] email=%s", req.Email)
		respondError(c, "[auth][login]", apperr.Unauthenticated("invalid credentials"))
		return
	}

	access, err := h.auth.IssueAccessToken(user)
	if err != nil {
		respondError(c, "[auth][login]", apperr.Unexpected(err))
		return
	}
	refresh, err := utils.NewRefreshToken(32)
	if err != nil {
		respondError(c, "[auth][login]", apperr.Unexpected(err))
		return
	}
	if err := h.userRepo.UpdateRefresh(c.Request.Context(), user.ID, refresh, time.Now().Add(refreshTokenTTL)); err != nil {
		respondError(c, "[auth][login]", apperr.Unexpected(err))
		return
	}

	log.Printf("[auth][login][ok] id=%d", user.ID)
	c.JSON(http.StatusOK, gin.H{
		"access_token":  access,
		"refresh_token": refresh,
		"user":          user,
	})
}

// POST /refresh — rotates the refresh token: the old value dies with this
// call whether or not it was still valid for the client.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	next, err := utils.NewRefreshToken(32)
	if err != nil {
		respondError(c, "[auth][refresh]", apperr.Unexpected(err))
		return
	}
	user, err := h.userRepo.RotateRefresh(c.Request.Context(), req.RefreshToken, next, time.Now().Add(refreshTokenTTL))
	if err != nil {
		respondError(c, "[auth][refresh]", apperr.Unexpected(err))
		return
	}
	if user == nil || (user.RefreshExpiresAt != nil && user.RefreshExpiresAt.Before(time.Now())) {
		log.Printf("[auth][refresh][deny] unknown or expired token")
		respondError(c, "[auth][refresh]", apperr.Unauthenticated("invalid refresh token"))
		return
	}

	access, err := h.auth.IssueAccessToken(user)
	if err != nil {
		respondError(c, "[auth][refresh]", apperr.Unexpected(err))
		return
	}
	log.Printf("[auth][refresh][ok] id=%d", user.ID)
	c.JSON(http.StatusOK, gin.H{
		"access_token":  access,
		"refresh_token": next,
	})
}

// POST /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	caller := getCaller(c)
	if err := h.userRepo.UpdateRefresh(c.Request.Context(), caller.ID, "", time.Now()); err != nil {
		respondError(c, "[auth][logout]", apperr.Unexpected(err))
		return
	}
	log.Printf("[auth][logout][ok] id=%d", caller.ID)
	c.Status(http.StatusNoContent)
}
