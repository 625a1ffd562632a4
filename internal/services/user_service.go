package services

import (
	"context"
	"log"
	"strings"

	"teamhub/internal/apperr"
	"teamhub/internal/models"
	"teamhub/internal/repositories"
)

type UserService interface {
	CreateUserWithPassword(ctx context.Context, user *models.User, plainPassword string) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id int64) error
}

type userService struct {
	repo         repositories.UserRepository
	emailService EmailService
	authService  AuthService
}

func NewUserService(repo repositories.UserRepository, emailService EmailService, authService AuthService) UserService {
	return &userService{
		repo:         repo,
		emailService: emailService,
		authService:  authService,
	}
}

func (s *userService) CreateUserWithPassword(ctx context.Context, user *models.User, plainPassword string) error {
	if strings.TrimSpace(plainPassword) == "" {
		return apperr.InvalidInput("password is required")
	}
	if strings.TrimSpace(user.Email) == "" {
		return apperr.InvalidInput("email is required")
	}
	if user.Role == "" {
		user.Role = models.RoleMember
	}
	if !user.Role.Valid() {
		return apperr.InvalidInput("unknown role")
	}

	existing, err := s.repo.GetByEmail(ctx, user.Email)
	if err != nil {
		return apperr.Unexpected(err)
	}
	if existing != nil {
		return apperr.InvalidInput("email already registered")
	}

	hashedPassword, err := s.authService.HashPassword(plainPassword)
	if err != nil {
		return apperr.Unexpected(err)
	}
	user.PasswordHash = hashedPassword

	if err := s.repo.Create(ctx, user); err != nil {
		return apperr.Unexpected(err)
	}

	if s.emailService != nil {
		// warn but do not fail creation
		if err := s.emailService.SendWelcomeEmail(user.Email, user.Name); err != nil {
			log.Printf("[user][create] warning: failed to send welcome email to %s: %v", user.Email, err)
		}
	}
	return nil
}

func (s *userService) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	if u == nil {
		return nil, apperr.NotFound("user")
	}
	return u, nil
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	return u, nil
}

func (s *userService) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	users, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	return users, nil
}

func (s *userService) UpdateUser(ctx context.Context, user *models.User) error {
	if !user.Role.Valid() {
		return apperr.InvalidInput("unknown role")
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return apperr.Unexpected(err)
	}
	return nil
}

func (s *userService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperr.Unexpected(err)
	}
	return nil
}
