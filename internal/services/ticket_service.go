package services

import (
	"context"
	"fmt"
	"strings"

	"teamhub/internal/apperr"
	"teamhub/internal/authz"
	"teamhub/internal/models"
	"teamhub/internal/repositories"
)

var ticketTransitions = map[models.TicketStatus][]models.TicketStatus{
	models.TicketOpen:     {models.TicketResolved, models.TicketClosed},
	models.TicketResolved: {models.TicketClosed, models.TicketOpen},
	models.TicketClosed:   {},
}

func canTransitionTicket(from, to models.TicketStatus) bool {
	for _, s := range ticketTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type TicketService struct {
	repo repositories.TicketRepository
}

func NewTicketService(repo repositories.TicketRepository) *TicketService {
	return &TicketService{repo: repo}
}

func (s *TicketService) Create(ctx context.Context, caller authz.Caller, t *models.Ticket) (*models.Ticket, error) {
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		return nil, apperr.InvalidInput("ticket title is required")
	}
	if t.Priority == "" {
		t.Priority = models.PriorityNormal
	}
	if !t.Priority.Valid() {
		return nil, apperr.InvalidInput("unknown priority")
	}
	t.Status = models.TicketOpen
	t.CreatedByID = caller.ID
	if err := s.repo.Store(ctx, t); err != nil {
		return nil, apperr.Unexpected(err)
	}
	return t, nil
}

func (s *TicketService) GetByID(ctx context.Context, id int64) (*models.Ticket, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	if t == nil {
		return nil, apperr.NotFound("ticket")
	}
	return t, nil
}

func (s *TicketService) List(ctx context.Context, limit, offset int) ([]models.Ticket, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	tickets, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	return tickets, nil
}

type UpdateTicketInput struct {
	Title        *string              `json:"title"`
	Description  *string              `json:"description"`
	Priority     *models.TaskPriority `json:"priority"`
	Status       *models.TicketStatus `json:"status"`
	AssignedToID *int64               `json:"assigned_to_id"`
}

func (s *TicketService) Update(ctx context.Context, caller authz.Caller, id int64, in UpdateTicketInput) (*models.Ticket, error) {
	t, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && t.CreatedByID != caller.ID &&
		(t.AssignedToID == nil || *t.AssignedToID != caller.ID) {
		return nil, apperr.Forbidden("no access to this ticket")
	}
	if in.Title != nil {
		t.Title = strings.TrimSpace(*in.Title)
		if t.Title == "" {
			return nil, apperr.InvalidInput("ticket title is required")
		}
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Priority != nil {
		if !in.Priority.Valid() {
			return nil, apperr.InvalidInput("unknown priority")
		}
		t.Priority = *in.Priority
	}
	if in.Status != nil && *in.Status != t.Status {
		if !canTransitionTicket(t.Status, *in.Status) {
			return nil, apperr.InvalidState(
				fmt.Sprintf("ticket is %s, cannot move to %s", t.Status, *in.Status))
		}
		t.Status = *in.Status
	}
	if in.AssignedToID != nil {
		t.AssignedToID = in.AssignedToID
	}
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, apperr.Unexpected(err)
	}
	return t, nil
}

func (s *TicketService) Delete(ctx context.Context, caller authz.Caller, id int64) error {
	t, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !caller.IsAdmin() && t.CreatedByID != caller.ID {
		return apperr.Forbidden("only the creator can delete this ticket")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperr.Unexpected(err)
	}
	return nil
}
