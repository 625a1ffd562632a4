package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamhub/internal/apperr"
	"teamhub/internal/authz"
	"teamhub/internal/models"
)

type fakeTicketRepo struct {
	storeFn    func(context.Context, *models.Ticket) error
	findByIDFn func(context.Context, int64) (*models.Ticket, error)
	listFn     func(context.Context, int, int) ([]models.Ticket, error)
	updateFn   func(context.Context, *models.Ticket) error
	deleteFn   func(context.Context, int64) error
}

func (f *fakeTicketRepo) Store(ctx context.Context, t *models.Ticket) error {
	if f.storeFn != nil {
		return f.storeFn(ctx, t)
	}
	return nil
}
func (f *fakeTicketRepo) FindByID(ctx context.Context, id int64) (*models.Ticket, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (f *fakeTicketRepo) List(ctx context.Context, limit, offset int) ([]models.Ticket, error) {
	if f.listFn != nil {
		return f.listFn(ctx, limit, offset)
	}
	return nil, nil
}
func (f *fakeTicketRepo) Update(ctx context.Context, t *models.Ticket) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, t)
	}
	return nil
}
func (f *fakeTicketRepo) Delete(ctx context.Context, id int64) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func ticketRepoWith(t models.Ticket) *fakeTicketRepo {
	return &fakeTicketRepo{
		findByIDFn: func(_ context.Context, id int64) (*models.Ticket, error) {
			cp := t
			cp.ID = id
			return &cp, nil
		},
	}
}

func ticketStatus(s models.TicketStatus) *models.TicketStatus { return &s }

func TestTicketCreateForcesOpen(t *testing.T) {
	svc := NewTicketService(&fakeTicketRepo{})

	ticket := &models.Ticket{Title: "Printer on fire", Status: models.TicketClosed}
	got, err := svc.Create(context.Background(), authz.Caller{ID: 7, Role: models.RoleMember}, ticket)
	require.NoError(t, err)
	assert.Equal(t, models.TicketOpen, got.Status, "client-supplied status must be ignored")
	assert.Equal(t, int64(7), got.CreatedByID)
	assert.Equal(t, models.PriorityNormal, got.Priority)
}

func TestTicketTransitions(t *testing.T) {
	tests := []struct {
		from, to models.TicketStatus
		ok       bool
	}{
		{models.TicketOpen, models.TicketResolved, true},
		{models.TicketOpen, models.TicketClosed, true},
		{models.TicketResolved, models.TicketOpen, true}, // reopen
		{models.TicketResolved, models.TicketClosed, true},
		{models.TicketClosed, models.TicketOpen, false}, // closed is terminal
		{models.TicketClosed, models.TicketResolved, false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.ok, canTransitionTicket(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestTicketUpdateRejectsClosedReopen(t *testing.T) {
	repo := ticketRepoWith(models.Ticket{Status: models.TicketClosed, CreatedByID: 7})
	svc := NewTicketService(repo)

	_, err := svc.Update(context.Background(), authz.Caller{ID: 7, Role: models.RoleMember}, 1,
		UpdateTicketInput{Status: ticketStatus(models.TicketOpen)})
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, "invalid_state", e.Code)
}

func TestTicketUpdateAccessGate(t *testing.T) {
	assignee := int64(8)
	repo := ticketRepoWith(models.Ticket{Status: models.TicketOpen, CreatedByID: 7, AssignedToID: &assignee})
	svc := NewTicketService(repo)
	resolve := UpdateTicketInput{Status: ticketStatus(models.TicketResolved)}

	_, err := svc.Update(context.Background(), authz.Caller{ID: 8, Role: models.RoleMember}, 1, resolve)
	assert.NoError(t, err, "assignee may update")

	_, err = svc.Update(context.Background(), authz.Caller{ID: 99, Role: models.RoleMember}, 1, resolve)
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, e.Status)

	_, err = svc.Update(context.Background(), authz.Caller{ID: 1, Role: models.RoleAdmin}, 1, resolve)
	assert.NoError(t, err, "admin may update")
}

func TestTicketDeleteCreatorOnly(t *testing.T) {
	assignee := int64(8)
	repo := ticketRepoWith(models.Ticket{Status: models.TicketOpen, CreatedByID: 7, AssignedToID: &assignee})
	svc := NewTicketService(repo)

	err := svc.Delete(context.Background(), authz.Caller{ID: 8, Role: models.RoleMember}, 1)
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, e.Status, "assignee cannot delete")

	err = svc.Delete(context.Background(), authz.Caller{ID: 7, Role: models.RoleMember}, 1)
	assert.NoError(t, err)
}
