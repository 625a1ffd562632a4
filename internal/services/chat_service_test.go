package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamhub/internal/apperr"
	"teamhub/internal/models"
)

func TestCreateRoomAddsCreator(t *testing.T) {
	var gotIDs []int64
	repo := &fakeChatRepo{
		createRoomFn: func(_ context.Context, room *models.ChatRoom, ids []int64) error {
			room.ID = 1
			gotIDs = ids
			return nil
		},
	}
	svc := NewChatService(repo, nil)

	room, err := svc.CreateRoom(context.Background(), 10, "", false, []int64{20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), room.ID)
	assert.ElementsMatch(t, []int64{10, 20}, gotIDs, "creator is always a participant")

	// creator already listed: no duplicate
	_, err = svc.CreateRoom(context.Background(), 10, "", false, []int64{10, 20})
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{10, 20}, gotIDs)
}

func TestCreateRoomValidation(t *testing.T) {
	svc := NewChatService(&fakeChatRepo{}, nil)

	_, err := svc.CreateRoom(context.Background(), 10, "", false, nil)
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, "invalid_input", e.Code)

	_, err = svc.CreateRoom(context.Background(), 10, "  ", true, []int64{20, 30})
	e, ok = apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, "invalid_input", e.Code, "group rooms need a name")
}

func TestPostMessageRequiresParticipant(t *testing.T) {
	svc := NewChatService(&fakeChatRepo{}, nil) // IsParticipant defaults to false

	_, err := svc.PostMessage(context.Background(), 10, 1, "hi")
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, e.Status)
}

func TestPostMessageEmptyContent(t *testing.T) {
	repo := &fakeChatRepo{
		isParticipantFn: func(context.Context, int64, int64) (bool, error) { return true, nil },
	}
	svc := NewChatService(repo, nil)

	_, err := svc.PostMessage(context.Background(), 10, 1, "   ")
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, "invalid_input", e.Code)
}

func TestFetchRoomMarksReadAndReversesPage(t *testing.T) {
	marked := false
	var gotLimit int
	repo := &fakeChatRepo{
		isParticipantFn: func(context.Context, int64, int64) (bool, error) { return true, nil },
		findRoomFn: func(_ context.Context, roomID int64) (*models.ChatRoom, error) {
			return &models.ChatRoom{ID: roomID, Name: "general", IsGroup: true}, nil
		},
		markRoomReadFn: func(_ context.Context, roomID, callerID int64) error {
			marked = true
			return nil
		},
		listMessagesBeforeFn: func(_ context.Context, _ int64, limit int, _ int64) ([]models.ChatMessage, error) {
			gotLimit = limit
			// storage hands back newest first
			return []models.ChatMessage{{ID: 3}, {ID: 2}, {ID: 1}}, nil
		},
	}
	svc := NewChatService(repo, nil)

	view, err := svc.FetchRoom(context.Background(), 10, 1, 0, 0)
	require.NoError(t, err)
	assert.True(t, marked, "fetching a room marks it read")
	assert.Equal(t, defaultMessagePageSize, gotLimit)
	require.Len(t, view.Messages, 3)
	assert.Equal(t, int64(1), view.Messages[0].ID, "delivered oldest first")
	assert.Equal(t, int64(3), view.Messages[2].ID)
	assert.Equal(t, "general", view.DisplayName)
}

func TestFetchRoomLimitClamp(t *testing.T) {
	var gotLimit int
	repo := &fakeChatRepo{
		isParticipantFn: func(context.Context, int64, int64) (bool, error) { return true, nil },
		findRoomFn: func(_ context.Context, roomID int64) (*models.ChatRoom, error) {
			return &models.ChatRoom{ID: roomID}, nil
		},
		listMessagesBeforeFn: func(_ context.Context, _ int64, limit int, _ int64) ([]models.ChatMessage, error) {
			gotLimit = limit
			return nil, nil
		},
	}
	svc := NewChatService(repo, nil)

	_, err := svc.FetchRoom(context.Background(), 10, 1, 10000, 0)
	require.NoError(t, err)
	assert.Equal(t, defaultMessagePageSize, gotLimit)

	_, err = svc.FetchRoom(context.Background(), 10, 1, 25, 0)
	require.NoError(t, err)
	assert.Equal(t, 25, gotLimit)
}

func TestFetchRoomNonParticipant(t *testing.T) {
	svc := NewChatService(&fakeChatRepo{}, nil)

	_, err := svc.FetchRoom(context.Background(), 99, 1, 0, 0)
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, e.Status)
}

// memChatStore keeps rooms, messages and per-participant read state in
// memory with the same bookkeeping the SQL store performs, so unread and
// last-seen deltas can be asserted through the service.
type memChatStore struct {
	room         models.ChatRoom
	participants map[int64]*models.ChatParticipant
	messages     []models.ChatMessage
	nextID       int64
}

func newMemChatStore(userIDs ...int64) *memChatStore {
	s := &memChatStore{
		room:         models.ChatRoom{ID: 1, Name: "general", IsGroup: true},
		participants: make(map[int64]*models.ChatParticipant),
		nextID:       1,
	}
	for _, id := range userIDs {
		s.participants[id] = &models.ChatParticipant{RoomID: 1, UserID: id}
	}
	return s
}

func (s *memChatStore) CreateRoom(_ context.Context, room *models.ChatRoom, _ []int64) error {
	room.ID = s.room.ID
	return nil
}
func (s *memChatStore) FindRoom(context.Context, int64) (*models.ChatRoom, error) {
	r := s.room
	return &r, nil
}
func (s *memChatStore) ListRoomsForUser(context.Context, int64) ([]models.ChatRoom, error) {
	return []models.ChatRoom{s.room}, nil
}
func (s *memChatStore) IsParticipant(_ context.Context, _ int64, userID int64) (bool, error) {
	_, ok := s.participants[userID]
	return ok, nil
}
func (s *memChatStore) Participants(context.Context, int64) ([]models.ChatParticipant, error) {
	var out []models.ChatParticipant
	for _, p := range s.participants {
		out = append(out, *p)
	}
	return out, nil
}
func (s *memChatStore) PostMessage(_ context.Context, roomID, senderID int64, content string) (*models.ChatMessage, error) {
	msg := models.ChatMessage{ID: s.nextID, RoomID: roomID, SenderID: senderID, Content: content, CreatedAt: time.Now()}
	s.nextID++
	s.messages = append(s.messages, msg)
	now := msg.CreatedAt
	for id, p := range s.participants {
		if id == senderID {
			p.LastSeen = &now
		} else {
			p.UnreadCount++
		}
	}
	return &msg, nil
}
func (s *memChatStore) MarkRoomRead(_ context.Context, _ int64, callerID int64) error {
	if p, ok := s.participants[callerID]; ok {
		p.UnreadCount = 0
		now := time.Now()
		p.LastSeen = &now
	}
	return nil
}
func (s *memChatStore) ListMessagesBefore(_ context.Context, _ int64, limit int, _ int64) ([]models.ChatMessage, error) {
	var out []models.ChatMessage
	for i := len(s.messages) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.messages[i])
	}
	return out, nil
}

func TestPostMessageUnreadBookkeeping(t *testing.T) {
	store := newMemChatStore(10, 20, 30)
	svc := NewChatService(store, nil)

	_, err := svc.PostMessage(context.Background(), 10, 1, "first")
	require.NoError(t, err)
	_, err = svc.PostMessage(context.Background(), 10, 1, "second")
	require.NoError(t, err)

	assert.Equal(t, 0, store.participants[10].UnreadCount, "the sender's counter never moves")
	assert.Equal(t, 2, store.participants[20].UnreadCount, "one increment per message")
	assert.Equal(t, 2, store.participants[30].UnreadCount)
	require.NotNil(t, store.participants[10].LastSeen, "posting stamps the sender as caught up")
	assert.Nil(t, store.participants[20].LastSeen)

	// fetching resets the caller only
	_, err = svc.FetchRoom(context.Background(), 20, 1, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, store.participants[20].UnreadCount)
	assert.NotNil(t, store.participants[20].LastSeen)
	assert.Equal(t, 2, store.participants[30].UnreadCount, "other participants stay unread")
}

func TestDirectRoomDisplayName(t *testing.T) {
	room := &models.ChatRoom{ID: 1}
	participants := []models.ChatParticipant{
		{UserID: 10, UserName: "Alice", UserEmail: "alice@example.com"},
		{UserID: 20, UserName: "Bob", UserEmail: "bob@example.com"},
	}

	assert.Equal(t, "Bob", displayName(room, participants, 10))
	assert.Equal(t, "Alice", displayName(room, participants, 20))

	// no name on file: fall back to email
	participants[1].UserName = ""
	assert.Equal(t, "bob@example.com", displayName(room, participants, 10))

	// group rooms keep their own name
	group := &models.ChatRoom{ID: 2, Name: "team", IsGroup: true}
	assert.Equal(t, "team", displayName(group, participants, 10))
}
