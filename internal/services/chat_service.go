package services

import (
	"context"
	"strings"

	"teamhub/internal/apperr"
	"teamhub/internal/models"
	"teamhub/internal/realtime"
	"teamhub/internal/repositories"
)

const defaultMessagePageSize = 50

// RoomView is the read model for one room: name resolved for direct rooms,
// messages in chronological order.
type RoomView struct {
	Room         models.ChatRoom          `json:"room"`
	DisplayName  string                   `json:"display_name"`
	Participants []models.ChatParticipant `json:"participants"`
	Messages     []models.ChatMessage     `json:"messages"`
}

// ChatService owns room membership checks and the per-participant
// unread/last-seen bookkeeping.
type ChatService struct {
	repo repositories.ChatRepository
	hub  *realtime.Hub
}

func NewChatService(repo repositories.ChatRepository, hub *realtime.Hub) *ChatService {
	return &ChatService{repo: repo, hub: hub}
}

func (s *ChatService) CreateRoom(ctx context.Context, creatorID int64, name string, isGroup bool, participantIDs []int64) (*models.ChatRoom, error) {
	if isGroup && strings.TrimSpace(name) == "" {
		return nil, apperr.InvalidInput("group room name is required")
	}
	ids := participantIDs
	found := false
	for _, id := range ids {
		if id == creatorID {
			found = true
			break
		}
	}
	if !found {
		ids = append(ids, creatorID)
	}
	if len(ids) < 2 {
		return nil, apperr.InvalidInput("a room needs at least two participants")
	}

	room := &models.ChatRoom{Name: name, IsGroup: isGroup}
	if err := s.repo.CreateRoom(ctx, room, ids); err != nil {
		return nil, apperr.Unexpected(err)
	}
	return room, nil
}

func (s *ChatService) ListRooms(ctx context.Context, userID int64) ([]models.ChatRoom, error) {
	rooms, err := s.repo.ListRoomsForUser(ctx, userID)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	return rooms, nil
}

// PostMessage appends the message and performs the read-state side effects
// as a unit: see ChatRepository.PostMessage.
func (s *ChatService) PostMessage(ctx context.Context, senderID, roomID int64, content string) (*models.ChatMessage, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperr.InvalidInput("message content is required")
	}
	ok, err := s.repo.IsParticipant(ctx, roomID, senderID)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	if !ok {
		return nil, apperr.Forbidden("not a participant of this room")
	}

	msg, err := s.repo.PostMessage(ctx, roomID, senderID, content)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}

	if s.hub != nil {
		participants, perr := s.repo.Participants(ctx, roomID)
		if perr == nil {
			for _, p := range participants {
				if p.UserID != senderID {
					s.hub.Publish(p.UserID, realtime.Event{Type: "chat.message", Payload: msg})
				}
			}
		}
	}
	return msg, nil
}

// FetchRoom marks the caller caught up and returns the latest messages
// oldest-first. Storage order is newest-first with a limit; the page is
// reversed before delivery.
func (s *ChatService) FetchRoom(ctx context.Context, callerID, roomID int64, limit int, before int64) (*RoomView, error) {
	ok, err := s.repo.IsParticipant(ctx, roomID, callerID)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	if !ok {
		return nil, apperr.Forbidden("not a participant of this room")
	}

	room, err := s.repo.FindRoom(ctx, roomID)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	if room == nil {
		return nil, apperr.NotFound("room")
	}

	if err := s.repo.MarkRoomRead(ctx, roomID, callerID); err != nil {
		return nil, apperr.Unexpected(err)
	}

	if limit <= 0 || limit > 200 {
		limit = defaultMessagePageSize
	}
	messages, err := s.repo.ListMessagesBefore(ctx, roomID, limit, before)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	reverseMessages(messages)

	participants, err := s.repo.Participants(ctx, roomID)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}

	return &RoomView{
		Room:         *room,
		DisplayName:  displayName(room, participants, callerID),
		Participants: participants,
		Messages:     messages,
	}, nil
}

func reverseMessages(msgs []models.ChatMessage) {
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
}

// displayName derives a direct room's name from the other participant when
// the room carries no explicit name.
func displayName(room *models.ChatRoom, participants []models.ChatParticipant, callerID int64) string {
	if room.IsGroup || room.Name != "" {
		return room.Name
	}
	for _, p := range participants {
		if p.UserID != callerID {
			if p.UserName != "" {
				return p.UserName
			}
			return p.UserEmail
		}
	}
	return room.Name
}
