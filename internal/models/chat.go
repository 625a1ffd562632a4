package models

import "time"

type ChatRoom struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	IsGroup   bool      `json:"is_group"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChatParticipant carries the per-user read state of a room.
type ChatParticipant struct {
	RoomID      int64      `json:"room_id"`
	UserID      int64      `json:"user_id"`
	UserName    string     `json:"user_name,omitempty"`
	UserEmail   string     `json:"user_email,omitempty"`
	UnreadCount int        `json:"unread_count"`
	LastSeen    *time.Time `json:"last_seen,omitempty"`
}

type ChatMessage struct {
	ID        int64     `json:"id"`
	RoomID    int64     `json:"room_id"`
	SenderID  int64     `json:"sender_id"`
	Content   string    `json:"content"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
