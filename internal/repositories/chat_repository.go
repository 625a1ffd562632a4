package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"teamhub/internal/models"
)

type ChatRepository interface {
	// CreateRoom inserts the room and its participant rows in one
	// transaction.
	CreateRoom(ctx context.Context, room *models.ChatRoom, participantIDs []int64) error
	FindRoom(ctx context.Context, roomID int64) (*models.ChatRoom, error)
	ListRoomsForUser(ctx context.Context, userID int64) ([]models.ChatRoom, error)
	IsParticipant(ctx context.Context, roomID, userID int64) (bool, error)
	Participants(ctx context.Context, roomID int64) ([]models.ChatParticipant, error)

	// PostMessage performs the delivery bookkeeping as a unit: append the
	// message, bump the room's updated_at, increment unread_count for
	// every participant except the sender, stamp the sender's last_seen.
	PostMessage(ctx context.Context, roomID, senderID int64, content string) (*models.ChatMessage, error)

	// MarkRoomRead marks all messages from other senders as read, resets
	// the caller's unread_count to zero and bumps last_seen, atomically.
	MarkRoomRead(ctx context.Context, roomID, callerID int64) error

	// ListMessagesBefore returns up to limit messages newest-first,
	// optionally only those with id < before.
	ListMessagesBefore(ctx context.Context, roomID int64, limit int, before int64) ([]models.ChatMessage, error)
}

type chatRepository struct {
	DB *sql.DB
}

func NewChatRepository(db *sql.DB) ChatRepository {
	return &chatRepository{DB: db}
}

func (r *chatRepository) CreateRoom(ctx context.Context, room *models.ChatRoom, participantIDs []int64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const insRoom = `
		INSERT INTO chat_rooms (name, is_group)
		VALUES ($1,$2)
		RETURNING id, created_at, updated_at`
	if err := tx.QueryRowContext(ctx, insRoom, room.Name, room.IsGroup).
		Scan(&room.ID, &room.CreatedAt, &room.UpdatedAt); err != nil {
		return err
	}

	for _, uid := range participantIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO chat_participants (room_id, user_id, unread_count)
			 VALUES ($1,$2,0) ON CONFLICT DO NOTHING`, room.ID, uid); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *chatRepository) FindRoom(ctx context.Context, roomID int64) (*models.ChatRoom, error) {
	const q = `SELECT id, name, is_group, created_at, updated_at FROM chat_rooms WHERE id = $1`
	room := &models.ChatRoom{}
	err := r.DB.QueryRowContext(ctx, q, roomID).
		Scan(&room.ID, &room.Name, &room.IsGroup, &room.CreatedAt, &room.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return room, nil
}

func (r *chatRepository) ListRoomsForUser(ctx context.Context, userID int64) ([]models.ChatRoom, error) {
	const q = `
		SELECT c.id, c.name, c.is_group, c.created_at, c.updated_at
		FROM chat_rooms c
		JOIN chat_participants cp ON cp.room_id = c.id
		WHERE cp.user_id = $1
		ORDER BY c.updated_at DESC`
	rows, err := r.DB.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []models.ChatRoom
	for rows.Next() {
		var c models.ChatRoom
		if err := rows.Scan(&c.ID, &c.Name, &c.IsGroup, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		rooms = append(rooms, c)
	}
	return rooms, rows.Err()
}

func (r *chatRepository) IsParticipant(ctx context.Context, roomID, userID int64) (bool, error) {
	const q = `SELECT 1 FROM chat_participants WHERE room_id = $1 AND user_id = $2 LIMIT 1`
	var dummy int
	err := r.DB.QueryRowContext(ctx, q, roomID, userID).Scan(&dummy)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *chatRepository) Participants(ctx context.Context, roomID int64) ([]models.ChatParticipant, error) {
	const q = `
		SELECT cp.room_id, cp.user_id, u.name, u.email, cp.unread_count, cp.last_seen
		FROM chat_participants cp
		JOIN users u ON u.id = cp.user_id
		WHERE cp.room_id = $1
		ORDER BY cp.user_id`
	rows, err := r.DB.QueryContext(ctx, q, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []models.ChatParticipant
	for rows.Next() {
		var p models.ChatParticipant
		if err := rows.Scan(&p.RoomID, &p.UserID, &p.UserName, &p.UserEmail, &p.UnreadCount, &p.LastSeen); err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

func (r *chatRepository) PostMessage(ctx context.Context, roomID, senderID int64, content string) (*models.ChatMessage, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	msg := &models.ChatMessage{RoomID: roomID, SenderID: senderID, Content: content}
	const insMsg = `
		INSERT INTO chat_messages (room_id, sender_id, content, is_read)
		VALUES ($1,$2,$3,FALSE)
		RETURNING id, created_at`
	if err := tx.QueryRowContext(ctx, insMsg, roomID, senderID, content).
		Scan(&msg.ID, &msg.CreatedAt); err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE chat_rooms SET updated_at=NOW() WHERE id=$1`, roomID); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE chat_participants SET unread_count = unread_count + 1
		 WHERE room_id=$1 AND user_id <> $2`, roomID, senderID); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE chat_participants SET last_seen=NOW()
		 WHERE room_id=$1 AND user_id=$2`, roomID, senderID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return msg, nil
}

func (r *chatRepository) MarkRoomRead(ctx context.Context, roomID, callerID int64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE chat_messages SET is_read=TRUE
		 WHERE room_id=$1 AND sender_id <> $2 AND NOT is_read`, roomID, callerID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE chat_participants SET unread_count=0, last_seen=NOW()
		 WHERE room_id=$1 AND user_id=$2`, roomID, callerID); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *chatRepository) ListMessagesBefore(ctx context.Context, roomID int64, limit int, before int64) ([]models.ChatMessage, error) {
	q := `
		SELECT id, room_id, sender_id, content, is_read, created_at
		FROM chat_messages
		WHERE room_id = $1`
	args := []interface{}{roomID}
	if before > 0 {
		q += ` AND id < $2`
		args = append(args, before)
	}
	q += ` ORDER BY id DESC LIMIT ` + fmt.Sprintf("$%d", len(args)+1)
	args = append(args, limit)

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.RoomID, &m.SenderID, &m.Content, &m.IsRead, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
