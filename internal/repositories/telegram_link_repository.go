package repositories

import (
	"context"
	"database/sql"
	"time"
)

// TelegramLink is a short-lived one-time code a user requests to bind
// their Telegram chat to their account.
type TelegramLink struct {
	ID        int64
	UserID    int64
	Code      string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}

type TelegramLinkRepository interface {
	Create(ctx context.Context, userID int64, code string, ttl time.Duration) (*TelegramLink, error)
	UseByCode(ctx context.Context, code string) (*TelegramLink, error)

	BindChat(ctx context.Context, userID, chatID int64) error
	ChatIDForUser(ctx context.Context, userID int64) (int64, error)
}

type telegramLinkRepository struct{ db *sql.DB }

func NewTelegramLinkRepository(db *sql.DB) TelegramLinkRepository {
	return &telegramLinkRepository{db: db}
}

func (r *telegramLinkRepository) Create(ctx context.Context, userID int64, code string, ttl time.Duration) (*TelegramLink, error) {
	expiresAt := time.Now().Add(ttl)

	row := r.db.QueryRowContext(ctx, `
		INSERT INTO telegram_links (user_id, code, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, code, expires_at, used, created_at
	`, userID, code, expiresAt)

	var l TelegramLink
	if err := row.Scan(&l.ID, &l.UserID, &l.Code, &l.ExpiresAt, &l.Used, &l.CreatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *telegramLinkRepository) UseByCode(ctx context.Context, code string) (*TelegramLink, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var l TelegramLink
	err = tx.QueryRowContext(ctx, `
		SELECT id, user_id, code, expires_at, used, created_at
		FROM telegram_links
		WHERE code=$1
		FOR UPDATE
	`, code).Scan(&l.ID, &l.UserID, &l.Code, &l.ExpiresAt, &l.Used, &l.CreatedAt)
	if err != nil {
		return nil, err
	}

	if l.Used || time.Now().After(l.ExpiresAt) {
		return nil, sql.ErrNoRows
	}
	if _, err := tx.ExecContext(ctx, `UPDATE telegram_links SET used=true WHERE id=$1`, l.ID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *telegramLinkRepository) BindChat(ctx context.Context, userID, chatID int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO telegram_accounts (user_id, chat_id)
		VALUES ($1,$2)
		ON CONFLICT (user_id) DO UPDATE SET chat_id = EXCLUDED.chat_id
	`, userID, chatID)
	return err
}

func (r *telegramLinkRepository) ChatIDForUser(ctx context.Context, userID int64) (int64, error) {
	var chatID int64
	err := r.db.QueryRowContext(ctx,
		`SELECT chat_id FROM telegram_accounts WHERE user_id = $1`, userID).Scan(&chatID)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return chatID, err
}
