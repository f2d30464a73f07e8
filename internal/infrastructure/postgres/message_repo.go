package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ErlanBelekov/mystery-threads/internal/domain"
	"github.com/jackc/pgx/v5"
)

type MessageRepository struct {
	db DB
}

func NewMessageRepository(db DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) CreateForUsername(ctx context.Context, username, content string) (*domain.Message, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO messages (user_id, content)
		SELECT id, $2 FROM users
		WHERE  username = $1 AND is_accepting_messages
		RETURNING id, user_id, content, created_at`,
		username, content,
	)

	var m domain.Message
	err := row.Scan(&m.ID, &m.UserID, &m.Content, &m.CreatedAt)
	if err == nil {
		return &m, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("create message: %w", err)
	}

	// Nothing inserted: either the user is missing or the gate is closed.
	var accepting bool
	err = r.db.QueryRow(ctx,
		`SELECT is_accepting_messages FROM users WHERE username = $1`, username,
	).Scan(&accepting)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup recipient: %w", err)
	}
	return nil, domain.ErrNotAccepting
}

func (r *MessageRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Message, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, content, created_at
		FROM messages
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	messages := make([]*domain.Message, 0)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return messages, nil
}

func (r *MessageRepository) Delete(ctx context.Context, id, userID string) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM messages WHERE id = $1 AND user_id = $2`,
		id, userID)
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMessageNotFound
	}
	return nil
}

func scanMessage(row rowScanner) (*domain.Message, error) {
	var m domain.Message
	err := row.Scan(&m.ID, &m.UserID, &m.Content, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMessageNotFound
		}
		return nil, fmt.Errorf("scan message: %w", err)
	}
	return &m, nil
}
