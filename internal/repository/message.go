package repository

import (
	"context"

	"github.com/ErlanBelekov/mystery-threads/internal/domain"
)

type MessageRepository interface {
	// CreateForUsername appends a message to the named user only if that user
	// accepts messages; the flag check and the insert are one statement.
	// Returns domain.ErrUserNotFound or domain.ErrNotAccepting otherwise.
	CreateForUsername(ctx context.Context, username, content string) (*domain.Message, error)

	// ListByUser returns the owner's messages, newest first.
	ListByUser(ctx context.Context, userID string) ([]*domain.Message, error)

	// Delete removes the message only when it belongs to userID.
	Delete(ctx context.Context, id, userID string) error
}

type StatsRepository interface {
	Totals(ctx context.Context) (domain.Totals, error)
}
