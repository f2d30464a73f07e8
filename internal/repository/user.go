package repository

import (
	"context"

	"github.com/ErlanBelekov/mystery-threads/internal/domain"
)

// UserRepository persists accounts. Lookups return domain.ErrUserNotFound
// when nothing matches; unique violations surface as
// domain.ErrDuplicateUsername or domain.ErrDuplicateEmail.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByIdentifier matches either the email or the username column.
	FindByIdentifier(ctx context.Context, identifier string) (*domain.User, error)
	ExistsVerifiedUsername(ctx context.Context, username string) (bool, error)

	// ReplaceUnverified overwrites the credentials and verification code of an
	// unverified account and drops its messages, all in one transaction.
	ReplaceUnverified(ctx context.Context, u *domain.User) (*domain.User, error)
	MarkVerified(ctx context.Context, id string) error

	GetAcceptingMessages(ctx context.Context, id string) (bool, error)
	SetAcceptingMessages(ctx context.Context, id string, accepting bool) (bool, error)
}
