package usecase

import (
	"context"
	"fmt"

	"github.com/ErlanBelekov/mystery-threads/internal/repository"
)

type PreferenceUsecase struct {
	users repository.UserRepository
}

func NewPreferenceUsecase(users repository.UserRepository) *PreferenceUsecase {
	return &PreferenceUsecase{users: users}
}

func (u *PreferenceUsecase) AcceptingMessages(ctx context.Context, userID string) (bool, error) {
	accepting, err := u.users.GetAcceptingMessages(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("get accepting messages: %w", err)
	}
	return accepting, nil
}

// SetAcceptingMessages overwrites the flag and returns the stored value.
func (u *PreferenceUsecase) SetAcceptingMessages(ctx context.Context, userID string, accepting bool) (bool, error) {
	current, err := u.users.SetAcceptingMessages(ctx, userID, accepting)
	if err != nil {
		return false, fmt.Errorf("set accepting messages: %w", err)
	}
	return current, nil
}
