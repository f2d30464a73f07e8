package usecase

import (
	"context"
	"fmt"

	"github.com/ErlanBelekov/mystery-threads/internal/domain"
	"github.com/ErlanBelekov/mystery-threads/internal/repository"
	"github.com/google/uuid"
)

type MessageUsecase struct {
	messages repository.MessageRepository
	users    repository.UserRepository
}

func NewMessageUsecase(messages repository.MessageRepository, users repository.UserRepository) *MessageUsecase {
	return &MessageUsecase{messages: messages, users: users}
}

// Send posts an anonymous message to username's inbox.
func (u *MessageUsecase) Send(ctx context.Context, username, content string) (*domain.Message, error) {
	msg, err := u.messages.CreateForUsername(ctx, username, content)
	if err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	return msg, nil
}

// ListMine returns the caller's messages, newest first.
func (u *MessageUsecase) ListMine(ctx context.Context, userID string) ([]*domain.Message, error) {
	// the session may outlive the account
	if _, err := u.users.FindByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	messages, err := u.messages.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return messages, nil
}

func (u *MessageUsecase) Delete(ctx context.Context, userID, messageID string) error {
	if _, err := uuid.Parse(messageID); err != nil {
		return domain.ErrMessageNotFound
	}
	if err := u.messages.Delete(ctx, messageID, userID); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}
