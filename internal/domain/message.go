package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrMessageNotFound = errors.New("message not found or already deleted")
	ErrNotAccepting    = errors.New("user is not accepting messages")
)

type Message struct {
	ID        string
	UserID    string
	Content   string
	CreatedAt time.Time
}

// UpstreamError is returned when the generative-content provider fails.
// Status carries the provider's HTTP status when it sent one.
type UpstreamError struct {
	Status  int
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("upstream error (%d): %s", e.Status, e.Message)
	}
	return "upstream error: " + e.Message
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
