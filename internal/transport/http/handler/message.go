package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ErlanBelekov/mystery-threads/internal/domain"
	"github.com/ErlanBelekov/mystery-threads/internal/metrics"
	"github.com/ErlanBelekov/mystery-threads/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
)

type messageUsecaser interface {
	Send(ctx context.Context, username, content string) (*domain.Message, error)
	ListMine(ctx context.Context, userID string) ([]*domain.Message, error)
	Delete(ctx context.Context, userID, messageID string) error
}

type MessageHandler struct {
	messageUsecase messageUsecaser
	logger         *slog.Logger
}

func NewMessageHandler(messageUsecase messageUsecaser, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{messageUsecase: messageUsecase, logger: logger.With("component", "message_handler")}
}

type sendMessageRequest struct {
	Username string `json:"username" binding:"required"`
	Content  string `json:"content"  binding:"required,max=300"`
}

type messageItem struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// POST /send-message
func (h *MessageHandler) Send(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	_, err := h.messageUsecase.Send(c.Request.Context(), req.Username, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			metrics.MessagesSentTotal.WithLabelValues("not_found").Inc()
			fail(c, http.StatusNotFound, errUserNotFound)
		case errors.Is(err, domain.ErrNotAccepting):
			metrics.MessagesSentTotal.WithLabelValues("not_accepting").Inc()
			fail(c, http.StatusForbidden, errNotAccepting)
		default:
			metrics.MessagesSentTotal.WithLabelValues("error").Inc()
			h.logger.ErrorContext(c.Request.Context(), "send message", "error", err)
			fail(c, http.StatusInternalServerError, errInternalServer)
		}
		return
	}

	metrics.MessagesSentTotal.WithLabelValues("accepted").Inc()
	c.JSON(http.StatusOK, gin.H{"success": true, "message": msgMessageSent})
}

// GET /get-messages
// Newest first. An empty inbox is a 200 with an empty list.
func (h *MessageHandler) List(c *gin.Context) {
	messages, err := h.messageUsecase.ListMine(c.Request.Context(), c.GetString(middleware.UserIDKey))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			fail(c, http.StatusNotFound, errUserNotFound)
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "list messages", "error", err)
		fail(c, http.StatusInternalServerError, errInternalServer)
		return
	}

	items := make([]messageItem, len(messages))
	for i, m := range messages {
		items[i] = messageItem{ID: m.ID, Content: m.Content, CreatedAt: m.CreatedAt}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "messages": items})
}

// DELETE /delete-message/:id
func (h *MessageHandler) Delete(c *gin.Context) {
	err := h.messageUsecase.Delete(c.Request.Context(), c.GetString(middleware.UserIDKey), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrMessageNotFound) {
			fail(c, http.StatusNotFound, errMessageNotFound)
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "delete message", "error", err)
		fail(c, http.StatusInternalServerError, errInternalServer)
		return
	}

	metrics.MessagesDeletedTotal.Inc()
	c.JSON(http.StatusOK, gin.H{"success": true, "message": msgMessageDeleted})
}
