package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/mystery-threads/internal/domain"
	"github.com/ErlanBelekov/mystery-threads/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
)

type preferenceUsecaser interface {
	AcceptingMessages(ctx context.Context, userID string) (bool, error)
	SetAcceptingMessages(ctx context.Context, userID string, accepting bool) (bool, error)
}

type PreferenceHandler struct {
	preferenceUsecase preferenceUsecaser
	logger            *slog.Logger
}

func NewPreferenceHandler(preferenceUsecase preferenceUsecaser, logger *slog.Logger) *PreferenceHandler {
	return &PreferenceHandler{preferenceUsecase: preferenceUsecase, logger: logger.With("component", "preference_handler")}
}

// pointer so that an explicit false passes "required"
type acceptMessagesRequest struct {
	AcceptMessages *bool `json:"acceptMessages" binding:"required"`
}

// GET /accept-messages
func (h *PreferenceHandler) Get(c *gin.Context) {
	accepting, err := h.preferenceUsecase.AcceptingMessages(c.Request.Context(), c.GetString(middleware.UserIDKey))
	if err != nil {
		h.respondError(c, "get accepting messages", err, errInternalServer)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "isAcceptingMessages": accepting})
}

// POST /accept-messages
func (h *PreferenceHandler) Set(c *gin.Context) {
	var req acceptMessagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	accepting, err := h.preferenceUsecase.SetAcceptingMessages(c.Request.Context(), c.GetString(middleware.UserIDKey), *req.AcceptMessages)
	if err != nil {
		h.respondError(c, "set accepting messages", err, errUpdatePreference)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":             true,
		"message":             msgPreferenceSaved,
		"isAcceptingMessages": accepting,
	})
}

func (h *PreferenceHandler) respondError(c *gin.Context, op string, err error, internalMsg string) {
	if errors.Is(err, domain.ErrUserNotFound) {
		fail(c, http.StatusNotFound, errUserNotFound)
		return
	}
	h.logger.ErrorContext(c.Request.Context(), op, "error", err)
	fail(c, http.StatusInternalServerError, internalMsg)
}
