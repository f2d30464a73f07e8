package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/mystery-threads/internal/domain"
	"github.com/ErlanBelekov/mystery-threads/internal/usecase"
	"github.com/gin-gonic/gin"
)

type suggestionUsecaser interface {
	Suggest(ctx context.Context) (*usecase.Suggestions, error)
}

type SuggestionHandler struct {
	suggestionUsecase suggestionUsecaser
	logger            *slog.Logger
}

func NewSuggestionHandler(suggestionUsecase suggestionUsecaser, logger *slog.Logger) *SuggestionHandler {
	return &SuggestionHandler{suggestionUsecase: suggestionUsecase, logger: logger.With("component", "suggestion_handler")}
}

// POST /suggest-messages
// Provider errors are passed through with the provider's status when it is
// an HTTP error status, 500 otherwise.
func (h *SuggestionHandler) Suggest(c *gin.Context) {
	res, err := h.suggestionUsecase.Suggest(c.Request.Context())
	if err != nil {
		var upErr *domain.UpstreamError
		if errors.As(err, &upErr) {
			status := upErr.Status
			if status < http.StatusBadRequest || status > 599 {
				status = http.StatusInternalServerError
			}
			h.logger.WarnContext(c.Request.Context(), "suggest messages", "status", upErr.Status, "error", err)
			fail(c, status, upErr.Message)
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "suggest messages", "error", err)
		fail(c, http.StatusInternalServerError, errInternalServer)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "result": res.Raw, "questions": res.Questions})
}
