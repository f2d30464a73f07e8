package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ErlanBelekov/mystery-threads/internal/domain"
	"github.com/ErlanBelekov/mystery-threads/internal/transport/http/middleware"
	"github.com/ErlanBelekov/mystery-threads/internal/usecase"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// asUser stands in for the Auth middleware.
func asUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Set(middleware.UsernameKey, "alice")
		c.Next()
	}
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success             bool            `json:"success"`
	Message             string          `json:"message"`
	Token               string          `json:"token"`
	ProfileURL          string          `json:"profileUrl"`
	IsAcceptingMessages *bool           `json:"isAcceptingMessages"`
	Result              string          `json:"result"`
	Questions           []string        `json:"questions"`
	Messages            json.RawMessage `json:"messages"`
	User                struct {
		ID         string `json:"id"`
		Username   string `json:"username"`
		IsVerified bool   `json:"isVerified"`
	} `json:"user"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return env
}

// ---- fakes ----

type fakeAuthUsecase struct {
	register          func(ctx context.Context, input usecase.RegisterInput) (*usecase.RegisterResult, error)
	verify            func(ctx context.Context, username, code string) error
	authenticate      func(ctx context.Context, identifier, password string) (string, *domain.User, error)
	usernameAvailable func(ctx context.Context, username string) (bool, error)
	currentUser       func(ctx context.Context, userID string) (*domain.User, error)
}

func (f *fakeAuthUsecase) Register(ctx context.Context, input usecase.RegisterInput) (*usecase.RegisterResult, error) {
	return f.register(ctx, input)
}

func (f *fakeAuthUsecase) Verify(ctx context.Context, username, code string) error {
	return f.verify(ctx, username, code)
}

func (f *fakeAuthUsecase) Authenticate(ctx context.Context, identifier, password string) (string, *domain.User, error) {
	return f.authenticate(ctx, identifier, password)
}

func (f *fakeAuthUsecase) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	return f.usernameAvailable(ctx, username)
}

func (f *fakeAuthUsecase) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	return f.currentUser(ctx, userID)
}

type fakeMessageUsecase struct {
	send     func(ctx context.Context, username, content string) (*domain.Message, error)
	listMine func(ctx context.Context, userID string) ([]*domain.Message, error)
	delete   func(ctx context.Context, userID, messageID string) error
}

func (f *fakeMessageUsecase) Send(ctx context.Context, username, content string) (*domain.Message, error) {
	return f.send(ctx, username, content)
}

func (f *fakeMessageUsecase) ListMine(ctx context.Context, userID string) ([]*domain.Message, error) {
	return f.listMine(ctx, userID)
}

func (f *fakeMessageUsecase) Delete(ctx context.Context, userID, messageID string) error {
	return f.delete(ctx, userID, messageID)
}

type fakePreferenceUsecase struct {
	get func(ctx context.Context, userID string) (bool, error)
	set func(ctx context.Context, userID string, accepting bool) (bool, error)
}

func (f *fakePreferenceUsecase) AcceptingMessages(ctx context.Context, userID string) (bool, error) {
	return f.get(ctx, userID)
}

func (f *fakePreferenceUsecase) SetAcceptingMessages(ctx context.Context, userID string, accepting bool) (bool, error) {
	return f.set(ctx, userID, accepting)
}

type fakeSuggestionUsecase struct {
	suggest func(ctx context.Context) (*usecase.Suggestions, error)
}

func (f *fakeSuggestionUsecase) Suggest(ctx context.Context) (*usecase.Suggestions, error) {
	return f.suggest(ctx)
}
