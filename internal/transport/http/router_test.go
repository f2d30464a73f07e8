package httptransport_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ErlanBelekov/mystery-threads/internal/domain"
	"github.com/ErlanBelekov/mystery-threads/internal/session"
	httptransport "github.com/ErlanBelekov/mystery-threads/internal/transport/http"
	"github.com/ErlanBelekov/mystery-threads/internal/transport/http/handler"
	"github.com/ErlanBelekov/mystery-threads/internal/web"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testKey = "router-test-secret-at-least-32-chars"

// newRouter wires real middleware and pages; usecases are nil because the
// requests below never get past the session checks into them.
func newRouter(t *testing.T) (*gin.Engine, *session.Issuer) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	pages, err := web.Templates()
	if err != nil {
		t.Fatal(err)
	}
	issuer := session.NewIssuer([]byte(testKey), time.Hour)
	h := httptransport.Handlers{
		Auth:       handler.NewAuthHandler(nil, handler.CookieOptions{TTL: time.Hour}, "http://localhost:8080", logger),
		Message:    handler.NewMessageHandler(nil, logger),
		Preference: handler.NewPreferenceHandler(nil, logger),
		Suggestion: handler.NewSuggestionHandler(nil, logger),
		Page:       handler.NewPageHandler("http://localhost:8080"),
	}
	return httptransport.NewRouter(logger, h, issuer, pages, httptransport.Options{HSTS: true}), issuer
}

func TestRouter_OwnerRoutesRequireSession(t *testing.T) {
	r, _ := newRouter(t)

	for _, rt := range []struct{ method, path string }{
		{http.MethodGet, "/me"},
		{http.MethodGet, "/accept-messages"},
		{http.MethodPost, "/accept-messages"},
		{http.MethodGet, "/get-messages"},
		{http.MethodDelete, "/delete-message/abc"},
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(rt.method, rt.path, nil))
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: status = %d, want 401", rt.method, rt.path, w.Code)
		}
	}
}

func TestRouter_Pages(t *testing.T) {
	r, issuer := newRouter(t)
	token, err := issuer.Issue(&domain.User{ID: "u1", Username: "alice", IsVerified: true})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name         string
		path         string
		signedIn     bool
		wantStatus   int
		wantLocation string
	}{
		{"landing anonymous", "/", false, http.StatusOK, ""},
		{"landing signed in", "/", true, http.StatusFound, "/dashboard"},
		{"sign-up signed in", "/sign-up", true, http.StatusFound, "/dashboard"},
		{"verify anonymous", "/verify/alice", false, http.StatusOK, ""},
		{"dashboard anonymous", "/dashboard", false, http.StatusFound, "/sign-in"},
		{"dashboard signed in", "/dashboard", true, http.StatusOK, ""},
		{"public profile", "/u/alice", false, http.StatusOK, ""},
		{"public profile signed in", "/u/alice", true, http.StatusOK, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.signedIn {
				req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tc.wantStatus)
			}
			if loc := w.Header().Get("Location"); loc != tc.wantLocation {
				t.Errorf("Location = %q, want %q", loc, tc.wantLocation)
			}
		})
	}
}

func TestRouter_SecurityAndRequestIDHeaders(t *testing.T) {
	r, _ := newRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/u/alice", nil))

	if w.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing security headers")
	}
	if w.Header().Get("Strict-Transport-Security") == "" {
		t.Error("missing HSTS header")
	}
}
