package httptransport

import (
	"html/template"
	"log/slog"

	"github.com/ErlanBelekov/mystery-threads/internal/transport/http/handler"
	"github.com/ErlanBelekov/mystery-threads/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

type Handlers struct {
	Auth       *handler.AuthHandler
	Message    *handler.MessageHandler
	Preference *handler.PreferenceHandler
	Suggestion *handler.SuggestionHandler
	Page       *handler.PageHandler
}

type Options struct {
	// HSTS adds Strict-Transport-Security; enable when served over TLS.
	HSTS bool
}

func NewRouter(logger *slog.Logger, h Handlers, sessions middleware.SessionParser, pages *template.Template, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security(opts.HSTS))
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	r.SetHTMLTemplate(pages)

	authMW := middleware.Auth(sessions)

	// Public API
	r.POST("/sign-up", h.Auth.SignUp)
	r.POST("/verify-code", h.Auth.VerifyCode)
	r.POST("/sign-in", h.Auth.SignIn)
	r.POST("/sign-out", h.Auth.SignOut)
	r.GET("/check-username-unique", h.Auth.CheckUsernameUnique)
	r.POST("/send-message", h.Message.Send)
	r.POST("/suggest-messages", h.Suggestion.Suggest)

	// Owner API
	owner := r.Group("", authMW)
	owner.GET("/me", h.Auth.Me)
	owner.GET("/accept-messages", h.Preference.Get)
	owner.POST("/accept-messages", h.Preference.Set)
	owner.GET("/get-messages", h.Message.List)
	owner.DELETE("/delete-message/:id", h.Message.Delete)

	// Pages
	anonymous := r.Group("", middleware.RedirectIfAuthenticated(sessions, "/dashboard"))
	anonymous.GET("/", h.Page.Index)
	anonymous.GET("/sign-in", h.Page.SignIn)
	anonymous.GET("/sign-up", h.Page.SignUp)
	anonymous.GET("/verify/:username", h.Page.Verify)

	r.GET("/dashboard", middleware.RequireSession(sessions, "/sign-in"), h.Page.Dashboard)
	r.GET("/u/:username", h.Page.Profile)

	return r
}
