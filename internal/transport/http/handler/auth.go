package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ErlanBelekov/mystery-threads/internal/domain"
	"github.com/ErlanBelekov/mystery-threads/internal/metrics"
	"github.com/ErlanBelekov/mystery-threads/internal/session"
	"github.com/ErlanBelekov/mystery-threads/internal/transport/http/middleware"
	"github.com/ErlanBelekov/mystery-threads/internal/usecase"
	"github.com/gin-gonic/gin"
)

// authUsecaser is the subset of AuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authUsecaser interface {
	Register(ctx context.Context, input usecase.RegisterInput) (*usecase.RegisterResult, error)
	Verify(ctx context.Context, username, code string) error
	Authenticate(ctx context.Context, identifier, password string) (string, *domain.User, error)
	UsernameAvailable(ctx context.Context, username string) (bool, error)
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)
}

// CookieOptions controls the session cookie set on sign-in.
type CookieOptions struct {
	TTL    time.Duration
	Secure bool
}

type AuthHandler struct {
	authUsecase   authUsecaser
	cookie        CookieOptions
	publicBaseURL string
	logger        *slog.Logger
}

func NewAuthHandler(authUsecase authUsecaser, cookie CookieOptions, publicBaseURL string, logger *slog.Logger) *AuthHandler {
	registerValidators()
	return &AuthHandler{
		authUsecase:   authUsecase,
		cookie:        cookie,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:        logger.With("component", "auth_handler"),
	}
}

type signUpRequest struct {
	Username string `json:"username" binding:"required,username"`
	Email    string `json:"email"    binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

type verifyCodeRequest struct {
	Username string `json:"username" binding:"required"`
	Code     string `json:"code"     binding:"required,len=6,numeric"`
}

type signInRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password"   binding:"required"`
}

type userResponse struct {
	ID                  string `json:"id"`
	Username            string `json:"username"`
	Email               string `json:"email"`
	IsVerified          bool   `json:"isVerified"`
	IsAcceptingMessages bool   `json:"isAcceptingMessages"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:                  u.ID,
		Username:            u.Username,
		Email:               u.Email,
		IsVerified:          u.IsVerified,
		IsAcceptingMessages: u.IsAcceptingMessages,
	}
}

// POST /sign-up
// 201 for a new account, 200 when an unverified account was re-registered.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.authUsecase.Register(c.Request.Context(), usecase.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateUsername):
			metrics.SignupsTotal.WithLabelValues("duplicate").Inc()
			fail(c, http.StatusBadRequest, errUsernameTaken)
		case errors.Is(err, domain.ErrDuplicateEmail):
			metrics.SignupsTotal.WithLabelValues("duplicate").Inc()
			fail(c, http.StatusBadRequest, errEmailTaken)
		default:
			metrics.SignupsTotal.WithLabelValues("error").Inc()
			h.logger.ErrorContext(c.Request.Context(), "register user", "error", err)
			fail(c, http.StatusInternalServerError, errRegisterUser)
		}
		return
	}

	status, outcome := http.StatusCreated, "created"
	if !res.Created {
		status, outcome = http.StatusOK, "resignup"
	}
	metrics.SignupsTotal.WithLabelValues(outcome).Inc()
	c.JSON(status, gin.H{"success": true, "message": msgRegistered})
}

// POST /verify-code
func (h *AuthHandler) VerifyCode(c *gin.Context) {
	var req verifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	err := h.authUsecase.Verify(c.Request.Context(), req.Username, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			metrics.VerificationsTotal.WithLabelValues("not_found").Inc()
			fail(c, http.StatusBadRequest, errUserNotFound)
		case errors.Is(err, domain.ErrCodeExpired):
			metrics.VerificationsTotal.WithLabelValues("expired").Inc()
			fail(c, http.StatusBadRequest, errCodeExpired)
		case errors.Is(err, domain.ErrCodeMismatch):
			metrics.VerificationsTotal.WithLabelValues("mismatch").Inc()
			fail(c, http.StatusBadRequest, errCodeMismatch)
		default:
			metrics.VerificationsTotal.WithLabelValues("error").Inc()
			h.logger.ErrorContext(c.Request.Context(), "verify code", "error", err)
			fail(c, http.StatusInternalServerError, errVerifyUser)
		}
		return
	}

	metrics.VerificationsTotal.WithLabelValues("verified").Inc()
	c.JSON(http.StatusOK, gin.H{"success": true, "message": msgVerified})
}

// POST /sign-in
// Returns the token in the body and sets it as an HttpOnly cookie.
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	token, user, err := h.authUsecase.Authenticate(c.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			metrics.SignInsTotal.WithLabelValues("not_found").Inc()
			fail(c, http.StatusUnauthorized, errNoSuchAccount)
		case errors.Is(err, domain.ErrNotVerified):
			metrics.SignInsTotal.WithLabelValues("not_verified").Inc()
			fail(c, http.StatusForbidden, errNotVerified)
		case errors.Is(err, domain.ErrInvalidPassword):
			metrics.SignInsTotal.WithLabelValues("invalid_password").Inc()
			fail(c, http.StatusUnauthorized, errInvalidPassword)
		default:
			metrics.SignInsTotal.WithLabelValues("error").Inc()
			h.logger.ErrorContext(c.Request.Context(), "authenticate", "error", err)
			fail(c, http.StatusInternalServerError, errInternalServer)
		}
		return
	}

	metrics.SignInsTotal.WithLabelValues("ok").Inc()
	h.setSessionCookie(c, token, int(h.cookie.TTL.Seconds()))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": msgSignedIn,
		"token":   token,
		"user":    toUserResponse(user),
	})
}

// POST /sign-out
// Tokens are stateless; this only clears the cookie.
func (h *AuthHandler) SignOut(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": msgSignedOut})
}

// GET /check-username-unique?username=
func (h *AuthHandler) CheckUsernameUnique(c *gin.Context) {
	available, err := h.authUsecase.UsernameAvailable(c.Request.Context(), c.Query("username"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidUsername) {
			fail(c, http.StatusBadRequest, errInvalidUsername)
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "check username", "error", err)
		fail(c, http.StatusInternalServerError, errInternalServer)
		return
	}

	if !available {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": errUsernameTaken})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": msgUsernameUnique})
}

// GET /me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authUsecase.CurrentUser(c.Request.Context(), c.GetString(middleware.UserIDKey))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			fail(c, http.StatusNotFound, errUserNotFound)
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "current user", "error", err)
		fail(c, http.StatusInternalServerError, errInternalServer)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"user":       toUserResponse(user),
		"profileUrl": ProfileURL(h.publicBaseURL, user.Username),
	})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, value, maxAge, "/", "", h.cookie.Secure, true)
}

// ProfileURL is the public link strangers use to reach username's inbox.
func ProfileURL(baseURL, username string) string {
	return strings.TrimRight(baseURL, "/") + "/u/" + username
}
