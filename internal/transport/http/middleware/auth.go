package middleware

import (
	"net/http"
	"strings"

	"github.com/ErlanBelekov/mystery-threads/internal/reqctx"
	"github.com/ErlanBelekov/mystery-threads/internal/session"
	"github.com/gin-gonic/gin"
)

const errNotAuthenticated = "Not Authenticated"

// Context keys set for authenticated requests.
const (
	UserIDKey   = "userID"
	UsernameKey = "username"
)

// SessionParser is satisfied by *session.Issuer.
type SessionParser interface {
	Parse(raw string) (*session.Claims, error)
}

// Auth accepts a Bearer token or the session cookie and sets UserIDKey and
// UsernameKey in the gin context.
func Auth(parser SessionParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := authenticate(c, parser)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": errNotAuthenticated})
			return
		}
		setIdentity(c, claims)
		c.Next()
	}
}

func authenticate(c *gin.Context, parser SessionParser) (*session.Claims, bool) {
	raw := bearerToken(c)
	if raw == "" {
		raw, _ = c.Cookie(session.CookieName)
	}
	if raw == "" {
		return nil, false
	}
	claims, err := parser.Parse(raw)
	if err != nil {
		return nil, false
	}
	return claims, true
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

func setIdentity(c *gin.Context, claims *session.Claims) {
	c.Set(UserIDKey, claims.UserID())
	c.Set(UsernameKey, claims.Username)
	c.Request = c.Request.WithContext(reqctx.WithUserID(c.Request.Context(), claims.UserID()))
}
