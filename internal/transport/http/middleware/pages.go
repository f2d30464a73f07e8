package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RedirectIfAuthenticated sends visitors who already hold a valid session to
// target instead of the sign-in and sign-up pages.
func RedirectIfAuthenticated(parser SessionParser, target string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := authenticate(c, parser); ok {
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireSession is the page counterpart of Auth: anonymous visitors are
// redirected to signIn rather than answered with 401.
func RequireSession(parser SessionParser, signIn string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := authenticate(c, parser)
		if !ok {
			c.Redirect(http.StatusFound, signIn)
			c.Abort()
			return
		}
		setIdentity(c, claims)
		c.Next()
	}
}
