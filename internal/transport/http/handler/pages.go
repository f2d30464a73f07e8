package handler

import (
	"net/http"
	"net/url"

	"github.com/ErlanBelekov/mystery-threads/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
)

// PageHandler renders the server-side pages. All data is loaded by the
// pages themselves through the JSON endpoints.
type PageHandler struct {
	publicBaseURL string
}

func NewPageHandler(publicBaseURL string) *PageHandler {
	return &PageHandler{publicBaseURL: publicBaseURL}
}

func (h *PageHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{"Title": "Mystery Threads"})
}

func (h *PageHandler) SignIn(c *gin.Context) {
	c.HTML(http.StatusOK, "sign-in.html", gin.H{"Title": "Sign in"})
}

func (h *PageHandler) SignUp(c *gin.Context) {
	c.HTML(http.StatusOK, "sign-up.html", gin.H{"Title": "Sign up"})
}

func (h *PageHandler) Verify(c *gin.Context) {
	username := c.Param("username")
	if decoded, err := url.PathUnescape(username); err == nil {
		username = decoded
	}
	c.HTML(http.StatusOK, "verify.html", gin.H{"Title": "Verify account", "Username": username})
}

func (h *PageHandler) Dashboard(c *gin.Context) {
	username := c.GetString(middleware.UsernameKey)
	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"Title":      "Dashboard",
		"Username":   username,
		"ProfileURL": ProfileURL(h.publicBaseURL, username),
	})
}

// Profile is the public page strangers post to. It renders for any
// username; unknown users surface as a 404 from /send-message.
func (h *PageHandler) Profile(c *gin.Context) {
	c.HTML(http.StatusOK, "profile.html", gin.H{"Title": "Send a message", "Username": c.Param("username")})
}
