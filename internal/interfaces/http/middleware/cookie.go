package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/community/backend/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
)

// SessionCookie writes and clears the HttpOnly session cookie
type SessionCookie struct {
	cfg config.CookieConfig
}

// NewSessionCookie creates a cookie writer for cfg
func NewSessionCookie(cfg config.CookieConfig) *SessionCookie {
	return &SessionCookie{cfg: cfg}
}

// Name returns the cookie name
func (s *SessionCookie) Name() string {
	return s.cfg.Name
}

// Set stores token until expiresAt
func (s *SessionCookie) Set(c *gin.Context, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	s.write(c, token, maxAge)
}

// Clear expires the cookie in the browser
func (s *SessionCookie) Clear(c *gin.Context) {
	s.write(c, "", -1)
}

func (s *SessionCookie) write(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(sameSiteMode(s.cfg.SameSite))
	c.SetCookie(s.cfg.Name, value, maxAge, s.cfg.Path, s.cfg.Domain, s.cfg.Secure, true)
}

func sameSiteMode(v string) http.SameSite {
	switch strings.ToLower(v) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
