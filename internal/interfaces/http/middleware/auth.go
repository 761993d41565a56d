package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	appidentity "github.com/community/backend/internal/application/identity"
	"github.com/community/backend/internal/domain/shared"
	"github.com/community/backend/internal/infrastructure/logger"
	"github.com/community/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Auth context keys
const (
	PrincipalKey  = "auth_principal"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// Authenticator resolves a session token to its caller
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*appidentity.Principal, error)
}

// AuthConfig holds configuration for the auth middleware
type AuthConfig struct {
	Authenticator Authenticator
	// CookieName is the session cookie; the Authorization header is the fallback
	CookieName string
	Logger     *zap.Logger
}

// RequireAuth rejects requests without a valid session with 401
func RequireAuth(cfg AuthConfig) gin.HandlerFunc {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		token := ExtractToken(c, cfg.CookieName)
		if token == "" {
			abortUnauthorized(c, "Authentication required")
			return
		}

		principal, err := cfg.Authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, shared.ErrUnauthorized) {
				// store or blacklist failure; the request still cannot proceed
				cfg.Logger.Error("Authentication check failed", zap.Error(err))
			} else {
				cfg.Logger.Debug("Authentication rejected",
					zap.String("path", c.Request.URL.Path),
					zap.Error(err),
				)
			}
			abortUnauthorized(c, "Session is invalid or has expired")
			return
		}

		setPrincipal(c, principal)
		c.Next()
	}
}

// OptionalAuth attaches the caller when a valid session is presented and
// otherwise lets the request through anonymously.
func OptionalAuth(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := ExtractToken(c, cfg.CookieName); token != "" {
			if principal, err := cfg.Authenticator.Authenticate(c.Request.Context(), token); err == nil {
				setPrincipal(c, principal)
			}
		}
		c.Next()
	}
}

// ExtractToken reads the session token from the cookie, falling back to a bearer header
func ExtractToken(c *gin.Context, cookieName string) string {
	if cookieName != "" {
		if v, err := c.Cookie(cookieName); err == nil && v != "" {
			return v
		}
	}
	header := c.GetHeader(AuthHeaderKey)
	if strings.HasPrefix(header, BearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
	}
	return ""
}

// setPrincipal stores the caller in the gin context and tags the request logger
func setPrincipal(c *gin.Context, p *appidentity.Principal) {
	c.Set(PrincipalKey, p)

	userID := strconv.FormatInt(p.UserID, 10)
	ctx, enriched := logger.WithUserID(c.Request.Context(), logger.GetGinLogger(c), userID)
	c.Request = c.Request.WithContext(ctx)
	logger.SetGinLogger(c, enriched)
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeUnauthorized,
		message,
		GetRequestID(c),
	))
}

// GetPrincipal returns the authenticated caller, or nil
func GetPrincipal(c *gin.Context) *appidentity.Principal {
	if v, exists := c.Get(PrincipalKey); exists {
		if p, ok := v.(*appidentity.Principal); ok {
			return p
		}
	}
	return nil
}
