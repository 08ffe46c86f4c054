package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bookingops/console/internal/domain/identity"
	"github.com/bookingops/console/internal/infrastructure/gateway"
	"github.com/bookingops/console/internal/infrastructure/logger"
	"github.com/bookingops/console/internal/interfaces/http/dto"
)

// Session context keys
const (
	SessionKey   = "console_session"
	UserIDKey    = "user_id"
	AuthHeader   = "Authorization"
	BearerPrefix = "Bearer "
)

// Authenticator resolves a session token to a live session
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*identity.Session, error)
}

// SessionConfig holds configuration for the session middleware
type SessionConfig struct {
	Auth       Authenticator
	CookieName string
	// LoginPath, when set, redirects unauthenticated page requests there
	// instead of answering 401
	LoginPath string
}

// RequireSession rejects API requests without a valid console session
func RequireSession(auth Authenticator, cookieName string) gin.HandlerFunc {
	return SessionWithConfig(SessionConfig{Auth: auth, CookieName: cookieName})
}

// RequirePageSession redirects page requests without a valid session to loginPath
func RequirePageSession(auth Authenticator, cookieName, loginPath string) gin.HandlerFunc {
	return SessionWithConfig(SessionConfig{Auth: auth, CookieName: cookieName, LoginPath: loginPath})
}

// SessionWithConfig authenticates the request from the session cookie or a
// bearer token. The upstream access token of the session is attached to the
// request context so every gateway call made for the request carries it.
func SessionWithConfig(cfg SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := SessionToken(c, cfg.CookieName)
		if token == "" {
			unauthenticated(c, cfg, "Authentication required")
			return
		}

		ctx := c.Request.Context()
		session, err := cfg.Auth.Authenticate(ctx, token)
		if err != nil {
			logger.L(ctx).Debug("Session rejected", zap.Error(err))
			unauthenticated(c, cfg, "Session expired. Please log in again")
			return
		}

		c.Set(SessionKey, session)
		c.Set(UserIDKey, session.UserID)

		ctx = gateway.WithAccessToken(ctx, session.AccessToken)
		ctx = logger.WithSessionID(ctx, session.ID)
		ctx, _ = logger.WithUserID(ctx, logger.FromContext(ctx), session.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// SessionToken reads the token from the cookie first, then the Authorization header
func SessionToken(c *gin.Context, cookieName string) string {
	if cookieName != "" {
		if v, err := c.Cookie(cookieName); err == nil && v != "" {
			return v
		}
	}
	h := c.GetHeader(AuthHeader)
	if strings.HasPrefix(h, BearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(h, BearerPrefix))
	}
	return ""
}

func unauthenticated(c *gin.Context, cfg SessionConfig, message string) {
	if cfg.LoginPath != "" {
		c.Redirect(http.StatusFound, cfg.LoginPath)
		c.Abort()
		return
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeUnauthorized, message, GetRequestID(c)))
}

// GetSession returns the session stored by the session middleware
func GetSession(c *gin.Context) *identity.Session {
	if v, ok := c.Get(SessionKey); ok {
		if s, ok := v.(*identity.Session); ok {
			return s
		}
	}
	return nil
}

// SessionOwner returns the id drafts and edit sessions are keyed by
func SessionOwner(c *gin.Context) string {
	if s := GetSession(c); s != nil {
		return s.ID
	}
	return ""
}
