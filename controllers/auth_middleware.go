package controllers

import (
	"net/http"
	"strings"

	dbpkg "fusevip/db"
	"fusevip/logger"

	"github.com/gin-gonic/gin"
)

const (
	ctxSessionKey = "auth_session"

	AccessTokenCookie  = "sb-access-token"
	RefreshTokenCookie = "sb-refresh-token"
)

// AccessToken reads the bearer token, falling back to the session cookie
// set by the login form.
func AccessToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) > len("Bearer ") && strings.EqualFold(h[:len("Bearer ")], "bearer ") {
		return strings.TrimSpace(h[len("Bearer "):])
	}
	if v, err := c.Cookie(AccessTokenCookie); err == nil {
		return strings.TrimSpace(v)
	}
	return ""
}

func authenticate(c *gin.Context) (Session, bool) {
	deps := DepsInstance(c)
	if deps.Verifier == nil {
		return Session{}, false
	}
	token := AccessToken(c)
	if token == "" {
		return Session{}, false
	}
	user, err := deps.Verifier.Verify(c.Request.Context(), token)
	if err != nil {
		logger.Get().Debug("rejected access token", "path", c.Request.URL.Path, "error", err)
		return Session{}, false
	}
	return ResolveSession(dbpkg.DBInstance(c), user), true
}

// AuthRequired rejects API calls without a valid access token and stores
// the resolved session in the context.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := authenticate(c)
		if !ok {
			RespondError(c, "unauthorized", http.StatusUnauthorized)
			c.Abort()
			return
		}
		c.Set(ctxSessionKey, session)
		c.Next()
	}
}

// LoadSession resolves the session when a valid token is present and lets
// anonymous requests through.
func LoadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if session, ok := authenticate(c); ok {
			c.Set(ctxSessionKey, session)
		}
		c.Next()
	}
}

// GetSession returns the session stored by AuthRequired or LoadSession.
func GetSession(c *gin.Context) (Session, bool) {
	v, ok := c.Get(ctxSessionKey)
	if !ok {
		return Session{}, false
	}
	session, ok := v.(Session)
	return session, ok
}
