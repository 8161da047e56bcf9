package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/idearoom-admin/internal/http/response"
	"github.com/yungbote/idearoom-admin/internal/platform/ctxutil"
	"github.com/yungbote/idearoom-admin/internal/platform/logger"
	"github.com/yungbote/idearoom-admin/internal/services"
)

const (
	SessionCookie         = "admin_session"
	RememberedEmailCookie = "admin_remembered_email"
)

type SessionMiddleware struct {
	log      *logger.Logger
	sessions services.SessionService
}

func NewSessionMiddleware(log *logger.Logger, sessions services.SessionService) *SessionMiddleware {
	return &SessionMiddleware{log: log.With("middleware", "SessionMiddleware"), sessions: sessions}
}

// AttachSession resolves the session once per request. Every later reader
// goes through ctxutil.GetSessionData.
func (sm *SessionMiddleware) AttachSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sd := sm.sessions.Resolve(extractToken(c))
		if remembered, err := c.Cookie(RememberedEmailCookie); err == nil {
			sd.RememberedEmail = remembered
		}
		c.Request = c.Request.WithContext(ctxutil.WithSessionData(c.Request.Context(), sd))
		c.Next()
	}
}

func (sm *SessionMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ctxutil.GetSessionData(c.Request.Context()).Authenticated() {
			response.RespondError(c, http.StatusUnauthorized, "unauthorized")
			return
		}
		c.Next()
	}
}

// RequirePage sends anonymous visitors of HTML pages to the login form.
func (sm *SessionMiddleware) RequirePage() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ctxutil.GetSessionData(c.Request.Context()).Authenticated() {
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// extractToken prefers the session cookie; the CLI sends a bearer header.
func extractToken(c *gin.Context) string {
	if v, err := c.Cookie(SessionCookie); err == nil && v != "" {
		return v
	}
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
