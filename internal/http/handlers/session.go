package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/idearoom-admin/internal/http/middleware"
	"github.com/yungbote/idearoom-admin/internal/http/response"
	"github.com/yungbote/idearoom-admin/internal/http/views"
	"github.com/yungbote/idearoom-admin/internal/observability"
	"github.com/yungbote/idearoom-admin/internal/platform/ctxutil"
	"github.com/yungbote/idearoom-admin/internal/platform/logger"
	"github.com/yungbote/idearoom-admin/internal/services"
)

// rememberedEmailTTL keeps the remembered email until the admin unticks the box.
const rememberedEmailTTL = 365 * 24 * time.Hour

type SessionHandler struct {
	log          *logger.Logger
	sessions     services.SessionService
	metrics      *observability.Metrics
	secureCookie bool
}

func NewSessionHandler(log *logger.Logger, sessions services.SessionService, metrics *observability.Metrics, secureCookie bool) *SessionHandler {
	return &SessionHandler{
		log:          log.With("handler", "SessionHandler"),
		sessions:     sessions,
		metrics:      metrics,
		secureCookie: secureCookie,
	}
}

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	Remember bool   `json:"remember" form:"remember"`
}

// Login accepts JSON from the API clients and form posts from the login page.
func (h *SessionHandler) Login(c *gin.Context) {
	fromForm := isFormPost(c)
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		if fromForm {
			h.renderLogin(c, http.StatusBadRequest, services.InvalidCredentialsMessage, "")
			return
		}
		response.RespondInvalidBody(c)
		return
	}

	sess, err := h.sessions.Login(c.Request.Context(), req.Email, req.Password)
	h.metrics.IncLogin(err == nil)
	if err != nil {
		if !errors.Is(err, services.ErrInvalidCredentials) {
			h.log.Error("Login failed", "error", err)
		}
		if fromForm {
			h.renderLogin(c, http.StatusUnauthorized, services.InvalidCredentialsMessage, strings.TrimSpace(req.Email))
			return
		}
		response.RespondError(c, http.StatusUnauthorized, services.InvalidCredentialsMessage)
		return
	}

	h.setCookie(c, middleware.SessionCookie, sess.Token, h.sessions.TTL())
	if req.Remember {
		h.setCookie(c, middleware.RememberedEmailCookie, sess.Email, rememberedEmailTTL)
	} else {
		h.clearCookie(c, middleware.RememberedEmailCookie)
	}

	if fromForm {
		c.Redirect(http.StatusSeeOther, "/dashboard")
		return
	}
	response.RespondOK(c, gin.H{
		"success":    true,
		"email":      sess.Email,
		"token":      sess.Token,
		"expires_at": sess.ExpiresAt,
	})
}

func (h *SessionHandler) Logout(c *gin.Context) {
	h.clearCookie(c, middleware.SessionCookie)
	response.RespondOK(c, gin.H{"success": true})
}

// LogoutPage is the form target of the dashboard's log out button.
func (h *SessionHandler) LogoutPage(c *gin.Context) {
	h.clearCookie(c, middleware.SessionCookie)
	c.Redirect(http.StatusSeeOther, "/login")
}

func (h *SessionHandler) Session(c *gin.Context) {
	sd := ctxutil.GetSessionData(c.Request.Context())
	out := gin.H{
		"status":           ctxutil.SessionAnonymous,
		"remembered_email": sd.RememberedEmail,
	}
	if sd.Authenticated() {
		out["status"] = ctxutil.SessionAuthenticated
		out["email"] = sd.Email
		out["expires_at"] = sd.ExpiresAt
	}
	response.RespondOK(c, out)
}

func (h *SessionHandler) LoginPage(c *gin.Context) {
	sd := ctxutil.GetSessionData(c.Request.Context())
	if sd.Authenticated() {
		c.Redirect(http.StatusSeeOther, "/dashboard")
		return
	}
	h.renderLogin(c, http.StatusOK, "", sd.RememberedEmail)
}

func (h *SessionHandler) renderLogin(c *gin.Context, status int, msg, email string) {
	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := views.LoginPage(views.LoginProps{Error: msg, RememberedEmail: email}).Render(c.Writer); err != nil {
		h.log.Error("Render login page failed", "error", err)
	}
}

func (h *SessionHandler) setCookie(c *gin.Context, name, value string, ttl time.Duration) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *SessionHandler) clearCookie(c *gin.Context, name string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func isFormPost(c *gin.Context) bool {
	ct := c.ContentType()
	return ct == "application/x-www-form-urlencoded" || ct == "multipart/form-data"
}
