package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/idearoom-admin/internal/platform/ctxutil"
	"github.com/yungbote/idearoom-admin/internal/platform/logger"
	"github.com/yungbote/idearoom-admin/internal/services"
)

// tokenSessions accepts exactly one token.
type tokenSessions struct {
	valid string
	seen  []string
}

func (s *tokenSessions) Login(ctx context.Context, email, password string) (*services.Session, error) {
	return nil, services.ErrInvalidCredentials
}

func (s *tokenSessions) Resolve(token string) *ctxutil.SessionData {
	s.seen = append(s.seen, token)
	if token != s.valid {
		return &ctxutil.SessionData{Status: ctxutil.SessionAnonymous}
	}
	return &ctxutil.SessionData{Status: ctxutil.SessionAuthenticated, SessionID: uuid.New(), Email: "admin@idearoom.ge"}
}

func (s *tokenSessions) TTL() time.Duration { return time.Hour }

func newAuthRouter(t *testing.T, sessions services.SessionService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	sm := NewSessionMiddleware(log, sessions)
	r := gin.New()
	r.Use(sm.AttachSession())
	r.GET("/api/me", sm.RequireAuth(), func(c *gin.Context) {
		sd := ctxutil.GetSessionData(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"email": sd.Email, "remembered": sd.RememberedEmail})
	})
	r.GET("/dashboard", sm.RequirePage(), func(c *gin.Context) { c.String(http.StatusOK, "page") })
	return r
}

func TestRequireAuthRejectsAnonymous(t *testing.T) {
	r := newAuthRouter(t, &tokenSessions{valid: "good"})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/me", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous api: want=401 got=%d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Fatalf("anonymous page: want=303 /login got=%d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestAttachSessionReadsCookieBeforeBearer(t *testing.T) {
	sessions := &tokenSessions{valid: "good"}
	r := newAuthRouter(t, sessions)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "good"})
	req.AddCookie(&http.Cookie{Name: RememberedEmailCookie, Value: "admin@idearoom.ge"})
	req.Header.Set("Authorization", "Bearer stale")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("cookie session: want=200 got=%d", rec.Code)
	}
	if sessions.seen[len(sessions.seen)-1] != "good" {
		t.Fatalf("token: want cookie value got=%q", sessions.seen[len(sessions.seen)-1])
	}

	req = httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "bearer good")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("bearer session: want=200 got=%d", rec.Code)
	}
}
