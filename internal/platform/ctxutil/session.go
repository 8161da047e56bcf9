package ctxutil

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	SessionAnonymous     SessionStatus = "anonymous"
	SessionAuthenticated SessionStatus = "authenticated"
)

type sessionDataKey struct{}

// SessionData is resolved once per request by the session middleware.
type SessionData struct {
	Status          SessionStatus
	SessionID       uuid.UUID
	Email           string
	RememberedEmail string
	ExpiresAt       time.Time
}

func (s *SessionData) Authenticated() bool {
	return s != nil && s.Status == SessionAuthenticated && s.SessionID != uuid.Nil
}

func WithSessionData(ctx context.Context, sd *SessionData) context.Context {
	return context.WithValue(ctx, sessionDataKey{}, sd)
}

// GetSessionData never returns nil; a missing value reads as anonymous.
func GetSessionData(ctx context.Context) *SessionData {
	if ctx != nil {
		if sd, ok := ctx.Value(sessionDataKey{}).(*SessionData); ok && sd != nil {
			return sd
		}
	}
	return &SessionData{Status: SessionAnonymous}
}

// Actor identifies the writing session in change notifications.
func Actor(ctx context.Context) string {
	sd := GetSessionData(ctx)
	if !sd.Authenticated() {
		return ""
	}
	return sd.SessionID.String()
}
