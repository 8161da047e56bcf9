package services

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/idearoom-admin/internal/platform/ctxutil"
	"github.com/yungbote/idearoom-admin/internal/platform/logger"
)

type SessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Session is an issued admin session.
type Session struct {
	ID        uuid.UUID
	Email     string
	Token     string
	ExpiresAt time.Time
}

type SessionService interface {
	Login(ctx context.Context, email, password string) (*Session, error)
	// Resolve never fails: anything but a valid token is an anonymous session.
	Resolve(token string) *ctxutil.SessionData
	TTL() time.Duration
}

type sessionService struct {
	log      *logger.Logger
	verifier CredentialVerifier
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

func NewSessionService(log *logger.Logger, verifier CredentialVerifier, secret string, ttl time.Duration) (SessionService, error) {
	if verifier == nil {
		return nil, fmt.Errorf("credential verifier required")
	}
	if len(secret) < 32 {
		return nil, fmt.Errorf("SESSION_SECRET must be at least 32 bytes")
	}
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &sessionService{
		log:      log.With("service", "SessionService"),
		verifier: verifier,
		secret:   []byte(secret),
		ttl:      ttl,
		now:      time.Now,
	}, nil
}

func (s *sessionService) TTL() time.Duration { return s.ttl }

func (s *sessionService) Login(ctx context.Context, email, password string) (*Session, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	if err := s.verifier.Verify(ctx, email, password); err != nil {
		s.log.Info("Login rejected")
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	sess := &Session{
		ID:        uuid.New(),
		Email:     normalizeEmail(email),
		ExpiresAt: now.Add(s.ttl),
	}
	claims := SessionClaims{
		Email: sess.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.ID.String(),
			Subject:   "admin",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign session: %w", err)
	}
	sess.Token = token
	s.log.Info("Login accepted", "session_id", sess.ID.String())
	return sess, nil
}

func (s *sessionService) Resolve(token string) *ctxutil.SessionData {
	anon := &ctxutil.SessionData{Status: ctxutil.SessionAnonymous}
	if token == "" {
		return anon
	}
	keyFunc := func(t *jwt.Token) (interface{}, error) { return s.secret, nil }
	parsed, err := jwt.ParseWithClaims(token, &SessionClaims{}, keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return anon
	}
	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok {
		return anon
	}
	id, err := uuid.Parse(claims.ID)
	if err != nil {
		return anon
	}
	sd := &ctxutil.SessionData{
		Status:    ctxutil.SessionAuthenticated,
		SessionID: id,
		Email:     claims.Email,
	}
	if claims.ExpiresAt != nil {
		sd.ExpiresAt = claims.ExpiresAt.Time
	}
	return sd
}
