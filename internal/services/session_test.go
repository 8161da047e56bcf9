package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/yungbote/idearoom-admin/internal/platform/apierr"
	"github.com/yungbote/idearoom-admin/internal/platform/ctxutil"
	"github.com/yungbote/idearoom-admin/internal/platform/logger"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestVerifier(t *testing.T) CredentialVerifier {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	v, err := NewBcryptVerifier(" Admin@IdeaRoom.ge ", hash)
	if err != nil {
		t.Fatalf("NewBcryptVerifier: %v", err)
	}
	return v
}

func TestBcryptVerifier(t *testing.T) {
	v := newTestVerifier(t)
	ctx := context.Background()
	if err := v.Verify(ctx, "admin@idearoom.ge", "s3cret"); err != nil {
		t.Fatalf("valid credentials: %v", err)
	}
	if err := v.Verify(ctx, "ADMIN@idearoom.ge ", "s3cret"); err != nil {
		t.Fatalf("email case/space should not matter: %v", err)
	}
	for _, tc := range []struct{ email, password string }{
		{"admin@idearoom.ge", "wrong"},
		{"other@idearoom.ge", "s3cret"},
		{"", ""},
	} {
		err := v.Verify(ctx, tc.email, tc.password)
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("%q/%q: want ErrInvalidCredentials got=%v", tc.email, tc.password, err)
		}
	}
}

func TestNewBcryptVerifierRejectsPlaintext(t *testing.T) {
	if _, err := NewBcryptVerifier("a@b.c", []byte("not-a-hash")); err == nil {
		t.Fatalf("plaintext password must be rejected as hash")
	}
	if _, err := NewBcryptVerifier(" ", []byte("x")); err == nil {
		t.Fatalf("empty email must be rejected")
	}
}

func TestSessionLoginResolve(t *testing.T) {
	svc, err := NewSessionService(logger.Nop(), newTestVerifier(t), testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewSessionService: %v", err)
	}
	sess, err := svc.Login(context.Background(), "admin@idearoom.ge", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	sd := svc.Resolve(sess.Token)
	if !sd.Authenticated() {
		t.Fatalf("Resolve: want authenticated")
	}
	if sd.SessionID != sess.ID || sd.Email != "admin@idearoom.ge" {
		t.Fatalf("Resolve: got=%+v", sd)
	}
}

func TestSessionLoginFailureIsGeneric(t *testing.T) {
	svc, _ := NewSessionService(logger.Nop(), newTestVerifier(t), testSecret, time.Hour)
	for _, pw := range []string{"wrong", ""} {
		_, err := svc.Login(context.Background(), "admin@idearoom.ge", pw)
		if err == nil || err.Error() != InvalidCredentialsMessage {
			t.Fatalf("password %q: want generic message got=%v", pw, err)
		}
		if apierr.StatusOf(err) != 401 {
			t.Fatalf("status: want=401 got=%d", apierr.StatusOf(err))
		}
	}
}

func TestSessionResolveRejectsBadTokens(t *testing.T) {
	svc, _ := NewSessionService(logger.Nop(), newTestVerifier(t), testSecret, time.Hour)
	sess, _ := svc.Login(context.Background(), "admin@idearoom.ge", "s3cret")

	other, _ := NewSessionService(logger.Nop(), newTestVerifier(t), strings.Repeat("z", 32), time.Hour)
	if other.Resolve(sess.Token).Authenticated() {
		t.Fatalf("token signed with another secret must be anonymous")
	}
	if svc.Resolve("garbage").Status != ctxutil.SessionAnonymous {
		t.Fatalf("garbage token must be anonymous")
	}

	impl := svc.(*sessionService)
	impl.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if svc.Resolve(sess.Token).Authenticated() {
		t.Fatalf("expired token must be anonymous")
	}
}

func TestNewSessionServiceRequiresLongSecret(t *testing.T) {
	if _, err := NewSessionService(logger.Nop(), newTestVerifier(t), "short", 0); err == nil {
		t.Fatalf("short secret must be rejected")
	}
	svc, err := NewSessionService(logger.Nop(), newTestVerifier(t), testSecret, 0)
	if err != nil {
		t.Fatalf("NewSessionService: %v", err)
	}
	if svc.TTL() != 30*24*time.Hour {
		t.Fatalf("default ttl: got=%s", svc.TTL())
	}
}
