package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/yungbote/idearoom-admin/internal/platform/apierr"
)

// InvalidCredentialsMessage is shown for every failed login, whichever field was wrong.
const InvalidCredentialsMessage = "არასწორი ელფოსტა ან პაროლი"

var ErrInvalidCredentials = apierr.New(http.StatusUnauthorized, "invalid_credentials", errors.New(InvalidCredentialsMessage))

// CredentialVerifier checks an admin login attempt.
type CredentialVerifier interface {
	Verify(ctx context.Context, email, password string) error
}

type bcryptVerifier struct {
	email []byte
	hash  []byte
}

// NewBcryptVerifier accepts a single admin identity. The email is matched
// case-insensitively; the password against a bcrypt hash.
func NewBcryptVerifier(email string, passwordHash []byte) (CredentialVerifier, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, fmt.Errorf("admin email required")
	}
	if _, err := bcrypt.Cost(passwordHash); err != nil {
		return nil, fmt.Errorf("admin password hash: %w", err)
	}
	return &bcryptVerifier{email: []byte(email), hash: passwordHash}, nil
}

// HashPassword hashes a plaintext password with the default bcrypt cost.
func HashPassword(password string) ([]byte, error) {
	if password == "" {
		return nil, fmt.Errorf("empty password")
	}
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

func (v *bcryptVerifier) Verify(ctx context.Context, email, password string) error {
	emailOK := subtle.ConstantTimeCompare([]byte(normalizeEmail(email)), v.email) == 1
	// The hash is compared even on an email mismatch so both failures take as long.
	pwErr := bcrypt.CompareHashAndPassword(v.hash, []byte(password))
	if !emailOK || pwErr != nil {
		return ErrInvalidCredentials
	}
	return nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
