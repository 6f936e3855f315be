package app

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"practicelog/internal/pkg/jwtutil"
)

var (
	ErrAuthDisabled      = errors.New("auth is disabled")
	ErrInvalidCredential = errors.New("invalid password")
)

// AuthService guards the single-user installation: the owner's bcrypt hash
// lives in the config and a successful login yields a bearer token.
type AuthService struct {
	enabled       bool
	passwordHash  string
	jwtSecret     string
	jwtExpiration time.Duration
}

func NewAuthService(enabled bool, passwordHash, jwtSecret string, jwtExpiration time.Duration) *AuthService {
	return &AuthService{
		enabled:       enabled,
		passwordHash:  passwordHash,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

func (s *AuthService) Enabled() bool {
	return s.enabled && s.passwordHash != ""
}

func (s *AuthService) Login(password string) (string, error) {
	if !s.Enabled() {
		return "", ErrAuthDisabled
	}
	password = strings.TrimSpace(password)
	if password == "" {
		return "", ErrInvalidInput
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredential
	}

	token, err := jwtutil.GenerateToken(s.jwtSecret, s.jwtExpiration, "owner")
	if err != nil {
		return "", err
	}
	return token, nil
}
