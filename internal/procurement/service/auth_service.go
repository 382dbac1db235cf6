package service

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/exenity/portal/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AdminSubject is the subject of every token issued by Login.
const AdminSubject = "admin"

// ErrInvalidPassword is returned by Login for a wrong shared password.
var ErrInvalidPassword = errors.New("invalid password")

// AuthService checks the shared admin password and issues admin tokens.
type AuthService struct {
	cfg config.AuthConfig
	now func() time.Time
}

func NewAuthService(cfg config.AuthConfig) *AuthService {
	return &AuthService{cfg: cfg, now: time.Now}
}

// Login verifies password and returns a signed admin token.
func (s *AuthService) Login(password string) (string, error) {
	if !s.passwordMatches(password) {
		return "", ErrInvalidPassword
	}
	token, err := s.issueToken()
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// passwordMatches prefers the bcrypt hash when one is configured.
func (s *AuthService) passwordMatches(password string) bool {
	if s.cfg.AdminPasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPasswordHash), []byte(password)) == nil
	}
	if s.cfg.AdminPassword == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(s.cfg.AdminPassword), []byte(password)) == 1
}

func (s *AuthService) issueToken() (string, error) {
	now := s.now()
	ttl := s.cfg.TokenTTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	claims := jwt.RegisteredClaims{
		Subject:   AdminSubject,
		Issuer:    "exenity-portal",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        uuid.New().String(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
}
