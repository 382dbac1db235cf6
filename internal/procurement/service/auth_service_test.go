package service

import (
	"testing"
	"time"

	"github.com/exenity/portal/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestLoginWithPlainPassword(t *testing.T) {
	svc := NewAuthService(config.AuthConfig{
		AdminPassword: "Exenity@123",
		JWTSecret:     "secret",
		TokenTTL:      time.Hour,
	})

	token, err := svc.Login("Exenity@123")
	require.NoError(t, err)

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, AdminSubject, claims.Subject)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)

	_, err = svc.Login("wrong")
	assert.ErrorIs(t, err, ErrInvalidPassword)
	_, err = svc.Login("")
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestLoginWithPasswordHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hashed-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	svc := NewAuthService(config.AuthConfig{
		AdminPassword:     "ignored-when-hash-set",
		AdminPasswordHash: string(hash),
		JWTSecret:         "secret",
	})

	_, err = svc.Login("hashed-pass")
	assert.NoError(t, err)

	_, err = svc.Login("ignored-when-hash-set")
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestLoginRejectsWhenNothingConfigured(t *testing.T) {
	svc := NewAuthService(config.AuthConfig{JWTSecret: "secret"})
	_, err := svc.Login("")
	assert.ErrorIs(t, err, ErrInvalidPassword)
}
