package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTokenServiceRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret")
	userID := uuid.New()

	t.Run("Access Token", func(t *testing.T) {
		token, err := svc.GenerateAccessToken(userID, "editor")
		assert.NoError(t, err)
		assert.NotEmpty(t, token)

		claims, err := svc.ValidateToken(token, TokenTypeAccess)
		assert.NoError(t, err)
		assert.Equal(t, "editor", claims["role"])

		subject, err := Subject(claims)
		assert.NoError(t, err)
		assert.Equal(t, userID, subject)
	})

	t.Run("Reset Token", func(t *testing.T) {
		token, err := svc.GenerateResetToken(userID)
		assert.NoError(t, err)

		claims, err := svc.ValidateToken(token, TokenTypeReset)
		assert.NoError(t, err)

		subject, err := Subject(claims)
		assert.NoError(t, err)
		assert.Equal(t, userID, subject)
	})

	t.Run("Wrong Token Type", func(t *testing.T) {
		token, _ := svc.GenerateResetToken(userID)

		_, err := svc.ValidateToken(token, TokenTypeAccess)
		assert.Error(t, err)
	})

	t.Run("Expired Token", func(t *testing.T) {
		token, err := svc.generateToken(userID, TokenTypeAccess, -time.Minute, nil)
		assert.NoError(t, err)

		_, err = svc.ValidateToken(token, TokenTypeAccess)
		assert.Error(t, err)
	})

	t.Run("Wrong Secret", func(t *testing.T) {
		other := NewTokenService("other-secret")
		token, _ := other.GenerateAccessToken(userID, "viewer")

		_, err := svc.ValidateToken(token, TokenTypeAccess)
		assert.Error(t, err)
	})

	t.Run("Garbage Token", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.token", TokenTypeAccess)
		assert.Error(t, err)
	})
}

func TestNewTokenServicePanicsWithoutSecret(t *testing.T) {
	assert.Panics(t, func() { NewTokenService("") })
}
