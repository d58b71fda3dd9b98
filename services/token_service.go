package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Token types carried in the "typ" claim.
const (
	TokenTypeAccess = "access"
	TokenTypeReset  = "reset"
)

// Token lifetimes.
const (
	AccessTokenTTL = 24 * time.Hour
	ResetTokenTTL  = time.Hour
)

// TokenService creates and validates HS256-signed JWTs.
type TokenService struct {
	secretKey []byte
}

func NewTokenService(secret string) *TokenService {
	if secret == "" {
		// The service cannot function without a secret, so panic on startup.
		panic("token service: signing secret not set")
	}
	return &TokenService{secretKey: []byte(secret)}
}

// GenerateAccessToken creates a session token embedding the user id and role.
func (s *TokenService) GenerateAccessToken(userID uuid.UUID, role string) (string, error) {
	return s.generateToken(userID, TokenTypeAccess, AccessTokenTTL, jwt.MapClaims{"role": role})
}

// GenerateResetToken creates a short-lived password-reset token.
func (s *TokenService) GenerateResetToken(userID uuid.UUID) (string, error) {
	return s.generateToken(userID, TokenTypeReset, ResetTokenTTL, nil)
}

// ValidateToken parses and validates a token string, enforcing the expected
// token type when one is given.
func (s *TokenService) ValidateToken(tokenStr, expectedType string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return s.secretKey, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	if expectedType != "" {
		if typ, ok := claims["typ"].(string); !ok || typ != expectedType {
			return nil, fmt.Errorf("invalid token type")
		}
	}
	return claims, nil
}

// Subject extracts the user id from validated claims.
func Subject(claims jwt.MapClaims) (uuid.UUID, error) {
	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, fmt.Errorf("token subject missing")
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, fmt.Errorf("token subject is not a valid id")
	}
	return id, nil
}

func (s *TokenService) generateToken(userID uuid.UUID, tokenType string, duration time.Duration, extra jwt.MapClaims) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID.String(),
		"typ": tokenType,
		"exp": time.Now().Add(duration).Unix(),
		"iat": time.Now().Unix(),
	}
	for k, v := range extra {
		claims[k] = v
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}
