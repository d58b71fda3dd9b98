package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/refurbgear/storefront-backend/models"
	apperrors "github.com/refurbgear/storefront-backend/pkg/errors"
	"github.com/refurbgear/storefront-backend/services"
)

// Context keys set by RequireAuth.
const (
	ContextUserIDKey   = "userID"
	ContextUserRoleKey = "userRole"
)

// UserFinder resolves a token subject to a user record.
type UserFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// RequireAuth extracts and validates the bearer token, re-resolves the user so
// deleted or deactivated accounts lose access immediately, and attaches the
// id and role to the request context.
func RequireAuth(tokens services.TokenIssuer, users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			apperrors.Abort(c, apperrors.ErrUnauthorized)
			return
		}

		claims, err := tokens.ValidateToken(strings.TrimPrefix(header, "Bearer "), services.TokenTypeAccess)
		if err != nil {
			apperrors.Abort(c, apperrors.ErrInvalidToken)
			return
		}
		id, err := services.Subject(claims)
		if err != nil {
			apperrors.Abort(c, apperrors.ErrInvalidToken)
			return
		}

		user, err := users.FindByID(c.Request.Context(), id)
		if err != nil {
			apperrors.Abort(c, apperrors.ErrInvalidToken)
			return
		}
		if !user.IsActive() {
			apperrors.Abort(c, apperrors.ErrAccountInactive)
			return
		}

		c.Set(ContextUserIDKey, user.ID)
		c.Set(ContextUserRoleKey, user.Role)
		c.Next()
	}
}

// RequireRole checks the authenticated user's role against an allow-list.
// Must run after RequireAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(c *gin.Context) {
		role := c.GetString(ContextUserRoleKey)
		if !allowed[role] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": fmt.Sprintf("Role '%s' is not allowed to access this resource", role),
			})
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user's id from the gin context.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(ContextUserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}
