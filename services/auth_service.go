package services

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/refurbgear/storefront-backend/models"
	apperrors "github.com/refurbgear/storefront-backend/pkg/errors"
)

// UserRepository is the persistence surface the auth and user services need.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindAll(ctx context.Context) ([]models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, id uuid.UUID, fields bson.M) error
	SetPassword(ctx context.Context, id uuid.UUID, hash string) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByRole(ctx context.Context, role string) (int64, error)
	CountActiveByRole(ctx context.Context, role string) (int64, error)
}

// TokenIssuer creates and validates session and reset tokens.
type TokenIssuer interface {
	GenerateAccessToken(userID uuid.UUID, role string) (string, error)
	GenerateResetToken(userID uuid.UUID) (string, error)
	ValidateToken(tokenStr, expectedType string) (jwt.MapClaims, error)
}

type AuthService struct {
	users  UserRepository
	tokens TokenIssuer
}

func NewAuthService(users UserRepository, tokens TokenIssuer) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Login verifies credentials and issues a session token. Unknown emails and
// wrong passwords produce the same error so callers cannot tell which.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return "", nil, apperrors.ErrInvalidCredentials
		}
		return "", nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsActive() {
		return "", nil, apperrors.ErrAccountInactive
	}

	now := time.Now().UTC()
	if err := s.users.Update(ctx, user.ID, bson.M{"last_login": now}); err != nil {
		// The session is still valid without the timestamp.
		zap.L().Warn("Failed to record last login", zap.String("user_id", user.ID.String()), zap.Error(err))
	}
	user.LastLogin = &now

	token, err := s.tokens.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		return "", nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return token, user, nil
}

// CurrentUser resolves a session subject to its user record.
func (s *AuthService) CurrentUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return user, nil
}

// Register creates a new back-office account. The role defaults to viewer
// when omitted.
func (s *AuthService) Register(ctx context.Context, name, email, password, role string) (*models.User, error) {
	if role == "" {
		role = models.RoleViewer
	}
	if !models.ValidRole(role) {
		return nil, apperrors.ErrInvalidRole
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, apperrors.ErrDuplicateEmail
	} else if err != mongo.ErrNoDocuments {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		Password:  string(hash),
		Role:      role,
		Status:    models.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperrors.ErrDuplicateEmail
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return user, nil
}

// ForgotPassword issues a one-hour reset token bound to the user and persists
// it alongside its expiry. Delivery is left to the caller.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return "", apperrors.ErrUserNotFound
		}
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	token, err := s.tokens.GenerateResetToken(user.ID)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	expiry := time.Now().UTC().Add(ResetTokenTTL)
	fields := bson.M{"reset_token": token, "reset_token_expiry": expiry}
	if err := s.users.Update(ctx, user.ID, fields); err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return token, nil
}

// ResetPassword redeems a reset token. The token must carry a valid signature,
// be unexpired, and match the token currently stored on the user; success
// replaces the password and invalidates the token.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := s.tokens.ValidateToken(token, TokenTypeReset)
	if err != nil {
		return apperrors.ErrResetToken
	}
	id, err := Subject(claims)
	if err != nil {
		return apperrors.ErrResetToken
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return apperrors.ErrResetToken
	}
	if user.ResetToken != token || user.ResetTokenExpiry == nil || user.ResetTokenExpiry.Before(time.Now().UTC()) {
		return apperrors.ErrResetToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.users.SetPassword(ctx, user.ID, string(hash)); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
