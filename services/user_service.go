package services

import (
	"context"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/refurbgear/storefront-backend/models"
	apperrors "github.com/refurbgear/storefront-backend/pkg/errors"
)

// UserService implements the administrator-facing user CRUD, including the
// last-administrator protection.
type UserService struct {
	users UserRepository
}

func NewUserService(users UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return user, nil
}

// Update replaces the user's name, email and role. All three are required at
// the HTTP layer.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, name, email, role string) (*models.User, error) {
	if !models.ValidRole(role) {
		return nil, apperrors.ErrInvalidRole
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if email != user.Email {
		if _, err := s.users.FindByEmail(ctx, email); err == nil {
			return nil, apperrors.ErrDuplicateEmail
		} else if err != mongo.ErrNoDocuments {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	fields := bson.M{"name": name, "email": email, "role": role}
	if err := s.users.Update(ctx, id, fields); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	user.Name, user.Email, user.Role = name, email, role
	return user, nil
}

// Delete removes a user. Deleting an administrator is rejected when no other
// administrator record remains, counted across all statuses.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if user.Role == models.RoleAdministrator {
		count, err := s.users.CountByRole(ctx, models.RoleAdministrator)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count <= 1 {
			return apperrors.ErrLastAdmin
		}
	}

	if err := s.users.Delete(ctx, id); err != nil {
		if err == mongo.ErrNoDocuments {
			return apperrors.ErrUserNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// SetStatus activates or deactivates an account. Demoting the last active
// administrator to inactive is rejected; unlike Delete, only active
// administrators enter the count.
func (s *UserService) SetStatus(ctx context.Context, id uuid.UUID, status string) (*models.User, error) {
	if !models.ValidStatus(status) {
		return nil, apperrors.ErrInvalidStatus
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if status == models.StatusInactive && user.Role == models.RoleAdministrator && user.IsActive() {
		count, err := s.users.CountActiveByRole(ctx, models.RoleAdministrator)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count <= 1 {
			return nil, apperrors.ErrLastActiveAdmin
		}
	}

	if err := s.users.Update(ctx, id, bson.M{"status": status}); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	user.Status = status
	return user, nil
}
