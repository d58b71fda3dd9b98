package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/refurbgear/storefront-backend/models"
	apperrors "github.com/refurbgear/storefront-backend/pkg/errors"
)

// UserServiceAPI is the service surface the user controller depends on.
type UserServiceAPI interface {
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
	Update(ctx context.Context, id uuid.UUID, name, email, role string) (*models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetStatus(ctx context.Context, id uuid.UUID, status string) (*models.User, error)
}

type UpdateUserRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required"`
}

type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type UserController struct {
	service UserServiceAPI
}

func NewUserController(service UserServiceAPI) *UserController {
	return &UserController{service: service}
}

// List handles GET /api/users.
func (uc *UserController) List(c *gin.Context) {
	users, err := uc.service.List(c.Request.Context())
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	apperrors.OK(c, http.StatusOK, gin.H{"users": users, "count": len(users)})
}

// Get handles GET /api/users/:id.
func (uc *UserController) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperrors.Respond(c, apperrors.New(http.StatusBadRequest, "Invalid user id", err))
		return
	}

	user, err := uc.service.Get(c.Request.Context(), id)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	apperrors.OK(c, http.StatusOK, gin.H{"user": user})
}

// Update handles PUT /api/users/:id. Name, email and role are all required.
func (uc *UserController) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperrors.Respond(c, apperrors.New(http.StatusBadRequest, "Invalid user id", err))
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.New(http.StatusBadRequest, "Name, email and role are required", err))
		return
	}

	user, err := uc.service.Update(c.Request.Context(), id, req.Name, req.Email, req.Role)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	apperrors.OK(c, http.StatusOK, gin.H{"user": user})
}

// Delete handles DELETE /api/users/:id.
func (uc *UserController) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperrors.Respond(c, apperrors.New(http.StatusBadRequest, "Invalid user id", err))
		return
	}

	if err := uc.service.Delete(c.Request.Context(), id); err != nil {
		apperrors.Respond(c, err)
		return
	}
	apperrors.OK(c, http.StatusOK, gin.H{"message": "User deleted"})
}

// SetStatus handles PATCH /api/users/:id/status.
func (uc *UserController) SetStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperrors.Respond(c, apperrors.New(http.StatusBadRequest, "Invalid user id", err))
		return
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.New(http.StatusBadRequest, "Status is required", err))
		return
	}

	user, err := uc.service.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	apperrors.OK(c, http.StatusOK, gin.H{"user": user})
}
