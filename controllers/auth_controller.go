package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/refurbgear/storefront-backend/middleware"
	"github.com/refurbgear/storefront-backend/models"
	apperrors "github.com/refurbgear/storefront-backend/pkg/errors"
)

// AuthServiceAPI is the service surface the auth controller depends on.
type AuthServiceAPI interface {
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	CurrentUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	Register(ctx context.Context, name, email, password, role string) (*models.User, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

type AuthController struct {
	service AuthServiceAPI
	// exposeResetToken returns reset tokens in API responses instead of
	// delivering them out of band. Development only.
	exposeResetToken bool
}

func NewAuthController(service AuthServiceAPI, exposeResetToken bool) *AuthController {
	return &AuthController{service: service, exposeResetToken: exposeResetToken}
}

// Login handles POST /api/auth/login.
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.New(http.StatusBadRequest, "Email and password are required", err))
		return
	}

	token, user, err := ac.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	apperrors.OK(c, http.StatusOK, gin.H{"token": token, "user": user})
}

// Me handles GET /api/auth/me.
func (ac *AuthController) Me(c *gin.Context) {
	id, ok := middleware.UserID(c)
	if !ok {
		apperrors.Respond(c, apperrors.ErrUnauthorized)
		return
	}

	user, err := ac.service.CurrentUser(c.Request.Context(), id)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	apperrors.OK(c, http.StatusOK, gin.H{"user": user})
}

// Register handles POST /api/auth/register. Administrator only.
func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.New(http.StatusBadRequest, "Name, email and a password of at least 8 characters are required", err))
		return
	}

	user, err := ac.service.Register(c.Request.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	apperrors.OK(c, http.StatusCreated, gin.H{"user": user})
}

// ForgotPassword handles POST /api/auth/forgot-password.
func (ac *AuthController) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.New(http.StatusBadRequest, "A valid email is required", err))
		return
	}

	token, err := ac.service.ForgotPassword(c.Request.Context(), req.Email)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	payload := gin.H{"message": "Password reset token generated"}
	if ac.exposeResetToken {
		payload["resetToken"] = token
	}
	apperrors.OK(c, http.StatusOK, payload)
}

// ResetPassword handles POST /api/auth/reset-password.
func (ac *AuthController) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.New(http.StatusBadRequest, "Token and a new password of at least 8 characters are required", err))
		return
	}

	if err := ac.service.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		apperrors.Respond(c, err)
		return
	}
	apperrors.OK(c, http.StatusOK, gin.H{"message": "Password has been reset"})
}
