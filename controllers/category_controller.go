package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/refurbgear/storefront-backend/models"
	apperrors "github.com/refurbgear/storefront-backend/pkg/errors"
	"github.com/refurbgear/storefront-backend/services"
)

// CategoryServiceAPI is the service surface the category controller depends on.
type CategoryServiceAPI interface {
	List(ctx context.Context) ([]models.Category, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Category, error)
	Create(ctx context.Context, in services.CategoryInput) (*models.Category, error)
	Update(ctx context.Context, id uuid.UUID, in services.CategoryInput) (*models.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CategoryRequest struct {
	Name       string                    `json:"name" binding:"required"`
	Slug       string                    `json:"slug" binding:"required"`
	ParentID   *uuid.UUID                `json:"parent_id"`
	IsActive   bool                      `json:"is_active"`
	SortOrder  int                       `json:"sort_order"`
	Metadata   map[string]interface{}    `json:"metadata"`
	SpecFields []models.SpecField        `json:"spec_fields"`
	Filters    []models.FilterDefinition `json:"filters"`
}

func (r *CategoryRequest) toInput() services.CategoryInput {
	return services.CategoryInput{
		Name:       r.Name,
		Slug:       strings.ToLower(strings.TrimSpace(r.Slug)),
		ParentID:   r.ParentID,
		IsActive:   r.IsActive,
		SortOrder:  r.SortOrder,
		Metadata:   r.Metadata,
		SpecFields: r.SpecFields,
		Filters:    r.Filters,
	}
}

type CategoryController struct {
	service CategoryServiceAPI
}

func NewCategoryController(service CategoryServiceAPI) *CategoryController {
	return &CategoryController{service: service}
}

// List handles GET /api/categories.
func (cc *CategoryController) List(c *gin.Context) {
	categories, err := cc.service.List(c.Request.Context())
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	apperrors.OK(c, http.StatusOK, gin.H{"categories": categories, "count": len(categories)})
}

// Get handles GET /api/categories/:id.
func (cc *CategoryController) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperrors.Respond(c, apperrors.New(http.StatusBadRequest, "Invalid category id", err))
		return
	}

	category, err := cc.service.Get(c.Request.Context(), id)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	apperrors.OK(c, http.StatusOK, gin.H{"category": category})
}

// Create handles POST /api/categories.
func (cc *CategoryController) Create(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.New(http.StatusBadRequest, "Name and slug are required", err))
		return
	}

	category, err := cc.service.Create(c.Request.Context(), req.toInput())
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	apperrors.OK(c, http.StatusCreated, gin.H{"category": category})
}

// Update handles PUT /api/categories/:id.
func (cc *CategoryController) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperrors.Respond(c, apperrors.New(http.StatusBadRequest, "Invalid category id", err))
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.New(http.StatusBadRequest, "Name and slug are required", err))
		return
	}

	category, err := cc.service.Update(c.Request.Context(), id, req.toInput())
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	apperrors.OK(c, http.StatusOK, gin.H{"category": category})
}

// Delete handles DELETE /api/categories/:id.
func (cc *CategoryController) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperrors.Respond(c, apperrors.New(http.StatusBadRequest, "Invalid category id", err))
		return
	}

	if err := cc.service.Delete(c.Request.Context(), id); err != nil {
		apperrors.Respond(c, err)
		return
	}
	apperrors.OK(c, http.StatusOK, gin.H{"message": "Category deleted"})
}
