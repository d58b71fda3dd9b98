package controllers

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/refurbgear/storefront-backend/models"
	apperrors "github.com/refurbgear/storefront-backend/pkg/errors"
	"github.com/refurbgear/storefront-backend/services"
)

// ProductServiceAPI is the service surface the product controller depends on.
type ProductServiceAPI interface {
	List(ctx context.Context, params services.ListParams) ([]models.Product, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Summary(ctx context.Context, id uuid.UUID, currency string) (*services.ProductSummary, error)
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Update(ctx context.Context, id uuid.UUID, fields bson.M) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ProductRequest struct {
	Name           string               `json:"name" validate:"required"`
	Description    string               `json:"description"`
	SKU            string               `json:"sku" validate:"required"`
	Brand          string               `json:"brand"`
	Condition      string               `json:"condition"`
	Prices         map[string]float64   `json:"prices" validate:"required,min=1"`
	CategoryID     uuid.UUID            `json:"category_id" validate:"required"`
	Images         []string             `json:"images"`
	Stock          int                  `json:"stock" validate:"gte=0"`
	Specifications map[string]string    `json:"specifications"`
	IsFeatured     bool                 `json:"is_featured"`
	IsConfigurable bool                 `json:"is_configurable"`
	BaseBuildHours int                  `json:"base_build_hours" validate:"gte=0"`
	OptionGroups   []models.OptionGroup `json:"option_groups"`
	Warranty       *models.WarrantyInfo `json:"warranty"`
	Support        *models.SupportInfo  `json:"support"`
}

type ProductUpdateRequest struct {
	Name           *string              `json:"name"`
	Description    *string              `json:"description"`
	Brand          *string              `json:"brand"`
	Condition      *string              `json:"condition"`
	Prices         map[string]float64   `json:"prices"`
	CategoryID     *uuid.UUID           `json:"category_id"`
	Images         []string             `json:"images"`
	Stock          *int                 `json:"stock"`
	Specifications map[string]string    `json:"specifications"`
	IsFeatured     *bool                `json:"is_featured"`
	IsConfigurable *bool                `json:"is_configurable"`
	BaseBuildHours *int                 `json:"base_build_hours"`
	OptionGroups   []models.OptionGroup `json:"option_groups"`
	Warranty       *models.WarrantyInfo `json:"warranty"`
	Support        *models.SupportInfo  `json:"support"`
}

type ProductController struct {
	service ProductServiceAPI
	cache   *CacheManager
}

// NewProductController wires the catalog handlers. cache may be nil; lookups
// then always hit the database.
func NewProductController(service ProductServiceAPI, cache *CacheManager) *ProductController {
	return &ProductController{service: service, cache: cache}
}

// List handles GET /api/products with pagination and filtering.
func (pc *ProductController) List(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	perPage, err := strconv.Atoi(c.DefaultQuery("perPage", "10"))
	if err != nil || perPage <= 0 {
		perPage = 10
	}

	params := services.ListParams{
		Page:     page,
		PerPage:  perPage,
		Currency: c.DefaultQuery("currency", services.DefaultCurrency),
	}
	if raw := c.Query("category"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			apperrors.Respond(c, apperrors.New(http.StatusBadRequest, "Invalid category filter", err))
			return
		}
		params.CategoryID = &id
	}
	if raw := c.Query("minPrice"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			params.MinPrice = &v
		}
	}
	if raw := c.Query("maxPrice"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			params.MaxPrice = &v
		}
	}
	if raw := c.Query("featured"); raw != "" {
		v := raw == "true"
		params.Featured = &v
	}
	if raw := c.Query("configurable"); raw != "" {
		v := raw == "true"
		params.Configurable = &v
	}

	cacheKey := listCacheKey(params)
	if cached, ok := pc.cache.GetProductList(c.Request.Context(), cacheKey); ok {
		apperrors.OK(c, http.StatusOK, gin.H(cached))
		return
	}

	products, total, err := pc.service.List(c.Request.Context(), params)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	response := map[string]interface{}{
		"products": products,
		"meta": gin.H{
			"page":       page,
			"perPage":    perPage,
			"total":      total,
			"totalPages": int(math.Ceil(float64(total) / float64(perPage))),
		},
	}
	pc.cache.SetProductListAsync(cacheKey, response)
	apperrors.OK(c, http.StatusOK, gin.H(response))
}

// Get handles GET /api/products/:id.
func (pc *ProductController) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperrors.Respond(c, apperrors.New(http.StatusBadRequest, "Invalid product id", err))
		return
	}

	if cached, ok := pc.cache.GetProduct(c.Request.Context(), id.String()); ok {
		apperrors.OK(c, http.StatusOK, gin.H{"product": cached})
		return
	}

	product, err := pc.service.Get(c.Request.Context(), id)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	pc.cache.SetProductAsync(id.String(), product)
	apperrors.OK(c, http.StatusOK, gin.H{"product": product})
}

// Summary handles GET /api/products/:id/summary, the flat product shape.
func (pc *ProductController) Summary(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperrors.Respond(c, apperrors.New(http.StatusBadRequest, "Invalid product id", err))
		return
	}

	summary, err := pc.service.Summary(c.Request.Context(), id, c.Query("currency"))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	apperrors.OK(c, http.StatusOK, gin.H{"product": summary})
}

// Create handles POST /api/products.
func (pc *ProductController) Create(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.New(http.StatusBadRequest, "Invalid product payload", err))
		return
	}
	if err := validate.Struct(&req); err != nil {
		apperrors.Respond(c, apperrors.New(http.StatusBadRequest, validationMessage(err), err))
		return
	}

	product := &models.Product{
		Name:           req.Name,
		Description:    req.Description,
		SKU:            req.SKU,
		Brand:          req.Brand,
		Condition:      req.Condition,
		Prices:         req.Prices,
		CategoryID:     req.CategoryID,
		Images:         req.Images,
		Stock:          req.Stock,
		Specifications: req.Specifications,
		IsFeatured:     req.IsFeatured,
		IsConfigurable: req.IsConfigurable,
		BaseBuildHours: req.BaseBuildHours,
		OptionGroups:   req.OptionGroups,
		Warranty:       req.Warranty,
		Support:        req.Support,
	}
	created, err := pc.service.Create(c.Request.Context(), product)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	pc.cache.InvalidateProduct(c.Request.Context(), created.ID.String())
	apperrors.OK(c, http.StatusCreated, gin.H{"product": created})
}

// Update handles PATCH /api/products/:id with a partial update.
func (pc *ProductController) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperrors.Respond(c, apperrors.New(http.StatusBadRequest, "Invalid product id", err))
		return
	}

	var req ProductUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.New(http.StatusBadRequest, "Invalid product payload", err))
		return
	}

	fields := bson.M{}
	setIf(fields, "name", req.Name)
	setIf(fields, "description", req.Description)
	setIf(fields, "brand", req.Brand)
	setIf(fields, "condition", req.Condition)
	setIf(fields, "stock", req.Stock)
	setIf(fields, "is_featured", req.IsFeatured)
	setIf(fields, "is_configurable", req.IsConfigurable)
	setIf(fields, "base_build_hours", req.BaseBuildHours)
	if req.Prices != nil {
		fields["prices"] = req.Prices
	}
	if req.CategoryID != nil {
		fields["category_id"] = *req.CategoryID
	}
	if req.Images != nil {
		fields["images"] = req.Images
	}
	if req.Specifications != nil {
		fields["specifications"] = req.Specifications
	}
	if req.OptionGroups != nil {
		fields["option_groups"] = req.OptionGroups
	}
	if req.Warranty != nil {
		fields["warranty"] = req.Warranty
	}
	if req.Support != nil {
		fields["support"] = req.Support
	}
	if len(fields) == 0 {
		apperrors.Respond(c, apperrors.New(http.StatusBadRequest, "No updatable fields in payload", nil))
		return
	}

	product, err := pc.service.Update(c.Request.Context(), id, fields)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	pc.cache.InvalidateProduct(c.Request.Context(), id.String())
	apperrors.OK(c, http.StatusOK, gin.H{"product": product})
}

// Delete handles DELETE /api/products/:id.
func (pc *ProductController) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperrors.Respond(c, apperrors.New(http.StatusBadRequest, "Invalid product id", err))
		return
	}

	if err := pc.service.Delete(c.Request.Context(), id); err != nil {
		apperrors.Respond(c, err)
		return
	}
	pc.cache.InvalidateProduct(c.Request.Context(), id.String())
	apperrors.OK(c, http.StatusOK, gin.H{"message": "Product deleted"})
}

func listCacheKey(p services.ListParams) string {
	category := ""
	if p.CategoryID != nil {
		category = p.CategoryID.String()
	}
	return fmt.Sprintf("p:%d:l:%d:c:%s:cur:%s:min:%s:max:%s:f:%s:cf:%s",
		p.Page, p.PerPage, category, p.Currency,
		formatFloatPtr(p.MinPrice), formatFloatPtr(p.MaxPrice),
		formatBoolPtr(p.Featured), formatBoolPtr(p.Configurable))
}

func formatFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatBoolPtr(v *bool) string {
	if v == nil {
		return ""
	}
	return strconv.FormatBool(*v)
}

func setIf[T any](fields bson.M, key string, value *T) {
	if value != nil {
		fields[key] = *value
	}
}
