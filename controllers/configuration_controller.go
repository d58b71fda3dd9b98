package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/refurbgear/storefront-backend/models"
	apperrors "github.com/refurbgear/storefront-backend/pkg/errors"
	"github.com/refurbgear/storefront-backend/services"
)

// ConfigurationServiceAPI is the service surface the configuration controller
// depends on.
type ConfigurationServiceAPI interface {
	Submit(ctx context.Context, req services.SubmitRequest) (*models.Quote, []services.Violation, error)
	GetQuote(ctx context.Context, id uuid.UUID) (*models.Quote, error)
}

type SubmitConfigurationRequest struct {
	ProductID         uuid.UUID           `json:"product_id" binding:"required"`
	Selections        map[string]string   `json:"selections"`
	WarrantyUpgradeID string              `json:"warranty_upgrade_id"`
	SupportUpgradeID  string              `json:"support_upgrade_id"`
	Currency          string              `json:"currency"`
	Contact           models.QuoteContact `json:"contact"`
}

type ConfigurationController struct {
	service ConfigurationServiceAPI
}

func NewConfigurationController(service ConfigurationServiceAPI) *ConfigurationController {
	return &ConfigurationController{service: service}
}

// Submit handles POST /api/configurations. Invalid submissions return every
// violation at once so the builder UI can annotate each field.
func (qc *ConfigurationController) Submit(c *gin.Context) {
	var req SubmitConfigurationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.New(http.StatusBadRequest, "A product id is required", err))
		return
	}

	quote, violations, err := qc.service.Submit(c.Request.Context(), services.SubmitRequest{
		ProductID:         req.ProductID,
		Selections:        req.Selections,
		WarrantyUpgradeID: req.WarrantyUpgradeID,
		SupportUpgradeID:  req.SupportUpgradeID,
		Currency:          req.Currency,
		Contact:           req.Contact,
	})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	if len(violations) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success":    false,
			"message":    "Configuration is not valid",
			"violations": violations,
		})
		return
	}

	apperrors.OK(c, http.StatusCreated, gin.H{
		"id":                      quote.ID,
		"estimated_delivery_days": quote.EstimatedDeliveryDays,
		"total_price":             quote.TotalPrice,
		"currency":                quote.Currency,
	})
}

// Get handles GET /api/configurations/:id. Back office only.
func (qc *ConfigurationController) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperrors.Respond(c, apperrors.New(http.StatusBadRequest, "Invalid quote id", err))
		return
	}

	quote, err := qc.service.GetQuote(c.Request.Context(), id)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	apperrors.OK(c, http.StatusOK, gin.H{"quote": quote})
}
