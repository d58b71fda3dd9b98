package controllers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/refurbgear/storefront-backend/pkg/errors"
	"github.com/refurbgear/storefront-backend/services"
)

// allowedImageContentTypes bounds what the presigned PUT may upload.
var allowedImageContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// UploadServiceAPI is the service surface the upload controller depends on.
type UploadServiceAPI interface {
	PresignProductImage(ctx context.Context, productID uuid.UUID, filename, contentType string, expires time.Duration) (string, string, error)
}

type PresignRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	ExpiresIn   int    `json:"expires_in"`
}

type UploadController struct {
	service  UploadServiceAPI
	products ProductServiceAPI
}

func NewUploadController(service UploadServiceAPI, products ProductServiceAPI) *UploadController {
	return &UploadController{service: service, products: products}
}

// PresignProductImage handles POST /api/products/:id/images/presign. It
// verifies the product exists before issuing a direct-to-bucket upload URL.
func (uc *UploadController) PresignProductImage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperrors.Respond(c, apperrors.New(http.StatusBadRequest, "Invalid product id", err))
		return
	}

	var req PresignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.New(http.StatusBadRequest, "Filename and content_type are required", err))
		return
	}
	if !allowedImageContentTypes[req.ContentType] {
		apperrors.Respond(c, apperrors.New(http.StatusBadRequest,
			fmt.Sprintf("Content type %q is not an allowed image type", req.ContentType), nil))
		return
	}

	if _, err := uc.products.Get(c.Request.Context(), id); err != nil {
		apperrors.Respond(c, err)
		return
	}

	expires := time.Duration(req.ExpiresIn) * time.Second
	if expires <= 0 || expires > services.DefaultPresignExpiry {
		expires = services.DefaultPresignExpiry
	}
	uploadURL, key, err := uc.service.PresignProductImage(c.Request.Context(), id, req.Filename, req.ContentType, expires)
	if err != nil {
		apperrors.Respond(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	apperrors.OK(c, http.StatusOK, gin.H{
		"upload_url": uploadURL,
		"method":     http.MethodPut,
		"key":        key,
		"expires_in": strconv.Itoa(int(expires / time.Second)),
	})
}
