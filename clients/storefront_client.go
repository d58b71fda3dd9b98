// Package clients provides a typed client for the storefront REST API, used
// by the server-rendered frontend's data fetchers.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/refurbgear/storefront-backend/models"
	"github.com/refurbgear/storefront-backend/services"
)

// StorefrontClient wraps the backend REST surface. It is safe for concurrent
// use; WithToken returns a shallow copy carrying the bearer token.
type StorefrontClient struct {
	baseURL string
	client  *http.Client
	token   string
}

func NewStorefrontClient(baseURL string, timeout time.Duration) *StorefrontClient {
	return &StorefrontClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// WithToken returns a copy of the client that authenticates as the given
// session token.
func (sc *StorefrontClient) WithToken(token string) *StorefrontClient {
	clone := *sc
	clone.token = token
	return &clone
}

// APIError is a failure envelope returned by the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("storefront api: %s (status %d)", e.Message, e.StatusCode)
}

// ListMeta is the pagination block of listing responses.
type ListMeta struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"perPage"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// ProductListParams filter a catalog listing request.
type ProductListParams struct {
	Page         int
	PerPage      int
	CategoryID   *uuid.UUID
	Featured     *bool
	Configurable *bool
	Currency     string
}

// QuoteResult is the acknowledgment of an accepted configuration submission.
type QuoteResult struct {
	ID                    uuid.UUID `json:"id"`
	EstimatedDeliveryDays int       `json:"estimated_delivery_days"`
	TotalPrice            float64   `json:"total_price"`
	Currency              string    `json:"currency"`
}

// SubmitConfigurationRequest mirrors the POST /api/configurations payload.
type SubmitConfigurationRequest struct {
	ProductID         uuid.UUID           `json:"product_id"`
	Selections        map[string]string   `json:"selections"`
	WarrantyUpgradeID string              `json:"warranty_upgrade_id,omitempty"`
	SupportUpgradeID  string              `json:"support_upgrade_id,omitempty"`
	Currency          string              `json:"currency,omitempty"`
	Contact           models.QuoteContact `json:"contact"`
}

// Login authenticates and returns the session token plus the public user.
func (sc *StorefrontClient) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	body := map[string]string{"email": email, "password": password}
	var out struct {
		Token string       `json:"token"`
		User  *models.User `json:"user"`
	}
	if err := sc.doJSON(ctx, http.MethodPost, "/api/auth/login", nil, body, &out); err != nil {
		return "", nil, err
	}
	return out.Token, out.User, nil
}

// Me returns the user the client's token belongs to.
func (sc *StorefrontClient) Me(ctx context.Context) (*models.User, error) {
	var out struct {
		User *models.User `json:"user"`
	}
	if err := sc.doJSON(ctx, http.MethodGet, "/api/auth/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// ListProducts fetches one catalog page.
func (sc *StorefrontClient) ListProducts(ctx context.Context, params ProductListParams) ([]models.Product, *ListMeta, error) {
	query := url.Values{}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.PerPage > 0 {
		query.Set("perPage", strconv.Itoa(params.PerPage))
	}
	if params.CategoryID != nil {
		query.Set("category", params.CategoryID.String())
	}
	if params.Featured != nil {
		query.Set("featured", strconv.FormatBool(*params.Featured))
	}
	if params.Configurable != nil {
		query.Set("configurable", strconv.FormatBool(*params.Configurable))
	}
	if params.Currency != "" {
		query.Set("currency", params.Currency)
	}

	var out struct {
		Products []models.Product `json:"products"`
		Meta     *ListMeta        `json:"meta"`
	}
	if err := sc.doJSON(ctx, http.MethodGet, "/api/products", query, nil, &out); err != nil {
		return nil, nil, err
	}
	return out.Products, out.Meta, nil
}

// GetProduct fetches one full catalog record.
func (sc *StorefrontClient) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var out struct {
		Product *models.Product `json:"product"`
	}
	if err := sc.doJSON(ctx, http.MethodGet, "/api/products/"+id.String(), nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Product, nil
}

// GetProductSummary fetches the flat product shape.
func (sc *StorefrontClient) GetProductSummary(ctx context.Context, id uuid.UUID, currency string) (*services.ProductSummary, error) {
	query := url.Values{}
	if currency != "" {
		query.Set("currency", currency)
	}
	var out struct {
		Product *services.ProductSummary `json:"product"`
	}
	if err := sc.doJSON(ctx, http.MethodGet, "/api/products/"+id.String()+"/summary", query, nil, &out); err != nil {
		return nil, err
	}
	return out.Product, nil
}

// ListCategories fetches the category tree, ordered by level then sort order.
func (sc *StorefrontClient) ListCategories(ctx context.Context) ([]models.Category, error) {
	var out struct {
		Categories []models.Category `json:"categories"`
	}
	if err := sc.doJSON(ctx, http.MethodGet, "/api/categories", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Categories, nil
}

// SubmitConfiguration submits a built configuration as a quote.
func (sc *StorefrontClient) SubmitConfiguration(ctx context.Context, req SubmitConfigurationRequest) (*QuoteResult, error) {
	var out QuoteResult
	if err := sc.doJSON(ctx, http.MethodPost, "/api/configurations", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// doJSON performs one request and decodes the success envelope into out. A
// failure envelope or non-2xx status comes back as an *APIError.
func (sc *StorefrontClient) doJSON(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	u := sc.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sc.token != "" {
		req.Header.Set("Authorization", "Bearer "+sc.token)
	}

	resp, err := sc.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var envelope struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: "unexpected response body"}
	}
	if !envelope.Success {
		return &APIError{StatusCode: resp.StatusCode, Message: envelope.Message}
	}

	if out != nil {
		return json.Unmarshal(raw, out)
	}
	return nil
}
