package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/refurbgear/storefront-backend/models"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *StorefrontClient) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server, NewStorefrontClient(server.URL, 5*time.Second)
}

func TestClientLogin(t *testing.T) {
	userID := uuid.New()

	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "admin@example.com", body["email"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"token":   "session-token",
			"user":    map[string]interface{}{"id": userID, "email": "admin@example.com", "role": "administrator"},
		})
	})

	token, user, err := client.Login(context.Background(), "admin@example.com", "password123")

	assert.NoError(t, err)
	assert.Equal(t, "session-token", token)
	assert.Equal(t, userID, user.ID)
	assert.Equal(t, models.RoleAdministrator, user.Role)
}

func TestClientFailureEnvelope(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "Invalid email or password",
		})
	})

	_, _, err := client.Login(context.Background(), "admin@example.com", "wrongpassword")

	var apiErr *APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Invalid email or password", apiErr.Message)
}

func TestClientListProducts(t *testing.T) {
	categoryID := uuid.New()
	featured := true

	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products", r.URL.Path)
		query := r.URL.Query()
		assert.Equal(t, "2", query.Get("page"))
		assert.Equal(t, "12", query.Get("perPage"))
		assert.Equal(t, categoryID.String(), query.Get("category"))
		assert.Equal(t, "true", query.Get("featured"))
		assert.Equal(t, "EUR", query.Get("currency"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"products": []map[string]interface{}{
				{"id": uuid.New(), "name": "PowerEdge R740", "prices": map[string]float64{"EUR": 920}},
			},
			"meta": map[string]interface{}{"page": 2, "perPage": 12, "total": 13, "totalPages": 2},
		})
	})

	products, meta, err := client.ListProducts(context.Background(), ProductListParams{
		Page:       2,
		PerPage:    12,
		CategoryID: &categoryID,
		Featured:   &featured,
		Currency:   "EUR",
	})

	assert.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, "PowerEdge R740", products[0].Name)
	assert.Equal(t, int64(13), meta.Total)
	assert.Equal(t, 2, meta.TotalPages)
}

func TestClientBearerToken(t *testing.T) {
	userID := uuid.New()

	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer session-token", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"user":    map[string]interface{}{"id": userID},
		})
	})

	user, err := client.WithToken("session-token").Me(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, userID, user.ID)
}

func TestClientSubmitConfiguration(t *testing.T) {
	productID := uuid.New()
	quoteID := uuid.New()

	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/configurations", r.URL.Path)

		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, productID.String(), body["product_id"])

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":                 true,
			"id":                      quoteID,
			"estimated_delivery_days": 9,
			"total_price":             1200.0,
			"currency":                "USD",
		})
	})

	result, err := client.SubmitConfiguration(context.Background(), SubmitConfigurationRequest{
		ProductID:  productID,
		Selections: map[string]string{"processor": "xeon-4214"},
		Contact:    models.QuoteContact{Name: "Jordan Li", Email: "jordan@example.com"},
	})

	assert.NoError(t, err)
	assert.Equal(t, quoteID, result.ID)
	assert.Equal(t, 9, result.EstimatedDeliveryDays)
	assert.Equal(t, 1200.0, result.TotalPrice)
}

func TestClientNonJSONResponse(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream timeout"))
	})

	_, err := client.ListCategories(context.Background())

	var apiErr *APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
}
