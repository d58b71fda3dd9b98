package controllers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/refurbgear/storefront-backend/models"
	apperrors "github.com/refurbgear/storefront-backend/pkg/errors"
)

type MockUserService struct{ mock.Mock }

func (m *MockUserService) List(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}
func (m *MockUserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *MockUserService) Update(ctx context.Context, id uuid.UUID, name, email, role string) (*models.User, error) {
	args := m.Called(ctx, id, name, email, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *MockUserService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockUserService) SetStatus(ctx context.Context, id uuid.UUID, status string) (*models.User, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func TestDeleteUserController(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Success - 200 OK", func(t *testing.T) {
		mockService := new(MockUserService)
		controller := NewUserController(mockService)

		id := uuid.New()
		mockService.On("Delete", mock.Anything, id).Return(nil).Once()

		router := gin.New()
		router.DELETE("/users/:id", controller.Delete)

		req, _ := http.NewRequest(http.MethodDelete, "/users/"+id.String(), nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Last Administrator - 400 Bad Request", func(t *testing.T) {
		mockService := new(MockUserService)
		controller := NewUserController(mockService)

		id := uuid.New()
		mockService.On("Delete", mock.Anything, id).Return(apperrors.ErrLastAdmin).Once()

		router := gin.New()
		router.DELETE("/users/:id", controller.Delete)

		req, _ := http.NewRequest(http.MethodDelete, "/users/"+id.String(), nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "Cannot delete the last administrator")
	})

	t.Run("Malformed ID - 400 Bad Request", func(t *testing.T) {
		mockService := new(MockUserService)
		controller := NewUserController(mockService)

		router := gin.New()
		router.DELETE("/users/:id", controller.Delete)

		req, _ := http.NewRequest(http.MethodDelete, "/users/not-a-uuid", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		mockService.AssertNotCalled(t, "Delete")
	})
}

func TestSetStatusController(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Deactivate - 200 OK", func(t *testing.T) {
		mockService := new(MockUserService)
		controller := NewUserController(mockService)

		id := uuid.New()
		updated := &models.User{ID: id, Status: models.StatusInactive}
		mockService.On("SetStatus", mock.Anything, id, "inactive").Return(updated, nil).Once()

		router := gin.New()
		router.PATCH("/users/:id/status", controller.SetStatus)

		req, _ := http.NewRequest(http.MethodPatch, "/users/"+id.String()+"/status", bytes.NewBufferString(`{"status": "inactive"}`))
		req.Header.Set("Content-Type", "application/json")
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "inactive")
		mockService.AssertExpectations(t)
	})

	t.Run("Last Active Administrator - 400 Bad Request", func(t *testing.T) {
		mockService := new(MockUserService)
		controller := NewUserController(mockService)

		id := uuid.New()
		mockService.On("SetStatus", mock.Anything, id, "inactive").Return(nil, apperrors.ErrLastActiveAdmin).Once()

		router := gin.New()
		router.PATCH("/users/:id/status", controller.SetStatus)

		req, _ := http.NewRequest(http.MethodPatch, "/users/"+id.String()+"/status", bytes.NewBufferString(`{"status": "inactive"}`))
		req.Header.Set("Content-Type", "application/json")
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "Cannot deactivate the last active administrator")
	})
}
