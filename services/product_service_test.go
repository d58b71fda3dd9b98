package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/refurbgear/storefront-backend/models"
	apperrors "github.com/refurbgear/storefront-backend/pkg/errors"
)

type MockProductRepository struct{ mock.Mock }

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}
func (m *MockProductRepository) Find(ctx context.Context, filter bson.M, findOptions *options.FindOptions) ([]models.Product, error) {
	args := m.Called(ctx, filter, findOptions)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}
func (m *MockProductRepository) Count(ctx context.Context, filter bson.M) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}
func (m *MockProductRepository) Update(ctx context.Context, id uuid.UUID, fields bson.M) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}
func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func seedCategory(repo *fakeCategoryRepo) *models.Category {
	category := &models.Category{ID: uuid.New(), Name: "Servers", Slug: "servers", Path: []string{"servers"}}
	repo.categories[category.ID] = category
	return category
}

func TestProductList(t *testing.T) {
	ctx := context.Background()

	t.Run("Filters Reach The Repository", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		svc := NewProductService(mockRepo, newFakeCategoryRepo())

		categoryID := uuid.New()
		minPrice, maxPrice := 500.0, 2000.0
		featured := true

		expectedFilter := bson.M{
			"category_id": categoryID,
			"is_featured": true,
			"prices.EUR":  bson.M{"$gte": 500.0, "$lte": 2000.0},
		}
		mockRepo.On("Find", ctx, expectedFilter, mock.Anything).Return([]models.Product{{Name: "R740"}}, nil).Once()
		mockRepo.On("Count", ctx, mock.Anything).Return(int64(1), nil).Once()

		products, total, err := svc.List(ctx, ListParams{
			CategoryID: &categoryID,
			MinPrice:   &minPrice,
			MaxPrice:   &maxPrice,
			Featured:   &featured,
			Currency:   "EUR",
		})

		assert.NoError(t, err)
		assert.Len(t, products, 1)
		assert.Equal(t, int64(1), total)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Defaults Page And Size", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		svc := NewProductService(mockRepo, newFakeCategoryRepo())

		mockRepo.On("Find", ctx, bson.M{}, mock.MatchedBy(func(o *options.FindOptions) bool {
			return o.Skip != nil && *o.Skip == 0 && o.Limit != nil && *o.Limit == 10
		})).Return([]models.Product{}, nil).Once()
		mockRepo.On("Count", ctx, mock.Anything).Return(int64(0), nil).Once()

		_, _, err := svc.List(ctx, ListParams{})

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})
}

func TestProductSummary(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockProductRepository)
	svc := NewProductService(mockRepo, newFakeCategoryRepo())

	product := &models.Product{
		ID:     uuid.New(),
		Name:   "PowerEdge R740",
		Prices: map[string]float64{"USD": 1000, "EUR": 920},
		Stock:  4,
	}
	mockRepo.On("FindByID", ctx, product.ID).Return(product, nil)

	t.Run("Default Currency", func(t *testing.T) {
		summary, err := svc.Summary(ctx, product.ID, "")
		assert.NoError(t, err)
		assert.Equal(t, 1000.0, summary.Price)
		assert.Equal(t, 4, summary.Stock)
	})

	t.Run("Requested Currency", func(t *testing.T) {
		summary, err := svc.Summary(ctx, product.ID, "EUR")
		assert.NoError(t, err)
		assert.Equal(t, 920.0, summary.Price)
	})
}

func TestProductCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		categories := newFakeCategoryRepo()
		category := seedCategory(categories)
		svc := NewProductService(mockRepo, categories)

		mockRepo.On("Create", ctx, mock.Anything).Return(nil).Once()

		created, err := svc.Create(ctx, &models.Product{Name: "R740", CategoryID: category.ID})

		assert.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, created.ID)
		assert.False(t, created.CreatedAt.IsZero())
		mockRepo.AssertExpectations(t)
	})

	t.Run("Unknown Category", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		svc := NewProductService(mockRepo, newFakeCategoryRepo())

		_, err := svc.Create(ctx, &models.Product{Name: "R740", CategoryID: uuid.New()})

		assert.ErrorIs(t, err, apperrors.ErrCategoryNotFound)
		mockRepo.AssertNotCalled(t, "Create")
	})
}

func TestProductUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("Category Change Is Checked", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		svc := NewProductService(mockRepo, newFakeCategoryRepo())

		_, err := svc.Update(ctx, uuid.New(), bson.M{"category_id": uuid.New()})

		assert.ErrorIs(t, err, apperrors.ErrCategoryNotFound)
		mockRepo.AssertNotCalled(t, "Update")
	})

	t.Run("Unknown Product", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		svc := NewProductService(mockRepo, newFakeCategoryRepo())

		id := uuid.New()
		mockRepo.On("Update", ctx, id, mock.Anything).Return(mongo.ErrNoDocuments).Once()

		_, err := svc.Update(ctx, id, bson.M{"name": "Renamed"})

		assert.ErrorIs(t, err, apperrors.ErrProductNotFound)
	})
}

func TestProductDelete(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockProductRepository)
	svc := NewProductService(mockRepo, newFakeCategoryRepo())

	id := uuid.New()
	mockRepo.On("Delete", ctx, id).Return(mongo.ErrNoDocuments).Once()

	assert.ErrorIs(t, svc.Delete(ctx, id), apperrors.ErrProductNotFound)
}
