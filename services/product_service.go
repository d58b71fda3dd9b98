package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/refurbgear/storefront-backend/models"
	apperrors "github.com/refurbgear/storefront-backend/pkg/errors"
)

// ProductRepository is the persistence surface the product service needs.
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Find(ctx context.Context, filter bson.M, findOptions *options.FindOptions) ([]models.Product, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, id uuid.UUID, fields bson.M) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ListParams are the catalog listing filters. Price bounds apply to the
// price in Currency.
type ListParams struct {
	Page         int
	PerPage      int
	CategoryID   *uuid.UUID
	MinPrice     *float64
	MaxPrice     *float64
	Featured     *bool
	Configurable *bool
	Currency     string
}

// ProductSummary is the flat product shape used by internal callers.
type ProductSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Price float64   `json:"price"`
	Stock int       `json:"stock"`
}

type ProductService struct {
	repo       ProductRepository
	categories CategoryRepository
}

func NewProductService(repo ProductRepository, categories CategoryRepository) *ProductService {
	return &ProductService{repo: repo, categories: categories}
}

// List returns one page of products plus the unpaginated total.
func (s *ProductService) List(ctx context.Context, params ListParams) ([]models.Product, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PerPage <= 0 {
		params.PerPage = 10
	}
	currency := params.Currency
	if currency == "" {
		currency = DefaultCurrency
	}

	filter := bson.M{}
	if params.CategoryID != nil {
		filter["category_id"] = *params.CategoryID
	}
	if params.Featured != nil {
		filter["is_featured"] = *params.Featured
	}
	if params.Configurable != nil {
		filter["is_configurable"] = *params.Configurable
	}
	if params.MinPrice != nil || params.MaxPrice != nil {
		price := bson.M{}
		if params.MinPrice != nil {
			price["$gte"] = *params.MinPrice
		}
		if params.MaxPrice != nil {
			price["$lte"] = *params.MaxPrice
		}
		filter["prices."+currency] = price
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((params.Page - 1) * params.PerPage)).
		SetLimit(int64(params.PerPage))

	products, err := s.repo.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// Count rebuilds the filter because the repository mutates it.
	countFilter := bson.M{}
	for k, v := range filter {
		if k != "deleted_at" {
			countFilter[k] = v
		}
	}
	total, err := s.repo.Count(ctx, countFilter)
	if err != nil {
		return nil, 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return products, total, nil
}

func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return product, nil
}

// Summary returns the flat shape used by the storefront listing widgets and
// internal service callers.
func (s *ProductService) Summary(ctx context.Context, id uuid.UUID, currency string) (*ProductSummary, error) {
	if currency == "" {
		currency = DefaultCurrency
	}
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ProductSummary{
		ID:    product.ID,
		Name:  product.Name,
		Price: product.Prices[currency],
		Stock: product.Stock,
	}, nil
}

// Create inserts a new catalog record after checking the category exists.
func (s *ProductService) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if _, err := s.categories.FindByID(ctx, product.CategoryID); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	now := time.Now().UTC()
	product.ID = uuid.New()
	product.CreatedAt = now
	product.UpdatedAt = now
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return product, nil
}

// Update applies a whitelisted partial update.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, fields bson.M) (*models.Product, error) {
	if categoryID, ok := fields["category_id"].(uuid.UUID); ok {
		if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
			if err == mongo.ErrNoDocuments {
				return nil, apperrors.ErrCategoryNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	if err := s.repo.Update(ctx, id, fields); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.Get(ctx, id)
}

func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if err == mongo.ErrNoDocuments {
			return apperrors.ErrProductNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
