package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/refurbgear/storefront-backend/models"
	apperrors "github.com/refurbgear/storefront-backend/pkg/errors"
)

// CategoryRepository is the persistence surface the category service needs.
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	FindAll(ctx context.Context) ([]models.Category, error)
	FindByParent(ctx context.Context, parentID uuid.UUID) ([]models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, id uuid.UUID, fields bson.M) error
	Delete(ctx context.Context, id uuid.UUID) error
	AddChild(ctx context.Context, parentID, childID uuid.UUID) error
	RemoveChild(ctx context.Context, parentID, childID uuid.UUID) error
}

// ProductCounter reports how many products remain in a category. Used by the
// delete guard.
type ProductCounter interface {
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)
}

// CategoryInput carries the writable category fields.
type CategoryInput struct {
	Name       string
	Slug       string
	ParentID   *uuid.UUID
	IsActive   bool
	SortOrder  int
	Metadata   map[string]interface{}
	SpecFields []models.SpecField
	Filters    []models.FilterDefinition
}

type CategoryService struct {
	repo     CategoryRepository
	products ProductCounter
}

func NewCategoryService(repo CategoryRepository, products ProductCounter) *CategoryService {
	return &CategoryService{repo: repo, products: products}
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	categories, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

func (s *CategoryService) Get(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return category, nil
}

// Create inserts a category with its materialized path and level. Roots get
// level 0 and path [slug]; children extend the parent's path by one hop.
func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*models.Category, error) {
	if err := s.checkSlugFree(ctx, in.Slug); err != nil {
		return nil, err
	}

	level, path, err := s.materialize(ctx, in.ParentID, in.Slug)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	category := &models.Category{
		ID:         uuid.New(),
		Name:       in.Name,
		Slug:       in.Slug,
		ParentID:   in.ParentID,
		Level:      level,
		Path:       path,
		Children:   []uuid.UUID{},
		IsActive:   in.IsActive,
		SortOrder:  in.SortOrder,
		Metadata:   in.Metadata,
		SpecFields: in.SpecFields,
		Filters:    in.Filters,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Create(ctx, category); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperrors.ErrDuplicateSlug
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if in.ParentID != nil {
		if err := s.repo.AddChild(ctx, *in.ParentID, category.ID); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return category, nil
}

// Update rewrites the writable fields. When the slug or parent changes, the
// path and level are recomputed and propagated to every descendant so their
// materialized paths never go stale.
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, in CategoryInput) (*models.Category, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	slugChanged := in.Slug != current.Slug
	parentChanged := !sameParent(in.ParentID, current.ParentID)

	if slugChanged {
		if err := s.checkSlugFree(ctx, in.Slug); err != nil {
			return nil, err
		}
	}

	fields := bson.M{
		"name":        in.Name,
		"slug":        in.Slug,
		"is_active":   in.IsActive,
		"sort_order":  in.SortOrder,
		"metadata":    in.Metadata,
		"spec_fields": in.SpecFields,
		"filters":     in.Filters,
	}

	level, path := current.Level, current.Path
	if slugChanged || parentChanged {
		if in.ParentID != nil {
			if *in.ParentID == id {
				return nil, apperrors.ErrCategoryCycle
			}
			parent, err := s.repo.FindByID(ctx, *in.ParentID)
			if err != nil {
				if err == mongo.ErrNoDocuments {
					return nil, apperrors.ErrParentNotFound
				}
				return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			// A parent whose path already runs through this category would
			// create a cycle.
			if len(parent.Path) > current.Level && parent.Path[current.Level] == current.Slug {
				return nil, apperrors.ErrCategoryCycle
			}
			level = parent.Level + 1
			path = append(append([]string{}, parent.Path...), in.Slug)
		} else {
			level = 0
			path = []string{in.Slug}
		}
		fields["level"] = level
		fields["path"] = path
		fields["parent_id"] = in.ParentID
	}

	if err := s.repo.Update(ctx, id, fields); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if parentChanged {
		if current.ParentID != nil {
			if err := s.repo.RemoveChild(ctx, *current.ParentID, id); err != nil {
				return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		if in.ParentID != nil {
			if err := s.repo.AddChild(ctx, *in.ParentID, id); err != nil {
				return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
	}

	updated := *current
	updated.Name, updated.Slug, updated.ParentID = in.Name, in.Slug, in.ParentID
	updated.Level, updated.Path = level, path
	updated.IsActive, updated.SortOrder = in.IsActive, in.SortOrder
	updated.Metadata, updated.SpecFields, updated.Filters = in.Metadata, in.SpecFields, in.Filters

	if slugChanged || parentChanged {
		if err := s.recomputeDescendants(ctx, &updated); err != nil {
			return nil, err
		}
	}
	return &updated, nil
}

// Delete removes a leaf category. Categories with children or with products
// still assigned must be emptied first.
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	category, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	children, err := s.repo.FindByParent(ctx, id)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(children) > 0 {
		return apperrors.ErrCategoryHasChildren
	}

	count, err := s.products.CountByCategory(ctx, id)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.ErrCategoryHasProducts
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if category.ParentID != nil {
		if err := s.repo.RemoveChild(ctx, *category.ParentID, id); err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return nil
}

func (s *CategoryService) checkSlugFree(ctx context.Context, slug string) error {
	_, err := s.repo.FindBySlug(ctx, slug)
	if err == nil {
		return apperrors.ErrDuplicateSlug
	}
	if err != mongo.ErrNoDocuments {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *CategoryService) materialize(ctx context.Context, parentID *uuid.UUID, slug string) (int, []string, error) {
	if parentID == nil {
		return 0, []string{slug}, nil
	}
	parent, err := s.repo.FindByID(ctx, *parentID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, nil, apperrors.ErrParentNotFound
		}
		return 0, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	path := append(append([]string{}, parent.Path...), slug)
	return parent.Level + 1, path, nil
}

// recomputeDescendants walks the subtree below parent and rewrites each
// child's path and level from the parent's fresh values.
func (s *CategoryService) recomputeDescendants(ctx context.Context, parent *models.Category) error {
	children, err := s.repo.FindByParent(ctx, parent.ID)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for i := range children {
		child := children[i]
		child.Level = parent.Level + 1
		child.Path = append(append([]string{}, parent.Path...), child.Slug)
		fields := bson.M{"level": child.Level, "path": child.Path}
		if err := s.repo.Update(ctx, child.ID, fields); err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := s.recomputeDescendants(ctx, &child); err != nil {
			return err
		}
	}
	return nil
}

func sameParent(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
