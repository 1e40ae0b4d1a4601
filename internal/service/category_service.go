package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mineart/internal/domain"
	"mineart/internal/media"
	"mineart/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	ErrMissingFields = errors.New("all fields are required")
)

// TxRunner runs a function inside a database transaction. The cascading
// category delete is the only caller; everything else is single-document.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// CategoryInput is the payload for creating a category. Every field is
// mandatory.
type CategoryInput struct {
	Name        string
	Description string
	Image       domain.ImageRef
}

// CategoryUpdate is the payload for editing a category. A nil Image keeps
// the existing hosted image.
type CategoryUpdate struct {
	Name        string
	Description string
	Image       *domain.ImageRef
}

// CategoryService defines the business logic for category management
type CategoryService interface {
	List(ctx context.Context, page int) ([]*domain.Category, int64, error)
	Get(ctx context.Context, id primitive.ObjectID) (*domain.Category, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, input CategoryInput) (*domain.Category, error)
	Update(ctx context.Context, id primitive.ObjectID, input CategoryUpdate) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type categoryService struct {
	categories repository.CategoryRepository
	products   repository.ProductRepository
	media      media.Store
	tx         TxRunner
	logger     *zap.Logger
}

// NewCategoryService creates a new instance of CategoryService
func NewCategoryService(
	categories repository.CategoryRepository,
	products repository.ProductRepository,
	mediaStore media.Store,
	tx TxRunner,
	logger *zap.Logger,
) CategoryService {
	return &categoryService{
		categories: categories,
		products:   products,
		media:      mediaStore,
		tx:         tx,
		logger:     logger,
	}
}

// List returns one page of categories and the page-independent total count
func (s *categoryService) List(ctx context.Context, page int) ([]*domain.Category, int64, error) {
	categories, total, err := s.categories.List(ctx, page, PageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, total, nil
}

// Get returns a single category
func (s *categoryService) Get(ctx context.Context, id primitive.ObjectID) (*domain.Category, error) {
	return s.categories.FindByID(ctx, id)
}

// Count returns the total number of categories
func (s *categoryService) Count(ctx context.Context) (int64, error) {
	return s.categories.Count(ctx)
}

// Create validates the input and inserts a new category with a slug derived
// from its name. Validation fails before anything is persisted.
func (s *categoryService) Create(ctx context.Context, input CategoryInput) (*domain.Category, error) {
	if strings.TrimSpace(input.Name) == "" ||
		strings.TrimSpace(input.Description) == "" ||
		input.Image.ID == "" {
		return nil, ErrMissingFields
	}

	category := &domain.Category{
		Name:        input.Name,
		Slug:        domain.Slugify(input.Name),
		Image:       input.Image,
		Description: input.Description,
	}

	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}

	s.logger.Info("Category created",
		zap.String("category_id", category.ID.Hex()),
		zap.String("slug", category.Slug),
	)

	return category, nil
}

// Update overwrites name and description unconditionally, regenerates the
// slug when the name changed, and swaps the hosted image only when a new
// image with a different id was supplied (destroying the old one first).
func (s *categoryService) Update(ctx context.Context, id primitive.ObjectID, input CategoryUpdate) error {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if input.Image != nil && input.Image.ID != category.Image.ID {
		if category.Image.ID != "" {
			if err := s.media.Destroy(ctx, category.Image.ID); err != nil {
				return fmt.Errorf("failed to destroy previous category image: %w", err)
			}
		}
		category.Image = *input.Image
	}

	if input.Name != category.Name {
		category.Slug = domain.Slugify(input.Name)
	}
	category.Name = input.Name
	category.Description = input.Description

	return s.categories.Update(ctx, category)
}

// Delete cascades: the category, every product referencing it, and all of
// their hosted images go together. The document mutations run in one
// transaction, so any failure leaves the database in its pre-delete state.
func (s *categoryService) Delete(ctx context.Context, id primitive.ObjectID) error {
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		category, err := s.categories.FindByID(ctx, id)
		if err != nil {
			return err
		}

		if category.Image.ID != "" {
			if err := s.media.Destroy(ctx, category.Image.ID); err != nil {
				return fmt.Errorf("failed to destroy category image: %w", err)
			}
		}

		products, err := s.products.FindAllByCategory(ctx, id)
		if err != nil {
			return err
		}

		for _, product := range products {
			for _, img := range product.Images {
				if img.ID == "" {
					continue
				}
				if err := s.media.Destroy(ctx, img.ID); err != nil {
					return fmt.Errorf("failed to destroy product image: %w", err)
				}
			}
		}

		deleted, err := s.products.DeleteByCategory(ctx, id)
		if err != nil {
			return err
		}

		if err := s.categories.Delete(ctx, id); err != nil {
			return err
		}

		s.logger.Info("Category deleted with its products",
			zap.String("category_id", id.Hex()),
			zap.Int64("products_deleted", deleted),
		)

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	return nil
}
