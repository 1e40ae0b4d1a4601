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
	ErrVariantRequired = errors.New("a variant id is required when joining an existing variant")
)

// ProductInput is the payload for creating a product. Color is mandatory;
// IsVariant selects between starting a new variant group (false) and joining
// an existing one (true, VariantID required).
type ProductInput struct {
	Name        string
	Description string
	Images      []domain.ImageRef
	CategoryID  primitive.ObjectID
	ColorCode   string
	ColorName   string
	IsVariant   bool
	VariantID   primitive.ObjectID
}

// ProductUpdate is the payload for editing a product. Images replaces the
// whole image list; ids dropped from it are destroyed on the media host.
type ProductUpdate struct {
	Name        string
	Description string
	Images      []domain.ImageRef
	CategoryID  primitive.ObjectID
	VariantID   *primitive.ObjectID
	ColorCode   string
	ColorName   string
}

// ProductService defines the business logic for product management
type ProductService interface {
	List(ctx context.Context, page int) ([]*domain.Product, int64, error)
	ListByCategory(ctx context.Context, categoryID primitive.ObjectID, page int) ([]*domain.Product, int64, error)
	Get(ctx context.Context, id primitive.ObjectID) (*domain.ProductDetail, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, input ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id primitive.ObjectID, input ProductUpdate) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type productService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	variants   repository.VariantRepository
	media      media.Store
	logger     *zap.Logger
}

// NewProductService creates a new instance of ProductService
func NewProductService(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	variants repository.VariantRepository,
	mediaStore media.Store,
	logger *zap.Logger,
) ProductService {
	return &productService{
		products:   products,
		categories: categories,
		variants:   variants,
		media:      mediaStore,
		logger:     logger,
	}
}

// List returns one page of products and the page-independent total count
func (s *productService) List(ctx context.Context, page int) ([]*domain.Product, int64, error) {
	products, total, err := s.products.List(ctx, page, PageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return products, total, nil
}

// ListByCategory returns one page of a category's products
func (s *productService) ListByCategory(ctx context.Context, categoryID primitive.ObjectID, page int) ([]*domain.Product, int64, error) {
	products, total, err := s.products.ListByCategory(ctx, categoryID, page, PageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products by category: %w", err)
	}
	return products, total, nil
}

// Get returns a product with its category reference and variant membership
// joined in.
func (s *productService) Get(ctx context.Context, id primitive.ObjectID) (*domain.ProductDetail, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &domain.ProductDetail{Product: *product}

	category, err := s.categories.FindByID(ctx, product.CategoryID)
	if err != nil && err != repository.ErrCategoryNotFound {
		return nil, err
	}
	if category != nil {
		detail.Category = domain.CategoryRef{ID: category.ID, Name: category.Name}
	}

	if product.VariantID != nil {
		variant, err := s.variants.FindByID(ctx, *product.VariantID)
		if err != nil && err != repository.ErrVariantNotFound {
			return nil, err
		}
		detail.Variant = variant
	}

	return detail, nil
}

// Count returns the total number of products
func (s *productService) Count(ctx context.Context) (int64, error) {
	return s.products.Count(ctx)
}

// Create validates the input and writes the product together with its
// variant membership.
//
// New-variant products resolve a circular id dependency: the variant must
// exist before the product can reference it, but the member's product id is
// unknown until the product is written. The variant is therefore created
// with a placeholder member and patched afterwards.
func (s *productService) Create(ctx context.Context, input ProductInput) (*domain.Product, error) {
	if strings.TrimSpace(input.Name) == "" ||
		strings.TrimSpace(input.Description) == "" ||
		len(input.Images) == 0 ||
		strings.TrimSpace(input.ColorCode) == "" ||
		strings.TrimSpace(input.ColorName) == "" {
		return nil, ErrMissingFields
	}
	if input.IsVariant && input.VariantID.IsZero() {
		return nil, ErrVariantRequired
	}

	product := &domain.Product{
		Name:        input.Name,
		Slug:        domain.Slugify(input.Name),
		Description: input.Description,
		Images:      input.Images,
		CategoryID:  input.CategoryID,
		ColorCode:   input.ColorCode,
		ColorName:   input.ColorName,
	}

	if input.IsVariant {
		product.VariantID = &input.VariantID

		if err := s.products.Create(ctx, product); err != nil {
			return nil, err
		}

		member := domain.VariantMember{
			ProductID: product.ID,
			ColorCode: input.ColorCode,
			ColorName: input.ColorName,
		}
		if err := s.variants.AppendMember(ctx, input.VariantID, member); err != nil {
			return nil, fmt.Errorf("failed to join variant: %w", err)
		}

		return product, nil
	}

	variant := &domain.Variant{
		Name: input.Name,
		Members: []domain.VariantMember{{
			ProductID: primitive.NilObjectID,
			ColorCode: input.ColorCode,
			ColorName: input.ColorName,
		}},
	}
	if err := s.variants.Create(ctx, variant); err != nil {
		return nil, err
	}

	product.VariantID = &variant.ID
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	if err := s.variants.PatchPlaceholderMember(ctx, variant.ID, product.ID); err != nil {
		return nil, fmt.Errorf("failed to patch variant member: %w", err)
	}

	s.logger.Info("Product created with new variant",
		zap.String("product_id", product.ID.Hex()),
		zap.String("variant_id", variant.ID.Hex()),
	)

	return product, nil
}

// Update applies the patch and recomputes the slug only when the name
// changed. Hosted images dropped from the image list are destroyed
// best-effort: individual destroy failures are logged, never fatal.
func (s *productService) Update(ctx context.Context, id primitive.ObjectID, input ProductUpdate) error {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if input.Name != "" && input.Name != product.Name {
		product.Name = input.Name
		product.Slug = domain.Slugify(input.Name)
	}
	if input.Description != "" {
		product.Description = input.Description
	}
	if !input.CategoryID.IsZero() {
		product.CategoryID = input.CategoryID
	}
	if input.VariantID != nil {
		product.VariantID = input.VariantID
	}
	if input.ColorCode != "" {
		product.ColorCode = input.ColorCode
	}
	if input.ColorName != "" {
		product.ColorName = input.ColorName
	}

	if input.Images != nil {
		for _, id := range staleImageIDs(product.Images, input.Images) {
			if err := s.media.Destroy(ctx, id); err != nil {
				s.logger.Warn("Failed to destroy stale product image",
					zap.String("image_id", id),
					zap.Error(err),
				)
			}
		}
		product.Images = input.Images
	}

	return s.products.Update(ctx, product)
}

// Delete destroys the product's hosted images and removes the document.
// Variant membership is left untouched.
func (s *productService) Delete(ctx context.Context, id primitive.ObjectID) error {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return err
	}

	for _, img := range product.Images {
		if img.ID == "" {
			continue
		}
		if err := s.media.Destroy(ctx, img.ID); err != nil {
			s.logger.Warn("Failed to destroy product image",
				zap.String("image_id", img.ID),
				zap.Error(err),
			)
		}
	}

	return s.products.Delete(ctx, id)
}

// staleImageIDs returns the ids present in the old image list but absent
// from the new one.
func staleImageIDs(old, new []domain.ImageRef) []string {
	keep := make(map[string]bool, len(new))
	for _, img := range new {
		keep[img.ID] = true
	}

	stale := []string{}
	for _, img := range old {
		if img.ID != "" && !keep[img.ID] {
			stale = append(stale, img.ID)
		}
	}
	return stale
}
