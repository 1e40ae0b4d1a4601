package service

import (
	"context"
	"fmt"

	"mineart/internal/domain"
	"mineart/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// VariantService defines the business logic for variant groups.
//
// A variant's lifecycle: created with a single member when a product starts
// a new group, grows as products join, and is deleted outright once its
// member count drops to one or zero — a group that no longer distinguishes
// anything has no reason to exist.
type VariantService interface {
	List(ctx context.Context) ([]*domain.Variant, error)
	Create(ctx context.Context, name string, productID primitive.ObjectID, colorCode, colorName string) (*domain.Variant, error)
	AddProduct(ctx context.Context, variantID, productID primitive.ObjectID, colorCode, colorName string) (*domain.Variant, error)
	Rename(ctx context.Context, variantID primitive.ObjectID, name string) (*domain.Variant, error)
	RemoveProduct(ctx context.Context, variantID, productID primitive.ObjectID) (deleted bool, variant *domain.Variant, err error)
}

type variantService struct {
	variants repository.VariantRepository
	logger   *zap.Logger
}

// NewVariantService creates a new instance of VariantService
func NewVariantService(variants repository.VariantRepository, logger *zap.Logger) VariantService {
	return &variantService{
		variants: variants,
		logger:   logger,
	}
}

// List returns all variant groups
func (s *variantService) List(ctx context.Context) ([]*domain.Variant, error) {
	return s.variants.List(ctx)
}

// Create starts a new single-member variant group
func (s *variantService) Create(ctx context.Context, name string, productID primitive.ObjectID, colorCode, colorName string) (*domain.Variant, error) {
	if name == "" || colorCode == "" || colorName == "" {
		return nil, ErrMissingFields
	}

	variant := &domain.Variant{
		Name: name,
		Members: []domain.VariantMember{{
			ProductID: productID,
			ColorCode: colorCode,
			ColorName: colorName,
		}},
	}

	if err := s.variants.Create(ctx, variant); err != nil {
		return nil, err
	}

	return variant, nil
}

// AddProduct appends a member to an existing variant group
func (s *variantService) AddProduct(ctx context.Context, variantID, productID primitive.ObjectID, colorCode, colorName string) (*domain.Variant, error) {
	member := domain.VariantMember{
		ProductID: productID,
		ColorCode: colorCode,
		ColorName: colorName,
	}

	if err := s.variants.AppendMember(ctx, variantID, member); err != nil {
		return nil, err
	}

	return s.variants.FindByID(ctx, variantID)
}

// Rename changes the variant group's name
func (s *variantService) Rename(ctx context.Context, variantID primitive.ObjectID, name string) (*domain.Variant, error) {
	if name == "" {
		return nil, ErrMissingFields
	}

	if err := s.variants.UpdateName(ctx, variantID, name); err != nil {
		return nil, err
	}

	return s.variants.FindByID(ctx, variantID)
}

// RemoveProduct removes a member from the group. When one or zero members
// remain afterwards the whole variant is deleted (auto-collapse) and
// deleted=true is returned; otherwise the trimmed variant is returned.
func (s *variantService) RemoveProduct(ctx context.Context, variantID, productID primitive.ObjectID) (bool, *domain.Variant, error) {
	variant, err := s.variants.FindByID(ctx, variantID)
	if err != nil {
		return false, nil, err
	}

	remaining := make([]domain.VariantMember, 0, len(variant.Members))
	for _, member := range variant.Members {
		if member.ProductID != productID {
			remaining = append(remaining, member)
		}
	}

	if len(remaining) == len(variant.Members) {
		return false, nil, repository.ErrVariantMemberNotFound
	}

	if len(remaining) <= 1 {
		if err := s.variants.Delete(ctx, variantID); err != nil {
			return false, nil, fmt.Errorf("failed to collapse variant: %w", err)
		}

		s.logger.Info("Variant auto-collapsed",
			zap.String("variant_id", variantID.Hex()),
			zap.Int("remaining_members", len(remaining)),
		)

		return true, nil, nil
	}

	if err := s.variants.SetMembers(ctx, variantID, remaining); err != nil {
		return false, nil, err
	}

	variant.Members = remaining
	return false, variant, nil
}
