package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mineart/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrVariantNotFound       = errors.New("variant not found")
	ErrVariantMemberNotFound = errors.New("product is not a member of this variant")
)

// VariantRepository defines the interface for variant-group data access.
// Membership rules (append, placeholder patch, auto-collapse) live in the
// variant service; this layer only persists documents.
type VariantRepository interface {
	Create(ctx context.Context, variant *domain.Variant) error
	List(ctx context.Context) ([]*domain.Variant, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Variant, error)
	AppendMember(ctx context.Context, id primitive.ObjectID, member domain.VariantMember) error
	PatchPlaceholderMember(ctx context.Context, id, productID primitive.ObjectID) error
	SetMembers(ctx context.Context, id primitive.ObjectID, members []domain.VariantMember) error
	UpdateName(ctx context.Context, id primitive.ObjectID, name string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type variantRepository struct {
	coll *mongo.Collection
}

// NewVariantRepository creates a new instance of VariantRepository
func NewVariantRepository(coll *mongo.Collection) VariantRepository {
	return &variantRepository{coll: coll}
}

// Create inserts a new variant document
func (r *variantRepository) Create(ctx context.Context, variant *domain.Variant) error {
	variant.ID = primitive.NewObjectID()
	variant.CreatedAt = time.Now()
	variant.UpdatedAt = variant.CreatedAt

	if _, err := r.coll.InsertOne(ctx, variant); err != nil {
		return fmt.Errorf("failed to create variant: %w", err)
	}

	return nil
}

// List retrieves all variant groups
func (r *variantRepository) List(ctx context.Context) ([]*domain.Variant, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list variants: %w", err)
	}
	defer cursor.Close(ctx)

	variants := []*domain.Variant{}
	if err := cursor.All(ctx, &variants); err != nil {
		return nil, fmt.Errorf("failed to decode variants: %w", err)
	}

	return variants, nil
}

// FindByID retrieves a variant by ID
func (r *variantRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Variant, error) {
	variant := &domain.Variant{}
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(variant)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrVariantNotFound
		}
		return nil, fmt.Errorf("failed to find variant by ID: %w", err)
	}

	return variant, nil
}

// AppendMember pushes a member onto the variant's member list
func (r *variantRepository) AppendMember(ctx context.Context, id primitive.ObjectID, member domain.VariantMember) error {
	update := bson.M{
		"$push": bson.M{"members": member},
		"$set":  bson.M{"updated_at": time.Now()},
	}

	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to append variant member: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrVariantNotFound
	}

	return nil
}

// PatchPlaceholderMember sets the product reference on the member that was
// created with a zero product id, completing the placeholder-then-patch
// sequence of new-variant product creation.
func (r *variantRepository) PatchPlaceholderMember(ctx context.Context, id, productID primitive.ObjectID) error {
	filter := bson.M{
		"_id":                id,
		"members.product_id": primitive.NilObjectID,
	}
	update := bson.M{"$set": bson.M{
		"members.$.product_id": productID,
		"updated_at":           time.Now(),
	}}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to patch variant member: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrVariantNotFound
	}

	return nil
}

// SetMembers replaces the variant's member list
func (r *variantRepository) SetMembers(ctx context.Context, id primitive.ObjectID, members []domain.VariantMember) error {
	update := bson.M{"$set": bson.M{
		"members":    members,
		"updated_at": time.Now(),
	}}

	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to set variant members: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrVariantNotFound
	}

	return nil
}

// UpdateName renames a variant group
func (r *variantRepository) UpdateName(ctx context.Context, id primitive.ObjectID, name string) error {
	update := bson.M{"$set": bson.M{
		"name":       name,
		"updated_at": time.Now(),
	}}

	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to rename variant: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrVariantNotFound
	}

	return nil
}

// Delete removes a variant document
func (r *variantRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete variant: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrVariantNotFound
	}

	return nil
}
