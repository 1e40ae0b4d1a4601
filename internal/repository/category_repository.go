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
	ErrCategoryNotFound = errors.New("category not found")
	ErrDuplicateSlug    = errors.New("a record with this slug already exists")
)

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	List(ctx context.Context, page, pageSize int) ([]*domain.Category, int64, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Category, error)
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
}

type categoryRepository struct {
	coll *mongo.Collection
}

// NewCategoryRepository creates a new instance of CategoryRepository
func NewCategoryRepository(coll *mongo.Collection) CategoryRepository {
	return &categoryRepository{coll: coll}
}

// Create inserts a new category document
func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	category.ID = primitive.NewObjectID()
	category.CreatedAt = time.Now()
	category.UpdatedAt = category.CreatedAt

	if _, err := r.coll.InsertOne(ctx, category); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("failed to create category: %w", err)
	}

	return nil
}

// List retrieves one page of categories plus the page-independent total count
func (r *categoryRepository) List(ctx context.Context, page, pageSize int) ([]*domain.Category, int64, error) {
	opts := FindPage(page, pageSize)

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list categories: %w", err)
	}
	defer cursor.Close(ctx)

	categories := []*domain.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, 0, fmt.Errorf("failed to decode categories: %w", err)
	}

	total, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count categories: %w", err)
	}

	return categories, total, nil
}

// FindByID retrieves a category by ID
func (r *categoryRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Category, error) {
	category := &domain.Category{}
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(category)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category by ID: %w", err)
	}

	return category, nil
}

// Update overwrites the mutable fields of an existing category
func (r *categoryRepository) Update(ctx context.Context, category *domain.Category) error {
	category.UpdatedAt = time.Now()

	update := bson.M{"$set": bson.M{
		"name":        category.Name,
		"slug":        category.Slug,
		"image":       category.Image,
		"description": category.Description,
		"updated_at":  category.UpdatedAt,
	}}

	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": category.ID}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("failed to update category: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrCategoryNotFound
	}

	return nil
}

// Delete removes a category document
func (r *categoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrCategoryNotFound
	}

	return nil
}

// Count returns the total number of categories
func (r *categoryRepository) Count(ctx context.Context) (int64, error) {
	total, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}
	return total, nil
}
