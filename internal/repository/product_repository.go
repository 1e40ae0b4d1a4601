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
	ErrProductNotFound = errors.New("product not found")
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error)
	List(ctx context.Context, page, pageSize int) ([]*domain.Product, int64, error)
	ListByCategory(ctx context.Context, categoryID primitive.ObjectID, page, pageSize int) ([]*domain.Product, int64, error)
	FindAllByCategory(ctx context.Context, categoryID primitive.ObjectID) ([]*domain.Product, error)
	DeleteByCategory(ctx context.Context, categoryID primitive.ObjectID) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type productRepository struct {
	coll *mongo.Collection
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(coll *mongo.Collection) ProductRepository {
	return &productRepository{coll: coll}
}

// Create inserts a new product document
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt

	if _, err := r.coll.InsertOne(ctx, product); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update overwrites the mutable fields of an existing product
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	product.UpdatedAt = time.Now()

	update := bson.M{"$set": bson.M{
		"name":        product.Name,
		"slug":        product.Slug,
		"description": product.Description,
		"images":      product.Images,
		"category_id": product.CategoryID,
		"variant_id":  product.VariantID,
		"color_code":  product.ColorCode,
		"color_name":  product.ColorName,
		"updated_at":  product.UpdatedAt,
	}}

	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": product.ID}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("failed to update product: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete removes a product document
func (r *productRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrProductNotFound
	}

	return nil
}

// FindByID retrieves a product by ID
func (r *productRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error) {
	product := &domain.Product{}
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// List retrieves one page of products plus the page-independent total count
func (r *productRepository) List(ctx context.Context, page, pageSize int) ([]*domain.Product, int64, error) {
	return r.page(ctx, bson.M{}, page, pageSize)
}

// ListByCategory retrieves one page of the products referencing a category
func (r *productRepository) ListByCategory(ctx context.Context, categoryID primitive.ObjectID, page, pageSize int) ([]*domain.Product, int64, error) {
	return r.page(ctx, bson.M{"category_id": categoryID}, page, pageSize)
}

func (r *productRepository) page(ctx context.Context, filter bson.M, page, pageSize int) ([]*domain.Product, int64, error) {
	cursor, err := r.coll.Find(ctx, filter, FindPage(page, pageSize))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer cursor.Close(ctx)

	products := []*domain.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, fmt.Errorf("failed to decode products: %w", err)
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	return products, total, nil
}

// FindAllByCategory retrieves every product referencing a category, without
// pagination. Used by the cascading category delete.
func (r *productRepository) FindAllByCategory(ctx context.Context, categoryID primitive.ObjectID) ([]*domain.Product, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"category_id": categoryID})
	if err != nil {
		return nil, fmt.Errorf("failed to find products by category: %w", err)
	}
	defer cursor.Close(ctx)

	products := []*domain.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	return products, nil
}

// DeleteByCategory bulk-deletes every product referencing a category and
// returns the number of removed documents.
func (r *productRepository) DeleteByCategory(ctx context.Context, categoryID primitive.ObjectID) (int64, error) {
	result, err := r.coll.DeleteMany(ctx, bson.M{"category_id": categoryID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete products by category: %w", err)
	}

	return result.DeletedCount, nil
}

// Count returns the total number of products
func (r *productRepository) Count(ctx context.Context) (int64, error) {
	total, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return total, nil
}
