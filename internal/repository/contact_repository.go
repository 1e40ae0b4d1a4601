package repository

import (
	"context"
	"fmt"
	"time"

	"mineart/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ContactRepository defines the interface for inquiry data access. Contacts
// are append-only; there is no update or delete.
type ContactRepository interface {
	Create(ctx context.Context, contact *domain.Contact) error
	List(ctx context.Context, page, pageSize int) ([]*domain.Contact, int64, error)
}

type contactRepository struct {
	coll *mongo.Collection
}

// NewContactRepository creates a new instance of ContactRepository
func NewContactRepository(coll *mongo.Collection) ContactRepository {
	return &contactRepository{coll: coll}
}

// Create inserts a new contact document
func (r *contactRepository) Create(ctx context.Context, contact *domain.Contact) error {
	contact.ID = primitive.NewObjectID()
	contact.CreatedAt = time.Now()

	if _, err := r.coll.InsertOne(ctx, contact); err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}

	return nil
}

// List retrieves one page of contacts plus the page-independent total count
func (r *contactRepository) List(ctx context.Context, page, pageSize int) ([]*domain.Contact, int64, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, FindPage(page, pageSize))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer cursor.Close(ctx)

	contacts := []*domain.Contact{}
	if err := cursor.All(ctx, &contacts); err != nil {
		return nil, 0, fmt.Errorf("failed to decode contacts: %w", err)
	}

	total, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count contacts: %w", err)
	}

	return contacts, total, nil
}
