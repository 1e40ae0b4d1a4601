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
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrVisitorNotFound = errors.New("visitor not found")
)

// VisitorRepository defines the interface for visitor telemetry access
type VisitorRepository interface {
	Create(ctx context.Context, visitor *domain.Visitor) error
	FindSeenSince(ctx context.Context, visitorID string, since time.Time) (*domain.Visitor, error)
	TouchLastSeen(ctx context.Context, visitorID string, seenAt time.Time) error
	Count(ctx context.Context) (int64, error)
	CountSeenSince(ctx context.Context, since time.Time) (int64, error)
}

type visitorRepository struct {
	coll *mongo.Collection
}

// NewVisitorRepository creates a new instance of VisitorRepository
func NewVisitorRepository(coll *mongo.Collection) VisitorRepository {
	return &visitorRepository{coll: coll}
}

// Create inserts a new visitor record
func (r *visitorRepository) Create(ctx context.Context, visitor *domain.Visitor) error {
	visitor.ID = primitive.NewObjectID()

	if _, err := r.coll.InsertOne(ctx, visitor); err != nil {
		return fmt.Errorf("failed to create visitor: %w", err)
	}

	return nil
}

// FindSeenSince retrieves a visitor by identity, but only if it was last
// seen at or after the cutoff. Used for fingerprint matching.
func (r *visitorRepository) FindSeenSince(ctx context.Context, visitorID string, since time.Time) (*domain.Visitor, error) {
	filter := bson.M{
		"visitor_id": visitorID,
		"last_seen":  bson.M{"$gte": since},
	}

	visitor := &domain.Visitor{}
	err := r.coll.FindOne(ctx, filter).Decode(visitor)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrVisitorNotFound
		}
		return nil, fmt.Errorf("failed to find visitor: %w", err)
	}

	return visitor, nil
}

// TouchLastSeen upserts the visitor's last-seen timestamp. The upsert keeps
// the operation idempotent per identity: a record missed by the cookie path
// is created rather than erroring.
func (r *visitorRepository) TouchLastSeen(ctx context.Context, visitorID string, seenAt time.Time) error {
	filter := bson.M{"visitor_id": visitorID}
	update := bson.M{
		"$set":         bson.M{"last_seen": seenAt},
		"$setOnInsert": bson.M{"first_visit": seenAt},
	}

	_, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to update visitor last seen: %w", err)
	}

	return nil
}

// Count returns the number of distinct visitor records
func (r *visitorRepository) Count(ctx context.Context) (int64, error) {
	total, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count visitors: %w", err)
	}
	return total, nil
}

// CountSeenSince returns the number of visitors seen at or after the cutoff
func (r *visitorRepository) CountSeenSince(ctx context.Context, since time.Time) (int64, error) {
	total, err := r.coll.CountDocuments(ctx, bson.M{"last_seen": bson.M{"$gte": since}})
	if err != nil {
		return 0, fmt.Errorf("failed to count active visitors: %w", err)
	}
	return total, nil
}
