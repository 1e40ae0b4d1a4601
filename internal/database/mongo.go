package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mineart/internal/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Collection names
const (
	CollCategories = "categories"
	CollProducts   = "products"
	CollVariants   = "variants"
	CollContacts   = "contacts"
	CollVisitors   = "visitors"
)

// Service wraps the MongoDB client and the application database.
type Service struct {
	client *mongo.Client
	db     *mongo.Database
	logger *zap.Logger
}

var (
	instance *Service
	mu       sync.Mutex
)

// New connects to MongoDB and returns the process-wide service. The
// connection is memoized: subsequent calls return the same instance.
func New(ctx context.Context, cfg config.MongoConfig, logger *zap.Logger) (*Service, error) {
	mu.Lock()
	defer mu.Unlock()

	if instance != nil {
		return instance, nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	instance = &Service{
		client: client,
		db:     client.Database(cfg.Database),
		logger: logger,
	}

	return instance, nil
}

// Collection returns a handle to the named collection.
func (s *Service) Collection(name string) *mongo.Collection {
	return s.db.Collection(name)
}

// Health reports connectivity status for the health endpoint.
func (s *Service) Health(ctx context.Context) map[string]string {
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := s.client.Ping(pingCtx, readpref.Primary()); err != nil {
		return map[string]string{
			"status": "down",
			"error":  err.Error(),
		}
	}

	return map[string]string{
		"status":   "up",
		"database": s.db.Name(),
	}
}

// WithTransaction runs fn inside a multi-document transaction. Collection
// operations that receive the callback context join the session; the
// transaction commits when fn returns nil and aborts when it returns an
// error, leaving no partial state.
func (s *Service) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil {
		return fmt.Errorf("transaction aborted: %w", err)
	}

	return nil
}

// Close disconnects the client.
func (s *Service) Close(ctx context.Context) error {
	mu.Lock()
	defer mu.Unlock()

	if instance == s {
		instance = nil
	}

	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from mongodb: %w", err)
	}
	return nil
}

// EnsureIndexes creates the indexes the catalog relies on: unique slugs on
// categories and products, the product category reference, and the unique
// visitor identity with its recency index.
func (s *Service) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	indexes := map[string][]mongo.IndexModel{
		CollCategories: {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: unique},
		},
		CollProducts: {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "category_id", Value: 1}}},
		},
		CollVisitors: {
			{Keys: bson.D{{Key: "visitor_id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "last_seen", Value: 1}}},
		},
	}

	for coll, models := range indexes {
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes for %s: %w", coll, err)
		}
		s.logger.Debug("Ensured indexes", zap.String("collection", coll))
	}

	return nil
}
