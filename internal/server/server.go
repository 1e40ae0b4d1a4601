package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"mineart/internal/config"
	"mineart/internal/database"
	"mineart/internal/media"
	custommiddleware "mineart/internal/middleware"
	"mineart/internal/repository"
	"mineart/internal/service"
	"mineart/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// publicWriteLimit throttles the anonymous write paths (contact form,
// visitor tracking).
var publicWriteLimit = custommiddleware.RateLimitConfig{
	RequestsPerWindow: 30,
	Window:            time.Minute,
	KeyPrefix:         "mineart:ratelimit",
}

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *database.Service
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *database.Service, redisClient *redis.Client, mediaStore media.Store) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(nil, cfg.Server.Env == "development"))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		custommiddleware.RespondWithJSON(w, http.StatusOK, db.Health(r.Context()))
	})

	// Repositories
	categoryRepo := repository.NewCategoryRepository(db.Collection(database.CollCategories))
	productRepo := repository.NewProductRepository(db.Collection(database.CollProducts))
	variantRepo := repository.NewVariantRepository(db.Collection(database.CollVariants))
	contactRepo := repository.NewContactRepository(db.Collection(database.CollContacts))
	visitorRepo := repository.NewVisitorRepository(db.Collection(database.CollVisitors))

	// Services
	categoryService := service.NewCategoryService(categoryRepo, productRepo, mediaStore, db, logger)
	productService := service.NewProductService(productRepo, categoryRepo, variantRepo, mediaStore, logger)
	variantService := service.NewVariantService(variantRepo, logger)
	contactService := service.NewContactService(contactRepo, logger)
	visitorService := service.NewVisitorService(visitorRepo, logger)

	credentialStore := service.NewEnvCredentialStore(cfg.Admin)
	authService := service.NewAuthService(credentialStore, cfg.Session.Secret, cfg.Session.ExpiryHours)

	signer := media.NewSigner(cfg.Media.APISecret, cfg.Media.UploadPreset)

	// Middleware for admin routes and public write paths
	adminOnly := []func(http.Handler) http.Handler{
		custommiddleware.AuthMiddleware(cfg.Session.Secret, logger),
		custommiddleware.RequireAdmin(logger),
	}
	rateLimit := custommiddleware.RateLimitMiddleware(redisClient, publicWriteLimit, logger)

	// Handlers
	transport.NewCategoryHandler(categoryService, logger).RegisterRoutes(router, adminOnly...)
	transport.NewProductHandler(productService, logger).RegisterRoutes(router, adminOnly...)
	transport.NewVariantHandler(variantService, logger).RegisterRoutes(router, adminOnly...)
	transport.NewContactHandler(contactService, logger).RegisterRoutes(router, rateLimit, adminOnly...)
	transport.NewVisitorHandler(visitorService, logger).RegisterRoutes(router, rateLimit)
	transport.NewAuthHandler(authService, logger).RegisterRoutes(router)
	transport.NewUploadHandler(mediaStore, signer, cfg.Media.Folder, logger).RegisterRoutes(router, adminOnly...)

	return &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}
}

func (s *Server) Close(ctx context.Context) error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	if s.db != nil {
		if err := s.db.Close(ctx); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
