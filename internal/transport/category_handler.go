package transport

import (
	"errors"
	"net/http"

	"mineart/internal/domain"
	"mineart/internal/middleware"
	"mineart/internal/repository"
	"mineart/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ImagePayload is a hosted image reference in request bodies
type ImagePayload struct {
	ID  string `json:"id" validate:"required"`
	URL string `json:"url" validate:"required,url"`
}

// CategoryRequest is the create-category payload
type CategoryRequest struct {
	Name        string       `json:"name" validate:"required"`
	Description string       `json:"description" validate:"required"`
	Image       ImagePayload `json:"image" validate:"required"`
}

// CategoryUpdateRequest is the edit-category payload. A nil image keeps the
// current one.
type CategoryUpdateRequest struct {
	Name        string        `json:"name" validate:"required"`
	Description string        `json:"description" validate:"required"`
	Image       *ImagePayload `json:"image,omitempty"`
}

// CategoryHandler handles HTTP requests for category operations
type CategoryHandler struct {
	categories service.CategoryService
	logger     *zap.Logger
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categories service.CategoryService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		categories: categories,
		logger:     logger,
	}
}

// RegisterRoutes registers the public and admin category routes
func (h *CategoryHandler) RegisterRoutes(r chi.Router, adminOnly ...func(http.Handler) http.Handler) {
	// flat registrations: the nested .../{id}/products route is owned by the
	// product handler and must share this subtree
	r.Get("/api/categories", h.List)
	r.Get("/api/categories/{id}", h.Get)

	r.Route("/api/admin/categories", func(r chi.Router) {
		r.Use(adminOnly...)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// List handles the paginated category listing
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	page := pageParam(r)

	categories, total, err := h.categories.List(r.Context(), page)
	if err != nil {
		h.logger.Error("Failed to list categories", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}

	// a page beyond the end lands on the last page instead of coming back empty
	if clamped := service.ClampPage(page, total, service.PageSize); clamped != page {
		page = clamped
		categories, total, err = h.categories.List(r.Context(), page)
		if err != nil {
			h.logger.Error("Failed to list categories", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list categories")
			return
		}
	}

	middleware.RespondWithJSON(w, http.StatusOK, PaginatedResponse{
		Items:      categories,
		TotalCount: total,
		Page:       page,
		PageCount:  service.PageCount(total, service.PageSize),
	})
}

// Get handles fetching a single category
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	category, err := h.categories.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "category not found")
			return
		}
		h.logger.Error("Failed to get category", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get category")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, category)
}

// Create handles category creation
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	category, err := h.categories.Create(r.Context(), service.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
		Image:       domain.ImageRef{ID: req.Image.ID, URL: req.Image.URL},
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, repository.ErrDuplicateSlug):
			middleware.RespondWithError(w, http.StatusConflict, "a category with this name already exists")
		default:
			h.logger.Error("Failed to create category", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create category")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, category)
}

// Update handles category edits
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	var req CategoryUpdateRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	update := service.CategoryUpdate{
		Name:        req.Name,
		Description: req.Description,
	}
	if req.Image != nil {
		update.Image = &domain.ImageRef{ID: req.Image.ID, URL: req.Image.URL}
	}

	if err := h.categories.Update(r.Context(), id, update); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "category not found")
			return
		}
		h.logger.Error("Failed to update category", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update category")
		return
	}

	category, err := h.categories.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to reload category", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update category")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, category)
}

// Delete handles the cascading category delete
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	if err := h.categories.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "category not found")
			return
		}
		h.logger.Error("Failed to delete category", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete category")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "category deleted"})
}
