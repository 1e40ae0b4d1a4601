package transport

import (
	"errors"
	"net/http"

	"mineart/internal/domain"
	"mineart/internal/middleware"
	"mineart/internal/repository"
	"mineart/internal/service"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ProductRequest is the create-product payload. A product either starts a
// new variant group (is_variant=false) or joins an existing one
// (is_variant=true + variant_id).
type ProductRequest struct {
	Name        string         `json:"name" validate:"required"`
	Description string         `json:"description" validate:"required"`
	Images      []ImagePayload `json:"images" validate:"required,min=1,dive"`
	CategoryID  string         `json:"category_id" validate:"required"`
	ColorCode   string         `json:"color_code" validate:"required,hexcolor"`
	ColorName   string         `json:"color_name" validate:"required"`
	IsVariant   bool           `json:"is_variant"`
	VariantID   string         `json:"variant_id,omitempty"`
}

// ProductUpdateRequest is the edit-product payload. Absent fields keep their
// current values; a present images list replaces the whole set.
type ProductUpdateRequest struct {
	Name        string         `json:"name,omitempty"`
	Description string         `json:"description,omitempty"`
	Images      []ImagePayload `json:"images,omitempty" validate:"omitempty,min=1,dive"`
	CategoryID  string         `json:"category_id,omitempty"`
	VariantID   string         `json:"variant_id,omitempty"`
	ColorCode   string         `json:"color_code,omitempty" validate:"omitempty,hexcolor"`
	ColorName   string         `json:"color_name,omitempty"`
}

// ProductHandler handles HTTP requests for product operations
type ProductHandler struct {
	products service.ProductService
	logger   *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(products service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		products: products,
		logger:   logger,
	}
}

// RegisterRoutes registers the public and admin product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router, adminOnly ...func(http.Handler) http.Handler) {
	r.Get("/api/products", h.List)
	r.Get("/api/products/{id}", h.Get)
	r.Get("/api/categories/{id}/products", h.ListByCategory)

	r.Route("/api/admin/products", func(r chi.Router) {
		r.Use(adminOnly...)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// List handles the paginated product listing
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	page := pageParam(r)

	products, total, err := h.products.List(r.Context(), page)
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	if clamped := service.ClampPage(page, total, service.PageSize); clamped != page {
		page = clamped
		products, total, err = h.products.List(r.Context(), page)
		if err != nil {
			h.logger.Error("Failed to list products", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
			return
		}
	}

	middleware.RespondWithJSON(w, http.StatusOK, PaginatedResponse{
		Items:      products,
		TotalCount: total,
		Page:       page,
		PageCount:  service.PageCount(total, service.PageSize),
	})
}

// ListByCategory handles a category's paginated product listing
func (h *ProductHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := objectIDParam(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	page := pageParam(r)

	products, total, err := h.products.ListByCategory(r.Context(), categoryID, page)
	if err != nil {
		h.logger.Error("Failed to list products by category", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	if clamped := service.ClampPage(page, total, service.PageSize); clamped != page {
		page = clamped
		products, total, err = h.products.ListByCategory(r.Context(), categoryID, page)
		if err != nil {
			h.logger.Error("Failed to list products by category", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
			return
		}
	}

	middleware.RespondWithJSON(w, http.StatusOK, PaginatedResponse{
		Items:      products,
		TotalCount: total,
		Page:       page,
		PageCount:  service.PageCount(total, service.PageSize),
	})
}

// Get handles fetching a single product with its category and variant joined
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	detail, err := h.products.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to get product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, detail)
}

// Create handles product creation
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	categoryID, err := primitive.ObjectIDFromHex(req.CategoryID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	input := service.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Images:      imageRefs(req.Images),
		CategoryID:  categoryID,
		ColorCode:   req.ColorCode,
		ColorName:   req.ColorName,
		IsVariant:   req.IsVariant,
	}
	if req.IsVariant {
		variantID, err := primitive.ObjectIDFromHex(req.VariantID)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid variant id")
			return
		}
		input.VariantID = variantID
	}

	product, err := h.products.Create(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields), errors.Is(err, service.ErrVariantRequired):
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, repository.ErrVariantNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "variant not found")
		default:
			h.logger.Error("Failed to create product", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create product")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// Update handles product edits
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req ProductUpdateRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	update := service.ProductUpdate{
		Name:        req.Name,
		Description: req.Description,
		ColorCode:   req.ColorCode,
		ColorName:   req.ColorName,
	}
	if req.Images != nil {
		update.Images = imageRefs(req.Images)
	}
	if req.CategoryID != "" {
		categoryID, err := primitive.ObjectIDFromHex(req.CategoryID)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid category id")
			return
		}
		update.CategoryID = categoryID
	}
	if req.VariantID != "" {
		variantID, err := primitive.ObjectIDFromHex(req.VariantID)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid variant id")
			return
		}
		update.VariantID = &variantID
	}

	if err := h.products.Update(r.Context(), id, update); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to update product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update product")
		return
	}

	detail, err := h.products.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to reload product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, detail)
}

// Delete handles product removal
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := h.products.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to delete product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

func imageRefs(payloads []ImagePayload) []domain.ImageRef {
	refs := make([]domain.ImageRef, 0, len(payloads))
	for _, p := range payloads {
		refs = append(refs, domain.ImageRef{ID: p.ID, URL: p.URL})
	}
	return refs
}
