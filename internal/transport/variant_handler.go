package transport

import (
	"errors"
	"net/http"

	"mineart/internal/middleware"
	"mineart/internal/repository"
	"mineart/internal/service"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// VariantMemberRequest adds a product to a variant group
type VariantMemberRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	ColorCode string `json:"color_code" validate:"required,hexcolor"`
	ColorName string `json:"color_name" validate:"required"`
}

// VariantRenameRequest renames a variant group
type VariantRenameRequest struct {
	Name string `json:"name" validate:"required"`
}

// RemoveMemberResponse reports the outcome of a member removal. Deleted is
// true when the removal collapsed the whole group.
type RemoveMemberResponse struct {
	Deleted bool        `json:"deleted"`
	Variant interface{} `json:"variant,omitempty"`
}

// VariantHandler handles HTTP requests for variant group operations
type VariantHandler struct {
	variants service.VariantService
	logger   *zap.Logger
}

// NewVariantHandler creates a new VariantHandler
func NewVariantHandler(variants service.VariantService, logger *zap.Logger) *VariantHandler {
	return &VariantHandler{
		variants: variants,
		logger:   logger,
	}
}

// RegisterRoutes registers the public and admin variant routes
func (h *VariantHandler) RegisterRoutes(r chi.Router, adminOnly ...func(http.Handler) http.Handler) {
	r.Get("/api/variants", h.List)

	r.Route("/api/admin/variants", func(r chi.Router) {
		r.Use(adminOnly...)
		r.Put("/{id}", h.Rename)
		r.Post("/{id}/products", h.AddMember)
		r.Delete("/{id}/products/{productID}", h.RemoveMember)
	})
}

// List handles the variant group listing
func (h *VariantHandler) List(w http.ResponseWriter, r *http.Request) {
	variants, err := h.variants.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list variants", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list variants")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, variants)
}

// Rename handles renaming a variant group
func (h *VariantHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid variant id")
		return
	}

	var req VariantRenameRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	variant, err := h.variants.Rename(r.Context(), id, req.Name)
	if err != nil {
		if errors.Is(err, repository.ErrVariantNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "variant not found")
			return
		}
		h.logger.Error("Failed to rename variant", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to rename variant")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, variant)
}

// AddMember handles adding a product to a variant group
func (h *VariantHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid variant id")
		return
	}

	var req VariantMemberRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	variant, err := h.variants.AddProduct(r.Context(), id, productID, req.ColorCode, req.ColorName)
	if err != nil {
		if errors.Is(err, repository.ErrVariantNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "variant not found")
			return
		}
		h.logger.Error("Failed to add variant member", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to add variant member")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, variant)
}

// RemoveMember handles removing a product from a variant group, collapsing
// the group when one or zero members would remain
func (h *VariantHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid variant id")
		return
	}

	productID, err := objectIDParam(r, "productID")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	deleted, variant, err := h.variants.RemoveProduct(r.Context(), id, productID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrVariantNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "variant not found")
		case errors.Is(err, repository.ErrVariantMemberNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "product is not a member of this variant")
		default:
			h.logger.Error("Failed to remove variant member", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to remove variant member")
		}
		return
	}

	response := RemoveMemberResponse{Deleted: deleted}
	if variant != nil {
		response.Variant = variant
	}

	middleware.RespondWithJSON(w, http.StatusOK, response)
}
