package transport

import (
	"errors"
	"net/http"

	"mineart/internal/middleware"
	"mineart/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ContactRequest is the public contact-form payload
type ContactRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required"`
	Subject   string `json:"subject" validate:"required"`
	Message   string `json:"message" validate:"required"`
}

// ContactHandler handles HTTP requests for contact inquiries
type ContactHandler struct {
	contacts service.ContactService
	logger   *zap.Logger
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(contacts service.ContactService, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{
		contacts: contacts,
		logger:   logger,
	}
}

// RegisterRoutes registers the public submission route and the admin listing
func (h *ContactHandler) RegisterRoutes(r chi.Router, rateLimit func(http.Handler) http.Handler, adminOnly ...func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(rateLimit)
		r.Post("/api/contacts", h.Create)
	})

	r.Route("/api/admin/contacts", func(r chi.Router) {
		r.Use(adminOnly...)
		r.Get("/", h.List)
	})
}

// Create handles a contact-form submission
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	contact, err := h.contacts.Create(r.Context(), service.ContactInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Subject:   req.Subject,
		Message:   req.Message,
	})
	if err != nil {
		if errors.Is(err, service.ErrMissingFields) {
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("Failed to record contact", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to record contact")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, contact)
}

// List handles the admin inquiry listing
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	page := pageParam(r)

	contacts, total, err := h.contacts.List(r.Context(), page)
	if err != nil {
		h.logger.Error("Failed to list contacts", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list contacts")
		return
	}

	if clamped := service.ClampPage(page, total, service.PageSize); clamped != page {
		page = clamped
		contacts, total, err = h.contacts.List(r.Context(), page)
		if err != nil {
			h.logger.Error("Failed to list contacts", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list contacts")
			return
		}
	}

	middleware.RespondWithJSON(w, http.StatusOK, PaginatedResponse{
		Items:      contacts,
		TotalCount: total,
		Page:       page,
		PageCount:  service.PageCount(total, service.PageSize),
	})
}
