package service

import (
	"context"
	"fmt"
	"strings"

	"mineart/internal/domain"
	"mineart/internal/repository"

	"go.uber.org/zap"
)

// ContactInput is a contact-form submission. All fields are required.
type ContactInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Subject   string
	Message   string
}

// ContactService defines the business logic for inbound inquiries
type ContactService interface {
	Create(ctx context.Context, input ContactInput) (*domain.Contact, error)
	List(ctx context.Context, page int) ([]*domain.Contact, int64, error)
}

type contactService struct {
	contacts repository.ContactRepository
	logger   *zap.Logger
}

// NewContactService creates a new instance of ContactService
func NewContactService(contacts repository.ContactRepository, logger *zap.Logger) ContactService {
	return &contactService{
		contacts: contacts,
		logger:   logger,
	}
}

// Create records an inquiry. Contacts are immutable once stored.
func (s *contactService) Create(ctx context.Context, input ContactInput) (*domain.Contact, error) {
	for _, field := range []string{
		input.FirstName, input.LastName, input.Email,
		input.Phone, input.Subject, input.Message,
	} {
		if strings.TrimSpace(field) == "" {
			return nil, ErrMissingFields
		}
	}

	contact := &domain.Contact{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Phone:     input.Phone,
		Subject:   input.Subject,
		Message:   input.Message,
	}

	if err := s.contacts.Create(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to record contact: %w", err)
	}

	s.logger.Info("Contact recorded", zap.String("contact_id", contact.ID.Hex()))

	return contact, nil
}

// List returns one page of inquiries and the page-independent total count
func (s *contactService) List(ctx context.Context, page int) ([]*domain.Contact, int64, error) {
	contacts, total, err := s.contacts.List(ctx, page, PageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list contacts: %w", err)
	}
	return contacts, total, nil
}
