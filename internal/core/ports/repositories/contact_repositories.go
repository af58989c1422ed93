package repositories

import (
	"context"

	"github.com/finacore/finacore_backend/internal/core/domain"
)

// ContactRepositoryFacade defines operations for billing counterparties.
type ContactRepositoryFacade interface {
	// FindContactByNameRole retrieves a contact by its (organization, name,
	// role) natural key.
	FindContactByNameRole(ctx context.Context, organizationID, name string, role domain.ContactRole) (*domain.Contact, error)

	// FindContactByID retrieves a contact by its identifier.
	FindContactByID(ctx context.Context, contactID string) (*domain.Contact, error)

	// SaveContact persists a new contact.
	SaveContact(ctx context.Context, contact domain.Contact) error
}
