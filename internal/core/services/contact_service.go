package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/finacore/finacore_backend/internal/apperrors"
	"github.com/finacore/finacore_backend/internal/core/domain"
	portsrepo "github.com/finacore/finacore_backend/internal/core/ports/repositories"
	portssvc "github.com/finacore/finacore_backend/internal/core/ports/services"
	"github.com/google/uuid"
)

// contactService manages billing counterparties.
type contactService struct {
	BaseService
	contactRepo portsrepo.ContactRepositoryFacade
}

// NewContactService creates a new contact service.
func NewContactService(repo portsrepo.ContactRepositoryFacade) portssvc.ContactSvcFacade {
	return &contactService{contactRepo: repo}
}

var _ portssvc.ContactSvcFacade = (*contactService)(nil)

// FindOrCreateContact is idempotent on the (organization, name, role) natural
// key: repeated calls return the same contact.
func (s *contactService) FindOrCreateContact(ctx context.Context, organizationID, name, email string, role domain.ContactRole, userID string) (*domain.Contact, error) {
	existing, err := s.contactRepo.FindContactByNameRole(ctx, organizationID, name, role)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to look up contact",
			slog.String("name", name),
			slog.String("role", string(role)))
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	now := time.Now().UTC()
	contact := domain.Contact{
		ContactID:      uuid.NewString(),
		OrganizationID: organizationID,
		Name:           name,
		Role:           role,
		Email:          email,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.contactRepo.SaveContact(ctx, contact); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// Lost a race with a concurrent create; the stored row wins.
			return s.contactRepo.FindContactByNameRole(ctx, organizationID, name, role)
		}
		s.LogError(ctx, err, "Failed to save contact",
			slog.String("name", name))
		return nil, err
	}

	s.LogInfo(ctx, "Contact created",
		slog.String("contact_id", contact.ContactID),
		slog.String("role", string(role)))
	return &contact, nil
}
