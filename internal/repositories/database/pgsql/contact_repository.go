package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/finacore/finacore_backend/internal/apperrors"
	"github.com/finacore/finacore_backend/internal/core/domain"
	portsrepo "github.com/finacore/finacore_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxContactRepository struct {
	BaseRepository
}

// newPgxContactRepository creates a new repository for billing counterparties.
func newPgxContactRepository(pool *pgxpool.Pool) portsrepo.ContactRepositoryFacade {
	return &PgxContactRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ContactRepositoryFacade = (*PgxContactRepository)(nil)

const contactColumns = `contact_id, organization_id, name, role, email, phone, created_at, created_by, last_updated_at, last_updated_by`

func scanContact(row pgx.Row) (domain.Contact, error) {
	var c domain.Contact
	err := row.Scan(
		&c.ContactID,
		&c.OrganizationID,
		&c.Name,
		&c.Role,
		&c.Email,
		&c.Phone,
		&c.CreatedAt,
		&c.CreatedBy,
		&c.LastUpdatedAt,
		&c.LastUpdatedBy,
	)
	return c, err
}

// FindContactByNameRole retrieves a contact by its (organization, name, role)
// natural key.
func (r *PgxContactRepository) FindContactByNameRole(ctx context.Context, organizationID, name string, role domain.ContactRole) (*domain.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE organization_id = $1 AND name = $2 AND role = $3;`
	c, err := scanContact(r.Pool.QueryRow(ctx, query, organizationID, name, role))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find contact %q: %w", name, err)
	}
	return &c, nil
}

// FindContactByID retrieves a contact by its identifier.
func (r *PgxContactRepository) FindContactByID(ctx context.Context, contactID string) (*domain.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE contact_id = $1;`
	c, err := scanContact(r.Pool.QueryRow(ctx, query, contactID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find contact by ID %s: %w", contactID, err)
	}
	return &c, nil
}

// SaveContact persists a new contact. The natural key carries a unique index,
// so a concurrent find-or-create loses with ErrDuplicate and re-reads.
func (r *PgxContactRepository) SaveContact(ctx context.Context, contact domain.Contact) error {
	query := `
		INSERT INTO contacts (` + contactColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		contact.ContactID,
		contact.OrganizationID,
		contact.Name,
		contact.Role,
		contact.Email,
		contact.Phone,
		contact.CreatedAt,
		contact.CreatedBy,
		contact.LastUpdatedAt,
		contact.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: contact %q already exists", apperrors.ErrDuplicate, contact.Name)
		}
		return fmt.Errorf("failed to save contact %s: %w", contact.ContactID, err)
	}
	return nil
}
