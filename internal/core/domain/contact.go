package domain

// ContactRole distinguishes billing counterparties.
type ContactRole string

const (
	ContactCustomer ContactRole = "CUSTOMER"
	ContactVendor   ContactRole = "VENDOR"
)

// Contact is a customer or vendor attached to billing documents.
// Contacts are found-or-created by (organization, name, role).
type Contact struct {
	ContactID      string      `json:"contactID"`
	OrganizationID string      `json:"organizationID"`
	Name           string      `json:"name"`
	Role           ContactRole `json:"role"`
	Email          string      `json:"email"`
	Phone          string      `json:"phone"`
	AuditFields
}
