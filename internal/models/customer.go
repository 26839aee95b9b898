package models

import "time"

// Customer is a portal login account for a client company.
// PasswordHash is never serialized in API responses.
type Customer struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	CompanyName    string    `json:"company_name"`
	ContactPerson  string    `json:"contact_person"`
	Phone          *string   `json:"phone,omitempty"`
	OrganizationID *string   `json:"organization_id,omitempty"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (c Customer) RecordID() string { return c.ID }

type CustomerFilter struct {
	OrganizationID *string
	IsActive       *bool
}

type NewCustomer struct {
	Email          string  `json:"email" binding:"required"`
	Password       string  `json:"password" binding:"required"`
	CompanyName    string  `json:"company_name" binding:"required"`
	ContactPerson  string  `json:"contact_person"`
	Phone          *string `json:"phone"`
	OrganizationID *string `json:"organization_id"`

	// PasswordHash is filled in by the handler before the record is stored.
	PasswordHash string `json:"-"`
}

type CustomerPatch struct {
	Email          *string `json:"email"`
	Password       *string `json:"password"`
	PasswordHash   *string `json:"-"`
	CompanyName    *string `json:"company_name"`
	ContactPerson  *string `json:"contact_person"`
	Phone          *string `json:"phone"`
	OrganizationID *string `json:"organization_id"`
	IsActive       *bool   `json:"is_active"`
}

func (p CustomerPatch) Apply(c Customer) Customer {
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.PasswordHash != nil {
		c.PasswordHash = *p.PasswordHash
	}
	if p.CompanyName != nil {
		c.CompanyName = *p.CompanyName
	}
	if p.ContactPerson != nil {
		c.ContactPerson = *p.ContactPerson
	}
	if p.Phone != nil {
		c.Phone = p.Phone
	}
	if p.OrganizationID != nil {
		c.OrganizationID = p.OrganizationID
	}
	if p.IsActive != nil {
		c.IsActive = *p.IsActive
	}
	return c
}
