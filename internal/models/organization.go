package models

import "time"

type Organization struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	ContactEmail *string   `json:"contact_email,omitempty"`
	ContactPhone *string   `json:"contact_phone,omitempty"`
	Address      *string   `json:"address,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (o Organization) RecordID() string { return o.ID }

type OrganizationFilter struct {
	IsActive *bool
}

type NewOrganization struct {
	Name         string  `json:"name" binding:"required"`
	ContactEmail *string `json:"contact_email"`
	ContactPhone *string `json:"contact_phone"`
	Address      *string `json:"address"`
}

type OrganizationPatch struct {
	Name         *string `json:"name"`
	ContactEmail *string `json:"contact_email"`
	ContactPhone *string `json:"contact_phone"`
	Address      *string `json:"address"`
	IsActive     *bool   `json:"is_active"`
}

func (p OrganizationPatch) Apply(o Organization) Organization {
	if p.Name != nil {
		o.Name = *p.Name
	}
	if p.ContactEmail != nil {
		o.ContactEmail = p.ContactEmail
	}
	if p.ContactPhone != nil {
		o.ContactPhone = p.ContactPhone
	}
	if p.Address != nil {
		o.Address = p.Address
	}
	if p.IsActive != nil {
		o.IsActive = *p.IsActive
	}
	return o
}
