package models

import "time"

// UserProfile is a staff or customer account profile in the back office.
type UserProfile struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	FullName         string    `json:"full_name"`
	Role             string    `json:"role"`
	OrganizationID   *string   `json:"organization_id,omitempty"`
	IsActive         bool      `json:"is_active"`
	TwoFactorEnabled bool      `json:"two_factor_enabled"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (u UserProfile) RecordID() string { return u.ID }

type ProfileFilter struct {
	Role           *string
	OrganizationID *string
	IsActive       *bool
}

type NewProfile struct {
	Email          string  `json:"email" binding:"required"`
	FullName       string  `json:"full_name" binding:"required"`
	Role           string  `json:"role" binding:"required"`
	OrganizationID *string `json:"organization_id"`
}

type ProfilePatch struct {
	Email            *string `json:"email"`
	FullName         *string `json:"full_name"`
	Role             *string `json:"role"`
	OrganizationID   *string `json:"organization_id"`
	IsActive         *bool   `json:"is_active"`
	TwoFactorEnabled *bool   `json:"two_factor_enabled"`
}

func (p ProfilePatch) Apply(u UserProfile) UserProfile {
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.FullName != nil {
		u.FullName = *p.FullName
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.OrganizationID != nil {
		u.OrganizationID = p.OrganizationID
	}
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
	}
	if p.TwoFactorEnabled != nil {
		u.TwoFactorEnabled = *p.TwoFactorEnabled
	}
	return u
}
