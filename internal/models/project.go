package models

import "time"

type Project struct {
	ID             string     `json:"id"`
	Code           string     `json:"code"`
	Name           string     `json:"name"`
	CustomerID     string     `json:"customer_id"`
	OrganizationID *string    `json:"organization_id,omitempty"`
	Status         string     `json:"status"`
	Description    *string    `json:"description,omitempty"`
	StartDate      *time.Time `json:"start_date,omitempty"`
	EndDate        *time.Time `json:"end_date,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (p Project) RecordID() string { return p.ID }

type ProjectFilter struct {
	CustomerID     *string
	OrganizationID *string
	Status         *string
}

type NewProject struct {
	Code           string     `json:"code" binding:"required"`
	Name           string     `json:"name" binding:"required"`
	CustomerID     string     `json:"customer_id" binding:"required"`
	OrganizationID *string    `json:"organization_id"`
	Status         string     `json:"status"`
	Description    *string    `json:"description"`
	StartDate      *time.Time `json:"start_date"`
	EndDate        *time.Time `json:"end_date"`
}

type ProjectPatch struct {
	Code           *string    `json:"code"`
	Name           *string    `json:"name"`
	CustomerID     *string    `json:"customer_id"`
	OrganizationID *string    `json:"organization_id"`
	Status         *string    `json:"status"`
	Description    *string    `json:"description"`
	StartDate      *time.Time `json:"start_date"`
	EndDate        *time.Time `json:"end_date"`
}

func (p ProjectPatch) Apply(pr Project) Project {
	if p.Code != nil {
		pr.Code = *p.Code
	}
	if p.Name != nil {
		pr.Name = *p.Name
	}
	if p.CustomerID != nil {
		pr.CustomerID = *p.CustomerID
	}
	if p.OrganizationID != nil {
		pr.OrganizationID = p.OrganizationID
	}
	if p.Status != nil {
		pr.Status = *p.Status
	}
	if p.Description != nil {
		pr.Description = p.Description
	}
	if p.StartDate != nil {
		pr.StartDate = p.StartDate
	}
	if p.EndDate != nil {
		pr.EndDate = p.EndDate
	}
	return pr
}
