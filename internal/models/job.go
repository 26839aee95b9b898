package models

import "time"

// Job is a single inspection activity on a project using one NDT method.
type Job struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	Method      string    `json:"method"`
	Status      string    `json:"status"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (j Job) RecordID() string { return j.ID }

type JobFilter struct {
	ProjectID *string
	Method    *string
	Status    *string
}

type NewJob struct {
	ProjectID   string  `json:"project_id" binding:"required"`
	Method      string  `json:"method" binding:"required"`
	Status      string  `json:"status"`
	Description *string `json:"description"`
}

type JobPatch struct {
	Method      *string `json:"method"`
	Status      *string `json:"status"`
	Description *string `json:"description"`
}

func (p JobPatch) Apply(j Job) Job {
	if p.Method != nil {
		j.Method = *p.Method
	}
	if p.Status != nil {
		j.Status = *p.Status
	}
	if p.Description != nil {
		j.Description = p.Description
	}
	return j
}
