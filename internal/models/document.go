package models

import "time"

type Document struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    *string   `json:"description,omitempty"`
	ProjectID      *string   `json:"project_id,omitempty"`
	CustomerID     *string   `json:"customer_id,omitempty"`
	OrganizationID *string   `json:"organization_id,omitempty"`
	DocumentType   string    `json:"document_type"`
	FilePath       string    `json:"file_path"`
	FileSize       int64     `json:"file_size"`
	MimeType       string    `json:"mime_type"`
	Method         *string   `json:"method,omitempty"`
	ReportNumber   *string   `json:"report_number,omitempty"`
	Version        int       `json:"version"`
	Status         string    `json:"status"`
	UploadedBy     string    `json:"uploaded_by"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (d Document) RecordID() string { return d.ID }

// DocumentVersion is one immutable snapshot in a document's version history.
type DocumentVersion struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	Version    int       `json:"version"`
	Name       string    `json:"name"`
	FilePath   string    `json:"file_path"`
	FileSize   int64     `json:"file_size"`
	MimeType   string    `json:"mime_type"`
	UploadedBy string    `json:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at"`
}

func (v DocumentVersion) RecordID() string { return v.ID }

type DocumentFilter struct {
	ProjectID      *string
	CustomerID     *string
	OrganizationID *string
	DocumentType   *string
	Status         *string
}

type NewDocument struct {
	Name           string  `json:"name"`
	Description    *string `json:"description"`
	ProjectID      *string `json:"project_id"`
	CustomerID     *string `json:"customer_id"`
	OrganizationID *string `json:"organization_id"`
	DocumentType   string  `json:"document_type"`
	FilePath       string  `json:"file_path"`
	FileSize       int64   `json:"file_size"`
	MimeType       string  `json:"mime_type"`
	Method         *string `json:"method"`
	ReportNumber   *string `json:"report_number"`
	Status         string  `json:"status"`
	UploadedBy     string  `json:"uploaded_by"`
}

type DocumentPatch struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	DocumentType *string `json:"document_type"`
	FilePath     *string `json:"file_path"`
	FileSize     *int64  `json:"file_size"`
	MimeType     *string `json:"mime_type"`
	Method       *string `json:"method"`
	ReportNumber *string `json:"report_number"`
	Version      *int    `json:"version"`
	Status       *string `json:"status"`
}

func (p DocumentPatch) Apply(d Document) Document {
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.Description != nil {
		d.Description = p.Description
	}
	if p.DocumentType != nil {
		d.DocumentType = *p.DocumentType
	}
	if p.FilePath != nil {
		d.FilePath = *p.FilePath
	}
	if p.FileSize != nil {
		d.FileSize = *p.FileSize
	}
	if p.MimeType != nil {
		d.MimeType = *p.MimeType
	}
	if p.Method != nil {
		d.Method = p.Method
	}
	if p.ReportNumber != nil {
		d.ReportNumber = p.ReportNumber
	}
	if p.Version != nil {
		d.Version = *p.Version
	}
	if p.Status != nil {
		d.Status = *p.Status
	}
	return d
}

// NewVersion carries the blob metadata for an appended version. The version
// number itself is assigned by the store.
type NewVersion struct {
	DocumentID string `json:"document_id"`
	Name       string `json:"name"`
	FilePath   string `json:"file_path"`
	FileSize   int64  `json:"file_size"`
	MimeType   string `json:"mime_type"`
	UploadedBy string `json:"uploaded_by"`
}
